package ui

import (
	"context"
	"fmt"

	"qkart/storefront/internal/notify"
	"qkart/storefront/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"
)

// Run shows the product list page until the shopper quits or ctx ends.
func Run(ctx context.Context, store *service.Storefront, board *notify.Board) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewModel(ctx, store, board), tea.WithAltScreen(), tea.WithContext(ctx))

	// Storefront and board callbacks may fire from inside Update, where a
	// direct p.Send would block; pokes are coalesced and forwarded instead.
	pokes := make(chan struct{}, 1)
	poke := func() {
		select {
		case pokes <- struct{}{}:
		default:
		}
	}
	store.OnChange(poke)
	board.OnChange(poke)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-pokes:
				p.Send(StateChangedMsg{})
			}
		}
	})
	g.Go(func() error {
		defer cancel()
		defer store.Unmount()
		if _, err := p.Run(); err != nil && ctx.Err() == nil {
			return fmt.Errorf("terminal UI failed: %w", err)
		}
		return nil
	})

	return g.Wait()
}

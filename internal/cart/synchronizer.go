package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"qkart/storefront/internal/client"
	"qkart/storefront/internal/domain"
	"qkart/storefront/internal/notify"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var (
	ErrLoginRequired = errors.New("login required")
	ErrAlreadyInCart = errors.New("product already in cart")
	ErrInvalidQty    = errors.New("quantity must not be negative")
)

// Synchronizer keeps a local copy of the shopper's backend cart.
// The backend answer to every mutation replaces the copy wholesale.
type Synchronizer struct {
	client   client.BackendClient
	notifier notify.Notifier
	session  domain.Session

	mu      sync.Mutex
	lines   []domain.CartLine // nil until the first successful load
	catalog domain.Catalog

	// display is derived from lines and catalog; nil means stale
	display []domain.DisplayCartLine
}

func NewSynchronizer(client client.BackendClient, notifier notify.Notifier, session domain.Session) *Synchronizer {
	return &Synchronizer{
		client:   client,
		notifier: notifier,
		session:  session,
		catalog:  domain.Catalog{},
	}
}

func (s *Synchronizer) LoggedIn() bool {
	return s.session.IsLoggedIn()
}

// LoadCart fetches the catalog used for display and then the cart itself.
// The two requests are sequential: the cart is only requested after the catalog arrived.
func (s *Synchronizer) LoadCart(ctx context.Context) ([]domain.CartLine, error) {
	if !s.session.IsLoggedIn() {
		return nil, ErrLoginRequired
	}

	products, err := s.client.GetProducts(ctx)
	if err != nil {
		return nil, s.fail(ctx, "load catalog for cart", err)
	}
	s.SetCatalog(products)

	lines, err := s.client.GetCart(ctx, s.session.Token)
	if err != nil {
		return nil, s.fail(ctx, "load cart", err)
	}

	s.replace(lines)
	log.Debugf("🛒 Loaded cart with %d lines", len(lines))
	return lines, nil
}

// AddToCart puts one unit of a product not yet in the cart.
// Products already in the cart are refused; their quantity is changed with SetQuantity.
func (s *Synchronizer) AddToCart(ctx context.Context, productID string) error {
	if !s.session.IsLoggedIn() {
		s.notifier.Notify(notify.SeverityWarning, notify.MsgLoginRequired)
		return ErrLoginRequired
	}

	s.mu.Lock()
	inCart := domain.ContainsProduct(s.lines, productID)
	s.mu.Unlock()

	if inCart {
		s.notifier.Notify(notify.SeverityWarning, notify.MsgAlreadyInCart)
		return ErrAlreadyInCart
	}

	return s.post(ctx, domain.CartUpdate{ProductID: productID, Qty: 1})
}

// SetQuantity posts an absolute quantity for a product; the backend drops lines set to zero.
func (s *Synchronizer) SetQuantity(ctx context.Context, productID string, qty int) error {
	if !s.session.IsLoggedIn() {
		s.notifier.Notify(notify.SeverityWarning, notify.MsgLoginRequired)
		return ErrLoginRequired
	}
	if qty < 0 {
		return ErrInvalidQty
	}

	return s.post(ctx, domain.CartUpdate{ProductID: productID, Qty: qty})
}

func (s *Synchronizer) post(ctx context.Context, update domain.CartUpdate) error {
	lines, err := s.client.UpdateCart(ctx, s.session.Token, update)
	if err != nil {
		return s.fail(ctx, "update cart", err)
	}

	s.replace(lines)
	log.Debugf("🛒 Cart now has %d lines after setting %s to %d", len(lines), update.ProductID, update.Qty)
	return nil
}

// SetCatalog replaces the products cart lines are joined against
func (s *Synchronizer) SetCatalog(products []domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.catalog = domain.NewCatalog(products)
	s.display = nil
}

func (s *Synchronizer) replace(lines []domain.CartLine) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if lines == nil {
		lines = []domain.CartLine{}
	}
	s.lines = lines
	s.display = nil
}

// Loaded reports whether the cart has been fetched at least once
func (s *Synchronizer) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lines != nil
}

func (s *Synchronizer) Lines() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.CartLine(nil), s.lines...)
}

// DisplayLines joins the cart with the catalog. The join is recomputed only
// after the lines or the catalog changed.
func (s *Synchronizer) DisplayLines() []domain.DisplayCartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.display == nil {
		s.display = domain.JoinCart(s.lines, s.catalog)
	}
	return append([]domain.DisplayCartLine(nil), s.display...)
}

func (s *Synchronizer) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range s.DisplayLines() {
		total = total.Add(line.LineTotal())
	}
	return total
}

func (s *Synchronizer) ItemCount() int {
	count := 0
	for _, line := range s.Lines() {
		count += line.Qty
	}
	return count
}

func (s *Synchronizer) fail(ctx context.Context, action string, err error) error {
	if ctx.Err() != nil {
		return err
	}
	log.Errorf("❌ Failed to %s: %v", action, err)
	s.notifier.Notify(notify.SeverityError, notify.MsgCartFailure)
	return fmt.Errorf("failed to %s: %w", action, err)
}

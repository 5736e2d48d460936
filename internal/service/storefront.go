package service

import (
	"context"
	"errors"
	"sync"

	"qkart/storefront/internal/cart"
	"qkart/storefront/internal/catalog"
	"qkart/storefront/internal/debounce"
	"qkart/storefront/internal/domain"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var ErrAlreadyMounted = errors.New("storefront already mounted")

// View is a point-in-time copy of everything the product list page renders
type View struct {
	State      domain.CatalogState
	Products   []domain.Product // nil until the first successful fetch
	Query      string
	LoggedIn   bool
	CartLoaded bool
	Cart       []domain.DisplayCartLine
	Subtotal   decimal.Decimal
	ItemCount  int
}

// Storefront owns the product list page state: the catalog region, the
// search box and the cart panel.
//
// Every catalog request gets a sequence number; only the answer to the most
// recently dispatched request may touch the product list or end loading.
type Storefront struct {
	catalog   *catalog.Fetcher
	cart      *cart.Synchronizer
	debouncer *debounce.Debouncer

	mu       sync.Mutex
	ctx      context.Context
	cancel   context.CancelFunc
	mounted  bool
	state    domain.CatalogState
	products []domain.Product
	query    string
	typed    bool // query changed before mount
	latest   uint64
	onChange func()

	inflight sync.WaitGroup
}

func NewStorefront(fetcher *catalog.Fetcher, cart *cart.Synchronizer, debouncer *debounce.Debouncer) *Storefront {
	return &Storefront{
		catalog:   fetcher,
		cart:      cart,
		debouncer: debouncer,
		state:     domain.CatalogIdle,
	}
}

// OnChange registers fn to be called after every state transition.
// fn runs on whichever goroutine made the change and must not block.
func (s *Storefront) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Mount loads the page: the catalog for initialQuery and, for a logged-in
// shopper, the cart. Text recorded by OnQueryChange before mount takes
// precedence over initialQuery. The query is consumed here and never goes
// through the debouncer. Mount returns once both loads finished.
func (s *Storefront) Mount(ctx context.Context, initialQuery string) error {
	s.mu.Lock()
	if s.mounted {
		s.mu.Unlock()
		return ErrAlreadyMounted
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.mounted = true
	if !s.typed {
		s.query = initialQuery
	}
	query := s.query
	mountCtx := s.ctx
	s.mu.Unlock()

	log.Infof("🏬 Mounting storefront (logged in: %t)", s.cart.LoggedIn())

	g := new(errgroup.Group)
	g.Go(func() error {
		s.dispatch(mountCtx, query)
		return nil
	})
	if s.cart.LoggedIn() {
		g.Go(func() error {
			_, _ = s.cart.LoadCart(mountCtx)
			s.changed()
			return nil
		})
	}
	return g.Wait()
}

// Unmount cancels the pending search and outstanding requests, then waits
// for debounced searches that already started.
func (s *Storefront) Unmount() {
	s.debouncer.Cancel()

	s.mu.Lock()
	if !s.mounted {
		s.mu.Unlock()
		return
	}
	s.mounted = false
	s.cancel()
	s.mu.Unlock()

	s.inflight.Wait()
}

// OnQueryChange records the search text. After mount, a changed text
// schedules a search once the quiet period passes; an earlier pending
// search is dropped.
func (s *Storefront) OnQueryChange(text string) {
	s.mu.Lock()
	changed := text != s.query
	s.query = text
	mounted := s.mounted
	if !mounted && changed {
		s.typed = true
	}
	s.mu.Unlock()

	if !mounted || !changed {
		return
	}

	s.debouncer.Schedule(func() { s.runDebounced(text) })
	s.changed()
}

// Refresh re-runs the current query immediately. It does nothing before
// mount or after unmount.
func (s *Storefront) Refresh(ctx context.Context) {
	s.debouncer.Cancel()

	s.mu.Lock()
	if !s.mounted {
		s.mu.Unlock()
		return
	}
	s.inflight.Add(1)
	query := s.query
	mountCtx := s.ctx
	s.mu.Unlock()
	defer s.inflight.Done()

	// Unmount must not wait on a refresh the caller's context keeps alive.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(mountCtx, cancel)
	defer stop()

	s.dispatch(ctx, query)
}

func (s *Storefront) AddToCart(ctx context.Context, productID string) error {
	err := s.cart.AddToCart(ctx, productID)
	s.changed()
	return err
}

func (s *Storefront) SetQuantity(ctx context.Context, productID string, qty int) error {
	err := s.cart.SetQuantity(ctx, productID, qty)
	s.changed()
	return err
}

func (s *Storefront) Snapshot() View {
	s.mu.Lock()
	view := View{
		State:    s.state,
		Products: s.products,
		Query:    s.query,
	}
	s.mu.Unlock()

	view.LoggedIn = s.cart.LoggedIn()
	if view.LoggedIn {
		view.CartLoaded = s.cart.Loaded()
		view.Cart = s.cart.DisplayLines()
		view.Subtotal = s.cart.Subtotal()
		view.ItemCount = s.cart.ItemCount()
	}
	return view
}

// runDebounced is called from the timer and hands the request to its own
// goroutine so the timer never waits on the backend.
func (s *Storefront) runDebounced(text string) {
	s.mu.Lock()
	if !s.mounted {
		s.mu.Unlock()
		return
	}
	s.inflight.Add(1)
	ctx := s.ctx
	s.mu.Unlock()

	go func() {
		defer s.inflight.Done()
		s.dispatch(ctx, text)
	}()
}

func (s *Storefront) dispatch(ctx context.Context, text string) {
	s.mu.Lock()
	s.latest++
	seq := s.latest
	s.state = domain.CatalogLoading
	s.mu.Unlock()
	s.changed()

	products, err := s.catalog.SearchCatalog(ctx, text)

	s.mu.Lock()
	if seq != s.latest {
		s.mu.Unlock()
		log.Debugf("⏭️ Dropping catalog response #%d for %q, #%d is newer", seq, text, s.latest)
		return
	}
	if err == nil {
		s.products = products
	}
	// Loading ends on failure too; the previous products stay on screen.
	s.state = stateFor(s.products)
	s.mu.Unlock()

	if err == nil && text == "" {
		s.cart.SetCatalog(products)
	}
	s.changed()
}

func (s *Storefront) changed() {
	s.mu.Lock()
	fn := s.onChange
	s.mu.Unlock()

	if fn != nil {
		fn()
	}
}

func stateFor(products []domain.Product) domain.CatalogState {
	switch {
	case products == nil:
		return domain.CatalogIdle
	case len(products) == 0:
		return domain.CatalogEmpty
	default:
		return domain.CatalogPopulated
	}
}

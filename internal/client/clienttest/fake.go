// Package clienttest provides an in-memory client.BackendClient for tests.
package clienttest

import (
	"context"
	"errors"
	"sync"

	"qkart/storefront/internal/client"
	"qkart/storefront/internal/domain"
)

var _ client.BackendClient = (*Fake)(nil)

const (
	OpProducts = "GET /products"
	OpSearch   = "GET /products/search"
	OpCart     = "GET /cart"
	OpUpdate   = "POST /cart"
)

var ErrBackendDown = errors.New("backend down")

// Call records one request made against the fake
type Call struct {
	Op     string
	Query  string
	Token  string
	Update domain.CartUpdate
}

// Fake answers from its fields. Setting an *Err field makes that operation fail.
// A channel in Gates blocks the matching search (keyed by text) until it is closed.
type Fake struct {
	mu sync.Mutex

	Products      []domain.Product
	SearchResults map[string][]domain.Product
	Cart          []domain.CartLine

	ProductsErr error
	SearchErr   error
	CartErr     error
	UpdateErr   error

	Gates map[string]chan struct{}

	calls []Call
}

func (f *Fake) GetProducts(ctx context.Context) ([]domain.Product, error) {
	f.record(Call{Op: OpProducts})

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ProductsErr != nil {
		return nil, f.ProductsErr
	}
	return append([]domain.Product{}, f.Products...), nil
}

func (f *Fake) SearchProducts(ctx context.Context, text string) ([]domain.Product, error) {
	f.record(Call{Op: OpSearch, Query: text})

	f.mu.Lock()
	gate := f.Gates[text]
	f.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SearchErr != nil {
		return nil, f.SearchErr
	}
	return append([]domain.Product{}, f.SearchResults[text]...), nil
}

func (f *Fake) GetCart(ctx context.Context, token string) ([]domain.CartLine, error) {
	f.record(Call{Op: OpCart, Token: token})

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CartErr != nil {
		return nil, f.CartErr
	}
	return append([]domain.CartLine{}, f.Cart...), nil
}

// UpdateCart sets the quantity of a line, dropping it at zero, and returns the whole cart
func (f *Fake) UpdateCart(ctx context.Context, token string, update domain.CartUpdate) ([]domain.CartLine, error) {
	f.record(Call{Op: OpUpdate, Token: token, Update: update})

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.UpdateErr != nil {
		return nil, f.UpdateErr
	}

	next := make([]domain.CartLine, 0, len(f.Cart)+1)
	found := false
	for _, line := range f.Cart {
		if line.ProductID == update.ProductID {
			found = true
			line.Qty = update.Qty
		}
		if line.Qty > 0 {
			next = append(next, line)
		}
	}
	if !found && update.Qty > 0 {
		next = append(next, domain.CartLine{ProductID: update.ProductID, Qty: update.Qty})
	}
	f.Cart = next
	return append([]domain.CartLine{}, next...), nil
}

// SetProducts changes the catalog while requests may be running
func (f *Fake) SetProducts(products []domain.Product) {
	f.mu.Lock()
	f.Products = products
	f.mu.Unlock()
}

// SetProductsErr changes the GET /products failure while requests may be running
func (f *Fake) SetProductsErr(err error) {
	f.mu.Lock()
	f.ProductsErr = err
	f.mu.Unlock()
}

func (f *Fake) SetUpdateErr(err error) {
	f.mu.Lock()
	f.UpdateErr = err
	f.mu.Unlock()
}

// Calls returns every recorded call in order
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Count returns how many calls were made for op
func (f *Fake) Count(op string) int {
	count := 0
	for _, c := range f.Calls() {
		if c.Op == op {
			count++
		}
	}
	return count
}

// Queries returns the search texts in request order
func (f *Fake) Queries() []string {
	var out []string
	for _, c := range f.Calls() {
		if c.Op == OpSearch {
			out = append(out, c.Query)
		}
	}
	return out
}

func (f *Fake) record(c Call) {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()
}

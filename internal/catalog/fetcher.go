package catalog

import (
	"context"
	"fmt"

	"qkart/storefront/internal/client"
	"qkart/storefront/internal/domain"
	"qkart/storefront/internal/notify"

	log "github.com/sirupsen/logrus"
)

// Fetcher loads the product catalog. Failures are reported to the notifier
// and returned to the direct caller only; nothing is retried.
type Fetcher struct {
	client   client.BackendClient
	notifier notify.Notifier
}

func NewFetcher(client client.BackendClient, notifier notify.Notifier) *Fetcher {
	return &Fetcher{
		client:   client,
		notifier: notifier,
	}
}

// FetchCatalog returns every product. An empty catalog is a success.
func (f *Fetcher) FetchCatalog(ctx context.Context) ([]domain.Product, error) {
	products, err := f.client.GetProducts(ctx)
	if err != nil {
		return nil, f.fail(ctx, err)
	}

	log.Debugf("📦 Fetched %d products", len(products))
	return products, nil
}

// SearchCatalog returns the products matching text. Empty text is the full catalog.
func (f *Fetcher) SearchCatalog(ctx context.Context, text string) ([]domain.Product, error) {
	if text == "" {
		return f.FetchCatalog(ctx)
	}

	products, err := f.client.SearchProducts(ctx, text)
	if err != nil {
		return nil, f.fail(ctx, err)
	}

	log.Debugf("🔎 Search %q matched %d products", text, len(products))
	return products, nil
}

// fail reports err to the shopper unless the caller already gave up on the request
func (f *Fetcher) fail(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return err
	}
	log.Errorf("❌ Catalog request failed: %v", err)
	f.notifier.Notify(notify.SeverityError, notify.MsgBackendFailure)
	return fmt.Errorf("catalog unavailable: %w", err)
}

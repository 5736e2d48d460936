package catalog

import (
	"context"
	"testing"

	"qkart/storefront/internal/client/clienttest"
	"qkart/storefront/internal/domain"
	"qkart/storefront/internal/notify"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFetcher(fake *clienttest.Fake) (*Fetcher, *notify.Board) {
	board := notify.NewBoard(clock.NewMock(), 0)
	return NewFetcher(fake, board), board
}

func TestFetchCatalog(t *testing.T) {
	fake := &clienttest.Fake{Products: []domain.Product{{ID: "p1", Name: "Basketball"}}}
	f, board := newFetcher(fake)

	products, err := f.FetchCatalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Basketball", products[0].Name)
	assert.Empty(t, board.History())
}

func TestFetchCatalogEmptyIsSuccess(t *testing.T) {
	fake := &clienttest.Fake{}
	f, board := newFetcher(fake)

	products, err := f.FetchCatalog(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
	assert.Empty(t, board.History())
}

func TestFetchCatalogFailureNotifies(t *testing.T) {
	fake := &clienttest.Fake{ProductsErr: clienttest.ErrBackendDown}
	f, board := newFetcher(fake)

	_, err := f.FetchCatalog(context.Background())
	require.ErrorIs(t, err, clienttest.ErrBackendDown)

	history := board.History()
	require.Len(t, history, 1)
	assert.Equal(t, notify.SeverityError, history[0].Severity)
	assert.Equal(t, notify.MsgBackendFailure, history[0].Message)
	assert.Equal(t, 1, fake.Count(clienttest.OpProducts), "no retry")
}

func TestSearchCatalogEmptyTextFetchesFullCatalog(t *testing.T) {
	fake := &clienttest.Fake{Products: []domain.Product{{ID: "p1"}, {ID: "p2"}}}
	f, _ := newFetcher(fake)

	products, err := f.SearchCatalog(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, 1, fake.Count(clienttest.OpProducts))
	assert.Equal(t, 0, fake.Count(clienttest.OpSearch))
}

func TestSearchCatalogFilters(t *testing.T) {
	fake := &clienttest.Fake{SearchResults: map[string][]domain.Product{
		"phone": {{ID: "p1", Name: "iPhone XR"}},
	}}
	f, _ := newFetcher(fake)

	products, err := f.SearchCatalog(context.Background(), "phone")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, []string{"phone"}, fake.Queries())
}

func TestSearchCatalogFailureNotifies(t *testing.T) {
	fake := &clienttest.Fake{SearchErr: clienttest.ErrBackendDown}
	f, board := newFetcher(fake)

	_, err := f.SearchCatalog(context.Background(), "phone")
	require.Error(t, err)
	assert.Equal(t, 1, board.Count(notify.SeverityError))
}

func TestCancelledRequestIsNotReported(t *testing.T) {
	fake := &clienttest.Fake{ProductsErr: context.Canceled}
	f, board := newFetcher(fake)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.FetchCatalog(ctx)
	require.Error(t, err)
	assert.Empty(t, board.History())
}

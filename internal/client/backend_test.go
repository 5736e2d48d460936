package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"qkart/storefront/internal/config"
	"qkart/storefront/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	method    string
	path      string
	query     string
	auth      string
	requestID string
	body      string
}

type fakeBackend struct {
	mu       sync.Mutex
	requests []recorded
}

func (b *fakeBackend) last() recorded {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.requests[len(b.requests)-1]
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (BackendClient, *fakeBackend) {
	t.Helper()

	backend := &fakeBackend{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		backend.mu.Lock()
		backend.requests = append(backend.requests, recorded{
			method:    r.Method,
			path:      r.URL.Path,
			query:     r.URL.Query().Get("value"),
			auth:      r.Header.Get("Authorization"),
			requestID: r.Header.Get(requestIDHeader),
			body:      string(body),
		})
		backend.mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	c := NewBackendClient(config.BackendConfig{
		BaseURL: srv.URL + "/api/v1/",
		Timeout: 5,
	}, nil)
	return c, backend
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestGetProductsDecodesCatalog(t *testing.T) {
	c, backend := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[
			{"name":"iPhone XR","category":"Phones","cost":100,"rating":4,"image":"https://i.imgur.com/lulqWzW.jpg","_id":"v4sLtEcMpzabRyfx"},
			{"name":"Basketball","category":"Sports","cost":"19.99","rating":5,"image":"https://i.imgur.com/lulqWzW.jpg","_id":"upLK9JbQ4rMhTwt4"}
		]`)
	})

	products, err := c.GetProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "v4sLtEcMpzabRyfx", products[0].ID)
	assert.Equal(t, "Phones", products[0].Category)
	assert.True(t, decimal.NewFromInt(100).Equal(products[0].Cost))
	assert.True(t, decimal.RequireFromString("19.99").Equal(products[1].Cost))

	req := backend.last()
	assert.Equal(t, http.MethodGet, req.method)
	assert.Equal(t, "/api/v1/products", req.path)
	assert.NotEmpty(t, req.requestID)
	assert.Empty(t, req.auth)
}

func TestGetProductsEmptyAndNullBodies(t *testing.T) {
	for name, body := range map[string]string{"array": "[]", "null": "null", "blank": ""} {
		t.Run(name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, body)
			})

			products, err := c.GetProducts(context.Background())
			require.NoError(t, err)
			assert.NotNil(t, products)
			assert.Empty(t, products)
		})
	}
}

func TestGetProductsServerErrorCarriesMessage(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"message": "Something went wrong. Check the backend console for more details",
		})
	})

	_, err := c.GetProducts(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "backend console")
}

func TestSearchProductsEscapesQuery(t *testing.T) {
	c, backend := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []domain.Product{{ID: "p1", Name: "Shoe & Sock"}})
	})

	products, err := c.SearchProducts(context.Background(), "shoe & sock")
	require.NoError(t, err)
	require.Len(t, products, 1)

	req := backend.last()
	assert.Equal(t, "/api/v1/products/search", req.path)
	assert.Equal(t, "shoe & sock", req.query)
}

func TestSearchProductsClientErrorIsEmptyResult(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "no match"})
	})

	products, err := c.SearchProducts(context.Background(), "zzz")
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestSearchProductsServerErrorFails(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.SearchProducts(context.Background(), "phone")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
}

func TestGetCartSendsBearerToken(t *testing.T) {
	c, backend := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []domain.CartLine{{ProductID: "p1", Qty: 2}})
	})

	lines, err := c.GetCart(context.Background(), "secret-token")
	require.NoError(t, err)
	assert.Equal(t, []domain.CartLine{{ProductID: "p1", Qty: 2}}, lines)

	req := backend.last()
	assert.Equal(t, "/api/v1/cart", req.path)
	assert.Equal(t, "Bearer secret-token", req.auth)
}

func TestGetCartUnauthorized(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Protected route, Oauth2 Bearer token not found"})
	})

	_, err := c.GetCart(context.Background(), "")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestUpdateCartPostsBodyAndReturnsCart(t *testing.T) {
	c, backend := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []domain.CartLine{{ProductID: "p1", Qty: 1}, {ProductID: "p9", Qty: 3}})
	})

	lines, err := c.UpdateCart(context.Background(), "tok", domain.CartUpdate{ProductID: "p9", Qty: 3})
	require.NoError(t, err)
	assert.Len(t, lines, 2)

	req := backend.last()
	assert.Equal(t, http.MethodPost, req.method)
	assert.Equal(t, "Bearer tok", req.auth)
	assert.JSONEq(t, `{"productId":"p9","qty":3}`, req.body)
}

func TestRequestCancelled(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []domain.Product{})
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.GetProducts(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

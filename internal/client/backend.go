package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"qkart/storefront/internal/config"
	"qkart/storefront/internal/domain"
	"qkart/storefront/internal/proxy"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

const requestIDHeader = "X-Request-ID"

// BackendClient is the REST surface of the storefront backend
type BackendClient interface {
	GetProducts(ctx context.Context) ([]domain.Product, error)
	SearchProducts(ctx context.Context, text string) ([]domain.Product, error)
	GetCart(ctx context.Context, token string) ([]domain.CartLine, error)
	UpdateCart(ctx context.Context, token string, update domain.CartUpdate) ([]domain.CartLine, error)
}

type backendClient struct {
	rl            ratelimit.Limiter
	baseURL       string
	httpClient    *resty.Client
	proxySupplier proxy.ProxySupplier

	proxyMutex sync.Mutex
}

func NewBackendClient(cfg config.BackendConfig, proxySupplier proxy.ProxySupplier) BackendClient {
	client := resty.New().
		SetTimeout(cfg.TimeoutDuration()).
		SetRetryCount(0).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "qkart-storefront")

	if proxySupplier != nil {
		if proxyURL := proxySupplier.Get(); proxyURL != "" {
			client.SetProxy(proxyURL)
			log.Infof("🔗 Using initial proxy: %s", proxyURL)
		}
	}

	rl := ratelimit.NewUnlimited()
	if cfg.MaxRequestsPerSecond > 0 {
		rl = ratelimit.New(cfg.MaxRequestsPerSecond)
	}

	return &backendClient{
		rl:            rl,
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:    client,
		proxySupplier: proxySupplier,
	}
}

func (c *backendClient) GetProducts(ctx context.Context) ([]domain.Product, error) {
	resp, err := c.execute(ctx, c.httpClient.R(), http.MethodGet, c.baseURL+"/products")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to fetch products: %w", newAPIError(resp))
	}

	return decodeList[domain.Product](resp.String())
}

// SearchProducts treats every status below 500 as a non-exceptional answer;
// client errors come back as an empty result.
func (c *backendClient) SearchProducts(ctx context.Context, text string) ([]domain.Product, error) {
	searchURL := fmt.Sprintf("%s/products/search?value=%s", c.baseURL, url.QueryEscape(text))

	resp, err := c.execute(ctx, c.httpClient.R(), http.MethodGet, searchURL)
	if err != nil {
		return nil, fmt.Errorf("failed to search products for %q: %w", text, err)
	}
	if resp.StatusCode() >= http.StatusInternalServerError {
		return nil, fmt.Errorf("failed to search products for %q: %w", text, newAPIError(resp))
	}
	if resp.IsError() {
		log.Debugf("🔎 Search for %q answered %s, treating as no results", text, resp.Status())
		return []domain.Product{}, nil
	}

	return decodeList[domain.Product](resp.String())
}

func (c *backendClient) GetCart(ctx context.Context, token string) ([]domain.CartLine, error) {
	req := c.httpClient.R().
		SetHeader("Authorization", "Bearer "+token)

	resp, err := c.execute(ctx, req, http.MethodGet, c.baseURL+"/cart")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cart: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to fetch cart: %w", newAPIError(resp))
	}

	return decodeList[domain.CartLine](resp.String())
}

func (c *backendClient) UpdateCart(ctx context.Context, token string, update domain.CartUpdate) ([]domain.CartLine, error) {
	req := c.httpClient.R().
		SetHeader("Authorization", "Bearer "+token).
		SetHeader("Content-Type", "application/json").
		SetBody(update)

	resp, err := c.execute(ctx, req, http.MethodPost, c.baseURL+"/cart")
	if err != nil {
		return nil, fmt.Errorf("failed to update cart for product %s: %w", update.ProductID, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to update cart for product %s: %w", update.ProductID, newAPIError(resp))
	}

	return decodeList[domain.CartLine](resp.String())
}

func (c *backendClient) execute(ctx context.Context, req *resty.Request, method, target string) (*resty.Response, error) {
	c.rl.Take()

	requestID := uuid.NewString()
	log.Debugf("➡️ %s %s [%s]", method, target, requestID)

	resp, err := req.
		SetContext(ctx).
		SetHeader(requestIDHeader, requestID).
		Execute(method, target)
	if err != nil {
		// Check if this is a context cancellation from the caller
		if ctx.Err() != nil {
			return nil, fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		c.rotateProxy()
		return nil, fmt.Errorf("request %s %s failed: %w", method, target, err)
	}

	log.Debugf("⬅️ %s %s [%s] %d", method, target, requestID, resp.StatusCode())
	return resp, nil
}

// rotateProxy moves the client to the next proxy after a transport failure.
// The failed request itself is not retried.
func (c *backendClient) rotateProxy() {
	if c.proxySupplier == nil {
		return
	}

	c.proxyMutex.Lock()
	defer c.proxyMutex.Unlock()

	if newProxy := c.proxySupplier.Get(); newProxy != "" {
		log.Infof("🔄 Switching to new proxy: %s", newProxy)
		c.httpClient.SetProxy(newProxy)
	}
}

// decodeList decodes a JSON array; an empty or null body is an empty list
func decodeList[T any](body string) ([]T, error) {
	items := make([]T, 0)
	body = strings.TrimSpace(body)
	if body == "" || body == "null" {
		return items, nil
	}

	if err := json.Unmarshal([]byte(body), &items); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if items == nil {
		items = make([]T, 0)
	}
	return items, nil
}

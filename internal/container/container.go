package container

import (
	"context"
	"fmt"

	"qkart/storefront/internal/cart"
	"qkart/storefront/internal/catalog"
	"qkart/storefront/internal/client"
	"qkart/storefront/internal/config"
	"qkart/storefront/internal/debounce"
	"qkart/storefront/internal/domain"
	"qkart/storefront/internal/notify"
	"qkart/storefront/internal/proxy"
	"qkart/storefront/internal/service"
	"qkart/storefront/internal/session"
	"qkart/storefront/internal/ui"

	"github.com/benbjohnson/clock"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Container holds all initialized components
type Container struct {
	Config       *config.Config
	Client       client.BackendClient
	SessionStore session.Store
	Session      domain.Session
	Board        *notify.Board
	Fetcher      *catalog.Fetcher
	Cart         *cart.Synchronizer
	Storefront   *service.Storefront

	redis *redis.Client
}

// New creates a new container with all dependencies initialized
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
	}

	store, rdb, err := session.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session store: %w", err)
	}
	container.SessionStore = store
	container.redis = rdb

	sess, err := store.Load(ctx)
	if err != nil {
		_ = container.Close()
		return nil, err
	}
	container.Session = sess
	if sess.IsLoggedIn() {
		log.Infof("👤 Logged in as %s", sess.Username)
	}

	var proxySupplier proxy.ProxySupplier
	if len(cfg.Backend.Proxies) > 0 {
		proxySupplier = proxy.NewProxySupplier(ctx, cfg.Backend.Proxies, cfg.Backend.BaseURL+"/products")
	}
	container.Client = client.NewBackendClient(cfg.Backend, proxySupplier)

	clk := clock.New()
	container.Board = notify.NewBoard(clk, cfg.Storefront.NotificationTTL)
	notifier := notify.Multi{notify.Log{}, container.Board}

	container.Fetcher = catalog.NewFetcher(container.Client, notifier)
	container.Cart = cart.NewSynchronizer(container.Client, notifier, sess)
	container.Storefront = service.NewStorefront(
		container.Fetcher,
		container.Cart,
		debounce.New(clk, cfg.Storefront.SearchDebounce),
	)

	return container, nil
}

// Run shows the interactive product list page
func (c *Container) Run(ctx context.Context) error {
	return ui.Run(ctx, c.Storefront, c.Board)
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			return fmt.Errorf("failed to close Redis client: %w", err)
		}
	}
	return nil
}

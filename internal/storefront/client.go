package storefront

import (
	"context"
	"log/slog"
	"time"

	"souq/internal/cache"
	"souq/internal/config"
	"souq/internal/errors"
	"souq/internal/realtime"
	"souq/internal/retry"
)

// Client is the cache-backed read layer every screen goes through. Reads
// prefer the local store and fall back to the backend; mutations hit the
// backend and invalidate the affected keys. Read methods report a miss
// instead of an error - a failed read renders as an empty list, never as a
// crashed screen.
type Client struct {
	backend Backend
	cache   *cache.Manager
	log     *slog.Logger
}

// NewClient creates a storefront client over backend and cache
func NewClient(backend Backend, m *cache.Manager, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		backend: backend,
		cache:   m,
		log:     log,
	}
}

// ListProducts returns the product catalog
func (c *Client) ListProducts(ctx context.Context) ([]Product, bool) {
	return cache.Lookup(ctx, c.cache, CatalogKey(), func(ctx context.Context) ([]Product, error) {
		var products []Product
		err := retry.WithQuickRetry(ctx, "list products", func() error {
			var fetchErr error
			products, fetchErr = c.backend.ListProducts(ctx)
			if fetchErr != nil {
				return errors.WrapBackendError(fetchErr, "list_products", "products", "")
			}
			return nil
		})
		return products, err
	}, cache.Config{TTL: config.CatalogTTL, Timeout: config.DefaultFetchTimeout})
}

// GetProduct returns one product's detail
func (c *Client) GetProduct(ctx context.Context, id string) (*Product, bool) {
	product, ok := cache.Lookup(ctx, c.cache, ProductKey(id), func(ctx context.Context) (*Product, error) {
		var product *Product
		err := retry.WithQuickRetry(ctx, "get product", func() error {
			var fetchErr error
			product, fetchErr = c.backend.GetProduct(ctx, id)
			if fetchErr != nil {
				return errors.WrapBackendError(fetchErr, "get_product", "product", id)
			}
			return nil
		})
		return product, err
	}, cache.Config{TTL: config.ProductTTL, Timeout: config.DefaultFetchTimeout})

	if !ok || product == nil {
		return nil, false
	}
	return product, true
}

// ListCart returns the user's cart
func (c *Client) ListCart(ctx context.Context, userID string) ([]CartItem, bool) {
	return cache.Lookup(ctx, c.cache, CartKey(userID), func(ctx context.Context) ([]CartItem, error) {
		var items []CartItem
		err := retry.WithQuickRetry(ctx, "list cart", func() error {
			var fetchErr error
			items, fetchErr = c.backend.ListCart(ctx, userID)
			if fetchErr != nil {
				return errors.WrapBackendError(fetchErr, "list_cart", "cart", userID)
			}
			return nil
		})
		return items, err
	}, cache.Config{TTL: config.CartTTL, Timeout: config.DefaultFetchTimeout})
}

// ListWishlist returns the user's wishlist
func (c *Client) ListWishlist(ctx context.Context, userID string) ([]WishlistEntry, bool) {
	return cache.Lookup(ctx, c.cache, WishlistKey(userID), func(ctx context.Context) ([]WishlistEntry, error) {
		var entries []WishlistEntry
		err := retry.WithQuickRetry(ctx, "list wishlist", func() error {
			var fetchErr error
			entries, fetchErr = c.backend.ListWishlist(ctx, userID)
			if fetchErr != nil {
				return errors.WrapBackendError(fetchErr, "list_wishlist", "wishlist", userID)
			}
			return nil
		})
		return entries, err
	}, cache.Config{TTL: config.WishlistTTL, Timeout: config.DefaultFetchTimeout})
}

// ListServices returns the freelance services marketplace
func (c *Client) ListServices(ctx context.Context) ([]Service, bool) {
	return cache.Lookup(ctx, c.cache, ServicesKey(), func(ctx context.Context) ([]Service, error) {
		var services []Service
		err := retry.WithQuickRetry(ctx, "list services", func() error {
			var fetchErr error
			services, fetchErr = c.backend.ListServices(ctx)
			if fetchErr != nil {
				return errors.WrapBackendError(fetchErr, "list_services", "services", "")
			}
			return nil
		})
		return services, err
	}, cache.Config{TTL: config.ServicesTTL, Timeout: config.DefaultFetchTimeout})
}

// SellerStats returns the seller dashboard summary
func (c *Client) SellerStats(ctx context.Context, sellerID string) (*SellerStats, bool) {
	stats, ok := cache.Lookup(ctx, c.cache, SellerStatsKey(sellerID), func(ctx context.Context) (*SellerStats, error) {
		var stats *SellerStats
		err := retry.WithQuickRetry(ctx, "seller stats", func() error {
			var fetchErr error
			stats, fetchErr = c.backend.SellerStats(ctx, sellerID)
			if fetchErr != nil {
				return errors.WrapBackendError(fetchErr, "seller_stats", "seller", sellerID)
			}
			return nil
		})
		return stats, err
	}, cache.Config{TTL: config.SellerStatsTTL, Timeout: config.DefaultFetchTimeout})

	if !ok || stats == nil {
		return nil, false
	}
	return stats, true
}

// AddToCart adds a product to the user's cart and invalidates the cached
// cart so the next read refetches.
func (c *Client) AddToCart(ctx context.Context, userID, productID string, quantity int) error {
	err := retry.WithQuickRetry(ctx, "add to cart", func() error {
		if err := c.backend.AddToCart(ctx, userID, productID, quantity); err != nil {
			return errors.WrapBackendError(err, "add_to_cart", "cart", userID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	c.cache.Invalidate(ctx, CartKey(userID), "")
	return nil
}

// RemoveFromCart removes a product from the user's cart
func (c *Client) RemoveFromCart(ctx context.Context, userID, productID string) error {
	err := retry.WithQuickRetry(ctx, "remove from cart", func() error {
		if err := c.backend.RemoveFromCart(ctx, userID, productID); err != nil {
			return errors.WrapBackendError(err, "remove_from_cart", "cart", userID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	c.cache.Invalidate(ctx, CartKey(userID), "")
	return nil
}

// SetWishlist replaces the user's wishlist
func (c *Client) SetWishlist(ctx context.Context, userID string, productIDs []string) error {
	err := retry.WithQuickRetry(ctx, "set wishlist", func() error {
		if err := c.backend.SetWishlist(ctx, userID, productIDs); err != nil {
			return errors.WrapBackendError(err, "set_wishlist", "wishlist", userID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	c.cache.Invalidate(ctx, WishlistKey(userID), "")
	return nil
}

// ClearSession drops every cached key tied to the user, for logout
func (c *Client) ClearSession(ctx context.Context, userID string) {
	c.cache.InvalidateAll(ctx, []string{
		CartKey(userID),
		WishlistKey(userID),
	}, "")
}

// WarmCatalog pre-caches the hot shared queries so the first screens render
// from local data. Failures are swallowed by the cache layer.
func (c *Client) WarmCatalog(ctx context.Context) {
	cache.Warm(ctx, c.cache, CatalogKey(), func(ctx context.Context) ([]Product, error) {
		return c.backend.ListProducts(ctx)
	}, cache.Config{TTL: config.CatalogTTL})

	cache.Warm(ctx, c.cache, ServicesKey(), func(ctx context.Context) ([]Service, error) {
		return c.backend.ListServices(ctx)
	}, cache.Config{TTL: config.ServicesTTL})
}

// DropCatalog discards the cached catalog listing so the next read goes to
// the backend. Used by the browser's manual refresh.
func (c *Client) DropCatalog(ctx context.Context) {
	c.cache.Invalidate(ctx, CatalogKey(), "")
}

// Changes exposes the backend change feed for the realtime poller
func (c *Client) Changes(ctx context.Context, since time.Time) ([]realtime.Event, error) {
	return c.backend.Changes(ctx, since)
}

// BindCatalog wires a screen showing the product catalog to the change
// feed: every products event invalidates the catalog key and reloads.
func (c *Client) BindCatalog(feed realtime.Feed, reload func(ctx context.Context, ev realtime.Event)) *realtime.Binding {
	return &realtime.Binding{
		Feed:   feed,
		Topic:  TopicProducts,
		Cache:  c.cache,
		Keys:   []string{CatalogKey()},
		Reload: reload,
		Log:    c.log,
	}
}

// BindCart wires a cart screen to the change feed. The binding only mounts
// when a signed-in user is present.
func (c *Client) BindCart(feed realtime.Feed, userID string, reload func(ctx context.Context, ev realtime.Event)) *realtime.Binding {
	return &realtime.Binding{
		Feed:         feed,
		Topic:        CartTopic(userID),
		Cache:        c.cache,
		Keys:         []string{CartKey(userID)},
		Precondition: func() bool { return userID != "" },
		Reload:       reload,
		Log:          c.log,
	}
}

// BindWishlist wires a wishlist screen to the change feed
func (c *Client) BindWishlist(feed realtime.Feed, userID string, reload func(ctx context.Context, ev realtime.Event)) *realtime.Binding {
	return &realtime.Binding{
		Feed:         feed,
		Topic:        WishlistTopic(userID),
		Cache:        c.cache,
		Keys:         []string{WishlistKey(userID)},
		Precondition: func() bool { return userID != "" },
		Reload:       reload,
		Log:          c.log,
	}
}

// BindSellerDashboard wires a seller dashboard to the change feed
func (c *Client) BindSellerDashboard(feed realtime.Feed, sellerID string, reload func(ctx context.Context, ev realtime.Event)) *realtime.Binding {
	return &realtime.Binding{
		Feed:         feed,
		Topic:        SellerTopic(sellerID),
		Cache:        c.cache,
		Keys:         []string{SellerStatsKey(sellerID)},
		Precondition: func() bool { return sellerID != "" },
		Reload:       reload,
		Log:          c.log,
	}
}

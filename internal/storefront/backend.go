package storefront

import (
	"context"
	"fmt"
	"time"

	"souq/internal/realtime"
)

// Backend is the hosted storefront service. Implementations return data as
// the backend currently sees it; all caching happens above this interface.
type Backend interface {
	ListProducts(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	ListCart(ctx context.Context, userID string) ([]CartItem, error)
	ListWishlist(ctx context.Context, userID string) ([]WishlistEntry, error)
	ListServices(ctx context.Context) ([]Service, error)
	SellerStats(ctx context.Context, sellerID string) (*SellerStats, error)

	AddToCart(ctx context.Context, userID, productID string, quantity int) error
	RemoveFromCart(ctx context.Context, userID, productID string) error
	SetWishlist(ctx context.Context, userID string, productIDs []string) error

	// Changes returns mutations committed after since, ordered by time.
	// The poller in internal/realtime turns this into a push feed.
	Changes(ctx context.Context, since time.Time) ([]realtime.Event, error)
}

// Realtime topics. Per-user topics isolate one user's cart and wishlist
// traffic from everyone else's.
const (
	TopicProducts = "products"
	TopicServices = "services"
)

// CartTopic is the change topic for one user's cart
func CartTopic(userID string) string {
	return "cart:" + userID
}

// WishlistTopic is the change topic for one user's wishlist
func WishlistTopic(userID string) string {
	return "wishlist:" + userID
}

// SellerTopic is the change topic for one seller's dashboard
func SellerTopic(sellerID string) string {
	return "seller:" + sellerID
}

// Cache keys for common queries
func CatalogKey() string {
	return "products"
}

func ProductKey(id string) string {
	return fmt.Sprintf("product:%s", id)
}

func CartKey(userID string) string {
	return fmt.Sprintf("cart:%s", userID)
}

func WishlistKey(userID string) string {
	return fmt.Sprintf("wishlist:%s", userID)
}

func ServicesKey() string {
	return "services"
}

func SellerStatsKey(sellerID string) string {
	return fmt.Sprintf("seller:%s", sellerID)
}

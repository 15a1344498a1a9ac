package storefront

import "time"

// Product is a marketplace listing
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	PriceCents  int64     `json:"price_cents"`
	Currency    string    `json:"currency"`
	Category    string    `json:"category,omitempty"`
	SellerID    string    `json:"seller_id"`
	Stock       int       `json:"stock"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CartItem is one line in a user's cart
type CartItem struct {
	ProductID  string    `json:"product_id"`
	Name       string    `json:"name"`
	PriceCents int64     `json:"price_cents"`
	Quantity   int       `json:"quantity"`
	AddedAt    time.Time `json:"added_at"`
}

// WishlistEntry is a product a user saved for later
type WishlistEntry struct {
	ProductID  string    `json:"product_id"`
	Name       string    `json:"name"`
	PriceCents int64     `json:"price_cents"`
	SavedAt    time.Time `json:"saved_at"`
}

// Service is a freelance gig offered on the services marketplace
type Service struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Description  string  `json:"description,omitempty"`
	FreelancerID string  `json:"freelancer_id"`
	RateCents    int64   `json:"rate_cents"`
	Currency     string  `json:"currency"`
	DeliveryDays int     `json:"delivery_days"`
	Rating       float64 `json:"rating"`
}

// SellerStats is the seller dashboard summary
type SellerStats struct {
	SellerID       string  `json:"seller_id"`
	ActiveListings int     `json:"active_listings"`
	OrdersToday    int     `json:"orders_today"`
	RevenueCents   int64   `json:"revenue_cents"`
	Rating         float64 `json:"rating"`
	UnreadMessages int     `json:"unread_messages"`
}

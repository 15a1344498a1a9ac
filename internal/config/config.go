package config

import "time"

// DataVersion stamps every cache entry written by this build. Entries written
// under a different version are treated as misses, but remain usable as a
// degraded fallback when the backend is unreachable. Bump on any change to
// the cached payload shapes.
const DataVersion = "1.2.0"

// Cache TTL configuration
const (
	CatalogTTL     = 5 * time.Minute  // Product listings change moderately
	ProductTTL     = 10 * time.Minute // Individual product details change rarely
	CartTTL        = 1 * time.Minute  // Carts are mutated from many devices
	WishlistTTL    = 2 * time.Minute
	ServicesTTL    = 5 * time.Minute // Freelance service listings
	SellerStatsTTL = 3 * time.Minute // Dashboard numbers tolerate small lag
)

// Timeout configuration
const (
	DefaultFetchTimeout = 10 * time.Second // Upper bound on one backend fetch
	DefaultPollInterval = 15 * time.Second // Realtime change-feed poll cadence
)

// UI configuration
const (
	DefaultTableHeight = 20
	MinTableHeight     = 5

	// Table column widths
	IDColumnWidth    = 12
	NameColumnWidth  = 35
	PriceColumnWidth = 10
	StockColumnWidth = 8
)

// Default cache initialization TTL
const DefaultCacheTTL = CatalogTTL

package redis

const (
	// KeyPrefixListing is the prefix for catalog listing keys
	KeyPrefixListing = "scout:listing:"
	// KeyPrefixPrices is the prefix for per-listing price history lists
	KeyPrefixPrices = "scout:prices:"
	// KeyAllListings is the key for the set of all listing IDs
	KeyAllListings = "scout:listings:all"
	// KeyTrending is the sorted set of search terms scored by frequency
	KeyTrending = "scout:trending"
	// KeyHistory is the capped list of recent searches
	KeyHistory = "scout:history"
)

// ListingKey returns the Redis key for a listing by ID
func ListingKey(id string) string {
	return KeyPrefixListing + id
}

// PriceHistoryKey returns the Redis key for a listing's price history
func PriceHistoryKey(id string) string {
	return KeyPrefixPrices + id
}

// AllListingsKey returns the key for the set of all listing IDs
func AllListingsKey() string {
	return KeyAllListings
}

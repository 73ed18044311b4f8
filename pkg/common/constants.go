package common

import "time"

const (
	// Redis key prefixes.
	RedisKeyQuote         = "finos:quote:"
	RedisKeyMarketContext = "finos:market:context"

	// Cache TTLs.
	QuoteCacheTTL         = 60 * time.Second
	MarketContextCacheTTL = 5 * time.Minute
	NewsCacheTTL          = 10 * time.Minute

	// Context key for the authenticated user id set by the auth middleware.
	ContextKeyUserID = "user_id"

	// Header carrying the hosted-auth user id.
	HeaderUserID = "X-User-ID"
)

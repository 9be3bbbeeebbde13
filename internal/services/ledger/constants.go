package ledger

import "time"

// Default configuration values
const (
	DefaultRecentTransactions = 20
	DefaultCacheTTL           = 5 * time.Minute
)

// Cache key prefix for wallet views
const walletViewCachePrefix = "wallet:view:"

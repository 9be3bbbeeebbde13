package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// errNoopCacheMiss makes NoopCache report every read as a miss.
var errNoopCacheMiss = errors.New("noop cache")

// NoopCache is a CacheOperator that stores nothing. Used in tests and when
// running without redis.
type NoopCache struct{}

func (NoopCache) Get(context.Context, string, interface{}) error { return errNoopCacheMiss }
func (NoopCache) SetWithTTL(context.Context, string, interface{}, time.Duration) error {
	return nil
}
func (NoopCache) Delete(context.Context, ...string) error { return nil }

func viewCacheKey(tenantID, studentID uint) string {
	return fmt.Sprintf("%s%d:%d", walletViewCachePrefix, tenantID, studentID)
}

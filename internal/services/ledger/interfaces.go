package ledger

import (
	"context"
	"time"

	"cantina/internal/models"
)

// Service defines the ledger interface. All operations are tenant-scoped and
// assume the identity they receive was validated upstream.
type Service interface {
	// Get returns the wallet view: balance plus recent transactions.
	Get(ctx context.Context, tenantID, studentID uint) (*WalletView, error)

	// Topup, Debit and Refund apply one signed entry to the wallet. A
	// non-empty requestID makes the call idempotent: a replay returns the
	// current state without a second mutation.
	Topup(ctx context.Context, tenantID, studentID uint, amountCents int64, requestID string, meta models.JSON) (*WalletView, error)
	Debit(ctx context.Context, tenantID, studentID uint, amountCents int64, requestID string, meta models.JSON) (*WalletView, error)
	Refund(ctx context.Context, tenantID, studentID uint, amountCents int64, requestID string, meta models.JSON) (*WalletView, error)

	// PixCredit is the gateway confirmation path: a credit of type PIX keyed
	// by the provider-assigned charge id.
	PixCredit(ctx context.Context, tenantID, studentID uint, amountCents int64, chargeID string, meta models.JSON) (*WalletView, error)

	// Reconcile recomputes the balance from the full log and reports drift.
	Reconcile(ctx context.Context, tenantID, studentID uint) (*ReconcileReport, error)

	// InvalidateView drops the cached wallet view. Callers that mutate the
	// wallet inside their own atomic unit (the order coordinator) use it to
	// keep the cache honest.
	InvalidateView(ctx context.Context, tenantID, studentID uint)
}

// CacheOperator is the slice of caching the ledger needs.
type CacheOperator interface {
	Get(ctx context.Context, key string, dest interface{}) error
	SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

package repositories

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres SQLSTATE codes the atomic units care about.
const (
	sqlstateSerializationFailure = "40001"
	sqlstateDeadlockDetected     = "40P01"
	sqlstateUniqueViolation      = "23505"
)

// walletTxnRequestIndex backs the (tenant_id, request_id) idempotency key.
const walletTxnRequestIndex = "idx_wallet_txn_request"

// MaxTxAttempts bounds how often a serializable unit is retried from a fresh
// snapshot before the conflict is reported to the caller.
const MaxTxAttempts = 5

var (
	// ErrTxConflict is returned when a serializable unit keeps losing to
	// concurrent writers and the retry budget is exhausted.
	ErrTxConflict = errors.New("transaction conflict")

	// ErrDuplicateRequestID is returned when inserting a wallet transaction
	// trips the (tenant_id, request_id) unique index. Callers treat it as
	// the authoritative idempotent-replay signal, never as data corruption.
	ErrDuplicateRequestID = errors.New("duplicate request id")
)

// WithRetry runs fn until it succeeds, fails with a non-retryable error, or
// the attempt budget runs out. Each attempt must be a self-contained atomic
// unit: nothing from an aborted attempt may leak into the next one.
func WithRetry(fn func() error) error {
	var err error
	for attempt := 0; attempt < MaxTxAttempts; attempt++ {
		if attempt > 0 {
			// Small jittered backoff so colliding retries spread out.
			time.Sleep(time.Duration(rand.Intn(5)+1) * time.Millisecond << attempt)
		}
		err = fn()
		if !IsSerializationFailure(err) {
			return err
		}
	}
	return fmt.Errorf("%w: retries exhausted: %v", ErrTxConflict, err)
}

// IsSerializationFailure reports whether err is a Postgres serialization or
// deadlock abort, i.e. the unit should be retried from a fresh snapshot.
func IsSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == sqlstateSerializationFailure || pgErr.Code == sqlstateDeadlockDetected
}

// isUniqueViolation reports whether err is a unique-constraint violation on
// the named index. An empty constraint matches any unique violation.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	if pgErr.Code != sqlstateUniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

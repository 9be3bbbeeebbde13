/*
Package ledger owns wallet balances and the append-only transaction log.

Every mutating operation (Topup, Debit, Refund, PixCredit) runs as one
serializable storage transaction: wallet lookup, feasibility check,
transaction-row insert and balance adjustment commit together or not at all.
Serialization conflicts are retried from a fresh snapshot up to a bounded
attempt count.

Idempotency is enforced structurally. A request id is written into the
transaction row under a unique (tenant_id, request_id) index inside the same
atomic unit that moves the balance; the unique violation itself is the
duplicate signal. A replayed request therefore mutates nothing and returns
the wallet's current state as a successful no-op, even when the duplicates
race each other.

Usage:

	svc := ledger.NewService(walletRepo, cacheService, ledger.Config{}, collector)

	view, err := svc.Topup(ctx, tenantID, studentID, 1500, "req-123", nil)
	view, err = svc.Debit(ctx, tenantID, studentID, 500, "req-124", nil)

The order coordinator reuses PostEntry inside its own serializable unit so
order rows and ledger entries share one commit.
*/
package ledger

package ledger

import (
	"time"

	"cantina/internal/models"
)

// Config holds tunables for the ledger service.
type Config struct {
	// RecentTransactions is how many log entries a wallet view carries.
	RecentTransactions int
	// CacheTTL bounds how long a wallet view may live in cache.
	CacheTTL time.Duration
}

// WalletView is the caller-facing shape of a wallet: the materialized
// balance plus the most recent slice of its log, newest first.
type WalletView struct {
	ID           uint              `json:"id"`
	TenantID     uint              `json:"tenantId"`
	StudentID    uint              `json:"studentId"`
	BalanceCents int64             `json:"balanceCents"`
	Transactions []TransactionView `json:"transactions"`
}

// TransactionView annotates a log entry with its derived direction.
type TransactionView struct {
	ID          uint        `json:"id"`
	Type        string      `json:"type"`
	Direction   string      `json:"direction"`
	AmountCents int64       `json:"amountCents"`
	CreatedAt   time.Time   `json:"createdAt"`
	RequestID   string      `json:"requestId,omitempty"`
	Meta        models.JSON `json:"meta,omitempty"`
}

// ReconcileReport is the result of recomputing a balance from the full log.
type ReconcileReport struct {
	WalletID       uint  `json:"walletId"`
	BalanceCents   int64 `json:"balanceCents"`
	LedgerSumCents int64 `json:"ledgerSumCents"`
	Consistent     bool  `json:"consistent"`
}

func newTransactionView(t models.WalletTransaction) TransactionView {
	view := TransactionView{
		ID:          t.ID,
		Type:        t.Type,
		Direction:   t.Direction(),
		AmountCents: t.AmountCents,
		CreatedAt:   t.CreatedAt,
		Meta:        t.Meta,
	}
	if t.RequestID != nil {
		view.RequestID = *t.RequestID
	}
	return view
}

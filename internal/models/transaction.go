package models

import "time"

// Wallet transaction types
const (
	TransactionTypeTopup  = "TOPUP"
	TransactionTypeDebit  = "DEBIT"
	TransactionTypeRefund = "REFUND"
	TransactionTypePix    = "PIX"
)

// Derived direction of a transaction as seen from the wallet.
const (
	DirectionCredit = "CREDIT"
	DirectionDebit  = "DEBIT"
)

// WalletTransaction is one immutable entry in a wallet's ledger. Rows are
// never updated or deleted. The partial unique index on
// (tenant_id, request_id) is the idempotency backstop: a retried operation
// carrying the same request id cannot insert a second row.
type WalletTransaction struct {
	ID          uint    `gorm:"primarykey"`
	WalletID    uint    `gorm:"index;not null"`
	TenantID    uint    `gorm:"uniqueIndex:idx_wallet_txn_request;not null"`
	Type        string  `gorm:"not null"`
	AmountCents int64   `gorm:"not null;check:amount_cents > 0"`
	RequestID   *string `gorm:"uniqueIndex:idx_wallet_txn_request"`
	Meta        JSON    `gorm:"type:jsonb"`
	CreatedAt   time.Time
}

// Direction reports whether the transaction credits or debits the wallet.
// Only DEBIT rows take money out; TOPUP, REFUND and PIX all put money in.
func (t *WalletTransaction) Direction() string {
	if t.Type == TransactionTypeDebit {
		return DirectionDebit
	}
	return DirectionCredit
}

// SignedAmount is the delta the transaction applied to the balance.
func (t *WalletTransaction) SignedAmount() int64 {
	if t.Type == TransactionTypeDebit {
		return -t.AmountCents
	}
	return t.AmountCents
}

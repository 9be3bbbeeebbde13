package ledger

import (
	"cantina/internal/models"
	"cantina/internal/repositories"
)

// PostEntry appends one transaction row and applies its signed delta to the
// wallet balance inside the caller's transaction. The row insert happens
// first: if the request id already exists, the unique index rejects it with
// repositories.ErrDuplicateRequestID, the unit aborts, and nothing moves.
//
// A DEBIT entry is feasibility-checked against the balance snapshot read in
// the same unit. Two debits racing past that check cannot both commit; the
// serializable store aborts one side and the retry re-reads the drained
// balance.
func PostEntry(repo repositories.WalletRepository, wallet *models.Wallet, txType string, amountCents int64, requestID string, meta models.JSON) error {
	if amountCents <= 0 {
		return ErrInvalidAmount
	}

	delta := amountCents
	if txType == models.TransactionTypeDebit {
		if wallet.BalanceCents < amountCents {
			return ErrInsufficientFunds
		}
		delta = -amountCents
	}

	txn := &models.WalletTransaction{
		WalletID:    wallet.ID,
		TenantID:    wallet.TenantID,
		Type:        txType,
		AmountCents: amountCents,
		Meta:        meta,
	}
	if requestID != "" {
		rid := requestID
		txn.RequestID = &rid
	}

	if err := repo.CreateTransaction(txn); err != nil {
		return err
	}
	return repo.AdjustBalance(wallet.ID, delta)
}

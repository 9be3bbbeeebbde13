package ledger

import "errors"

// Service errors
var (
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrWalletNotFound    = errors.New("wallet not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

package repositories

import (
	"errors"

	"cantina/internal/models"
)

var (
	ErrWalletNotFound = errors.New("wallet not found")
	ErrOrderNotFound  = errors.New("order not found")
	ErrChargeNotFound = errors.New("pix charge not found")
)

// WalletRepository defines wallet and wallet-transaction database operations.
// Mutating methods are meant to run inside ExecuteSerializable so balance
// write and log append commit together or not at all.
type WalletRepository interface {
	Create(wallet *models.Wallet) error
	GetByStudent(tenantID, studentID uint) (*models.Wallet, error)
	AdjustBalance(walletID uint, deltaCents int64) error

	CreateTransaction(txn *models.WalletTransaction) error
	FindTransactionByRequestID(tenantID uint, requestID string) (*models.WalletTransaction, error)
	RecentTransactions(walletID uint, limit int) ([]models.WalletTransaction, error)
	SumTransactions(walletID uint) (int64, error)

	// ExecuteSerializable runs fn as one serializable storage transaction,
	// retrying the whole unit on serialization conflicts. The repository
	// handed to fn is scoped to that transaction.
	ExecuteSerializable(fn func(tx WalletRepository) error) error
}

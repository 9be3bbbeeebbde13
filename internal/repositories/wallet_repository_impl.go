package repositories

import (
	"database/sql"
	"fmt"

	"cantina/internal/models"

	"gorm.io/gorm"
)

type walletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{db: db}
}

func (r *walletRepository) Create(wallet *models.Wallet) error {
	if err := r.db.Create(wallet).Error; err != nil {
		return fmt.Errorf("failed to create wallet: %w", err)
	}
	return nil
}

func (r *walletRepository) GetByStudent(tenantID, studentID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	err := r.db.Where("tenant_id = ? AND student_id = ?", tenantID, studentID).First(&wallet).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return &wallet, nil
}

// AdjustBalance applies a signed delta in SQL so the write composes with the
// surrounding serializable transaction instead of overwriting a stale read.
func (r *walletRepository) AdjustBalance(walletID uint, deltaCents int64) error {
	result := r.db.Model(&models.Wallet{}).
		Where("id = ?", walletID).
		Update("balance_cents", gorm.Expr("balance_cents + ?", deltaCents))
	if result.Error != nil {
		return fmt.Errorf("failed to adjust balance: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrWalletNotFound
	}
	return nil
}

func (r *walletRepository) CreateTransaction(txn *models.WalletTransaction) error {
	if err := r.db.Create(txn).Error; err != nil {
		if isUniqueViolation(err, walletTxnRequestIndex) {
			return ErrDuplicateRequestID
		}
		return fmt.Errorf("failed to create wallet transaction: %w", err)
	}
	return nil
}

func (r *walletRepository) FindTransactionByRequestID(tenantID uint, requestID string) (*models.WalletTransaction, error) {
	var txn models.WalletTransaction
	err := r.db.Where("tenant_id = ? AND request_id = ?", tenantID, requestID).First(&txn).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up transaction by request id: %w", err)
	}
	return &txn, nil
}

func (r *walletRepository) RecentTransactions(walletID uint, limit int) ([]models.WalletTransaction, error) {
	var txns []models.WalletTransaction
	err := r.db.Where("wallet_id = ?", walletID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&txns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get recent transactions: %w", err)
	}
	return txns, nil
}

// SumTransactions returns the signed sum of the full log for one wallet.
// Used by the reconciliation check, not by the hot path.
func (r *walletRepository) SumTransactions(walletID uint) (int64, error) {
	var total int64
	err := r.db.Model(&models.WalletTransaction{}).
		Where("wallet_id = ?", walletID).
		Select("COALESCE(SUM(CASE WHEN type = ? THEN -amount_cents ELSE amount_cents END), 0)", models.TransactionTypeDebit).
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum transactions: %w", err)
	}
	return total, nil
}

func (r *walletRepository) ExecuteSerializable(fn func(tx WalletRepository) error) error {
	return WithRetry(func() error {
		return r.db.Transaction(func(tx *gorm.DB) error {
			return fn(&walletRepository{db: tx})
		}, &sql.TxOptions{Isolation: sql.LevelSerializable})
	})
}

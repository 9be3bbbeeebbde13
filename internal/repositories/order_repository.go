package repositories

import "cantina/internal/models"

// OrderFilter narrows order listings. Zero values mean "any".
type OrderFilter struct {
	StudentID uint
	Status    string
}

// OrderRepository defines order database operations. Creation and status
// transitions run inside ExecuteSerializable together with the wallet
// mutation they pay for or refund.
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(tenantID, orderID uint) (*models.Order, error)
	UpdateStatus(orderID uint, status string) error
	List(tenantID uint, filter OrderFilter) ([]models.Order, error)

	// ExecuteSerializable runs fn as one serializable storage transaction
	// handing it tx-scoped order and wallet repositories, so order rows and
	// ledger entries commit together or not at all.
	ExecuteSerializable(fn func(orders OrderRepository, wallets WalletRepository) error) error
}

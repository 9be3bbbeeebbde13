package order

import (
	"context"

	"cantina/internal/models"
	"cantina/internal/repositories"
)

// Service coordinates orders on top of the ledger: price freezing at
// creation, atomic debit/refund coupling, and the PAID → FULFILLED/CANCELLED
// state machine.
type Service interface {
	Create(ctx context.Context, tenantID uint, input CreateOrderInput) (*CreateOrderResult, error)
	Fulfill(ctx context.Context, tenantID, orderID uint) (*models.Order, error)
	Cancel(ctx context.Context, tenantID, orderID, actorID uint) (*models.Order, error)
	List(ctx context.Context, tenantID uint, filter repositories.OrderFilter) ([]models.Order, error)
}

// PriceProvider resolves the requested item ids to prices, restricted to the
// tenant's active catalog. Ids missing from the result are invalid for
// ordering.
type PriceProvider interface {
	ActivePrices(ctx context.Context, tenantID uint, itemIDs []uint) (map[uint]int64, error)
}

// ViewInvalidator drops a cached wallet view after the coordinator mutates
// the wallet inside its own atomic unit.
type ViewInvalidator interface {
	InvalidateView(ctx context.Context, tenantID, studentID uint)
}

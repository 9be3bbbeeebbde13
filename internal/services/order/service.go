package order

import (
	"context"
	"errors"
	"fmt"

	"cantina/internal/models"
	"cantina/internal/repositories"
	"cantina/internal/services/ledger"
)

type service struct {
	repo   repositories.OrderRepository
	prices PriceProvider
	views  ViewInvalidator
}

// NewService creates a new order coordinator
func NewService(repo repositories.OrderRepository, prices PriceProvider, views ViewInvalidator) Service {
	if repo == nil {
		panic("repo is required")
	}
	if prices == nil {
		panic("price provider is required")
	}

	return &service{
		repo:   repo,
		prices: prices,
		views:  views,
	}
}

func (s *service) Create(ctx context.Context, tenantID uint, input CreateOrderInput) (*CreateOrderResult, error) {
	if input.StudentID == 0 || len(input.Items) == 0 {
		return nil, ErrInvalidItems
	}

	// Deduplicate requested ids before hitting the catalog.
	seen := make(map[uint]bool, len(input.Items))
	ids := make([]uint, 0, len(input.Items))
	for _, it := range input.Items {
		if it.ItemID == 0 || it.Qty < 1 {
			return nil, ErrInvalidItems
		}
		if !seen[it.ItemID] {
			seen[it.ItemID] = true
			ids = append(ids, it.ItemID)
		}
	}

	prices, err := s.prices.ActivePrices(ctx, tenantID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve catalog prices: %w", err)
	}
	// Anything invalid, inactive or belonging to another tenant is simply
	// absent from the resolved set.
	if len(prices) != len(ids) {
		return nil, ErrInvalidItems
	}

	// Freeze unit prices now; the catalog is never consulted again for this
	// order.
	frozen := make([]models.OrderItem, 0, len(input.Items))
	var totalCents int64
	for _, it := range input.Items {
		price := prices[it.ItemID]
		frozen = append(frozen, models.OrderItem{
			ItemID:         it.ItemID,
			Qty:            it.Qty,
			UnitPriceCents: price,
		})
		totalCents += price * int64(it.Qty)
	}

	var created *models.Order
	err = s.repo.ExecuteSerializable(func(orders repositories.OrderRepository, wallets repositories.WalletRepository) error {
		wallet, err := wallets.GetByStudent(tenantID, input.StudentID)
		if err != nil {
			return err
		}
		if wallet.BalanceCents < totalCents {
			return ledger.ErrInsufficientFunds
		}

		order := &models.Order{
			TenantID:  tenantID,
			StudentID: input.StudentID,
			Status:    models.OrderStatusPaid,
			Items:     frozen,
		}
		if err := orders.Create(order); err != nil {
			return err
		}

		if err := ledger.PostEntry(wallets, wallet, models.TransactionTypeDebit, totalCents,
			"", models.JSON{"orderId": order.ID}); err != nil {
			return err
		}

		created = order
		return nil
	})
	if err != nil {
		return nil, s.mapErr(err)
	}

	s.invalidate(ctx, tenantID, input.StudentID)
	return &CreateOrderResult{Order: created, TotalCents: totalCents}, nil
}

func (s *service) Fulfill(ctx context.Context, tenantID, orderID uint) (*models.Order, error) {
	var updated *models.Order
	err := s.repo.ExecuteSerializable(func(orders repositories.OrderRepository, _ repositories.WalletRepository) error {
		o, err := orders.GetByID(tenantID, orderID)
		if err != nil {
			return err
		}
		if o.Status != models.OrderStatusPaid {
			return ErrInvalidOrderState
		}
		if err := orders.UpdateStatus(o.ID, models.OrderStatusFulfilled); err != nil {
			return err
		}
		o.Status = models.OrderStatusFulfilled
		updated = o
		return nil
	})
	if err != nil {
		return nil, s.mapErr(err)
	}
	return updated, nil
}

func (s *service) Cancel(ctx context.Context, tenantID, orderID, actorID uint) (*models.Order, error) {
	var result *models.Order
	unit := func(orders repositories.OrderRepository, wallets repositories.WalletRepository) error {
		o, err := orders.GetByID(tenantID, orderID)
		if err != nil {
			return err
		}
		if o.Status == models.OrderStatusCancelled {
			// Already cancelled: idempotent no-op, no second refund.
			result = o
			return nil
		}
		if o.Status == models.OrderStatusFulfilled {
			return ErrInvalidOrderState
		}

		// Total comes strictly from the stored items, never from current
		// catalog prices.
		total := o.TotalCents()
		if total > 0 {
			wallet, err := wallets.GetByStudent(tenantID, o.StudentID)
			if err != nil {
				return err
			}
			requestID := refundRequestID(o.ID)
			existing, err := wallets.FindTransactionByRequestID(tenantID, requestID)
			if err != nil {
				return err
			}
			if existing == nil {
				meta := models.JSON{
					"reason":  "ORDER_CANCELLED",
					"orderId": o.ID,
					"actorId": actorID,
				}
				if err := ledger.PostEntry(wallets, wallet, models.TransactionTypeRefund, total, requestID, meta); err != nil {
					return err
				}
			}
		}

		if err := orders.UpdateStatus(o.ID, models.OrderStatusCancelled); err != nil {
			return err
		}
		o.Status = models.OrderStatusCancelled
		result = o
		return nil
	}

	err := s.repo.ExecuteSerializable(unit)
	if errors.Is(err, repositories.ErrDuplicateRequestID) {
		// A concurrent cancel won the refund insert after our existence
		// check; the rerun observes the recorded refund and only flips the
		// status.
		err = s.repo.ExecuteSerializable(unit)
	}
	if err != nil {
		return nil, s.mapErr(err)
	}

	s.invalidate(ctx, tenantID, result.StudentID)
	return result, nil
}

func (s *service) List(ctx context.Context, tenantID uint, filter repositories.OrderFilter) ([]models.Order, error) {
	orders, err := s.repo.List(tenantID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (s *service) invalidate(ctx context.Context, tenantID, studentID uint) {
	if s.views != nil {
		s.views.InvalidateView(ctx, tenantID, studentID)
	}
}

// mapErr translates repository sentinels into the coordinator's taxonomy,
// leaving ledger sentinels and conflicts as they are.
func (s *service) mapErr(err error) error {
	switch {
	case errors.Is(err, repositories.ErrOrderNotFound):
		return ErrOrderNotFound
	case errors.Is(err, repositories.ErrWalletNotFound):
		return ledger.ErrWalletNotFound
	default:
		return err
	}
}

package order

import (
	"fmt"

	"cantina/internal/models"
)

// OrderItemInput is one requested line of a new order.
type OrderItemInput struct {
	ItemID uint `json:"itemId"`
	Qty    int  `json:"qty"`
}

// CreateOrderInput describes a new order for one student.
type CreateOrderInput struct {
	StudentID uint             `json:"studentId"`
	Items     []OrderItemInput `json:"items"`
}

// CreateOrderResult is the outcome of a successful order creation.
type CreateOrderResult struct {
	Order      *models.Order `json:"order"`
	TotalCents int64         `json:"totalCents"`
}

// refundRequestID derives the deterministic idempotency key for an order's
// cancellation refund. Every cancel retry of the same order produces the
// same key, so the ledger records at most one refund.
func refundRequestID(orderID uint) string {
	return fmt.Sprintf("refund:order:%d", orderID)
}

package models

import "time"

// Order statuses. CREATED is part of the lifecycle but the synchronous
// wallet-debit creation path writes orders directly as PAID; no current flow
// persists CREATED.
const (
	OrderStatusCreated   = "CREATED"
	OrderStatusPaid      = "PAID"
	OrderStatusFulfilled = "FULFILLED"
	OrderStatusCancelled = "CANCELLED"
)

type Order struct {
	ID        uint   `gorm:"primarykey"`
	TenantID  uint   `gorm:"index;not null"`
	StudentID uint   `gorm:"index;not null"`
	Status    string `gorm:"not null"`
	Items     []OrderItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderItem freezes the catalog price at order-creation time. UnitPriceCents
// is never re-read from the catalog after the order exists.
type OrderItem struct {
	ID             uint  `gorm:"primarykey"`
	OrderID        uint  `gorm:"index;not null"`
	ItemID         uint  `gorm:"not null"`
	Qty            int   `gorm:"not null;check:qty >= 1"`
	UnitPriceCents int64 `gorm:"not null"`
}

// TotalCents recomputes the order total strictly from its stored items.
func (o *Order) TotalCents() int64 {
	var total int64
	for _, it := range o.Items {
		total += it.UnitPriceCents * int64(it.Qty)
	}
	return total
}

// Terminal reports whether no further status transition is legal.
func (o *Order) Terminal() bool {
	return o.Status == OrderStatusFulfilled || o.Status == OrderStatusCancelled
}

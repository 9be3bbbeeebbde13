package models

import "time"

// Pix charge statuses
const (
	PixChargeStatusPending = "pending"
	PixChargeStatusPaid    = "paid"
)

// PixCharge tracks one Pix top-up request from creation to gateway
// confirmation. ChargeID is the provider-assigned id and doubles as the
// idempotency key for the resulting wallet credit.
type PixCharge struct {
	ID          uint   `gorm:"primarykey"`
	TenantID    uint   `gorm:"index;not null"`
	StudentID   uint   `gorm:"not null"`
	ChargeID    string `gorm:"uniqueIndex;not null"`
	Provider    string `gorm:"not null"`
	AmountCents int64  `gorm:"not null"`
	Status      string `gorm:"not null;default:'pending'"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

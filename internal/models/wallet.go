package models

import "time"

// Wallet is a student's prepaid balance within one tenant. BalanceCents is a
// materialized cache of the signed sum of the wallet's transaction log; the
// two are only ever updated together, inside one serializable unit.
type Wallet struct {
	ID           uint  `gorm:"primarykey"`
	TenantID     uint  `gorm:"uniqueIndex:idx_wallet_tenant_student;not null"`
	StudentID    uint  `gorm:"uniqueIndex:idx_wallet_tenant_student;not null"`
	BalanceCents int64 `gorm:"not null;default:0;check:balance_cents >= 0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

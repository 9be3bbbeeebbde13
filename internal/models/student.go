package models

import "time"

// Student is the beneficiary of a wallet. Guardians act on behalf of a
// student; the student itself never authenticates.
type Student struct {
	ID        uint   `gorm:"primarykey"`
	TenantID  uint   `gorm:"index;not null"`
	Name      string `gorm:"not null"`
	Grade     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

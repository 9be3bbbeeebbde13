package models

import "time"

// CatalogItem is a purchasable product. The catalog is the price source of
// truth only until an order is created; after that the order carries its own
// frozen prices.
type CatalogItem struct {
	ID         uint   `gorm:"primarykey"`
	TenantID   uint   `gorm:"index;not null"`
	Name       string `gorm:"not null"`
	PriceCents int64  `gorm:"not null"`
	IsActive   bool   `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

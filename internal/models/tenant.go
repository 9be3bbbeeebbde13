package models

import "time"

// Supported Pix gateway providers
const (
	PixProviderGerencianet = "gerencianet"
	PixProviderMercadoPago = "mercadopago"
)

// Tenant is one canteen operator. Every domain row carries its TenantID and
// every query is scoped by it; rows from different tenants never mix.
type Tenant struct {
	ID              uint   `gorm:"primarykey"`
	Name            string `gorm:"not null"`
	Code            string `gorm:"uniqueIndex;not null"`
	PixProvider     string `gorm:"not null;default:'mercadopago'"`
	AdminSecretHash string `gorm:"not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

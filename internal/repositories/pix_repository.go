package repositories

import (
	"fmt"

	"cantina/internal/models"

	"gorm.io/gorm"
)

// PixRepository persists Pix charge state across the create/confirm webhook
// round trip.
type PixRepository interface {
	Create(charge *models.PixCharge) error
	GetByChargeID(chargeID string) (*models.PixCharge, error)
	MarkPaid(chargeID string) error
}

type pixRepository struct {
	db *gorm.DB
}

func NewPixRepository(db *gorm.DB) PixRepository {
	return &pixRepository{db: db}
}

func (r *pixRepository) Create(charge *models.PixCharge) error {
	if err := r.db.Create(charge).Error; err != nil {
		return fmt.Errorf("failed to create pix charge: %w", err)
	}
	return nil
}

func (r *pixRepository) GetByChargeID(chargeID string) (*models.PixCharge, error) {
	var charge models.PixCharge
	err := r.db.Where("charge_id = ?", chargeID).First(&charge).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrChargeNotFound
		}
		return nil, fmt.Errorf("failed to get pix charge: %w", err)
	}
	return &charge, nil
}

func (r *pixRepository) MarkPaid(chargeID string) error {
	result := r.db.Model(&models.PixCharge{}).
		Where("charge_id = ?", chargeID).
		Update("status", models.PixChargeStatusPaid)
	if result.Error != nil {
		return fmt.Errorf("failed to mark pix charge paid: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrChargeNotFound
	}
	return nil
}

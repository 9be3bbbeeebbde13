package repositories

import (
	"fmt"

	"cantina/internal/models"

	"gorm.io/gorm"
)

// CatalogRepository reads tenant-scoped catalog rows. The core only ever
// needs active items; catalog administration lives outside this system.
type CatalogRepository interface {
	ActiveByIDs(tenantID uint, itemIDs []uint) ([]models.CatalogItem, error)
	Create(item *models.CatalogItem) error
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) ActiveByIDs(tenantID uint, itemIDs []uint) ([]models.CatalogItem, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	var items []models.CatalogItem
	err := r.db.Where("tenant_id = ? AND id IN ? AND is_active = ?", tenantID, itemIDs, true).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog items: %w", err)
	}
	return items, nil
}

func (r *catalogRepository) Create(item *models.CatalogItem) error {
	if err := r.db.Create(item).Error; err != nil {
		return fmt.Errorf("failed to create catalog item: %w", err)
	}
	return nil
}

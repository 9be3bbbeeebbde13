package repositories

import (
	"errors"
	"fmt"

	"cantina/internal/models"

	"gorm.io/gorm"
)

var ErrTenantNotFound = errors.New("tenant not found")

// TenantRepository reads tenant configuration. Tenants are administered
// outside this system; the core only consults them.
type TenantRepository interface {
	GetByID(tenantID uint) (*models.Tenant, error)
	GetByCode(code string) (*models.Tenant, error)
}

type tenantRepository struct {
	db *gorm.DB
}

func NewTenantRepository(db *gorm.DB) TenantRepository {
	return &tenantRepository{db: db}
}

func (r *tenantRepository) GetByID(tenantID uint) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := r.db.First(&tenant, tenantID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrTenantNotFound
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	return &tenant, nil
}

func (r *tenantRepository) GetByCode(code string) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := r.db.Where("code = ?", code).First(&tenant).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrTenantNotFound
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	return &tenant, nil
}

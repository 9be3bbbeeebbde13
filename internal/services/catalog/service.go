// Package catalog exposes tenant-scoped price resolution over the catalog
// repository. The order coordinator depends on it only through its
// PriceProvider interface.
package catalog

import (
	"context"
	"fmt"

	"cantina/internal/repositories"
)

// Service resolves active catalog items to prices for one tenant.
type Service interface {
	ActivePrices(ctx context.Context, tenantID uint, itemIDs []uint) (map[uint]int64, error)
}

type service struct {
	repo repositories.CatalogRepository
}

func NewService(repo repositories.CatalogRepository) Service {
	if repo == nil {
		panic("repo is required")
	}
	return &service{repo: repo}
}

// ActivePrices returns prices for the subset of itemIDs that are active for
// the tenant. Ids absent from the result are invalid for ordering.
func (s *service) ActivePrices(ctx context.Context, tenantID uint, itemIDs []uint) (map[uint]int64, error) {
	items, err := s.repo.ActiveByIDs(tenantID, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve active items: %w", err)
	}
	prices := make(map[uint]int64, len(items))
	for _, it := range items {
		prices[it.ID] = it.PriceCents
	}
	return prices, nil
}

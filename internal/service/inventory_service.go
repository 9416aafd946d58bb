package service

import (
	"context"
	"errors"

	"github.com/athenareborn/pokemyheart-store/internal/models"
	"github.com/athenareborn/pokemyheart-store/internal/repository"
)

var ErrInvalidStock = errors.New("available must be zero or more")

// StockStore persists per-bundle stock counts
type StockStore interface {
	GetStock(ctx context.Context) (map[string]int64, error)
	SetStock(ctx context.Context, bundleID string, available int64) error
	DecrementStock(ctx context.Context, bundleID string, qty int64) (int64, error)
}

type InventoryService struct {
	bundles repository.BundleRepository
	stock   StockStore
}

func NewInventoryService(bundles repository.BundleRepository, stock StockStore) *InventoryService {
	return &InventoryService{bundles: bundles, stock: stock}
}

// ListStock reports stock for every catalog bundle. Bundles with no
// recorded stock are reported as out of stock.
func (s *InventoryService) ListStock(ctx context.Context) ([]models.StockLevel, error) {
	bundles, err := s.bundles.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.stock.GetStock(ctx)
	if err != nil {
		return nil, err
	}

	levels := make([]models.StockLevel, 0, len(bundles))
	for _, b := range bundles {
		levels = append(levels, stockLevel(b, counts[b.ID]))
	}
	return levels, nil
}

func (s *InventoryService) SetStock(ctx context.Context, bundleID string, available int64) (*models.StockLevel, error) {
	if available < 0 {
		return nil, ErrInvalidStock
	}
	b, err := s.bundles.GetByID(ctx, bundleID)
	if err != nil {
		return nil, err
	}
	if err := s.stock.SetStock(ctx, b.ID, available); err != nil {
		return nil, err
	}
	level := stockLevel(*b, available)
	return &level, nil
}

func stockLevel(b models.Bundle, available int64) models.StockLevel {
	return models.StockLevel{
		BundleID:  b.ID,
		SKU:       b.SKU,
		Available: available,
		InStock:   available > 0,
	}
}

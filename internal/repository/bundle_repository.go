package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/athenareborn/pokemyheart-store/internal/models"
)

var (
	ErrBundleNotFound = errors.New("bundle not found")
)

// BundleRepository defines the interface for bundle catalog access
type BundleRepository interface {
	GetAll(ctx context.Context) ([]models.Bundle, error)
	GetByID(ctx context.Context, id string) (*models.Bundle, error)
}

// DefaultBundles is the catalog shipped with the storefront
var DefaultBundles = []models.Bundle{
	{ID: "card-only", Name: "Card Only", Price: 2395, CompareAtPrice: 2995, SKU: "PMH-CARD"},
	{ID: "card-case", Name: "Card + Display Case", Price: 3495, CompareAtPrice: 4495, SKU: "PMH-CASE"},
	{ID: "deluxe", Name: "Deluxe Gift Set", Price: 4995, CompareAtPrice: 6995, SKU: "PMH-DLX"},
}

// InMemoryBundleRepository serves an immutable catalog fixed at construction time
type InMemoryBundleRepository struct {
	bundles map[string]models.Bundle
	order   []string
}

// NewInMemoryBundleRepository builds a catalog from the given bundles.
// Every bundle must satisfy 0 < price <= compareAtPrice and ids must be unique.
func NewInMemoryBundleRepository(bundles []models.Bundle) (*InMemoryBundleRepository, error) {
	repo := &InMemoryBundleRepository{
		bundles: make(map[string]models.Bundle, len(bundles)),
		order:   make([]string, 0, len(bundles)),
	}

	for _, b := range bundles {
		if b.ID == "" {
			return nil, fmt.Errorf("bundle %q: id is required", b.Name)
		}
		if b.Price <= 0 || b.Price > b.CompareAtPrice {
			return nil, fmt.Errorf("bundle %q: price %d must be positive and at most compare-at price %d", b.ID, b.Price, b.CompareAtPrice)
		}
		if _, dup := repo.bundles[b.ID]; dup {
			return nil, fmt.Errorf("bundle %q: duplicate id", b.ID)
		}
		repo.bundles[b.ID] = b
		repo.order = append(repo.order, b.ID)
	}

	return repo, nil
}

// GetAll returns all bundles in catalog order
func (r *InMemoryBundleRepository) GetAll(ctx context.Context) ([]models.Bundle, error) {
	bundles := make([]models.Bundle, 0, len(r.order))
	for _, id := range r.order {
		bundles = append(bundles, r.bundles[id])
	}
	return bundles, nil
}

// GetByID returns a bundle by its ID
func (r *InMemoryBundleRepository) GetByID(ctx context.Context, id string) (*models.Bundle, error) {
	bundle, exists := r.bundles[id]
	if !exists {
		return nil, ErrBundleNotFound
	}
	return &bundle, nil
}

// Lookup is the synchronous form of GetByID used by the checkout validator.
func (r *InMemoryBundleRepository) Lookup(id string) (models.Bundle, bool) {
	bundle, exists := r.bundles[id]
	return bundle, exists
}

package service

import (
	"context"

	"github.com/athenareborn/pokemyheart-store/internal/models"
	"github.com/athenareborn/pokemyheart-store/internal/repository"
)

// BundleService handles business logic for bundles
type BundleService struct {
	repo repository.BundleRepository
}

// NewBundleService creates a new bundle service
func NewBundleService(repo repository.BundleRepository) *BundleService {
	return &BundleService{
		repo: repo,
	}
}

// ListBundles returns the catalog in display order
func (s *BundleService) ListBundles(ctx context.Context) ([]models.Bundle, error) {
	return s.repo.GetAll(ctx)
}

// GetBundle returns a bundle by ID
func (s *BundleService) GetBundle(ctx context.Context, id string) (*models.Bundle, error) {
	return s.repo.GetByID(ctx, id)
}

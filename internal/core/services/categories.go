package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/localfinder/localfinder-cli/internal/core/domain"
	"github.com/localfinder/localfinder-cli/internal/core/ports/driven"
	"github.com/localfinder/localfinder-cli/internal/core/ports/driving"
	"github.com/localfinder/localfinder-cli/internal/logger"
)

// Ensure CategoryService implements the interface.
var _ driving.CategoryService = (*CategoryService)(nil)

// CategoryService merges the fixed category list with server counts.
type CategoryService struct {
	api driven.UserAPI

	mu         sync.RWMutex
	categories []domain.Category
}

// NewCategoryService creates a category service. Counts start unset.
func NewCategoryService(api driven.UserAPI) *CategoryService {
	return &CategoryService{
		api:        api,
		categories: domain.DefaultCategories(),
	}
}

// Load fetches counts and returns the merged list.
// On failure the counts stay unset and the error is returned with the list.
func (s *CategoryService) Load(ctx context.Context) ([]domain.Category, error) {
	counts, err := s.api.GetCategoryCounts(ctx)
	if err != nil {
		logger.Warn("category counts unavailable: %v", err)
		return s.Categories(), fmt.Errorf("get category counts: %w", err)
	}
	if counts == nil {
		counts = map[string]int{}
	}

	merged := domain.MergeCounts(domain.DefaultCategories(), counts)
	s.mu.Lock()
	s.categories = merged
	s.mu.Unlock()

	logger.Debug("loaded counts for %d categories", len(counts))
	return s.Categories(), nil
}

// Categories returns a copy of the most recently merged list.
func (s *CategoryService) Categories() []domain.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Category, len(s.categories))
	copy(out, s.categories)
	return out
}

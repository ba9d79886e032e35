package services

import (
	"context"
	"fmt"

	"github.com/localfinder/localfinder-cli/internal/core/domain"
	"github.com/localfinder/localfinder-cli/internal/core/ports/driven"
	"github.com/localfinder/localfinder-cli/internal/core/ports/driving"
	"github.com/localfinder/localfinder-cli/internal/logger"
)

// Ensure ProfileService implements the interface.
var _ driving.ProfileService = (*ProfileService)(nil)

// ProfileService reads and updates the provider's own profile.
type ProfileService struct {
	api driven.ProviderAPI
}

// NewProfileService creates a profile service.
func NewProfileService(api driven.ProviderAPI) *ProfileService {
	return &ProfileService{api: api}
}

// Get returns the provider profile.
func (s *ProfileService) Get(ctx context.Context) (*domain.Provider, error) {
	p, err := s.api.GetProviderProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("get provider profile: %w", err)
	}
	return p, nil
}

// Update validates and submits the profile.
func (s *ProfileService) Update(ctx context.Context, update domain.ProfileUpdate) (*domain.Provider, error) {
	if err := update.Validate(); err != nil {
		return nil, err
	}

	logger.Debug("updating provider profile (image=%t)", update.ImagePath != "")
	p, err := s.api.UpdateProviderProfile(ctx, update)
	if err != nil {
		return nil, fmt.Errorf("update provider profile: %w", err)
	}
	return p, nil
}

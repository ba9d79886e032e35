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

// Ensure DetailService implements the interface.
var _ driving.DetailService = (*DetailService)(nil)

// RatingPatcher receives rating changes so listed copies stay current.
type RatingPatcher interface {
	PatchRating(id string, rating float64)
}

// DetailService drives the provider detail dialog and rating submission.
type DetailService struct {
	api     driven.UserAPI
	patcher RatingPatcher

	mu    sync.Mutex
	state domain.DetailState
	seq   uint64
}

// NewDetailService creates a detail service. patcher may be nil.
func NewDetailService(api driven.UserAPI, patcher RatingPatcher) *DetailService {
	return &DetailService{api: api, patcher: patcher}
}

// Open fetches one provider. The state ends loaded, or empty when the fetch
// fails or returns nothing. A newer Open supersedes an older one.
func (s *DetailService) Open(ctx context.Context, id string) domain.DetailState {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.state = domain.DetailState{Status: domain.DetailLoading, ProviderID: id}
	s.mu.Unlock()

	provider, err := s.api.GetProvider(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return copyDetail(s.state)
	}
	switch {
	case err != nil:
		logger.Warn("provider %s: %v", id, err)
		s.state = domain.DetailState{Status: domain.DetailEmpty, ProviderID: id}
	case provider == nil:
		s.state = domain.DetailState{Status: domain.DetailEmpty, ProviderID: id}
	default:
		if provider.ID == "" {
			provider.ID = id
		}
		s.state = domain.DetailState{Status: domain.DetailLoaded, ProviderID: id, Provider: provider}
	}
	return copyDetail(s.state)
}

// Rate submits a rating for the open provider. On success the returned
// aggregate replaces the rating in the dialog and in the list.
func (s *DetailService) Rate(ctx context.Context, rating int) (float64, error) {
	if err := domain.ValidateRating(rating); err != nil {
		return 0, err
	}

	s.mu.Lock()
	if s.state.Status != domain.DetailLoaded || s.state.Provider == nil {
		s.mu.Unlock()
		return 0, domain.ErrNoProviderOpen
	}
	id := s.state.Provider.ID
	s.mu.Unlock()

	logger.Debug("rating provider %s: %d", id, rating)
	aggregate, err := s.api.RateProvider(ctx, id, rating)
	if err != nil {
		return 0, fmt.Errorf("rate provider: %w", err)
	}

	s.mu.Lock()
	if s.state.Provider != nil && s.state.Provider.ID == id {
		s.state.Provider.Rating = aggregate
	}
	s.mu.Unlock()

	if s.patcher != nil {
		s.patcher.PatchRating(id, aggregate)
	}
	return aggregate, nil
}

// State returns the current dialog state.
func (s *DetailService) State() domain.DetailState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyDetail(s.state)
}

// Close discards the dialog state.
func (s *DetailService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.state = domain.DetailState{}
}

func copyDetail(st domain.DetailState) domain.DetailState {
	if st.Provider != nil {
		p := *st.Provider
		st.Provider = &p
	}
	return st
}

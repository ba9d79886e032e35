package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localfinder/localfinder-cli/internal/core/domain"
)

func TestProfileService_Get(t *testing.T) {
	api := &mockProviderAPI{profile: &domain.Provider{ID: "me", Name: "Ravi"}}
	svc := NewProfileService(api)

	p, err := svc.Get(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Ravi", p.Name)
}

func TestProfileService_Get_Error(t *testing.T) {
	boom := errors.New("boom")
	svc := NewProfileService(&mockProviderAPI{profileErr: boom})
	_, err := svc.Get(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestProfileService_Update(t *testing.T) {
	api := &mockProviderAPI{}
	svc := NewProfileService(api)

	p, err := svc.Update(context.Background(), domain.ProfileUpdate{
		Name: "Ravi", Category: "plumbers", Price: 500,
	})

	require.NoError(t, err)
	assert.Equal(t, "Ravi", p.Name)
	require.Len(t, api.updated, 1)
	assert.Equal(t, "plumbers", api.updated[0].Category)
}

func TestProfileService_Update_ValidatesBeforeSending(t *testing.T) {
	api := &mockProviderAPI{}
	svc := NewProfileService(api)

	_, err := svc.Update(context.Background(), domain.ProfileUpdate{Category: "plumbers"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Update(context.Background(), domain.ProfileUpdate{Name: "R", Category: "x", Price: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Empty(t, api.updated)
}

func TestProfileService_Update_Error(t *testing.T) {
	boom := errors.New("boom")
	svc := NewProfileService(&mockProviderAPI{updateErr: boom})
	_, err := svc.Update(context.Background(), domain.ProfileUpdate{Name: "R", Category: "x"})
	assert.ErrorIs(t, err, boom)
}

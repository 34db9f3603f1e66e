package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mishkan-app/backend/internal/application/services"
	"github.com/mishkan-app/backend/internal/domain/entities"
	"github.com/mishkan-app/backend/internal/domain/repositories"
	apperrors "github.com/mishkan-app/backend/pkg/errors"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestSettingsService_Get_DefaultsWhenMissing(t *testing.T) {
	service := services.NewSettingsService(newMemoryStore())

	settings, err := service.Get(context.Background(), "dev-1")

	assert.NoError(t, err)
	assert.Equal(t, entities.DefaultSettings(), settings)
}

func TestSettingsService_Get_DefaultsWhenMalformed(t *testing.T) {
	store := newMemoryStore()
	_ = store.Set(context.Background(), "dev-1", repositories.DocumentSettings, []byte("{not json"))
	service := services.NewSettingsService(store)

	settings, err := service.Get(context.Background(), "dev-1")

	assert.NoError(t, err)
	assert.Equal(t, entities.DefaultSettings(), settings)
}

func TestSettingsService_Update_PersistsPatchedFields(t *testing.T) {
	store := newMemoryStore()
	service := services.NewSettingsService(store)

	updated, err := service.Update(context.Background(), "dev-1", services.SettingsPatch{
		Nusach:   strPtr("Хабад"),
		DarkMode: boolPtr(true),
	})

	assert.NoError(t, err)
	assert.Equal(t, entities.NusachChabad, updated.Nusach)
	assert.True(t, updated.DarkMode)
	assert.Equal(t, entities.KashrutGlatt, updated.KashrutLevel)
	assert.True(t, updated.Notifications)

	reloaded, err := service.Get(context.Background(), "dev-1")
	assert.NoError(t, err)
	assert.Equal(t, updated, reloaded)
}

func TestSettingsService_Update_RejectsUnknownKashrut(t *testing.T) {
	service := services.NewSettingsService(newMemoryStore())

	_, err := service.Update(context.Background(), "dev-1", services.SettingsPatch{
		KashrutLevel: strPtr("Treif"),
	})

	assert.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestSettingsService_Reset_DeletesAllDocuments(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	service := services.NewSettingsService(store)

	_, err := service.Update(ctx, "dev-1", services.SettingsPatch{DarkMode: boolPtr(true)})
	assert.NoError(t, err)
	assert.NoError(t, service.MarkOnboardingSeen(ctx, "dev-1"))
	_ = store.Set(ctx, "dev-1", repositories.DocumentItinerary, []byte(`{"sites":[]}`))

	assert.NoError(t, service.Reset(ctx, "dev-1"))

	settings, err := service.Get(ctx, "dev-1")
	assert.NoError(t, err)
	assert.Equal(t, entities.DefaultSettings(), settings)

	seen, err := service.OnboardingSeen(ctx, "dev-1")
	assert.NoError(t, err)
	assert.False(t, seen)

	_, err = store.Get(ctx, "dev-1", repositories.DocumentItinerary)
	assert.ErrorIs(t, err, repositories.ErrDocumentNotFound)
}

func TestSettingsService_Onboarding_RoundTrip(t *testing.T) {
	ctx := context.Background()
	service := services.NewSettingsService(newMemoryStore())

	seen, err := service.OnboardingSeen(ctx, "dev-1")
	assert.NoError(t, err)
	assert.False(t, seen)

	assert.NoError(t, service.MarkOnboardingSeen(ctx, "dev-1"))

	seen, err = service.OnboardingSeen(ctx, "dev-1")
	assert.NoError(t, err)
	assert.True(t, seen)
}

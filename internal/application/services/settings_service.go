package services

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/mishkan-app/backend/internal/domain/entities"
	"github.com/mishkan-app/backend/internal/domain/repositories"
	"github.com/mishkan-app/backend/internal/infrastructure/observability"
	apperrors "github.com/mishkan-app/backend/pkg/errors"
)

// SettingsService handles traveler preference documents
type SettingsService struct {
	store repositories.DocumentStore
}

// NewSettingsService creates a new settings service
func NewSettingsService(store repositories.DocumentStore) *SettingsService {
	return &SettingsService{store: store}
}

// SettingsPatch carries the fields a settings update may change. Nil fields
// are left untouched.
type SettingsPatch struct {
	KashrutLevel  *string `json:"kashrutLevel,omitempty"`
	Nusach        *string `json:"nusach,omitempty"`
	Notifications *bool   `json:"notifications,omitempty"`
	DarkMode      *bool   `json:"darkMode,omitempty"`
}

// Get returns the device's settings. A missing or unreadable document
// yields defaults; storage failures are the only surfaced errors.
func (s *SettingsService) Get(ctx context.Context, deviceID string) (entities.AppSettings, error) {
	data, err := s.store.Get(ctx, deviceID, repositories.DocumentSettings)
	if err != nil {
		if errors.Is(err, repositories.ErrDocumentNotFound) {
			return entities.DefaultSettings(), nil
		}
		return entities.AppSettings{}, apperrors.NewInternalError("failed to load settings", err)
	}

	var settings entities.AppSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Str("device_id", deviceID).
			Msg("Stored settings document is malformed, using defaults")
		return entities.DefaultSettings(), nil
	}

	return settings.Normalize(), nil
}

// Update applies a patch to the device's settings and persists the result.
// Out-of-set kashrut or nusach values are rejected before anything is written.
func (s *SettingsService) Update(ctx context.Context, deviceID string, patch SettingsPatch) (entities.AppSettings, error) {
	settings, err := s.Get(ctx, deviceID)
	if err != nil {
		return entities.AppSettings{}, err
	}

	if patch.KashrutLevel != nil {
		level := entities.KashrutLevel(*patch.KashrutLevel)
		if !level.IsValid() {
			return entities.AppSettings{}, apperrors.NewValidationError("unknown kashrut level: " + *patch.KashrutLevel)
		}
		settings.KashrutLevel = level
	}
	if patch.Nusach != nil {
		nusach := entities.Nusach(*patch.Nusach)
		if !nusach.IsValid() {
			return entities.AppSettings{}, apperrors.NewValidationError("unknown nusach: " + *patch.Nusach)
		}
		settings.Nusach = nusach
	}
	if patch.Notifications != nil {
		settings.Notifications = *patch.Notifications
	}
	if patch.DarkMode != nil {
		settings.DarkMode = *patch.DarkMode
	}

	data, err := json.Marshal(settings)
	if err != nil {
		return entities.AppSettings{}, apperrors.NewInternalError("failed to encode settings", err)
	}
	if err := s.store.Set(ctx, deviceID, repositories.DocumentSettings, data); err != nil {
		return entities.AppSettings{}, apperrors.NewInternalError("failed to save settings", err)
	}

	return settings, nil
}

// Reset deletes every document the device owns, returning it to a
// first-launch state.
func (s *SettingsService) Reset(ctx context.Context, deviceID string) error {
	for _, name := range []string{
		repositories.DocumentSettings,
		repositories.DocumentItinerary,
		repositories.DocumentOnboarding,
	} {
		if err := s.store.Delete(ctx, deviceID, name); err != nil {
			return apperrors.NewInternalError("failed to reset "+name, err)
		}
	}
	return nil
}

// OnboardingSeen reports whether the device has dismissed the install guide
func (s *SettingsService) OnboardingSeen(ctx context.Context, deviceID string) (bool, error) {
	data, err := s.store.Get(ctx, deviceID, repositories.DocumentOnboarding)
	if err != nil {
		if errors.Is(err, repositories.ErrDocumentNotFound) {
			return false, nil
		}
		return false, apperrors.NewInternalError("failed to load onboarding flag", err)
	}

	var seen bool
	if err := json.Unmarshal(data, &seen); err != nil {
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Str("device_id", deviceID).
			Msg("Stored onboarding flag is malformed, treating as unseen")
		return false, nil
	}
	return seen, nil
}

// MarkOnboardingSeen records that the install guide was dismissed
func (s *SettingsService) MarkOnboardingSeen(ctx context.Context, deviceID string) error {
	data, _ := json.Marshal(true)
	if err := s.store.Set(ctx, deviceID, repositories.DocumentOnboarding, data); err != nil {
		return apperrors.NewInternalError("failed to save onboarding flag", err)
	}
	return nil
}

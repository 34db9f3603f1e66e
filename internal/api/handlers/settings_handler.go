package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mishkan-app/backend/internal/application/services"
	"github.com/mishkan-app/backend/internal/domain/entities"
)

// PreferencesService is the settings surface the settings handler depends on
type PreferencesService interface {
	Get(ctx context.Context, deviceID string) (entities.AppSettings, error)
	Update(ctx context.Context, deviceID string, patch services.SettingsPatch) (entities.AppSettings, error)
	Reset(ctx context.Context, deviceID string) error
	OnboardingSeen(ctx context.Context, deviceID string) (bool, error)
	MarkOnboardingSeen(ctx context.Context, deviceID string) error
}

// SettingsHandler handles preference HTTP requests
type SettingsHandler struct {
	settings PreferencesService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settings PreferencesService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// GetSettings handles GET /api/settings
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.Get(r.Context(), deviceID(r))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, settings)
}

type updateSettingRequest struct {
	Value json.RawMessage `json:"value"`
}

// UpdateSetting handles PUT /api/settings/{key}. Each field updates
// independently; the response acknowledges the save.
func (h *SettingsHandler) UpdateSetting(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if key == "" {
		respondWithError(w, http.StatusBadRequest, "setting key is required")
		return
	}

	var req updateSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	patch, ok := patchForKey(key, req.Value)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "unknown setting: "+key)
		return
	}

	settings, err := h.settings.Update(r.Context(), deviceID(r), patch)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"saved":    true,
		"settings": settings,
	})
}

// ResetSettings handles POST /api/settings/reset
func (h *SettingsHandler) ResetSettings(w http.ResponseWriter, r *http.Request) {
	if err := h.settings.Reset(r.Context(), deviceID(r)); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"reset":    true,
		"settings": entities.DefaultSettings(),
	})
}

// GetOnboarding handles GET /api/settings/onboarding
func (h *SettingsHandler) GetOnboarding(w http.ResponseWriter, r *http.Request) {
	seen, err := h.settings.OnboardingSeen(r.Context(), deviceID(r))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]bool{"seen": seen})
}

// MarkOnboarding handles POST /api/settings/onboarding
func (h *SettingsHandler) MarkOnboarding(w http.ResponseWriter, r *http.Request) {
	if err := h.settings.MarkOnboardingSeen(r.Context(), deviceID(r)); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]bool{"seen": true})
}

// patchForKey builds a single-field patch from the JSON value of a
// PUT /api/settings/{key} request
func patchForKey(key string, value json.RawMessage) (services.SettingsPatch, bool) {
	var patch services.SettingsPatch
	switch key {
	case "kashrutLevel":
		var v string
		if err := json.Unmarshal(value, &v); err != nil {
			return patch, false
		}
		patch.KashrutLevel = &v
	case "nusach":
		var v string
		if err := json.Unmarshal(value, &v); err != nil {
			return patch, false
		}
		patch.Nusach = &v
	case "notifications":
		var v bool
		if err := json.Unmarshal(value, &v); err != nil {
			return patch, false
		}
		patch.Notifications = &v
	case "darkMode":
		var v bool
		if err := json.Unmarshal(value, &v); err != nil {
			return patch, false
		}
		patch.DarkMode = &v
	default:
		return patch, false
	}
	return patch, true
}

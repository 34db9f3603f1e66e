package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mishkan-app/backend/internal/domain/entities"
)

// PlannerService is the itinerary surface the planner handler depends on
type PlannerService interface {
	Get(ctx context.Context, deviceID string) (entities.Itinerary, error)
	Add(ctx context.Context, deviceID string, site entities.Site) (entities.Itinerary, bool, error)
	Remove(ctx context.Context, deviceID, siteID string) (entities.Itinerary, bool, error)
	Clear(ctx context.Context, deviceID string) error
	Share(ctx context.Context, deviceID string) (string, error)
}

// PlannerHandler handles itinerary HTTP requests
type PlannerHandler struct {
	planner PlannerService
}

// NewPlannerHandler creates a new planner handler
func NewPlannerHandler(planner PlannerService) *PlannerHandler {
	return &PlannerHandler{planner: planner}
}

// GetItinerary handles GET /api/planner
func (h *PlannerHandler) GetItinerary(w http.ResponseWriter, r *http.Request) {
	itinerary, err := h.planner.Get(r.Context(), deviceID(r))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, itineraryPayload(itinerary))
}

// AddSite handles POST /api/planner/sites
func (h *PlannerHandler) AddSite(w http.ResponseWriter, r *http.Request) {
	var site entities.Site
	if err := json.NewDecoder(r.Body).Decode(&site); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	itinerary, added, err := h.planner.Add(r.Context(), deviceID(r), site)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	payload := itineraryPayload(itinerary)
	payload["added"] = added
	respondWithJSON(w, http.StatusOK, payload)
}

// RemoveSite handles DELETE /api/planner/sites/{id}
func (h *PlannerHandler) RemoveSite(w http.ResponseWriter, r *http.Request) {
	siteID := r.PathValue("id")
	if siteID == "" {
		respondWithError(w, http.StatusBadRequest, "site ID is required")
		return
	}

	itinerary, removed, err := h.planner.Remove(r.Context(), deviceID(r), siteID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	payload := itineraryPayload(itinerary)
	payload["removed"] = removed
	respondWithJSON(w, http.StatusOK, payload)
}

// ClearItinerary handles DELETE /api/planner
func (h *PlannerHandler) ClearItinerary(w http.ResponseWriter, r *http.Request) {
	if err := h.planner.Clear(r.Context(), deviceID(r)); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"sites": []entities.Site{},
		"count": 0,
	})
}

// Share handles GET /api/planner/share
func (h *PlannerHandler) Share(w http.ResponseWriter, r *http.Request) {
	text, err := h.planner.Share(r.Context(), deviceID(r))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{
		"text": text,
	})
}

func itineraryPayload(itinerary entities.Itinerary) map[string]interface{} {
	sites := itinerary.Sites
	if sites == nil {
		sites = []entities.Site{}
	}
	return map[string]interface{}{
		"sites": sites,
		"count": len(sites),
	}
}

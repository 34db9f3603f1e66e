package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/mishkan-app/backend/internal/domain/entities"
)

// SearchService is the search surface the explore handler depends on
type SearchService interface {
	Search(ctx context.Context, deviceID, query string, loc *entities.Location) ([]entities.Site, error)
	Featured() []entities.Site
	Results(deviceID string) (string, []entities.Site)
	Suggest(ctx context.Context, query string, limit int) ([]entities.Site, error)
}

// ExploreHandler handles discovery-related HTTP requests
type ExploreHandler struct {
	search SearchService
}

// NewExploreHandler creates a new explore handler
func NewExploreHandler(search SearchService) *ExploreHandler {
	return &ExploreHandler{search: search}
}

type searchRequest struct {
	Query    string             `json:"query"`
	Location *entities.Location `json:"location,omitempty"`
}

// Search handles POST /api/explore/search
func (h *ExploreHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sites, err := h.search.Search(r.Context(), deviceID(r), req.Query, req.Location)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	if sites == nil {
		sites = []entities.Site{}
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"query":      req.Query,
		"sites":      sites,
		"count":      len(sites),
		"no_results": len(sites) == 0,
	})
}

// Featured handles GET /api/explore/featured
func (h *ExploreHandler) Featured(w http.ResponseWriter, r *http.Request) {
	sites := h.search.Featured()
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"sites": sites,
		"count": len(sites),
	})
}

// Results handles GET /api/explore/results
func (h *ExploreHandler) Results(w http.ResponseWriter, r *http.Request) {
	query, sites := h.search.Results(deviceID(r))
	if sites == nil {
		sites = []entities.Site{}
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"query": query,
		"sites": sites,
		"count": len(sites),
	})
}

// Suggest handles GET /api/explore/suggest
func (h *ExploreHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	sites, err := h.search.Suggest(r.Context(), query, limit)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	if sites == nil {
		sites = []entities.Site{}
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"sites": sites,
		"count": len(sites),
	})
}

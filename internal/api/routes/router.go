package routes

import (
	"encoding/json"
	"net/http"

	"github.com/mishkan-app/backend/internal/api/handlers"
	"github.com/mishkan-app/backend/internal/api/middleware"
	"github.com/mishkan-app/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	exploreHandler     *handlers.ExploreHandler
	plannerHandler     *handlers.PlannerHandler
	chatHandler        *handlers.ChatHandler
	settingsHandler    *handlers.SettingsHandler
	geolocationHandler *handlers.GeolocationHandler
	sseHandler         *handlers.SSEHandler

	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	exploreHandler *handlers.ExploreHandler,
	plannerHandler *handlers.PlannerHandler,
	chatHandler *handlers.ChatHandler,
	settingsHandler *handlers.SettingsHandler,
	geolocationHandler *handlers.GeolocationHandler,
	sseHandler *handlers.SSEHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:                http.NewServeMux(),
		exploreHandler:     exploreHandler,
		plannerHandler:     plannerHandler,
		chatHandler:        chatHandler,
		settingsHandler:    settingsHandler,
		geolocationHandler: geolocationHandler,
		sseHandler:         sseHandler,
		cacheMiddleware:    cacheMiddleware,
		metrics:            metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Explore endpoints
	r.mux.HandleFunc("POST /api/explore/search", r.exploreHandler.Search)
	r.mux.HandleFunc("GET /api/explore/featured", r.exploreHandler.Featured)
	r.mux.HandleFunc("GET /api/explore/results", r.exploreHandler.Results)
	r.mux.HandleFunc("GET /api/explore/suggest", r.exploreHandler.Suggest)
	r.mux.HandleFunc("GET /api/geolocation", r.geolocationHandler.Locate)

	// Planner endpoints
	r.mux.HandleFunc("GET /api/planner", r.plannerHandler.GetItinerary)
	r.mux.HandleFunc("POST /api/planner/sites", r.plannerHandler.AddSite)
	r.mux.HandleFunc("DELETE /api/planner/sites/{id}", r.plannerHandler.RemoveSite)
	r.mux.HandleFunc("DELETE /api/planner", r.plannerHandler.ClearItinerary)
	r.mux.HandleFunc("GET /api/planner/share", r.plannerHandler.Share)
	if r.sseHandler != nil {
		r.mux.HandleFunc("GET /api/planner/events", r.sseHandler.StreamPlannerUpdates)
	}

	// Chat endpoints
	r.mux.HandleFunc("GET /api/chat/{session}/messages", r.chatHandler.GetMessages)
	r.mux.HandleFunc("POST /api/chat/{session}/messages", r.chatHandler.SendMessage)

	// Settings endpoints
	r.mux.HandleFunc("GET /api/settings", r.settingsHandler.GetSettings)
	r.mux.HandleFunc("PUT /api/settings/{key}", r.settingsHandler.UpdateSetting)
	r.mux.HandleFunc("POST /api/settings/reset", r.settingsHandler.ResetSettings)
	r.mux.HandleFunc("GET /api/settings/onboarding", r.settingsHandler.GetOnboarding)
	r.mux.HandleFunc("POST /api/settings/onboarding", r.settingsHandler.MarkOnboarding)

	// Unknown API paths answer JSON, not the default text 404
	r.mux.HandleFunc("/api/", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "not found"})
	})

	// Apply middleware in reverse order (last middleware wraps first).
	// CORS must be outermost so cached responses also get CORS headers.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}

package handlers

import (
	"net"
	"net/http"
	"strings"

	"github.com/mishkan-app/backend/internal/domain/providers"
	"github.com/mishkan-app/backend/internal/infrastructure/observability"
)

// GeolocationHandler resolves approximate coordinates from the caller's IP
type GeolocationHandler struct {
	provider providers.GeolocationProvider
}

// NewGeolocationHandler creates a new geolocation handler
func NewGeolocationHandler(provider providers.GeolocationProvider) *GeolocationHandler {
	return &GeolocationHandler{provider: provider}
}

// Locate handles GET /api/geolocation. Location is a nice-to-have for search
// bias: any failure degrades silently to 204 and the client searches without
// coordinates.
func (h *GeolocationHandler) Locate(w http.ResponseWriter, r *http.Request) {
	if h.provider == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	ip := clientIP(r)
	if ip == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	location, err := h.provider.Locate(r.Context(), ip)
	if err != nil {
		observability.LoggerFromContext(r.Context()).Debug().
			Err(err).
			Str("ip", ip).
			Msg("Geolocation lookup failed")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	respondWithJSON(w, http.StatusOK, location)
}

// clientIP extracts the originating client IP, preferring proxy headers
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

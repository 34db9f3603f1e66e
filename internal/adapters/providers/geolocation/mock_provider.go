package geolocation

import (
	"context"

	"github.com/mishkan-app/backend/internal/domain/entities"
	"github.com/mishkan-app/backend/internal/domain/providers"
)

// MockGeolocationProvider implements a mock geolocation provider for
// development and testing. Every lookup resolves to central Moscow, the
// same default center the client falls back to.
type MockGeolocationProvider struct{}

// NewMockGeolocationProvider creates a new mock geolocation provider
func NewMockGeolocationProvider() providers.GeolocationProvider {
	return &MockGeolocationProvider{}
}

// Locate resolves an approximate location for a client IP (mock implementation)
func (m *MockGeolocationProvider) Locate(ctx context.Context, ip string) (*entities.Location, error) {
	return &entities.Location{Latitude: 55.7558, Longitude: 37.6173}, nil
}

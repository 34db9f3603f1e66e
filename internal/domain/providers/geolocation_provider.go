package providers

import (
	"context"

	"github.com/mishkan-app/backend/internal/domain/entities"
)

// GeolocationProvider resolves an approximate location for a client IP.
// Location is best-effort everywhere it is used: callers must degrade
// silently when lookup fails.
type GeolocationProvider interface {
	Locate(ctx context.Context, ip string) (*entities.Location, error)
}

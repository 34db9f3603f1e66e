package providers

import (
	"context"
	"errors"

	"github.com/mishkan-app/backend/internal/domain/entities"
)

// ErrSiteSearchUnauthorized indicates the collaborator rejected our credentials
var ErrSiteSearchUnauthorized = errors.New("site search unauthorized")

// SiteSearchProvider abstracts the generative search collaborator: given a
// free-text query, optional coordinates and the traveler's preferences it
// returns fully-populated Site records. Implementations must treat a
// non-list or unparsable response as zero results, never as an error.
type SiteSearchProvider interface {
	SearchSites(ctx context.Context, query string, loc *entities.Location, prefs entities.AppSettings) ([]entities.Site, error)
}

package repositories

import (
	"context"

	"github.com/mishkan-app/backend/internal/domain/entities"
)

// SiteIndexRepository indexes discovered sites for typeahead suggestions.
// Indexing is best effort: a failed write is logged, never surfaced.
type SiteIndexRepository interface {
	// Index upserts sites into the index
	Index(ctx context.Context, sites []entities.Site) error

	// Suggest returns sites matching a partial query
	Suggest(ctx context.Context, query string, limit int) ([]entities.Site, error)
}

package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/mishkan-app/backend/internal/domain/entities"
	"github.com/mishkan-app/backend/internal/domain/providers"
	"github.com/mishkan-app/backend/internal/domain/repositories"
	"github.com/mishkan-app/backend/internal/infrastructure/observability"
	apperrors "github.com/mishkan-app/backend/pkg/errors"
)

const defaultSuggestLimit = 8

// searchState tracks the last completed search per device. The sequence
// number orders overlapping requests: only the newest request may overwrite
// the stored results, so a slow early response can never clobber a fast
// later one.
type searchState struct {
	seq     uint64
	query   string
	results []entities.Site
}

// SearchService orchestrates generative site discovery
type SearchService struct {
	provider providers.SiteSearchProvider
	settings *SettingsService
	index    repositories.SiteIndexRepository

	mu     sync.Mutex
	states map[string]*searchState
}

// NewSearchService creates a new search service. The index repository is
// optional; without one, suggestions are unavailable.
func NewSearchService(provider providers.SiteSearchProvider, settings *SettingsService, index repositories.SiteIndexRepository) *SearchService {
	return &SearchService{
		provider: provider,
		settings: settings,
		index:    index,
		states:   make(map[string]*searchState),
	}
}

// Search runs a discovery query for a device. Zero results is a valid
// outcome; a collaborator failure surfaces as an external error and leaves
// the previously stored results untouched.
func (s *SearchService) Search(ctx context.Context, deviceID, query string, loc *entities.Location) ([]entities.Site, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.NewValidationError("query must not be empty")
	}
	if s.provider == nil {
		return nil, apperrors.NewExternalError("site search is not configured", nil)
	}

	prefs := s.preferences(ctx, deviceID)

	s.mu.Lock()
	state, ok := s.states[deviceID]
	if !ok {
		state = &searchState{}
		s.states[deviceID] = state
	}
	state.seq++
	seq := state.seq
	s.mu.Unlock()

	sites, err := s.provider.SearchSites(ctx, query, loc, prefs)
	if err != nil {
		if errors.Is(err, providers.ErrSiteSearchUnauthorized) {
			return nil, apperrors.NewExternalError("site search rejected credentials", err)
		}
		return nil, apperrors.NewExternalError("site search unavailable", err)
	}

	s.mu.Lock()
	current := state.seq == seq
	if current {
		state.query = query
		state.results = sites
	}
	s.mu.Unlock()

	if !current {
		observability.LoggerFromContext(ctx).Debug().
			Str("device_id", deviceID).
			Str("query", query).
			Msg("Discarding stale search completion")
	}

	if len(sites) > 0 && s.index != nil {
		if err := s.index.Index(ctx, sites); err != nil {
			observability.LoggerFromContext(ctx).Warn().
				Err(err).
				Int("sites", len(sites)).
				Msg("Failed to index discovered sites")
		}
	}

	return sites, nil
}

// Featured returns the static seed records shown before the first search
func (s *SearchService) Featured() []entities.Site {
	return entities.FeaturedSites()
}

// Results returns the device's last completed search, if any
func (s *SearchService) Results(deviceID string) (string, []entities.Site) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.states[deviceID]
	if !ok {
		return "", nil
	}
	results := make([]entities.Site, len(state.results))
	copy(results, state.results)
	return state.query, results
}

// Suggest returns typeahead matches from previously discovered sites
func (s *SearchService) Suggest(ctx context.Context, query string, limit int) ([]entities.Site, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.NewValidationError("query must not be empty")
	}
	if limit <= 0 {
		limit = defaultSuggestLimit
	}
	if s.index == nil {
		return []entities.Site{}, nil
	}

	sites, err := s.index.Suggest(ctx, query, limit)
	if err != nil {
		return nil, apperrors.NewInternalError("suggestion lookup failed", err)
	}
	return sites, nil
}

// preferences loads the device's settings for collaborator grounding. A
// storage failure falls back to defaults rather than blocking the search.
func (s *SearchService) preferences(ctx context.Context, deviceID string) entities.AppSettings {
	if s.settings == nil {
		return entities.DefaultSettings()
	}
	prefs, err := s.settings.Get(ctx, deviceID)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Str("device_id", deviceID).
			Msg("Failed to load settings for search, using defaults")
		return entities.DefaultSettings()
	}
	return prefs
}

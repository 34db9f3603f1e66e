package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mishkan-app/backend/internal/domain/entities"
	"github.com/mishkan-app/backend/internal/domain/providers"
	"github.com/mishkan-app/backend/internal/domain/repositories"
	"github.com/mishkan-app/backend/internal/infrastructure/observability"
	apperrors "github.com/mishkan-app/backend/pkg/errors"
)

// ItineraryService handles the per-device route planner. Every mutation is
// persisted whole-document and announced on the event bus so connected
// clients can refresh.
type ItineraryService struct {
	store repositories.DocumentStore
	bus   providers.EventBus
}

// NewItineraryService creates a new itinerary service. The event bus is
// optional; without one, mutations are silent.
func NewItineraryService(store repositories.DocumentStore, bus providers.EventBus) *ItineraryService {
	return &ItineraryService{
		store: store,
		bus:   bus,
	}
}

// Get returns the device's itinerary. A missing or unreadable document
// yields an empty itinerary.
func (s *ItineraryService) Get(ctx context.Context, deviceID string) (entities.Itinerary, error) {
	data, err := s.store.Get(ctx, deviceID, repositories.DocumentItinerary)
	if err != nil {
		if errors.Is(err, repositories.ErrDocumentNotFound) {
			return entities.Itinerary{}, nil
		}
		return entities.Itinerary{}, apperrors.NewInternalError("failed to load itinerary", err)
	}

	var itinerary entities.Itinerary
	if err := json.Unmarshal(data, &itinerary); err != nil {
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Str("device_id", deviceID).
			Msg("Stored itinerary document is malformed, starting empty")
		return entities.Itinerary{}, nil
	}
	return itinerary, nil
}

// Add appends a site to the itinerary. Adding a site whose id is already
// present changes nothing and is not an error.
func (s *ItineraryService) Add(ctx context.Context, deviceID string, site entities.Site) (entities.Itinerary, bool, error) {
	if site.ID == "" || site.Name == "" {
		return entities.Itinerary{}, false, apperrors.NewValidationError("site id and name are required")
	}
	if !site.Category.IsValid() {
		site.Category = entities.CategoryHeritage
	}

	itinerary, err := s.Get(ctx, deviceID)
	if err != nil {
		return entities.Itinerary{}, false, err
	}

	if !itinerary.Add(site) {
		return itinerary, false, nil
	}

	if err := s.save(ctx, deviceID, itinerary); err != nil {
		return entities.Itinerary{}, false, err
	}

	s.publish(ctx, deviceID, entities.PlannerEventSiteAdded, site.ID, itinerary.Len())
	return itinerary, true, nil
}

// Remove drops a site from the itinerary. Removing an absent id changes
// nothing and is not an error.
func (s *ItineraryService) Remove(ctx context.Context, deviceID, siteID string) (entities.Itinerary, bool, error) {
	itinerary, err := s.Get(ctx, deviceID)
	if err != nil {
		return entities.Itinerary{}, false, err
	}

	if !itinerary.Remove(siteID) {
		return itinerary, false, nil
	}

	if err := s.save(ctx, deviceID, itinerary); err != nil {
		return entities.Itinerary{}, false, err
	}

	s.publish(ctx, deviceID, entities.PlannerEventSiteRemoved, siteID, itinerary.Len())
	return itinerary, true, nil
}

// Clear empties the itinerary unconditionally
func (s *ItineraryService) Clear(ctx context.Context, deviceID string) error {
	itinerary := entities.Itinerary{}
	if err := s.save(ctx, deviceID, itinerary); err != nil {
		return err
	}

	s.publish(ctx, deviceID, entities.PlannerEventCleared, "", 0)
	return nil
}

// Share renders the itinerary as shareable plain text. There is nothing to
// share in an empty itinerary, so that is a conflict.
func (s *ItineraryService) Share(ctx context.Context, deviceID string) (string, error) {
	itinerary, err := s.Get(ctx, deviceID)
	if err != nil {
		return "", err
	}
	if itinerary.Len() == 0 {
		return "", apperrors.NewConflictError("itinerary is empty")
	}
	return itinerary.ShareText(), nil
}

func (s *ItineraryService) save(ctx context.Context, deviceID string, itinerary entities.Itinerary) error {
	data, err := json.Marshal(itinerary)
	if err != nil {
		return apperrors.NewInternalError("failed to encode itinerary", err)
	}
	if err := s.store.Set(ctx, deviceID, repositories.DocumentItinerary, data); err != nil {
		return apperrors.NewInternalError("failed to save itinerary", err)
	}
	return nil
}

// publish announces a mutation on the device's planner channel. Delivery is
// best effort; a failed publish is logged, never surfaced.
func (s *ItineraryService) publish(ctx context.Context, deviceID string, eventType entities.PlannerEventType, siteID string, count int) {
	if s.bus == nil {
		return
	}

	event := &entities.PlannerEvent{
		ID:        uuid.New().String(),
		DeviceID:  deviceID,
		Type:      eventType,
		SiteID:    siteID,
		SiteCount: count,
		Timestamp: time.Now(),
	}

	if err := s.bus.Publish(ctx, providers.GetPlannerChannel(deviceID), event); err != nil {
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Str("device_id", deviceID).
			Str("event_type", string(eventType)).
			Msg("Failed to publish planner event")
	}
}

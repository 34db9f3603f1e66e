package providers

import (
	"context"

	"github.com/mishkan-app/backend/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to
// itinerary change events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.PlannerEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.PlannerEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannelPlannerPrefix is the prefix for per-device planner channels
const EventChannelPlannerPrefix = "planner:"

// GetPlannerChannel returns the channel name for a device's planner
func GetPlannerChannel(deviceID string) string {
	return EventChannelPlannerPrefix + deviceID
}

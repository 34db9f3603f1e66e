package entities

import "time"

// PlannerEventType identifies what changed in an itinerary
type PlannerEventType string

const (
	PlannerEventSiteAdded   PlannerEventType = "site_added"
	PlannerEventSiteRemoved PlannerEventType = "site_removed"
	PlannerEventCleared     PlannerEventType = "cleared"
)

// PlannerEvent is published on every itinerary mutation so connected
// clients can refresh the planner view in real time.
type PlannerEvent struct {
	ID        string           `json:"id"`
	DeviceID  string           `json:"device_id"`
	Type      PlannerEventType `json:"type"`
	SiteID    string           `json:"site_id,omitempty"`
	SiteCount int              `json:"site_count"`
	Timestamp time.Time        `json:"timestamp"`
}

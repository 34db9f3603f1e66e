package repositories

import (
	"context"
	"errors"
)

// Document names. Each device owns one independent JSON document per name;
// there is no transactional guarantee across documents.
const (
	DocumentItinerary  = "planner"
	DocumentSettings   = "settings"
	DocumentOnboarding = "guide_shown"
)

// ErrDocumentNotFound is returned when a device has no stored document
// under the requested name.
var ErrDocumentNotFound = errors.New("document not found")

// DocumentStore persists small string-keyed JSON documents per device.
// There is no schema versioning: readers must treat a missing document as
// defaults and a malformed one as defaults too (logging only).
type DocumentStore interface {
	// Get returns the raw document, or ErrDocumentNotFound
	Get(ctx context.Context, deviceID, name string) ([]byte, error)

	// Set overwrites the whole document
	Set(ctx context.Context, deviceID, name string, data []byte) error

	// Delete removes the document; deleting an absent document is a no-op
	Delete(ctx context.Context, deviceID, name string) error
}

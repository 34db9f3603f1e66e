package providers

import (
	"context"
	"errors"

	"github.com/mishkan-app/backend/internal/domain/entities"
)

// ErrAssistantUnauthorized indicates the collaborator rejected our credentials
var ErrAssistantUnauthorized = errors.New("assistant unauthorized")

// AssistantProvider abstracts the conversational collaborator. The
// collaborator is stateless from our point of view: every call carries the
// full prior history plus a persona derived from current preferences.
type AssistantProvider interface {
	Reply(ctx context.Context, history []entities.ChatTurn, message string, prefs entities.AppSettings) (string, error)
}

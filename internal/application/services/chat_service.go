package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mishkan-app/backend/internal/domain/entities"
	"github.com/mishkan-app/backend/internal/domain/providers"
	"github.com/mishkan-app/backend/internal/infrastructure/observability"
	apperrors "github.com/mishkan-app/backend/pkg/errors"
)

const defaultSessionTTL = 2 * time.Hour

// chatSession holds one conversation. Histories are append-only and live in
// memory only; an idle session is dropped after the TTL.
type chatSession struct {
	messages []entities.ChatMessage
	busy     bool
	touched  time.Time
}

// ChatService orchestrates conversations with the assistant collaborator.
// One request per session may be in flight at a time.
type ChatService struct {
	assistant providers.AssistantProvider
	settings  *SettingsService
	ttl       time.Duration

	mu       sync.Mutex
	sessions map[string]*chatSession
}

// NewChatService creates a new chat service
func NewChatService(assistant providers.AssistantProvider, settings *SettingsService) *ChatService {
	return &ChatService{
		assistant: assistant,
		settings:  settings,
		ttl:       defaultSessionTTL,
		sessions:  make(map[string]*chatSession),
	}
}

// History returns the session's message history, creating the session with
// the assistant greeting when it does not exist yet.
func (s *ChatService) History(ctx context.Context, sessionID string) []entities.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.session(sessionID)
	return copyMessages(session.messages)
}

// Send appends a user message and asks the collaborator for a reply. While a
// reply is pending the session is busy and further sends are rejected. The
// user message stays in the history even when the collaborator fails.
func (s *ChatService) Send(ctx context.Context, sessionID, content string) ([]entities.ChatMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("message must not be empty")
	}
	if s.assistant == nil {
		return nil, apperrors.NewExternalError("assistant is not configured", nil)
	}

	s.mu.Lock()
	session := s.session(sessionID)
	if session.busy {
		s.mu.Unlock()
		return nil, apperrors.NewBusyError("a reply is already pending for this session")
	}
	session.busy = true
	history := entities.Turns(session.messages)
	session.messages = append(session.messages, entities.ChatMessage{
		ID:        uuid.New().String(),
		Role:      entities.RoleUser,
		Content:   content,
		CreatedAt: time.Now(),
	})
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		session.busy = false
		session.touched = time.Now()
		s.mu.Unlock()
	}()

	prefs := s.preferences(ctx, sessionID)

	reply, err := s.assistant.Reply(ctx, history, content, prefs)
	if err != nil {
		if errors.Is(err, providers.ErrAssistantUnauthorized) {
			return nil, apperrors.NewExternalError("assistant rejected credentials", err)
		}
		return nil, apperrors.NewExternalError("assistant unavailable", err)
	}
	if strings.TrimSpace(reply) == "" {
		reply = entities.AssistantFallback
	}

	s.mu.Lock()
	session.messages = append(session.messages, entities.ChatMessage{
		ID:        uuid.New().String(),
		Role:      entities.RoleAssistant,
		Content:   reply,
		CreatedAt: time.Now(),
	})
	messages := copyMessages(session.messages)
	s.mu.Unlock()

	return messages, nil
}

// session returns the live session, creating and greeting it if needed.
// Callers must hold the lock. Expired idle sessions are swept on access.
func (s *ChatService) session(sessionID string) *chatSession {
	now := time.Now()
	for id, sess := range s.sessions {
		if id != sessionID && !sess.busy && now.Sub(sess.touched) > s.ttl {
			delete(s.sessions, id)
		}
	}

	session, ok := s.sessions[sessionID]
	if !ok {
		session = &chatSession{
			messages: []entities.ChatMessage{{
				ID:        uuid.New().String(),
				Role:      entities.RoleAssistant,
				Content:   entities.AssistantGreeting,
				CreatedAt: now,
			}},
		}
		s.sessions[sessionID] = session
	}
	session.touched = now
	return session
}

func (s *ChatService) preferences(ctx context.Context, deviceID string) entities.AppSettings {
	if s.settings == nil {
		return entities.DefaultSettings()
	}
	prefs, err := s.settings.Get(ctx, deviceID)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Str("device_id", deviceID).
			Msg("Failed to load settings for chat, using defaults")
		return entities.DefaultSettings()
	}
	return prefs
}

func copyMessages(messages []entities.ChatMessage) []entities.ChatMessage {
	out := make([]entities.ChatMessage, len(messages))
	copy(out, messages)
	return out
}

package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mishkan-app/backend/internal/api/handlers"
	"github.com/mishkan-app/backend/internal/domain/entities"
	apperrors "github.com/mishkan-app/backend/pkg/errors"
)

type stubChatService struct {
	messages []entities.ChatMessage
	err      error
	lastSent string
}

func (s *stubChatService) History(ctx context.Context, sessionID string) []entities.ChatMessage {
	return s.messages
}

func (s *stubChatService) Send(ctx context.Context, sessionID, content string) ([]entities.ChatMessage, error) {
	s.lastSent = content
	if s.err != nil {
		return nil, s.err
	}
	return s.messages, nil
}

func greetingOnly() []entities.ChatMessage {
	return []entities.ChatMessage{{
		ID:        "m-1",
		Role:      entities.RoleAssistant,
		Content:   entities.AssistantGreeting,
		CreatedAt: time.Now(),
	}}
}

func TestChatHandler_GetMessages(t *testing.T) {
	service := &stubChatService{messages: greetingOnly()}
	handler := handlers.NewChatHandler(service)

	req := httptest.NewRequest("GET", "/api/chat/dev-1/messages", nil)
	req.SetPathValue("session", "dev-1")
	w := httptest.NewRecorder()

	handler.GetMessages(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Messages []entities.ChatMessage `json:"messages"`
		Count    int                    `json:"count"`
	}
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, 1, response.Count)
	assert.Equal(t, entities.AssistantGreeting, response.Messages[0].Content)
}

func TestChatHandler_SendMessage_Success(t *testing.T) {
	service := &stubChatService{messages: greetingOnly()}
	handler := handlers.NewChatHandler(service)

	req := httptest.NewRequest("POST", "/api/chat/dev-1/messages", strings.NewReader(`{"message":"Где миньян?"}`))
	req.SetPathValue("session", "dev-1")
	w := httptest.NewRecorder()

	handler.SendMessage(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Где миньян?", service.lastSent)
}

func TestChatHandler_SendMessage_BusyIs409(t *testing.T) {
	service := &stubChatService{err: apperrors.NewBusyError("a reply is already pending for this session")}
	handler := handlers.NewChatHandler(service)

	req := httptest.NewRequest("POST", "/api/chat/dev-1/messages", strings.NewReader(`{"message":"вопрос"}`))
	req.SetPathValue("session", "dev-1")
	w := httptest.NewRecorder()

	handler.SendMessage(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestChatHandler_SendMessage_EmptyIs400(t *testing.T) {
	service := &stubChatService{err: apperrors.NewValidationError("message must not be empty")}
	handler := handlers.NewChatHandler(service)

	req := httptest.NewRequest("POST", "/api/chat/dev-1/messages", strings.NewReader(`{"message":"  "}`))
	req.SetPathValue("session", "dev-1")
	w := httptest.NewRecorder()

	handler.SendMessage(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatHandler_SendMessage_MissingSession(t *testing.T) {
	handler := handlers.NewChatHandler(&stubChatService{})

	req := httptest.NewRequest("POST", "/api/chat//messages", strings.NewReader(`{"message":"вопрос"}`))
	w := httptest.NewRecorder()

	handler.SendMessage(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

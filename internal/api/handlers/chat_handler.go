package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mishkan-app/backend/internal/domain/entities"
)

// ConversationService is the chat surface the chat handler depends on
type ConversationService interface {
	History(ctx context.Context, sessionID string) []entities.ChatMessage
	Send(ctx context.Context, sessionID, content string) ([]entities.ChatMessage, error)
}

// ChatHandler handles assistant conversation HTTP requests
type ChatHandler struct {
	chat ConversationService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chat ConversationService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

type sendMessageRequest struct {
	Message string `json:"message"`
}

// GetMessages handles GET /api/chat/{session}/messages
func (h *ChatHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("session")
	if sessionID == "" {
		respondWithError(w, http.StatusBadRequest, "session ID is required")
		return
	}

	messages := h.chat.History(r.Context(), sessionID)
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"messages": messages,
		"count":    len(messages),
	})
}

// SendMessage handles POST /api/chat/{session}/messages
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("session")
	if sessionID == "" {
		respondWithError(w, http.StatusBadRequest, "session ID is required")
		return
	}

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	messages, err := h.chat.Send(r.Context(), sessionID, req.Message)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"messages": messages,
		"count":    len(messages),
	})
}

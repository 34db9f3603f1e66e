package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mishkan-app/backend/internal/domain/entities"
	"github.com/mishkan-app/backend/internal/domain/providers"
)

type chatRequestMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatChoice struct {
	Message chatRequestMessage `json:"message"`
}

type chatCompletionEnvelope struct {
	Choices []chatChoice `json:"choices"`
}

// Reply sends the conversation to the chat model and returns the assistant
// text. The persona is rebuilt from current preferences on every call; the
// collaborator holds no state between calls.
func (c *Client) Reply(ctx context.Context, history []entities.ChatTurn, message string, prefs entities.AppSettings) (string, error) {
	if err := c.wait(ctx, c.chatModel); err != nil {
		return "", err
	}

	messages := make([]chatRequestMessage, 0, len(history)+2)
	messages = append(messages, chatRequestMessage{
		Role:    "system",
		Content: buildAssistantPersona(prefs),
	})
	for _, turn := range history {
		messages = append(messages, chatRequestMessage{
			Role:    string(turn.Role),
			Content: turn.Content,
		})
	}
	messages = append(messages, chatRequestMessage{
		Role:    string(entities.RoleUser),
		Content: message,
	})

	payload := map[string]interface{}{
		"model":    c.chatModel,
		"messages": messages,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		recordOpenAIMetric(ctx, c.chatModel, 0, time.Since(start), err)
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		recordOpenAIMetric(ctx, c.chatModel, resp.StatusCode, time.Since(start), fmt.Errorf("status %d", resp.StatusCode))
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return "", fmt.Errorf("%w: openai request failed with status %d", providers.ErrAssistantUnauthorized, resp.StatusCode)
		}
		return "", fmt.Errorf("openai request failed with status %d", resp.StatusCode)
	}

	var envelope chatCompletionEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		recordOpenAIMetric(ctx, c.chatModel, resp.StatusCode, time.Since(start), err)
		return "", err
	}

	recordOpenAIMetric(ctx, c.chatModel, resp.StatusCode, time.Since(start), nil)

	if len(envelope.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(envelope.Choices[0].Message.Content), nil
}

package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mishkan-app/backend/internal/domain/entities"
	"github.com/mishkan-app/backend/internal/domain/providers"
	"github.com/mishkan-app/backend/internal/infrastructure/clients/openai"
	"github.com/mishkan-app/backend/pkg/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *openai.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := openai.NewClient(&config.OpenAIConfig{
		APIKey:       "test-key",
		RateLimitRPM: -1, // disable rate limiting in tests
	})
	require.NoError(t, err)
	return client.WithBaseURL(server.URL)
}

func responsesEnvelope(text string) map[string]interface{} {
	return map[string]interface{}{
		"output": []map[string]interface{}{
			{
				"content": []map[string]interface{}{
					{"type": "output_text", "text": text},
				},
			},
		},
	}
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := openai.NewClient(&config.OpenAIConfig{})
	assert.Error(t, err)
}

func TestSearchSites_MapsResultsWithDefaults(t *testing.T) {
	modelText := "Вот что нашлось:\n```json\n" +
		`[{"name":"Большая Хоральная Синагога","category":"Синагоги","address":"Лермонтовский пр., 2","rating":4.9,"latitude":59.92,"longitude":30.29},` +
		`{"description":"Старое еврейское кладбище"}]` + "\n```"

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/responses", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(responsesEnvelope(modelText))
	})

	sites, err := client.SearchSites(context.Background(), "синагога", nil, entities.DefaultSettings())

	require.NoError(t, err)
	require.Len(t, sites, 2)

	first := sites[0]
	assert.True(t, strings.HasPrefix(first.ID, "site-"))
	assert.Equal(t, "Большая Хоральная Синагога", first.Name)
	assert.Equal(t, entities.CategorySynagogue, first.Category)
	assert.Equal(t, 4.9, first.Rating)
	assert.True(t, first.HasCoordinates())
	assert.Equal(t, "Описание уточняется", first.Description)
	assert.Contains(t, first.MapURI, "google.com/maps/search/")
	assert.Contains(t, first.ImageURL, "images.unsplash.com/photo-1500000000000")

	second := sites[1]
	assert.Equal(t, "Место", second.Name)
	assert.Equal(t, "Адрес в поиске", second.Address)
	assert.Equal(t, entities.CategoryHeritage, second.Category)
	assert.Equal(t, 4.5, second.Rating)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Contains(t, second.ImageURL, "photo-1500000000100")
}

func TestSearchSites_NonListResponseIsZeroResults(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(responsesEnvelope("К сожалению, я ничего не нашёл."))
	})

	sites, err := client.SearchSites(context.Background(), "синагога", nil, entities.DefaultSettings())

	assert.NoError(t, err)
	assert.Empty(t, sites)
}

func TestSearchSites_MalformedArrayIsZeroResults(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(responsesEnvelope(`[{"name": broken`))
	})

	sites, err := client.SearchSites(context.Background(), "синагога", nil, entities.DefaultSettings())

	assert.NoError(t, err)
	assert.Empty(t, sites)
}

func TestSearchSites_UnauthorizedIsTypedError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.SearchSites(context.Background(), "синагога", nil, entities.DefaultSettings())

	assert.ErrorIs(t, err, providers.ErrSiteSearchUnauthorized)
}

func TestSearchSites_ServerErrorSurfaces(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.SearchSites(context.Background(), "синагога", nil, entities.DefaultSettings())

	assert.Error(t, err)
}

func TestReply_ReturnsAssistantText(t *testing.T) {
	var gotPayload struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "  Миньян есть в 19:00. "}},
			},
		})
	})

	history := []entities.ChatTurn{
		{Role: entities.RoleAssistant, Content: entities.AssistantGreeting},
	}
	reply, err := client.Reply(context.Background(), history, "Где миньян?", entities.DefaultSettings())

	require.NoError(t, err)
	assert.Equal(t, "Миньян есть в 19:00.", reply)

	// system persona + greeting + new user message
	require.Len(t, gotPayload.Messages, 3)
	assert.Equal(t, "system", gotPayload.Messages[0].Role)
	assert.Contains(t, gotPayload.Messages[0].Content, "Мишкан")
	assert.Equal(t, "user", gotPayload.Messages[2].Role)
	assert.Equal(t, "Где миньян?", gotPayload.Messages[2].Content)
}

func TestReply_EmptyChoicesIsEmptyReply(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	})

	reply, err := client.Reply(context.Background(), nil, "Вопрос", entities.DefaultSettings())

	assert.NoError(t, err)
	assert.Empty(t, reply)
}

func TestReply_UnauthorizedIsTypedError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := client.Reply(context.Background(), nil, "Вопрос", entities.DefaultSettings())

	assert.ErrorIs(t, err, providers.ErrAssistantUnauthorized)
}

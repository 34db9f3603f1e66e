package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mishkan-app/backend/internal/domain/entities"
	"github.com/mishkan-app/backend/internal/domain/providers"
)

// Placeholders for fields the collaborator leaves out. Every Site that
// crosses this boundary is fully populated.
const (
	placeholderName        = "Место"
	placeholderDescription = "Описание уточняется"
	placeholderAddress     = "Адрес в поиске"
	defaultRating          = 4.5
)

var jsonArrayPattern = regexp.MustCompile(`\[[\s\S]*\]`)

type responseContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type responseOutput struct {
	Content []responseContent `json:"content"`
}

type responseEnvelope struct {
	Output []responseOutput `json:"output"`
}

// rawSite mirrors whatever the model decides to emit. Every field is
// optional and untrusted; mapSites fills the gaps.
type rawSite struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Address     string   `json:"address"`
	Rating      *float64 `json:"rating"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Phone       string   `json:"phone"`
	Hours       string   `json:"hours"`
	Cuisine     string   `json:"cuisine"`
	URI         string   `json:"uri"`
}

// SearchSites asks the model for places matching the query, grounded on the
// caller's coordinates and preferences. A response that carries no parsable
// JSON array yields zero results, not an error.
func (c *Client) SearchSites(ctx context.Context, query string, loc *entities.Location, prefs entities.AppSettings) ([]entities.Site, error) {
	if err := c.wait(ctx, c.searchModel); err != nil {
		return nil, err
	}

	payload := map[string]interface{}{
		"model": c.searchModel,
		"input": []map[string]string{
			{"role": "system", "content": siteSearchSystemPrompt},
			{"role": "user", "content": buildSiteSearchUserPrompt(query, loc, prefs)},
		},
		"temperature":       0.1,
		"max_output_tokens": 1500,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/responses", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		recordOpenAIMetric(ctx, c.searchModel, 0, time.Since(start), err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		recordOpenAIMetric(ctx, c.searchModel, resp.StatusCode, time.Since(start), fmt.Errorf("status %d", resp.StatusCode))
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return nil, fmt.Errorf("%w: openai request failed with status %d", providers.ErrSiteSearchUnauthorized, resp.StatusCode)
		}
		return nil, fmt.Errorf("openai request failed with status %d", resp.StatusCode)
	}

	var envelope responseEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		recordOpenAIMetric(ctx, c.searchModel, resp.StatusCode, time.Since(start), err)
		return nil, err
	}

	recordOpenAIMetric(ctx, c.searchModel, resp.StatusCode, time.Since(start), nil)
	return decodeSites(outputText(&envelope)), nil
}

func outputText(envelope *responseEnvelope) string {
	for _, out := range envelope.Output {
		for _, content := range out.Content {
			if content.Type == "output_text" && content.Text != "" {
				return content.Text
			}
		}
	}
	return ""
}

// decodeSites extracts the first JSON array from the model output and maps
// it into fully-populated Site records. Anything unparsable means zero
// results rather than a failure.
func decodeSites(text string) []entities.Site {
	match := jsonArrayPattern.FindString(text)
	if match == "" {
		return nil
	}

	var raw []rawSite
	if err := json.Unmarshal([]byte(match), &raw); err != nil {
		return nil
	}

	return mapSites(raw)
}

func mapSites(raw []rawSite) []entities.Site {
	sites := make([]entities.Site, 0, len(raw))
	for i, r := range raw {
		site := entities.Site{
			ID:          "site-" + uuid.NewString(),
			Name:        r.Name,
			Category:    entities.ParseCategory(r.Category),
			Description: r.Description,
			Address:     r.Address,
			Rating:      defaultRating,
			Latitude:    r.Latitude,
			Longitude:   r.Longitude,
			Phone:       r.Phone,
			Hours:       r.Hours,
			Cuisine:     r.Cuisine,
			MapURI:      r.URI,
		}
		if site.Name == "" {
			site.Name = placeholderName
		}
		if site.Description == "" {
			site.Description = placeholderDescription
		}
		if site.Address == "" {
			site.Address = placeholderAddress
		}
		if r.Rating != nil && *r.Rating > 0 {
			site.Rating = *r.Rating
		}
		if site.MapURI == "" {
			site.MapURI = mapsSearchURI(site.Name, r.Address)
		}
		site.ImageURL = fmt.Sprintf("https://images.unsplash.com/photo-%d?auto=format&fit=crop&w=400&q=60", 1500000000000+i*100)

		sites = append(sites, site)
	}
	return sites
}

func mapsSearchURI(name, address string) string {
	q := name
	if address != "" {
		q += " " + address
	}
	return "https://www.google.com/maps/search/" + url.QueryEscape(strings.TrimSpace(q))
}

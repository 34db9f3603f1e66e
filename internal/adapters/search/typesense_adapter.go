package search

import (
	"context"
	"fmt"
	"time"

	"github.com/mishkan-app/backend/internal/domain/entities"
	"github.com/mishkan-app/backend/internal/domain/repositories"
	tsclient "github.com/mishkan-app/backend/internal/infrastructure/clients/typesense"
	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"
)

const collectionName = tsclient.SitesCollection

// TypesenseAdapter indexes discovered sites for typeahead suggestions
type TypesenseAdapter struct {
	client *tsclient.Client
}

// Ensure TypesenseAdapter implements SiteIndexRepository
var _ repositories.SiteIndexRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// InitSchema ensures the sites collection exists
func (a *TypesenseAdapter) InitSchema(ctx context.Context) error {
	_, err := a.client.Client().Collection(collectionName).Retrieve(ctx)
	if err == nil {
		return nil // Collection exists
	}

	schema := &api.CollectionSchema{
		Name: collectionName,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "name", Type: "string"},
			{Name: "category", Type: "string", Facet: pointer.True()},
			{Name: "description", Type: "string"},
			{Name: "address", Type: "string"},
			{Name: "rating", Type: "float"},
			{Name: "cuisine", Type: "string", Optional: pointer.True()},
			{Name: "latitude", Type: "float", Optional: pointer.True()},
			{Name: "longitude", Type: "float", Optional: pointer.True()},
			{Name: "discovered_at", Type: "int64"},
		},
		DefaultSortingField: pointer.String("discovered_at"),
	}

	_, err = a.client.Client().Collections().Create(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to create typesense collection: %w", err)
	}

	return nil
}

// Index upserts discovered sites into the index
func (a *TypesenseAdapter) Index(ctx context.Context, sites []entities.Site) error {
	for _, site := range sites {
		document := map[string]interface{}{
			"id":            site.ID,
			"name":          site.Name,
			"category":      string(site.Category),
			"description":   site.Description,
			"address":       site.Address,
			"rating":        site.Rating,
			"discovered_at": time.Now().Unix(),
		}
		if site.Cuisine != "" {
			document["cuisine"] = site.Cuisine
		}
		if site.HasCoordinates() {
			document["latitude"] = *site.Latitude
			document["longitude"] = *site.Longitude
		}

		if _, err := a.client.Client().Collection(collectionName).Documents().Upsert(ctx, document); err != nil {
			return fmt.Errorf("failed to index site %s: %w", site.ID, err)
		}
	}

	return nil
}

// Suggest returns indexed sites matching a partial query
func (a *TypesenseAdapter) Suggest(ctx context.Context, query string, limit int) ([]entities.Site, error) {
	if limit <= 0 {
		limit = 10
	}

	searchParams := &api.SearchCollectionParams{
		Q:       pointer.String(query),
		QueryBy: pointer.String("name,description,address"),
		PerPage: pointer.Int(limit),
	}

	result, err := a.client.Client().Collection(collectionName).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, fmt.Errorf("failed to search sites: %w", err)
	}

	sites := []entities.Site{}
	if result.Hits == nil {
		return sites, nil
	}

	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		doc := *hit.Document

		site := entities.Site{
			ID:          stringField(doc, "id"),
			Name:        stringField(doc, "name"),
			Category:    entities.ParseCategory(stringField(doc, "category")),
			Description: stringField(doc, "description"),
			Address:     stringField(doc, "address"),
			Rating:      floatField(doc, "rating"),
			Cuisine:     stringField(doc, "cuisine"),
		}
		if lat, ok := doc["latitude"].(float64); ok {
			if lon, ok := doc["longitude"].(float64); ok {
				site.Latitude = &lat
				site.Longitude = &lon
			}
		}
		sites = append(sites, site)
	}

	return sites, nil
}

func stringField(doc map[string]interface{}, key string) string {
	if v, ok := doc[key].(string); ok {
		return v
	}
	return ""
}

func floatField(doc map[string]interface{}, key string) float64 {
	if v, ok := doc[key].(float64); ok {
		return v
	}
	return 0
}

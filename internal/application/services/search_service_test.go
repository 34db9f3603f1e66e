package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mishkan-app/backend/internal/application/services"
	"github.com/mishkan-app/backend/internal/domain/entities"
	apperrors "github.com/mishkan-app/backend/pkg/errors"
)

func TestSearchService_Search_StoresResults(t *testing.T) {
	provider := &stubSearchProvider{sites: []entities.Site{testSite("s-1", "Синагога")}}
	service := services.NewSearchService(provider, services.NewSettingsService(newMemoryStore()), nil)

	sites, err := service.Search(context.Background(), "dev-1", "синагога в центре", nil)

	assert.NoError(t, err)
	assert.Len(t, sites, 1)

	query, results := service.Results("dev-1")
	assert.Equal(t, "синагога в центре", query)
	assert.Len(t, results, 1)
}

func TestSearchService_Search_RejectsEmptyQuery(t *testing.T) {
	service := services.NewSearchService(&stubSearchProvider{}, nil, nil)

	_, err := service.Search(context.Background(), "dev-1", "   ", nil)

	assert.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestSearchService_Search_ZeroResultsIsNotAnError(t *testing.T) {
	provider := &stubSearchProvider{sites: nil}
	service := services.NewSearchService(provider, nil, nil)

	sites, err := service.Search(context.Background(), "dev-1", "несуществующее", nil)

	assert.NoError(t, err)
	assert.Empty(t, sites)
}

func TestSearchService_Search_FailureKeepsPreviousResults(t *testing.T) {
	ctx := context.Background()
	provider := &stubSearchProvider{sites: []entities.Site{testSite("s-1", "Синагога")}}
	service := services.NewSearchService(provider, nil, nil)

	_, err := service.Search(ctx, "dev-1", "синагога", nil)
	assert.NoError(t, err)

	provider.err = errors.New("upstream down")
	_, err = service.Search(ctx, "dev-1", "другой запрос", nil)

	assert.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExternal))

	query, results := service.Results("dev-1")
	assert.Equal(t, "синагога", query)
	assert.Len(t, results, 1)
}

func TestSearchService_Search_StaleCompletionDiscarded(t *testing.T) {
	ctx := context.Background()
	blocker := make(chan struct{})
	provider := &stubSearchProvider{
		sites: []entities.Site{testSite("s-old", "Старый результат")},
		block: blocker,
	}
	service := services.NewSearchService(provider, nil, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = service.Search(ctx, "dev-1", "первый запрос", nil)
	}()

	// Wait for the first request to reach the provider, then let a second
	// request start and finish while the first is still blocked.
	for {
		provider.mu.Lock()
		started := provider.calls >= 1
		provider.mu.Unlock()
		if started {
			break
		}
		time.Sleep(time.Millisecond)
	}

	provider.mu.Lock()
	provider.block = nil
	provider.sites = []entities.Site{testSite("s-new", "Новый результат")}
	provider.mu.Unlock()

	_, err := service.Search(ctx, "dev-1", "второй запрос", nil)
	assert.NoError(t, err)

	close(blocker)
	wg.Wait()

	query, results := service.Results("dev-1")
	assert.Equal(t, "второй запрос", query)
	if assert.Len(t, results, 1) {
		assert.Equal(t, "s-new", results[0].ID)
	}
}

func TestSearchService_Search_IndexesBestEffort(t *testing.T) {
	provider := &stubSearchProvider{sites: []entities.Site{testSite("s-1", "Синагога")}}
	index := &stubIndex{indexErr: errors.New("index down")}
	service := services.NewSearchService(provider, nil, index)

	sites, err := service.Search(context.Background(), "dev-1", "синагога", nil)

	assert.NoError(t, err)
	assert.Len(t, sites, 1)
	assert.Len(t, index.indexed, 1)
}

func TestSearchService_Search_PassesPreferences(t *testing.T) {
	ctx := context.Background()
	settings := services.NewSettingsService(newMemoryStore())
	_, err := settings.Update(ctx, "dev-1", services.SettingsPatch{KashrutLevel: strPtr("Меадрин")})
	assert.NoError(t, err)

	provider := &stubSearchProvider{}
	service := services.NewSearchService(provider, settings, nil)

	_, err = service.Search(ctx, "dev-1", "кошерный ресторан", &entities.Location{Latitude: 55.75, Longitude: 37.61})
	assert.NoError(t, err)

	assert.Equal(t, entities.KashrutMehadrin, provider.lastCtx.prefs.KashrutLevel)
	if assert.NotNil(t, provider.lastCtx.loc) {
		assert.Equal(t, 55.75, provider.lastCtx.loc.Latitude)
	}
}

func TestSearchService_Featured(t *testing.T) {
	service := services.NewSearchService(&stubSearchProvider{}, nil, nil)

	featured := service.Featured()

	assert.Len(t, featured, 2)
	assert.Equal(t, "feat-1", featured[0].ID)
	assert.Equal(t, entities.CategorySynagogue, featured[0].Category)
}

func TestSearchService_Suggest(t *testing.T) {
	index := &stubIndex{suggested: []entities.Site{testSite("s-1", "Синагога")}}
	service := services.NewSearchService(&stubSearchProvider{}, nil, index)

	sites, err := service.Suggest(context.Background(), "син", 5)

	assert.NoError(t, err)
	assert.Len(t, sites, 1)

	_, err = service.Suggest(context.Background(), "", 5)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

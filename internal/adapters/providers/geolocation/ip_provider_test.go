package geolocation_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mishkan-app/backend/internal/adapters/providers/geolocation"
)

// memoryCache is a minimal CacheProvider for tests
type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.data[key]; ok {
		return v, nil
	}
	return nil, assert.AnError
}

func (c *memoryCache) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func TestIPGeolocationProvider_Locate(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		assert.Equal(t, "/93.184.216.34", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "success",
			"lat":    55.7558,
			"lon":    37.6173,
		})
	}))
	defer server.Close()

	cache := newMemoryCache()
	provider := geolocation.NewIPGeolocationProviderWithOptions(server.URL, cache, server.Client())

	loc, err := provider.Locate(context.Background(), "93.184.216.34")
	require.NoError(t, err)
	assert.Equal(t, 55.7558, loc.Latitude)
	assert.Equal(t, 37.6173, loc.Longitude)

	// Second lookup comes from cache
	loc, err = provider.Locate(context.Background(), "93.184.216.34")
	require.NoError(t, err)
	assert.Equal(t, 55.7558, loc.Latitude)
	assert.Equal(t, 1, requests)
}

func TestIPGeolocationProvider_Locate_LookupFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"status": "fail"})
	}))
	defer server.Close()

	provider := geolocation.NewIPGeolocationProviderWithOptions(server.URL, nil, server.Client())

	_, err := provider.Locate(context.Background(), "10.0.0.1")
	assert.Error(t, err)
}

func TestIPGeolocationProvider_Locate_EmptyIP(t *testing.T) {
	provider := geolocation.NewIPGeolocationProvider("http://example.invalid", nil)

	_, err := provider.Locate(context.Background(), "  ")
	assert.Error(t, err)
}

func TestMockGeolocationProvider(t *testing.T) {
	provider := geolocation.NewMockGeolocationProvider()

	loc, err := provider.Locate(context.Background(), "any")
	require.NoError(t, err)
	assert.InDelta(t, 55.7558, loc.Latitude, 0.001)
	assert.InDelta(t, 37.6173, loc.Longitude, 0.001)
}

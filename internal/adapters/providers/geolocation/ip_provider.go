package geolocation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mishkan-app/backend/internal/domain/entities"
	"github.com/mishkan-app/backend/internal/domain/providers"
)

const (
	defaultLookupCacheTTL = 60 * 60 * 24
	defaultHTTPTimeout    = 8 * time.Second
)

// IPGeolocationProvider resolves client IPs to approximate coordinates via
// an ip-api compatible HTTP endpoint, with a cache in front.
type IPGeolocationProvider struct {
	endpoint   string
	httpClient *http.Client
	cache      providers.CacheProvider
}

// NewIPGeolocationProvider creates a new IP geolocation provider.
func NewIPGeolocationProvider(endpoint string, cache providers.CacheProvider) providers.GeolocationProvider {
	return NewIPGeolocationProviderWithOptions(endpoint, cache, nil)
}

// NewIPGeolocationProviderWithOptions allows overriding the HTTP client (used for tests).
func NewIPGeolocationProviderWithOptions(endpoint string, cache providers.CacheProvider, httpClient *http.Client) providers.GeolocationProvider {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &IPGeolocationProvider{
		endpoint:   strings.TrimRight(endpoint, "/"),
		httpClient: httpClient,
		cache:      cache,
	}
}

type lookupResponse struct {
	Status string  `json:"status"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
}

// Locate resolves an approximate location for a client IP
func (p *IPGeolocationProvider) Locate(ctx context.Context, ip string) (*entities.Location, error) {
	ip = strings.TrimSpace(ip)
	if ip == "" {
		return nil, fmt.Errorf("ip is required")
	}

	cacheKey := "geoip:" + ip
	if p.cache != nil {
		if data, err := p.cache.Get(ctx, cacheKey); err == nil {
			var loc entities.Location
			if err := json.Unmarshal(data, &loc); err == nil {
				return &loc, nil
			}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint+"/"+ip, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geolocation lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geolocation lookup failed with status %d", resp.StatusCode)
	}

	var payload lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode geolocation response: %w", err)
	}
	if payload.Status != "success" {
		return nil, fmt.Errorf("geolocation lookup failed for %s", ip)
	}

	loc := &entities.Location{Latitude: payload.Lat, Longitude: payload.Lon}

	if p.cache != nil {
		if data, err := json.Marshal(loc); err == nil {
			_ = p.cache.Set(ctx, cacheKey, data, defaultLookupCacheTTL)
		}
	}

	return loc, nil
}

package services_test

import (
	"context"
	"sync"

	"github.com/mishkan-app/backend/internal/domain/entities"
	"github.com/mishkan-app/backend/internal/domain/providers"
	"github.com/mishkan-app/backend/internal/domain/repositories"
)

// memoryStore is an in-memory DocumentStore for tests
type memoryStore struct {
	mu   sync.Mutex
	docs map[string][]byte
	err  error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{docs: make(map[string][]byte)}
}

func (s *memoryStore) key(deviceID, name string) string {
	return deviceID + "/" + name
}

func (s *memoryStore) Get(ctx context.Context, deviceID, name string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	data, ok := s.docs[s.key(deviceID, name)]
	if !ok {
		return nil, repositories.ErrDocumentNotFound
	}
	return data, nil
}

func (s *memoryStore) Set(ctx context.Context, deviceID, name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.docs[s.key(deviceID, name)] = data
	return nil
}

func (s *memoryStore) Delete(ctx context.Context, deviceID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	delete(s.docs, s.key(deviceID, name))
	return nil
}

// stubSearchProvider returns canned sites or an error
type stubSearchProvider struct {
	mu      sync.Mutex
	sites   []entities.Site
	err     error
	calls   int
	lastCtx struct {
		query string
		loc   *entities.Location
		prefs entities.AppSettings
	}
	block chan struct{}
}

func (p *stubSearchProvider) SearchSites(ctx context.Context, query string, loc *entities.Location, prefs entities.AppSettings) ([]entities.Site, error) {
	p.mu.Lock()
	p.calls++
	p.lastCtx.query = query
	p.lastCtx.loc = loc
	p.lastCtx.prefs = prefs
	block := p.block
	p.mu.Unlock()

	if block != nil {
		<-block
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	return p.sites, nil
}

// stubAssistant returns a canned reply or an error
type stubAssistant struct {
	mu    sync.Mutex
	reply string
	err   error
	calls int
	turns []entities.ChatTurn
	block chan struct{}
}

func (a *stubAssistant) Reply(ctx context.Context, history []entities.ChatTurn, message string, prefs entities.AppSettings) (string, error) {
	a.mu.Lock()
	a.calls++
	a.turns = history
	block := a.block
	a.mu.Unlock()

	if block != nil {
		<-block
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return "", a.err
	}
	return a.reply, nil
}

// stubIndex records indexed sites and serves canned suggestions
type stubIndex struct {
	mu        sync.Mutex
	indexed   [][]entities.Site
	suggested []entities.Site
	indexErr  error
}

func (i *stubIndex) Index(ctx context.Context, sites []entities.Site) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.indexed = append(i.indexed, sites)
	return i.indexErr
}

func (i *stubIndex) Suggest(ctx context.Context, query string, limit int) ([]entities.Site, error) {
	return i.suggested, nil
}

// stubBus records published planner events
type stubBus struct {
	mu     sync.Mutex
	events []*entities.PlannerEvent
}

func (b *stubBus) Publish(ctx context.Context, channel string, event *entities.PlannerEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
	return nil
}

func (b *stubBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.PlannerEvent, error) {
	return nil, nil
}

func (b *stubBus) Unsubscribe(ctx context.Context, channel string) error { return nil }

func (b *stubBus) Close() error { return nil }

var _ providers.EventBus = (*stubBus)(nil)
var _ repositories.DocumentStore = (*memoryStore)(nil)
var _ providers.SiteSearchProvider = (*stubSearchProvider)(nil)
var _ providers.AssistantProvider = (*stubAssistant)(nil)
var _ repositories.SiteIndexRepository = (*stubIndex)(nil)

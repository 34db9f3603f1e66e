package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mishkan-app/backend/internal/adapters/cache"
	"github.com/mishkan-app/backend/internal/adapters/events"
	"github.com/mishkan-app/backend/internal/adapters/providers/geolocation"
	"github.com/mishkan-app/backend/internal/adapters/search"
	"github.com/mishkan-app/backend/internal/adapters/store"
	"github.com/mishkan-app/backend/internal/api/handlers"
	"github.com/mishkan-app/backend/internal/api/middleware"
	"github.com/mishkan-app/backend/internal/api/routes"
	"github.com/mishkan-app/backend/internal/application/services"
	"github.com/mishkan-app/backend/internal/domain/providers"
	"github.com/mishkan-app/backend/internal/domain/repositories"
	"github.com/mishkan-app/backend/internal/infrastructure/clients/openai"
	"github.com/mishkan-app/backend/internal/infrastructure/clients/postgres"
	"github.com/mishkan-app/backend/internal/infrastructure/clients/redis"
	"github.com/mishkan-app/backend/internal/infrastructure/clients/typesense"
	"github.com/mishkan-app/backend/internal/infrastructure/observability"
	"github.com/mishkan-app/backend/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Environment)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	var shutdown func(context.Context) error
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err = observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Printf("Warning: Failed to set up OpenTelemetry: %v", err)
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Printf("Error shutting down OpenTelemetry: %v", err)
				}
			}()
			log.Println("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	// Initialize Redis client
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Printf("Warning: Failed to initialize Redis client: %v", err)
		// Continue without Redis; caching and live events degrade gracefully
	} else {
		defer redisClient.Close()
		log.Println("Redis client initialized successfully")
	}

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	// Initialize the preference document store. Redis is the default;
	// Postgres is the durable alternative.
	var documentStore repositories.DocumentStore
	switch cfg.Store.Backend {
	case "postgres":
		pgClient, err := postgres.NewClient(&cfg.Database)
		if err != nil {
			log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
		}
		defer pgClient.Close()
		documentStore = store.NewPostgresStore(pgClient)
		log.Println("Document store backed by PostgreSQL")
	default:
		if redisClient == nil {
			log.Fatalf("STORE_BACKEND=redis requires a reachable Redis instance")
		}
		documentStore = store.NewRedisStore(redisClient)
		log.Println("Document store backed by Redis")
	}

	// Initialize Typesense client for suggestions
	var indexRepo repositories.SiteIndexRepository
	typesenseClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Printf("Warning: Failed to initialize Typesense client: %v", err)
	} else {
		adapter := search.NewTypesenseAdapter(typesenseClient)
		if err := adapter.InitSchema(context.Background()); err != nil {
			log.Printf("Warning: Failed to init Typesense schema: %v", err)
		}
		indexRepo = adapter
		log.Println("Typesense client initialized successfully")
	}

	// Initialize event bus for real-time planner updates
	var eventBus providers.EventBus
	if redisClient != nil {
		eventBus = events.NewRedisEventBus(redisClient)
		log.Println("Event bus initialized successfully")
	} else {
		log.Println("Event bus disabled (Redis not available)")
	}

	// Initialize geolocation provider
	var geolocationProvider providers.GeolocationProvider
	switch cfg.Geolocation.Provider {
	case "ip":
		geolocationProvider = geolocation.NewIPGeolocationProvider(cfg.Geolocation.Endpoint, cacheProvider)
	default:
		geolocationProvider = geolocation.NewMockGeolocationProvider()
	}

	// Initialize the AI collaborator client
	var searchProvider providers.SiteSearchProvider
	var assistantProvider providers.AssistantProvider
	if cfg.OpenAI.APIKey == "" {
		log.Println("Warning: OPENAI_API_KEY is not set; discovery and chat are disabled")
	} else {
		openaiClient, err := openai.NewClient(&cfg.OpenAI)
		if err != nil {
			log.Printf("Warning: Failed to initialize OpenAI client: %v", err)
		} else {
			searchProvider = openaiClient
			assistantProvider = openaiClient
		}
	}

	// Initialize services
	settingsService := services.NewSettingsService(documentStore)
	searchService := services.NewSearchService(searchProvider, settingsService, indexRepo)
	itineraryService := services.NewItineraryService(documentStore, eventBus)
	chatService := services.NewChatService(assistantProvider, settingsService)

	// Initialize handlers
	exploreHandler := handlers.NewExploreHandler(searchService)
	plannerHandler := handlers.NewPlannerHandler(itineraryService)
	chatHandler := handlers.NewChatHandler(chatService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)
	geolocationHandler := handlers.NewGeolocationHandler(geolocationProvider)

	var sseHandler *handlers.SSEHandler
	if eventBus != nil {
		sseHandler = handlers.NewSSEHandler(eventBus)
	}

	// Initialize cache middleware
	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider)
		log.Println("Cache middleware initialized successfully")
	}

	// Set up router
	router := routes.NewRouter(
		exploreHandler,
		plannerHandler,
		chatHandler,
		settingsHandler,
		geolocationHandler,
		sseHandler,
		cacheMiddleware,
		metrics,
	)
	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // SSE handler clears its own write deadline
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Printf("Error closing event bus: %v", err)
		}
	}

	log.Println("Server stopped")
}

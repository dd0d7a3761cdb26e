package main

// @title Route Planner API
// @version 1.0.0
// @description Сервис планирования маршрутов: точка отправления, точки назначения в порядке удалённости и оптимизированный круговой маршрут через внешний сервис маршрутизации.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/route-planner/docs"
	"github.com/route-planner/internal/config"
	httpDelivery "github.com/route-planner/internal/delivery/http"
	"github.com/route-planner/internal/delivery/http/handler"
	"github.com/route-planner/internal/domain"
	"github.com/route-planner/internal/domain/repository"
	"github.com/route-planner/internal/infrastructure/mapbox"
	"github.com/route-planner/internal/pkg/logger"
	"github.com/route-planner/internal/repository/cache"
	"github.com/route-planner/internal/repository/postgres"
	redisrepo "github.com/route-planner/internal/repository/redis"
	"github.com/route-planner/internal/usecase"
	"github.com/route-planner/internal/worker"
	"github.com/route-planner/internal/worker/session"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, cfg.Server.Env)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Route Planner")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("geocode_cache", cfg.Cache.GeocodeBackend),
		zap.Bool("events", cfg.Events.Enabled),
	)

	travelMode, err := domain.ParseTravelMode(cfg.Session.TravelMode)
	if err != nil {
		log.Fatal("Invalid travel mode", zap.Error(err))
	}

	if cfg.Mapbox.AccessToken == "" {
		log.Warn("MAPBOX_ACCESS_TOKEN is empty, geocoding and routing requests will be rejected")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 3. Connect to Redis (geocode cache and/or route events)
	var redisClient *cache.Redis
	if cfg.UsesRedis() {
		redisClient, err = cache.NewRedis(&cfg.Redis, log)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		if err := redisClient.Health(ctx); err != nil {
			log.Fatal("Redis health check failed", zap.Error(err))
		}
	}

	// 4. Connect to PostgreSQL (geocode cache)
	var db *postgres.DB
	if cfg.Cache.GeocodeBackend == config.CacheBackendPostgres {
		db, err = postgres.New(&cfg.Database, log)
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
		}
		if err := db.InitSchema(ctx); err != nil {
			log.Fatal("Failed to init PostgreSQL schema", zap.Error(err))
		}
	}

	// 5. Initialize Repositories
	mapboxClient := mapbox.NewMapboxClient(&cfg.Mapbox, log)

	var geocodeCache repository.GeocodeCacheRepository
	switch cfg.Cache.GeocodeBackend {
	case config.CacheBackendRedis:
		geocodeCache = cache.NewCacheRepository(redisClient, cfg.Cache.GeocodeTTL)
	case config.CacheBackendPostgres:
		geocodeCache = postgres.NewGeocodeCacheRepository(db, cfg.Cache.GeocodeTTL)
	case config.CacheBackendNone:
	default:
		log.Fatal("Unknown geocode cache backend", zap.String("backend", cfg.Cache.GeocodeBackend))
	}

	var streamRepo repository.StreamRepository
	if cfg.Events.Enabled {
		streamRepo = redisrepo.NewStreamRepository(redisClient.Client(), log)
	}

	log.Info("Repositories initialized")

	// 6. Initialize Use Cases
	geocoder := usecase.NewGeocodeAdapter(mapboxClient, geocodeCache, log)
	registry := usecase.NewSessionRegistry(geocoder, mapboxClient, streamRepo, usecase.SessionRegistryConfig{
		TravelMode:  travelMode,
		EventStream: cfg.Events.Stream,
	}, log)

	// 7. Workers
	workers := worker.NewWorkerManager(log)
	workers.Register(session.NewJanitor(registry, cfg.Session.IdleTTL, cfg.Session.SweepInterval, log))

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	if err := workers.Start(workerCtx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	// 8. HTTP server
	server := httpDelivery.NewServer(cfg, log, handler.NewSessionHandler(registry, log))

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("travel_mode", string(travelMode)),
	)

	// 9. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	stopWorkers()
	if err := workers.Stop(shutdownCtx); err != nil {
		log.Error("Workers shutdown error", zap.Error(err))
	}

	if db != nil {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL", zap.Error(err))
		}
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis", zap.Error(err))
		}
	}

	log.Info("Server stopped successfully")
}

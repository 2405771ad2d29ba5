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

	"catalog-service/config"
	"catalog-service/internal/api"
	"catalog-service/internal/broker"
	"catalog-service/internal/cache"
	"catalog-service/internal/service"
	"catalog-service/internal/store"
	"catalog-service/internal/util"
	"catalog-service/internal/worker"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {

	cfg := config.Load()

	logger, err := util.NewLogger(cfg.Server.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting catalog service")

	tp, err := util.InitTracer("catalog-service", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Error("Error shutting down tracer", zap.Error(err))
		}
	}()

	db, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connected")

	ctx := context.Background()
	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	if cfg.Catalog.SeedOnStart {
		if err := db.Seed(ctx, logger); err != nil {
			logger.Error("Failed to seed catalog", zap.Error(err))
		}
	}

	productCache, err := cache.NewClient(
		cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
		time.Duration(cfg.Catalog.CacheTTLSeconds)*time.Second, logger)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer productCache.Close()
	logger.Info("Redis connected")

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicEvents)
	defer producer.Close()
	logger.Info("Kafka producer initialized")

	eventPublisher := broker.NewEventPublisher(producer)
	relay := worker.NewRelay(eventPublisher, logger, cfg.Catalog.EventBufferSize)

	relayCtx, relayCancel := context.WithCancel(context.Background())
	go func() {
		if err := relay.Start(relayCtx); err != nil && err != context.Canceled {
			logger.Error("Event relay error", zap.Error(err))
		}
	}()

	beginTx := service.TxBeginnerFunc(func(ctx context.Context) (service.Tx, error) {
		return db.Begin(ctx)
	})
	placementService := service.NewPlacementService(beginTx, productCache, relay, logger)
	catalogService := service.NewCatalogService(db, productCache, relay, logger)
	orderService := service.NewOrderService(db, relay, logger)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	handler := api.NewHandler(catalogService, placementService, orderService)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	relayCancel()
	relay.Stop()

	logger.Info("Server exited")
}

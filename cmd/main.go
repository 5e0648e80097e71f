package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"textbook-rag-platform/internal/ai"
	"textbook-rag-platform/internal/config"
	"textbook-rag-platform/internal/logger"
	"textbook-rag-platform/internal/telemetry"
	"textbook-rag-platform/internal/vectorstore"
	"textbook-rag-platform/middleware"
	"textbook-rag-platform/routes"
	"textbook-rag-platform/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.Init(cfg.LogLevel)

	// Telemetry is best-effort: a missing collector must not block startup.
	shutdownTracer, err := telemetry.InitTracer("textbook-rag-platform", cfg.OTLPEndpoint)
	if err != nil {
		logger.Warn("tracer init failed, continuing without traces", "error", err)
	} else {
		defer shutdownTracer()
	}
	metrics, err := telemetry.InitMetrics()
	if err != nil {
		logger.Warn("metrics init failed, continuing without metrics", "error", err)
		metrics = nil
	}

	ctx := context.Background()

	embedder, err := ai.NewEmbeddingService(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to create embedding service:", err)
	}
	defer embedder.Close()

	generator, err := ai.NewGenerationClient(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to create generation client:", err)
	}
	defer generator.Close()

	index := vectorstore.NewClient(cfg.QdrantURL, cfg.QdrantAPIKey)

	deps := services.ChatServiceDeps{
		Embedder:  embedder,
		Searcher:  index,
		Generator: generator,
		Metrics:   metrics,
	}

	// Redis backs the answer cache and request rate limiting. Both are
	// optional: without Redis the service answers uncached and unthrottled.
	rdb, err := config.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("redis unavailable, cache and rate limiting disabled", "error", err)
		rdb = nil
	}
	if rdb != nil && cfg.CacheEnabled {
		deps.Cache = services.NewAnswerCache(rdb, cfg.CacheTTL)
	}

	if cfg.HistoryEnabled {
		mongoClient, err := config.ConnectMongoDB(cfg)
		if err != nil {
			logger.Warn("mongodb unavailable, exchange history disabled", "error", err)
		} else {
			deps.History = services.NewHistoryStore(mongoClient, cfg.DBName)
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				mongoClient.Disconnect(ctx)
			}()
		}
	}

	chatService := services.NewChatService(cfg, deps)

	// Initialize Gin router
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-Requested-With"}
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.TracingMiddleware())
	router.Use(middleware.EnrichTrace())
	if rdb != nil {
		router.Use(middleware.RateLimitMiddleware(rdb, cfg))
	}

	// Setup routes
	routes.SetupHealthRoutes(router, routes.HealthProbes{
		Embeddings: embedder.HealthCheck,
		Index:      index.HealthCheck,
	})
	routes.SetupChatRoutes(router, chatService)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"pricelist/database"
	"pricelist/extraction"
	"pricelist/internal/config"
	"pricelist/pipeline"
	"pricelist/server/handlers"
	"pricelist/server/middleware"
)

// Server HTTP сервер импорта прайс-листов
type Server struct {
	config     *config.Config
	db         *database.DB
	pipeline   *pipeline.Pipeline
	httpServer *http.Server
}

// NewServer создает сервер со всеми зависимостями
func NewServer(cfg *config.Config, db *database.DB) *Server {
	extractor := extraction.NewAIExtractor(extraction.AIExtractorConfig{
		BaseURL: cfg.AIBaseURL,
		APIKey:  cfg.AIAPIKey,
		Model:   cfg.AIModel,
		Timeout: cfg.AITimeout,
		RetryConfig: extraction.RetryConfig{
			MaxAttempts:  cfg.RetryAttempts,
			InitialDelay: extraction.DefaultRetryDelay,
			MaxDelay:     extraction.MaxRetryDelay,
			Multiplier:   2.0,
		},
	})

	p := pipeline.NewPipeline(extractor, db, pipeline.Config{
		ConfidenceFloor:     cfg.ConfidenceFloor,
		SimilarityThreshold: cfg.SimilarityThreshold,
		Workers:             cfg.Workers,
		ChunkSize:           cfg.ChunkSize,
		DefaultPolicy:       pipeline.DuplicatePolicy(cfg.DuplicatePolicy),
	})

	return &Server{
		config:   cfg,
		db:       db,
		pipeline: p,
	}
}

// buildHTTPHandler собирает Gin роутер с middleware и маршрутами
func (s *Server) buildHTTPHandler() http.Handler {
	// Режим Gin: release по умолчанию, переопределяется через GIN_MODE
	if ginMode := os.Getenv("GIN_MODE"); ginMode == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.GinRequestIDMiddleware())
	router.Use(middleware.GinCORSMiddleware())
	router.Use(middleware.GinGzipMiddleware())
	router.Use(middleware.GinLoggerMiddleware())
	router.Use(middleware.GinRecoveryMiddleware())

	handlers.RegisterSwaggerRoutes(router, "localhost:"+s.config.Port)

	importHandler := handlers.NewImportHandler(s.pipeline, s.db)
	pricingHandler := handlers.NewPricingHandler(s.db)

	api := router.Group("/api")
	{
		api.POST("/import", importHandler.HandleImport)
		api.GET("/import/template", importHandler.HandleImportTemplate)
		api.GET("/import/batches/:uuid", importHandler.HandleBatchReport)

		api.GET("/pricing", pricingHandler.HandlePricing)
		api.GET("/suppliers", pricingHandler.HandleSuppliers)
		api.POST("/suppliers", pricingHandler.HandleCreateSupplier)
	}

	router.GET("/health", handlers.HandleHealth)

	return router
}

// Start запускает HTTP сервер и блокируется до его остановки
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         ":" + s.config.Port,
		Handler:      s.buildHTTPHandler(),
		ReadTimeout:  120 * time.Second,
		WriteTimeout: 300 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("[Server] Listening on port %s", s.config.Port)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// ServeHTTP реализует http.Handler для тестов
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.buildHTTPHandler().ServeHTTP(w, r)
}

// Shutdown останавливает HTTP сервер gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	log.Println("[Server] Initiating graceful shutdown...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка остановки сервера: %w", err)
	}
	log.Println("[Server] Graceful shutdown completed")
	return nil
}

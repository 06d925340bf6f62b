package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"datasetgen/internal/config"
	"datasetgen/internal/generator"
	"datasetgen/internal/handler"
	"datasetgen/internal/middleware"
	"datasetgen/internal/repository"
	"datasetgen/internal/source"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("Starting Dataset Generator Service...")

	// Load configuration
	cfgPath := "configs/config.yml"
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// Load master input up front: a missing input file must fail before
	// any generation request is accepted.
	records, err := source.LoadMaster(cfg.Input.MasterFile)
	if err != nil {
		logger.Fatal("Failed to load master input", zap.Error(err))
	}
	logger.Info("Master input loaded",
		zap.String("path", cfg.Input.MasterFile),
		zap.Int("records", len(records)))

	// Initialize repository
	var repo repository.DatasetRepository
	if cfg.Database.Type != "none" {
		os.MkdirAll("./data", 0755)

		repo, err = repository.New(repository.Options{
			Type:           cfg.Database.Type,
			Path:           cfg.Database.Path,
			URL:            cfg.Database.URL,
			MigrationsPath: "./migrations",
		}, logger)
		if err != nil {
			logger.Fatal("Failed to initialize repository", zap.Error(err))
		}
		defer repo.Close()
	}

	// Initialize generator service
	gen := generator.New(cfg.Generation, repo, logger)

	// Initialize HTTP handler
	apiHandler := handler.NewHandler(gen, records, logger)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()

	// Add CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Register routes, with JWT auth when enabled
	var authMW gin.HandlerFunc
	if cfg.Auth.Enabled {
		secret := []byte(cfg.Auth.JWTSecret)
		ttl := time.Duration(cfg.Auth.TokenTTLMin) * time.Minute
		router.POST("/api/v1/auth/token", middleware.TokenHandler(cfg.Auth.APIKey, secret, ttl, logger))
		authMW = middleware.AuthMiddleware(secret, logger)
		logger.Info("API authentication enabled")
	}
	apiHandler.RegisterRoutes(router, authMW)

	// Start server
	serverAddr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Info("Server starting", zap.String("address", serverAddr))

	// Graceful shutdown
	srv := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("Dataset Generator Service is running",
		zap.String("port", cfg.Server.Port),
		zap.String("database", cfg.Database.Type))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

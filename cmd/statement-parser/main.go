package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"statement-parser/internal/api"
	"statement-parser/internal/api/handlers"
	"statement-parser/internal/repository"
	"statement-parser/internal/service"
	"statement-parser/pkg/auth"
	"statement-parser/pkg/config"
	"statement-parser/pkg/logger"
	"statement-parser/pkg/middleware"
	"statement-parser/pkg/postgres"

	"go.uber.org/zap"
)

// @title Statement Parser API
// @version 1.0
// @description Extracts classified transactions from PDF, CSV and spreadsheet statements

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting statement parser service",
		zap.String("classifier", cfg.Classifier.Provider),
		zap.Int64("max_file_size", cfg.Upload.MaxFileSize),
	)

	ctx := context.Background()

	classifier, err := service.NewClassifier(ctx, cfg, logger.Component("classifier"))
	if err != nil {
		appLogger.Fatal("Failed to initialize classifier", zap.Error(err))
	}
	if closer, ok := classifier.(io.Closer); ok {
		defer closer.Close()
	}

	extractionService := service.NewExtractionServiceFromConfig(&cfg.Upload, classifier, logger.Component("extraction"))

	// History is optional; without a database the service is stateless.
	var (
		extractionHandler *handlers.ExtractionHandler
		docHandler        *handlers.DocumentHandler
	)
	if cfg.Database.Enabled() {
		db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		docRepo := repository.NewDocumentRepository(db, appLogger)
		txRepo := repository.NewTransactionRepository(db, appLogger)
		docService := service.NewDocumentService(docRepo, txRepo, logger.Component("documents"))

		extractionHandler = handlers.NewExtractionHandler(extractionService, docService, cfg.Upload.FieldName, appLogger)
		docHandler = handlers.NewDocumentHandler(docService, appLogger)
	} else {
		appLogger.Info("DB_HOST not set, extraction history disabled")
		extractionHandler = handlers.NewExtractionHandler(extractionService, nil, cfg.Upload.FieldName, appLogger)
	}

	var validator middleware.TokenValidator
	if cfg.JWT.SecretKey != "" {
		validator = auth.NewJWTManager(cfg.JWT.SecretKey)
	}

	app := api.SetupRouter(api.RouterConfig{
		BodyLimit:    cfg.Server.BodyLimit,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, extractionHandler, docHandler, validator, appLogger)

	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}

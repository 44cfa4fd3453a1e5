package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"statement-parser/internal/dto"
	"statement-parser/internal/models"
	"statement-parser/internal/repository"
	"statement-parser/internal/service"
	"statement-parser/pkg/config"
	"statement-parser/pkg/logger"
	"statement-parser/pkg/postgres"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type extractor interface {
	Extract(ctx context.Context, artifact *models.UploadedArtifact) (*dto.ResultEnvelope, error)
}

type recorder interface {
	Record(ctx context.Context, userID *uuid.UUID, envelope *dto.ResultEnvelope) (*models.Document, error)
}

// fileResult is one line of CLI output. Exactly one of Result and Error is set.
type fileResult struct {
	File       string              `json:"file"`
	Result     *dto.ResultEnvelope `json:"result,omitempty"`
	Error      *dto.ErrorResponse  `json:"error,omitempty"`
	DocumentID string              `json:"documentId,omitempty"`
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if provider != "" {
		cfg.Classifier.Provider = strings.ToLower(provider)
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if logLevel != "" {
		cfg.Logger.Level = logLevel
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	classifier, err := service.NewClassifier(ctx, cfg, logger.Component("classifier"))
	if err != nil {
		return fmt.Errorf("init classifier: %w", err)
	}
	if closer, ok := classifier.(io.Closer); ok {
		defer closer.Close()
	}

	var rec recorder
	if persist {
		if !cfg.Database.Enabled() {
			return fmt.Errorf("--persist requires DB_HOST to be set")
		}
		db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()
		rec = service.NewDocumentService(
			repository.NewDocumentRepository(db, appLogger),
			repository.NewTransactionRepository(db, appLogger),
			logger.Component("documents"),
		)
	}

	out := cmd.OutOrStdout()
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	ext := service.NewExtractionServiceFromConfig(&cfg.Upload, classifier, logger.Component("extraction"))
	failed, err := extractFiles(ctx, ext, rec, args, out, appLogger)
	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(args))
	}
	return nil
}

// extractFiles processes paths in order and writes one JSON document per line.
// It returns the number of files that produced an error result.
func extractFiles(ctx context.Context, ext extractor, rec recorder, paths []string, w io.Writer, log *zap.Logger) (int, error) {
	enc := json.NewEncoder(w)
	failed := 0

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return failed, err
		}

		res := fileResult{File: path}
		envelope, err := extractFile(ctx, ext, path)
		if err != nil {
			failed++
			body := service.AsPipelineError(err).Response()
			res.Error = &body
			log.Warn("File failed", zap.String("file", path), zap.Error(err))
		} else {
			res.Result = envelope
			if rec != nil {
				doc, err := rec.Record(ctx, nil, envelope)
				if err != nil {
					log.Warn("Failed to record extraction", zap.String("file", path), zap.Error(err))
				} else {
					res.DocumentID = doc.ID.String()
				}
			}
		}

		if err := enc.Encode(res); err != nil {
			return failed, fmt.Errorf("write result: %w", err)
		}
	}
	return failed, nil
}

func extractFile(ctx context.Context, ext extractor, path string) (*dto.ResultEnvelope, error) {
	artifact, err := models.NewFileArtifact(path)
	if err != nil {
		return nil, &service.PipelineError{
			Kind:   service.KindInputRejected,
			Reason: "No file uploaded",
			Detail: err.Error(),
			Err:    err,
		}
	}
	return ext.Extract(ctx, artifact)
}

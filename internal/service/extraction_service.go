package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"statement-parser/internal/dto"
	"statement-parser/internal/models"
	"statement-parser/pkg/config"

	"go.uber.org/zap"
)

// ExtractionService runs the document-to-transactions pipeline:
// gate, extract, prompt, classify, validate, assemble.
type ExtractionService struct {
	gate       *InputGate
	extractors ExtractorSet
	classifier Classifier
	parser     *ResponseParser
	stager     *Stager
	logger     *zap.Logger
}

func NewExtractionService(
	gate *InputGate,
	extractors ExtractorSet,
	classifier Classifier,
	parser *ResponseParser,
	stager *Stager,
	logger *zap.Logger,
) *ExtractionService {
	return &ExtractionService{
		gate:       gate,
		extractors: extractors,
		classifier: classifier,
		parser:     parser,
		stager:     stager,
		logger:     logger,
	}
}

// NewExtractionServiceFromConfig wires the default extractors, parser and
// stager around classifier.
func NewExtractionServiceFromConfig(cfg *config.UploadConfig, classifier Classifier, logger *zap.Logger) *ExtractionService {
	return NewExtractionService(
		NewInputGate(cfg.MaxFileSize),
		NewExtractorSet(logger),
		classifier,
		NewResponseParser(logger),
		NewStager(cfg.StagingDir, cfg.StagingEnabled, logger),
		logger,
	)
}

// Extract processes one artifact. Every returned error is a *PipelineError.
func (s *ExtractionService) Extract(ctx context.Context, artifact *models.UploadedArtifact) (envelope *dto.ResultEnvelope, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Extraction panicked", zap.Any("panic", r), zap.Stack("stack"))
			envelope, err = nil, unexpected(fmt.Errorf("%v", r))
		}
	}()

	kind, err := s.gate.Check(artifact)
	if err != nil {
		s.logger.Info("Upload rejected", zap.Error(err))
		return nil, err
	}

	log := s.logger.With(
		zap.String("file", artifact.FileName),
		zap.Int64("size", artifact.Size),
		zap.Stringer("format", kind),
	)
	start := time.Now()

	data, err := s.gate.ReadBody(artifact)
	if err != nil {
		log.Info("Upload body rejected", zap.Error(err))
		return nil, err
	}

	staged, release, err := s.stager.Stage(artifact.FileName, data)
	if err != nil {
		log.Error("Failed to stage upload", zap.Error(err))
		return nil, unexpected(err)
	}
	defer release()

	text, err := s.extractors.Extract(ctx, kind, staged)
	if err != nil {
		log.Error("Text extraction failed", zap.Error(err))
		return nil, extractionFailed(err)
	}
	if strings.TrimSpace(text) == "" {
		log.Info("No text content found")
		return nil, emptyContent()
	}
	log.Info("Text extracted", zap.Int("text_length", utf8.RuneCountInString(text)))

	raw, err := s.classifier.Classify(ctx, BuildClassificationPrompt(text))
	if err != nil {
		log.Error("Classification failed", zap.Error(err))
		return nil, classificationFailed(err)
	}

	transactions, err := s.parser.Parse(raw)
	if err != nil {
		return nil, err
	}

	envelope = assembleResult(artifact, text, transactions)
	log.Info("Extraction completed",
		zap.Int("transactions", envelope.Metadata.TotalTransactions),
		zap.Duration("elapsed", time.Since(start)),
	)
	return envelope, nil
}

func assembleResult(artifact *models.UploadedArtifact, text string, transactions []models.ExtractedTransaction) *dto.ResultEnvelope {
	if transactions == nil {
		transactions = []models.ExtractedTransaction{}
	}
	return &dto.ResultEnvelope{
		Transactions: transactions,
		Metadata: dto.ResultMetadata{
			TotalTransactions:   len(transactions),
			FileName:            artifact.FileName,
			FileSize:            artifact.Size,
			ExtractedTextLength: utf8.RuneCountInString(text),
		},
	}
}

package service

import (
	"context"
	"errors"
	"fmt"

	"statement-parser/pkg/config"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

var errEmptyGeminiResponse = errors.New("empty response from model")

type GeminiClassifier struct {
	generate func(ctx context.Context, prompt string) (string, error)
	model    string
	logger   *zap.Logger
}

// NewGeminiClassifier creates a Gemini backend. Without an API key the genai
// client falls back to its environment (GOOGLE_API_KEY, Vertex AI settings).
func NewGeminiClassifier(ctx context.Context, cfg *config.GeminiConfig, logger *zap.Logger) (*GeminiClassifier, error) {
	clientCfg := &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: cfg.APIVersion},
	}
	if cfg.APIKey != "" {
		clientCfg.APIKey = cfg.APIKey
		clientCfg.Backend = genai.BackendGeminiAPI
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	logger.Info("Using Gemini classifier", zap.String("model", cfg.Model))

	return &GeminiClassifier{
		generate: func(ctx context.Context, prompt string) (string, error) {
			resp, err := client.Models.GenerateContent(ctx, cfg.Model, genai.Text(prompt), nil)
			if err != nil {
				return "", err
			}
			return resp.Text(), nil
		},
		model:  cfg.Model,
		logger: logger,
	}, nil
}

func (c *GeminiClassifier) Classify(ctx context.Context, prompt string) (string, error) {
	text, err := c.generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("Gemini request failed: %w", err)
	}
	if text == "" {
		return "", errEmptyGeminiResponse
	}

	c.logger.Debug("Gemini response received", zap.String("model", c.model), zap.Int("length", len(text)))
	return text, nil
}

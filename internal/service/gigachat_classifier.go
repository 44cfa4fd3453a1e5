package service

import (
	"context"
	"errors"
	"fmt"

	"statement-parser/pkg/config"

	"github.com/Role1776/gigago"
	"go.uber.org/zap"
)

var errNoChoices = errors.New("no response from GigaChat")

type GigaChatClassifier struct {
	client   *gigago.Client
	generate func(ctx context.Context, messages []gigago.Message) (string, error)
	logger   *zap.Logger
}

func NewGigaChatClassifier(ctx context.Context, cfg *config.GigaChatConfig, logger *zap.Logger) (*GigaChatClassifier, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("GIGACHAT_API_KEY is required")
	}

	opts := []gigago.Option{
		gigago.WithCustomScope(cfg.Scope),
	}
	if cfg.InsecureSkipVerify {
		opts = append(opts, gigago.WithCustomInsecureSkipVerify(true))
		logger.Warn("GigaChat TLS certificate verification is disabled")
	}

	client, err := gigago.NewClient(ctx, cfg.APIKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GigaChat client: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)
	model.Temperature = 0.1

	logger.Info("Using GigaChat classifier", zap.String("model", cfg.Model))

	return &GigaChatClassifier{
		client: client,
		generate: func(ctx context.Context, messages []gigago.Message) (string, error) {
			resp, err := model.Generate(ctx, messages)
			if err != nil {
				return "", err
			}
			if len(resp.Choices) == 0 {
				return "", errNoChoices
			}
			return resp.Choices[0].Message.Content, nil
		},
		logger: logger,
	}, nil
}

func (c *GigaChatClassifier) Classify(ctx context.Context, prompt string) (string, error) {
	messages := []gigago.Message{
		{Role: gigago.RoleUser, Content: prompt},
	}

	content, err := c.generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("GigaChat request failed: %w", err)
	}

	c.logger.Debug("GigaChat response received", zap.Int("length", len(content)))
	return content, nil
}

func (c *GigaChatClassifier) Close() error {
	if c.client != nil {
		c.client.Close()
	}
	return nil
}

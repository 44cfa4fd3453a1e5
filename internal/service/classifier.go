package service

import (
	"context"
	"fmt"

	"statement-parser/pkg/config"

	"go.uber.org/zap"
)

// Classifier sends one prompt to a completion backend and returns the raw
// text of its answer. Implementations make exactly one round trip.
type Classifier interface {
	Classify(ctx context.Context, prompt string) (string, error)
}

// ClassifierFunc adapts a function to the Classifier interface.
type ClassifierFunc func(ctx context.Context, prompt string) (string, error)

func (f ClassifierFunc) Classify(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// NewClassifier builds the backend selected by cfg.Classifier.Provider.
// The returned value implements io.Closer when the backend holds resources.
func NewClassifier(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Classifier, error) {
	switch cfg.Classifier.Provider {
	case config.ProviderGigaChat:
		c, err := NewGigaChatClassifier(ctx, &cfg.GigaChat, logger)
		if err != nil {
			return nil, err
		}
		return c, nil
	case config.ProviderGemini:
		c, err := NewGeminiClassifier(ctx, &cfg.Gemini, logger)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown classifier provider %q", cfg.Classifier.Provider)
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"
)

var (
	errPDFNotAccessible = errors.New("the file could not be accessed or does not exist")
	errPDFEmpty         = errors.New("No text extracted from PDF")
)

// PDFExtractor concatenates the text layer of every page using go-fitz.
type PDFExtractor struct {
	logger *zap.Logger
}

func NewPDFExtractor(logger *zap.Logger) *PDFExtractor {
	return &PDFExtractor{logger: logger}
}

func (e *PDFExtractor) ExtractText(_ context.Context, artifact *StagedArtifact) (text string, err error) {
	// MuPDF bindings can panic on malformed input.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", &ParseError{Stage: StagePDF, Err: fmt.Errorf("parser panic: %v", r)}
		}
	}()

	doc, err := openPDF(artifact)
	if err != nil {
		return "", &ParseError{Stage: StagePDF, Err: err}
	}
	defer doc.Close()

	var textBuilder strings.Builder
	pages := doc.NumPage()
	for i := 0; i < pages; i++ {
		pageText, err := doc.Text(i)
		if err != nil {
			e.logger.Warn("Failed to extract text from page",
				zap.Int("page", i+1),
				zap.String("file", artifact.FileName),
				zap.Error(err),
			)
			continue
		}
		if pageText != "" {
			textBuilder.WriteString(pageText)
			textBuilder.WriteString("\n")
		}
	}

	text = strings.TrimSpace(textBuilder.String())
	if text == "" {
		return "", &ParseError{Stage: StagePDF, Err: errPDFEmpty}
	}

	e.logger.Info("PDF text extracted",
		zap.String("file", artifact.FileName),
		zap.Int("pages", pages),
		zap.Int("text_length", len(text)),
	)
	return text, nil
}

func openPDF(artifact *StagedArtifact) (*fitz.Document, error) {
	if artifact.Path != "" {
		if _, err := os.Stat(artifact.Path); err != nil {
			return nil, fmt.Errorf("%w: %v", errPDFNotAccessible, err)
		}
		return fitz.New(artifact.Path)
	}
	return fitz.NewFromMemory(artifact.Data)
}

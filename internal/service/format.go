package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// FormatKind is the closed set of document formats the pipeline can read.
type FormatKind int

const (
	FormatUnknown FormatKind = iota
	FormatPDF
	FormatCSV
	FormatSpreadsheet
)

func (k FormatKind) String() string {
	switch k {
	case FormatPDF:
		return "pdf"
	case FormatCSV:
		return "csv"
	case FormatSpreadsheet:
		return "spreadsheet"
	default:
		return "unknown"
	}
}

// SupportedExtensions lists accepted extensions in the order they are reported.
var SupportedExtensions = []string{".pdf", ".csv", ".xlsx", ".xls"}

var formatByExtension = map[string]FormatKind{
	".pdf":  FormatPDF,
	".csv":  FormatCSV,
	".xlsx": FormatSpreadsheet,
	".xls":  FormatSpreadsheet,
}

// FormatForFile maps a file name to its FormatKind by case-insensitive extension.
func FormatForFile(name string) (FormatKind, bool) {
	kind, ok := formatByExtension[strings.ToLower(filepath.Ext(name))]
	return kind, ok
}

// TextExtractor turns one staged document into plain text.
type TextExtractor interface {
	ExtractText(ctx context.Context, artifact *StagedArtifact) (string, error)
}

// ExtractorSet holds exactly one extractor per FormatKind.
type ExtractorSet map[FormatKind]TextExtractor

func NewExtractorSet(logger *zap.Logger) ExtractorSet {
	return ExtractorSet{
		FormatPDF:         NewPDFExtractor(logger),
		FormatCSV:         NewCSVExtractor(logger),
		FormatSpreadsheet: NewSpreadsheetExtractor(logger),
	}
}

// Extract dispatches to the extractor registered for kind and scrubs invalid
// UTF-8 from the result.
func (s ExtractorSet) Extract(ctx context.Context, kind FormatKind, artifact *StagedArtifact) (string, error) {
	extractor, ok := s[kind]
	if !ok {
		return "", fmt.Errorf("Unsupported file type: %s", strings.ToLower(artifact.FileName))
	}

	text, err := extractor.ExtractText(ctx, artifact)
	if err != nil {
		return "", err
	}
	return sanitizeUTF8(text), nil
}

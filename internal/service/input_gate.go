package service

import (
	"fmt"
	"io"
	"strings"

	"statement-parser/internal/models"
)

const DefaultMaxFileSize int64 = 5 * 1024 * 1024

// InputGate rejects uploads before any byte of their body is read.
type InputGate struct {
	maxSize int64
}

func NewInputGate(maxSize int64) *InputGate {
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	return &InputGate{maxSize: maxSize}
}

// Check validates presence, declared size and extension, in that order.
func (g *InputGate) Check(artifact *models.UploadedArtifact) (FormatKind, error) {
	if artifact == nil {
		return FormatUnknown, inputRejected("No file uploaded")
	}
	if artifact.Size > g.maxSize {
		return FormatUnknown, inputRejected(g.tooLargeMessage())
	}

	kind, ok := FormatForFile(artifact.FileName)
	if !ok {
		return FormatUnknown, inputRejected(fmt.Sprintf(
			"Unsupported file type: %s. Supported types: %s",
			artifact.Extension(), strings.Join(SupportedExtensions, ", "),
		))
	}
	return kind, nil
}

// ReadBody reads the artifact body, refusing bodies that outgrow the ceiling
// regardless of the declared size.
func (g *InputGate) ReadBody(artifact *models.UploadedArtifact) ([]byte, error) {
	if artifact.Open == nil {
		return nil, unexpected(fmt.Errorf("artifact %q has no body", artifact.FileName))
	}

	rc, err := artifact.Open()
	if err != nil {
		return nil, unexpected(fmt.Errorf("failed to open upload: %w", err))
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, g.maxSize+1))
	if err != nil {
		return nil, unexpected(fmt.Errorf("failed to read upload: %w", err))
	}
	if int64(len(data)) > g.maxSize {
		return nil, inputRejected(g.tooLargeMessage())
	}
	return data, nil
}

func (g *InputGate) tooLargeMessage() string {
	return fmt.Sprintf("File too large (max %s)", humanSize(g.maxSize))
}

func humanSize(n int64) string {
	switch {
	case n%(1024*1024) == 0:
		return fmt.Sprintf("%dMB", n/(1024*1024))
	case n%1024 == 0:
		return fmt.Sprintf("%dKB", n/1024)
	default:
		return fmt.Sprintf("%d bytes", n)
	}
}

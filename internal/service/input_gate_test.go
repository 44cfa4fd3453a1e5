package service

import (
	"errors"
	"io"
	"strings"
	"testing"

	"statement-parser/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func artifactOfSize(name string, size int64) *models.UploadedArtifact {
	return &models.UploadedArtifact{
		FileName: name,
		Size:     size,
		Open: func() (io.ReadCloser, error) {
			return nil, errors.New("body must not be opened by the gate")
		},
	}
}

func TestInputGateCheck(t *testing.T) {
	gate := NewInputGate(DefaultMaxFileSize)

	tests := []struct {
		name     string
		artifact *models.UploadedArtifact
		wantKind FormatKind
		wantErr  string
	}{
		{"missing file", nil, FormatUnknown, "No file uploaded"},
		{"exactly at limit", artifactOfSize("a.pdf", 5*1024*1024), FormatPDF, ""},
		{"one byte over", artifactOfSize("a.pdf", 5*1024*1024+1), FormatUnknown, "File too large (max 5MB)"},
		{"csv", artifactOfSize("bank.csv", 10), FormatCSV, ""},
		{"upper case xlsx", artifactOfSize("BANK.XLSX", 10), FormatSpreadsheet, ""},
		{"mixed case xls", artifactOfSize("bank.Xls", 10), FormatSpreadsheet, ""},
		{"unsupported", artifactOfSize("scan.PNG", 10), FormatUnknown, "Unsupported file type: .png. Supported types: .pdf, .csv, .xlsx, .xls"},
		{"no extension", artifactOfSize("statement", 10), FormatUnknown, "Unsupported file type: . Supported types: .pdf, .csv, .xlsx, .xls"},
		{"size checked before extension", artifactOfSize("huge.exe", 6*1024*1024), FormatUnknown, "File too large (max 5MB)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, err := gate.Check(tt.artifact)
			assert.Equal(t, tt.wantKind, kind)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}

			var pe *PipelineError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, KindInputRejected, pe.Kind)
			assert.Equal(t, tt.wantErr, pe.Reason)
			assert.Empty(t, pe.Detail)
		})
	}
}

func TestInputGateUnsupportedListsExactlyFourExtensions(t *testing.T) {
	gate := NewInputGate(DefaultMaxFileSize)

	for _, ext := range []string{".txt", ".docx", ".json", ".PDFX", ".xlsm"} {
		_, err := gate.Check(artifactOfSize("file"+ext, 1))
		var pe *PipelineError
		require.ErrorAs(t, err, &pe)
		assert.True(t, strings.HasSuffix(pe.Reason, "Supported types: .pdf, .csv, .xlsx, .xls"), ext)
	}
}

func TestInputGateReadBody(t *testing.T) {
	gate := NewInputGate(8)

	data, err := gate.ReadBody(models.NewBytesArtifact("a.csv", []byte("12345678")))
	require.NoError(t, err)
	assert.Equal(t, "12345678", string(data))

	// Declared size lies; the body is still capped.
	lying := models.NewBytesArtifact("a.csv", []byte("123456789"))
	lying.Size = 1
	_, err = gate.ReadBody(lying)
	var pe *PipelineError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, KindInputRejected, pe.Kind)
	assert.Equal(t, "File too large (max 8 bytes)", pe.Reason)
}

func TestHumanSize(t *testing.T) {
	assert.Equal(t, "5MB", humanSize(5*1024*1024))
	assert.Equal(t, "512KB", humanSize(512*1024))
	assert.Equal(t, "100 bytes", humanSize(100))
}

package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"statement-parser/internal/dto"
	"statement-parser/internal/models"
	"statement-parser/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type stubExtractor struct {
	seen []string
}

func (s *stubExtractor) Extract(_ context.Context, artifact *models.UploadedArtifact) (*dto.ResultEnvelope, error) {
	s.seen = append(s.seen, artifact.FileName)
	if filepath.Ext(artifact.FileName) == ".txt" {
		return nil, &service.PipelineError{Kind: service.KindInputRejected, Reason: "Unsupported file type: .txt"}
	}
	return &dto.ResultEnvelope{
		Transactions: []models.ExtractedTransaction{},
		Metadata:     dto.ResultMetadata{FileName: artifact.FileName, FileSize: artifact.Size},
	}, nil
}

type stubRecorder struct {
	calls int
	err   error
}

func (s *stubRecorder) Record(_ context.Context, _ *uuid.UUID, _ *dto.ResultEnvelope) (*models.Document, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &models.Document{ID: uuid.MustParse("6f1c2a44-0d1e-4b43-9b38-0f6f3c1a2b7d")}, nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func readResults(t *testing.T, buf *bytes.Buffer) []fileResult {
	t.Helper()
	var results []fileResult
	scanner := bufio.NewScanner(buf)
	for scanner.Scan() {
		var r fileResult
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &r))
		results = append(results, r)
	}
	require.NoError(t, scanner.Err())
	return results
}

func TestExtractFilesWritesOneLinePerFile(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "bank.csv", "2024-01-05,Coffee,3.50\n")
	bad := writeFile(t, dir, "notes.txt", "hello")
	missing := filepath.Join(dir, "gone.pdf")

	ext := &stubExtractor{}
	var buf bytes.Buffer
	failed, err := extractFiles(context.Background(), ext, nil, []string{good, bad, missing}, &buf, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, 2, failed)
	assert.Equal(t, []string{"bank.csv", "notes.txt"}, ext.seen)

	results := readResults(t, &buf)
	require.Len(t, results, 3)

	require.NotNil(t, results[0].Result)
	assert.Nil(t, results[0].Error)
	assert.Equal(t, int64(23), results[0].Result.Metadata.FileSize)
	assert.Empty(t, results[0].DocumentID)

	require.NotNil(t, results[1].Error)
	assert.Equal(t, "Unsupported file type: .txt", results[1].Error.Error)

	require.NotNil(t, results[2].Error)
	assert.Equal(t, "No file uploaded", results[2].Error.Error)
}

func TestExtractFilesRecordsSuccesses(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "bank.csv", "x")
	bad := writeFile(t, dir, "notes.txt", "x")

	rec := &stubRecorder{}
	var buf bytes.Buffer
	_, err := extractFiles(context.Background(), &stubExtractor{}, rec, []string{good, bad}, &buf, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, 1, rec.calls)

	results := readResults(t, &buf)
	require.Len(t, results, 2)
	assert.Equal(t, "6f1c2a44-0d1e-4b43-9b38-0f6f3c1a2b7d", results[0].DocumentID)
}

func TestExtractFilesRecorderFailureKeepsResult(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "bank.csv", "x")

	var buf bytes.Buffer
	failed, err := extractFiles(context.Background(), &stubExtractor{}, &stubRecorder{err: errors.New("db down")}, []string{good}, &buf, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Zero(t, failed)

	results := readResults(t, &buf)
	require.Len(t, results, 1)
	assert.NotNil(t, results[0].Result)
	assert.Empty(t, results[0].DocumentID)
}

func TestExtractFilesStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ext := &stubExtractor{}
	var buf bytes.Buffer
	_, err := extractFiles(ctx, ext, nil, []string{"a.csv"}, &buf, zaptest.NewLogger(t))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, ext.seen)
}

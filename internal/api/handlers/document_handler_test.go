package handlers

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"statement-parser/internal/dto"
	"statement-parser/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type stubDocuments struct {
	limit, offset int
	listErr       error
	getErr        error
}

func (s *stubDocuments) ListDocuments(_ context.Context, _ *uuid.UUID, limit, offset int) ([]dto.DocumentResponse, error) {
	s.limit, s.offset = limit, offset
	return []dto.DocumentResponse{{ID: "d-1"}}, s.listErr
}

func (s *stubDocuments) GetDocumentTransactions(_ context.Context, _ *uuid.UUID, id uuid.UUID) (*dto.DocumentTransactionsResponse, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return &dto.DocumentTransactionsResponse{Document: dto.DocumentResponse{ID: id.String()}}, nil
}

func newDocumentsApp(t *testing.T, docs documentReader) *fiber.App {
	app := fiber.New()
	h := NewDocumentHandler(docs, zaptest.NewLogger(t))
	app.Get("/documents", h.ListDocuments)
	app.Get("/documents/:id/transactions", h.GetDocumentTransactions)
	return app
}

func TestListDocuments(t *testing.T) {
	docs := &stubDocuments{}
	app := newDocumentsApp(t, docs)

	resp, err := app.Test(httptest.NewRequest("GET", "/documents?limit=5&offset=15", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 5, docs.limit)
	assert.Equal(t, 15, docs.offset)

	docs.listErr = errors.New("db down")
	resp, err = app.Test(httptest.NewRequest("GET", "/documents", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestGetDocumentTransactions(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		getErr error
		status int
	}{
		{"ok", "/documents/" + uuid.NewString() + "/transactions", nil, fiber.StatusOK},
		{"bad id", "/documents/not-a-uuid/transactions", nil, fiber.StatusBadRequest},
		{"not found", "/documents/" + uuid.NewString() + "/transactions", service.ErrDocumentNotFound, fiber.StatusNotFound},
		{"store error", "/documents/" + uuid.NewString() + "/transactions", errors.New("db down"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newDocumentsApp(t, &stubDocuments{getErr: tt.getErr})
			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

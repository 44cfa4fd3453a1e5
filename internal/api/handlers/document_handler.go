package handlers

import (
	"context"
	"errors"

	"statement-parser/internal/dto"
	"statement-parser/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type documentReader interface {
	ListDocuments(ctx context.Context, userID *uuid.UUID, limit, offset int) ([]dto.DocumentResponse, error)
	GetDocumentTransactions(ctx context.Context, userID *uuid.UUID, documentID uuid.UUID) (*dto.DocumentTransactionsResponse, error)
}

type DocumentHandler struct {
	docService documentReader
	logger     *zap.Logger
}

func NewDocumentHandler(docService documentReader, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{
		docService: docService,
		logger:     logger,
	}
}

// ListDocuments godoc
// @Summary List processed documents
// @Description Get previously extracted documents, newest first
// @Tags documents
// @Produce json
// @Param limit query int false "Limit" default(10)
// @Param offset query int false "Offset" default(0)
// @Security Bearer
// @Success 200 {array} dto.DocumentResponse
// @Failure 401 {object} map[string]string
// @Router /api/v1/documents [get]
func (h *DocumentHandler) ListDocuments(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)
	offset := c.QueryInt("offset", 0)

	docs, err := h.docService.ListDocuments(c.UserContext(), userIDFromLocals(c), limit, offset)
	if err != nil {
		h.logger.Error("Failed to list documents", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list documents",
		})
	}

	return c.JSON(docs)
}

// GetDocumentTransactions godoc
// @Summary Get transactions of a processed document
// @Tags documents
// @Produce json
// @Param id path string true "Document ID"
// @Security Bearer
// @Success 200 {object} dto.DocumentTransactionsResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/documents/{id}/transactions [get]
func (h *DocumentHandler) GetDocumentTransactions(c *fiber.Ctx) error {
	documentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid document ID",
		})
	}

	resp, err := h.docService.GetDocumentTransactions(c.UserContext(), userIDFromLocals(c), documentID)
	if errors.Is(err, service.ErrDocumentNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Document not found",
		})
	}
	if err != nil {
		h.logger.Error("Failed to load document", zap.String("document_id", documentID.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load document",
		})
	}

	return c.JSON(resp)
}

package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"

	"statement-parser/internal/dto"
	"statement-parser/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

type extractor interface {
	Extract(ctx context.Context, artifact *models.UploadedArtifact) (*dto.ResultEnvelope, error)
}

type recorder interface {
	Record(ctx context.Context, userID *uuid.UUID, envelope *dto.ResultEnvelope) (*models.Document, error)
}

type ExtractionHandler struct {
	extractor extractor
	recorder  recorder
	fieldName string
	logger    *zap.Logger
}

// NewExtractionHandler wires the upload endpoint. rec may be nil when no
// database is configured.
func NewExtractionHandler(ext extractor, rec recorder, fieldName string, logger *zap.Logger) *ExtractionHandler {
	return &ExtractionHandler{
		extractor: ext,
		recorder:  rec,
		fieldName: fieldName,
		logger:    logger,
	}
}

// ExtractTransactions godoc
// @Summary Extract transactions from a financial document
// @Description Upload a PDF, CSV, XLSX or XLS file (max 5MB). Its text is classified into transactions by the configured language model.
// @Tags transactions
// @Accept multipart/form-data
// @Produce json
// @Param receipt formData file true "Document file (.pdf, .csv, .xlsx, .xls)"
// @Security Bearer
// @Success 200 {object} dto.ResultEnvelope
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} map[string]string
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/file-transaction [post]
func (h *ExtractionHandler) ExtractTransactions(c *fiber.Ctx) error {
	var artifact *models.UploadedArtifact
	file, err := c.FormFile(h.fieldName)
	switch {
	case err == nil:
		artifact = &models.UploadedArtifact{
			FileName: file.Filename,
			Size:     file.Size,
			Open: func() (io.ReadCloser, error) {
				return file.Open()
			},
		}
	case errors.Is(err, fasthttp.ErrMissingFile):
		// A nil artifact is rejected by the input gate.
	default:
		h.logger.Error("Failed to read multipart form", zap.Error(err))
		status, body := errorResponse(fmt.Errorf("failed to read multipart form: %w", err))
		return c.Status(status).JSON(body)
	}

	ctx := c.UserContext()
	envelope, err := h.extractor.Extract(ctx, artifact)
	if err != nil {
		status, body := errorResponse(err)
		if status >= fiber.StatusInternalServerError {
			h.logger.Error("Transaction extraction failed", zap.Error(err))
		}
		return c.Status(status).JSON(body)
	}

	if h.recorder != nil {
		if _, err := h.recorder.Record(ctx, userIDFromLocals(c), envelope); err != nil {
			h.logger.Warn("Failed to record extraction", zap.Error(err))
		}
	}

	return c.JSON(envelope)
}

// userIDFromLocals returns the authenticated user, or nil when auth is off.
func userIDFromLocals(c *fiber.Ctx) *uuid.UUID {
	userIDStr, ok := c.Locals("userID").(string)
	if !ok {
		return nil
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil
	}
	return &userID
}

package service

import (
	"context"
	"errors"
	"time"

	"statement-parser/internal/dto"
	"statement-parser/internal/models"
	"statement-parser/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrDocumentNotFound = errors.New("document not found")

type documentStore interface {
	CreateWithTransactions(ctx context.Context, doc *models.Document, txs []*models.StoredTransaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error)
	ListByUserID(ctx context.Context, userID *uuid.UUID, limit, offset int) ([]*models.Document, error)
}

type transactionStore interface {
	GetByDocumentID(ctx context.Context, documentID uuid.UUID) ([]*models.StoredTransaction, error)
}

// DocumentService keeps a history of completed extractions.
type DocumentService struct {
	docRepo documentStore
	txRepo  transactionStore
	now     func() time.Time
	logger  *zap.Logger
}

func NewDocumentService(docRepo documentStore, txRepo transactionStore, logger *zap.Logger) *DocumentService {
	return &DocumentService{
		docRepo: docRepo,
		txRepo:  txRepo,
		now:     time.Now,
		logger:  logger,
	}
}

// Record stores an envelope produced by ExtractionService.
func (s *DocumentService) Record(ctx context.Context, userID *uuid.UUID, envelope *dto.ResultEnvelope) (*models.Document, error) {
	now := s.now().UTC()
	format, _ := FormatForFile(envelope.Metadata.FileName)

	doc := &models.Document{
		ID:                  uuid.New(),
		UserID:              userID,
		FileName:            sanitizeUTF8(envelope.Metadata.FileName),
		FileSize:            envelope.Metadata.FileSize,
		Format:              format.String(),
		ExtractedTextLength: envelope.Metadata.ExtractedTextLength,
		TransactionCount:    envelope.Metadata.TotalTransactions,
		CreatedAt:           now,
	}

	stored := make([]*models.StoredTransaction, 0, len(envelope.Transactions))
	for i, tx := range envelope.Transactions {
		stored = append(stored, &models.StoredTransaction{
			ID:           uuid.New(),
			DocumentID:   doc.ID,
			Position:     i,
			Date:         sanitizeUTF8(tx.Date),
			Description:  sanitizeUTF8(tx.Description),
			Amount:       tx.Amount,
			Type:         tx.Type,
			ClassifiedAs: tx.ClassifiedAs,
			CreatedAt:    now,
		})
	}

	if err := s.docRepo.CreateWithTransactions(ctx, doc, stored); err != nil {
		return nil, err
	}

	s.logger.Info("Extraction recorded",
		zap.String("document_id", doc.ID.String()),
		zap.Int("transactions", len(stored)),
	)
	return doc, nil
}

func (s *DocumentService) ListDocuments(ctx context.Context, userID *uuid.UUID, limit, offset int) ([]dto.DocumentResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	docs, err := s.docRepo.ListByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		responses = append(responses, documentResponse(doc))
	}
	return responses, nil
}

// GetDocumentTransactions returns a document with its transactions. Documents
// owned by another user are reported as not found.
func (s *DocumentService) GetDocumentTransactions(ctx context.Context, userID *uuid.UUID, documentID uuid.UUID) (*dto.DocumentTransactionsResponse, error) {
	doc, err := s.docRepo.GetByID(ctx, documentID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, err
	}
	if userID != nil && (doc.UserID == nil || *doc.UserID != *userID) {
		return nil, ErrDocumentNotFound
	}

	txs, err := s.txRepo.GetByDocumentID(ctx, documentID)
	if err != nil {
		return nil, err
	}

	resp := &dto.DocumentTransactionsResponse{
		Document:     documentResponse(doc),
		Transactions: make([]dto.StoredTransactionResponse, 0, len(txs)),
	}
	for _, tx := range txs {
		resp.Transactions = append(resp.Transactions, dto.StoredTransactionResponse{
			Position:     tx.Position,
			Date:         tx.Date,
			Description:  tx.Description,
			Amount:       tx.Amount,
			Type:         string(tx.Type),
			ClassifiedAs: string(tx.ClassifiedAs),
		})
	}
	return resp, nil
}

func documentResponse(doc *models.Document) dto.DocumentResponse {
	return dto.DocumentResponse{
		ID:                  doc.ID.String(),
		FileName:            doc.FileName,
		FileSize:            doc.FileSize,
		Format:              doc.Format,
		ExtractedTextLength: doc.ExtractedTextLength,
		TransactionCount:    doc.TransactionCount,
		CreatedAt:           doc.CreatedAt.Format(time.RFC3339),
	}
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"statement-parser/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var ErrNotFound = errors.New("record not found")

var documentColumns = []string{
	"id", "user_id", "file_name", "file_size", "format", "extracted_text_length", "transaction_count", "created_at",
}

type DocumentRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewDocumentRepository(db *pgxpool.Pool, logger *zap.Logger) *DocumentRepository {
	return &DocumentRepository{
		db:     db,
		logger: logger,
	}
}

// CreateWithTransactions stores a document and its transactions atomically.
func (r *DocumentRepository) CreateWithTransactions(ctx context.Context, doc *models.Document, txs []*models.StoredTransaction) error {
	docSQL, docArgs, err := insertDocumentQuery(doc).ToSql()
	if err != nil {
		return err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			r.logger.Warn("Rollback failed", zap.Error(err))
		}
	}()

	if _, err := tx.Exec(ctx, docSQL, docArgs...); err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}

	if len(txs) > 0 {
		txSQL, txArgs, err := insertTransactionsQuery(txs).ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, txSQL, txArgs...); err != nil {
			return fmt.Errorf("failed to insert transactions: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (r *DocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	sql, args, err := squirrel.Select(documentColumns...).
		From("documents").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var doc models.Document
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&doc.ID, &doc.UserID, &doc.FileName, &doc.FileSize, &doc.Format, &doc.ExtractedTextLength, &doc.TransactionCount, &doc.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &doc, nil
}

// ListByUserID lists documents newest first. A nil userID lists all documents.
func (r *DocumentRepository) ListByUserID(ctx context.Context, userID *uuid.UUID, limit, offset int) ([]*models.Document, error) {
	sql, args, err := listDocumentsQuery(userID, limit, offset).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	documents := []*models.Document{}
	for rows.Next() {
		var doc models.Document
		if err := rows.Scan(
			&doc.ID, &doc.UserID, &doc.FileName, &doc.FileSize, &doc.Format, &doc.ExtractedTextLength, &doc.TransactionCount, &doc.CreatedAt,
		); err != nil {
			return nil, err
		}
		documents = append(documents, &doc)
	}

	return documents, rows.Err()
}

func insertDocumentQuery(doc *models.Document) squirrel.InsertBuilder {
	return squirrel.Insert("documents").
		Columns(documentColumns...).
		Values(doc.ID, doc.UserID, doc.FileName, doc.FileSize, doc.Format, doc.ExtractedTextLength, doc.TransactionCount, doc.CreatedAt).
		PlaceholderFormat(squirrel.Dollar)
}

func listDocumentsQuery(userID *uuid.UUID, limit, offset int) squirrel.SelectBuilder {
	query := squirrel.Select(documentColumns...).
		From("documents").
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		PlaceholderFormat(squirrel.Dollar)
	if userID != nil {
		query = query.Where(squirrel.Eq{"user_id": *userID})
	}
	return query
}

package repository

import (
	"context"

	"statement-parser/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var transactionColumns = []string{
	"id", "document_id", "position", "date", "description", "amount", "type", "classified_as", "created_at",
}

type TransactionRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTransactionRepository(db *pgxpool.Pool, logger *zap.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:     db,
		logger: logger,
	}
}

// GetByDocumentID returns transactions in the order the model produced them.
func (r *TransactionRepository) GetByDocumentID(ctx context.Context, documentID uuid.UUID) ([]*models.StoredTransaction, error) {
	sql, args, err := squirrel.Select(transactionColumns...).
		From("extracted_transactions").
		Where(squirrel.Eq{"document_id": documentID}).
		OrderBy("position ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := []*models.StoredTransaction{}
	for rows.Next() {
		var tx models.StoredTransaction
		if err := rows.Scan(
			&tx.ID, &tx.DocumentID, &tx.Position, &tx.Date, &tx.Description, &tx.Amount, &tx.Type, &tx.ClassifiedAs, &tx.CreatedAt,
		); err != nil {
			return nil, err
		}
		transactions = append(transactions, &tx)
	}

	return transactions, rows.Err()
}

func insertTransactionsQuery(transactions []*models.StoredTransaction) squirrel.InsertBuilder {
	builder := squirrel.Insert("extracted_transactions").
		Columns(transactionColumns...).
		PlaceholderFormat(squirrel.Dollar)

	for _, tx := range transactions {
		builder = builder.Values(tx.ID, tx.DocumentID, tx.Position, tx.Date, tx.Description, tx.Amount, tx.Type, tx.ClassifiedAs, tx.CreatedAt)
	}
	return builder
}

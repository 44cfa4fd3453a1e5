package models

import (
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TransactionTypeCredit TransactionType = "Credit"
	TransactionTypeDebit  TransactionType = "Debit"
)

func (t TransactionType) Valid() bool {
	return t == TransactionTypeCredit || t == TransactionTypeDebit
}

type Classification string

const (
	ClassificationIncome  Classification = "Income"
	ClassificationExpense Classification = "Expense"
)

func (c Classification) Valid() bool {
	return c == ClassificationIncome || c == ClassificationExpense
}

// ExtractedTransaction is one validated record returned by the classifier.
type ExtractedTransaction struct {
	Date         string          `json:"date"`
	Description  string          `json:"description"`
	Amount       float64         `json:"amount"`
	Type         TransactionType `json:"type"`
	ClassifiedAs Classification  `json:"classifiedAs"`
}

// StoredTransaction is an ExtractedTransaction persisted against a document.
type StoredTransaction struct {
	ID           uuid.UUID       `db:"id"`
	DocumentID   uuid.UUID       `db:"document_id"`
	Position     int             `db:"position"`
	Date         string          `db:"date"`
	Description  string          `db:"description"`
	Amount       float64         `db:"amount"`
	Type         TransactionType `db:"type"`
	ClassifiedAs Classification  `db:"classified_as"`
	CreatedAt    time.Time       `db:"created_at"`
}

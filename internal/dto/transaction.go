package dto

import "statement-parser/internal/models"

// ResultEnvelope is the successful response of a file extraction.
type ResultEnvelope struct {
	Transactions []models.ExtractedTransaction `json:"transactions"`
	Metadata     ResultMetadata                `json:"metadata"`
}

type ResultMetadata struct {
	TotalTransactions   int    `json:"totalTransactions"`
	FileName            string `json:"fileName"`
	FileSize            int64  `json:"fileSize"`
	ExtractedTextLength int    `json:"extractedTextLength"`
}

// ErrorResponse is the body of every failed extraction. Message is omitted
// for input rejections.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type StoredTransactionResponse struct {
	Position     int     `json:"position"`
	Date         string  `json:"date"`
	Description  string  `json:"description"`
	Amount       float64 `json:"amount"`
	Type         string  `json:"type"`
	ClassifiedAs string  `json:"classifiedAs"`
}

package service

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"statement-parser/internal/models"

	"go.uber.org/zap"
)

var leadingFence = regexp.MustCompile("^```[A-Za-z0-9_+-]*")

// RejectedRecord describes a model record dropped during validation.
type RejectedRecord struct {
	Index  int
	Reason string
}

// SanitizeModelResponse strips a surrounding Markdown code fence, including an
// optional language tag, and the whitespace around it.
func SanitizeModelResponse(raw string) string {
	s := strings.TrimSpace(raw)
	s = leadingFence.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// DecodeModelResponse is the syntactic phase: sanitize, decode strictly and
// require a top-level array.
func DecodeModelResponse(raw string) ([]any, error) {
	var parsed any
	if err := json.Unmarshal([]byte(SanitizeModelResponse(raw)), &parsed); err != nil {
		return nil, malformedJSON(err)
	}

	items, ok := parsed.([]any)
	if !ok {
		return nil, notAnArray()
	}
	return items, nil
}

// ValidateTransactions is the semantic phase. It keeps well-formed records in
// their original order and reports the rest; it never fails.
func ValidateTransactions(items []any) ([]models.ExtractedTransaction, []RejectedRecord) {
	valid := make([]models.ExtractedTransaction, 0, len(items))
	var rejected []RejectedRecord

	for i, item := range items {
		tx, reason := validateRecord(item)
		if reason != "" {
			rejected = append(rejected, RejectedRecord{Index: i, Reason: reason})
			continue
		}
		valid = append(valid, tx)
	}
	return valid, rejected
}

func validateRecord(item any) (models.ExtractedTransaction, string) {
	rec, ok := item.(map[string]any)
	if !ok {
		return models.ExtractedTransaction{}, fmt.Sprintf("expected object, got %s", jsonKind(item))
	}

	date, ok := rec["date"].(string)
	if !ok {
		return models.ExtractedTransaction{}, "date is not a string"
	}
	description, ok := rec["description"].(string)
	if !ok {
		return models.ExtractedTransaction{}, "description is not a string"
	}
	amount, ok := rec["amount"].(float64)
	if !ok {
		return models.ExtractedTransaction{}, "amount is not a number"
	}

	typ, _ := rec["type"].(string)
	if !models.TransactionType(typ).Valid() {
		return models.ExtractedTransaction{}, "type must be Credit or Debit"
	}
	class, _ := rec["classifiedAs"].(string)
	if !models.Classification(class).Valid() {
		return models.ExtractedTransaction{}, "classifiedAs must be Income or Expense"
	}

	return models.ExtractedTransaction{
		Date:         date,
		Description:  description,
		Amount:       amount,
		Type:         models.TransactionType(typ),
		ClassifiedAs: models.Classification(class),
	}, ""
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// ResponseParser runs both phases and logs dropped records.
type ResponseParser struct {
	logger *zap.Logger
}

func NewResponseParser(logger *zap.Logger) *ResponseParser {
	return &ResponseParser{logger: logger}
}

func (p *ResponseParser) Parse(raw string) ([]models.ExtractedTransaction, error) {
	items, err := DecodeModelResponse(raw)
	if err != nil {
		p.logger.Error("Failed to decode model response",
			zap.Error(err),
			zap.Int("raw_length", len(raw)),
		)
		return nil, err
	}

	valid, rejected := ValidateTransactions(items)
	for _, r := range rejected {
		p.logger.Warn("Invalid transaction object dropped",
			zap.Int("index", r.Index),
			zap.String("reason", r.Reason),
		)
	}

	p.logger.Info("Model response validated",
		zap.Int("records", len(items)),
		zap.Int("valid", len(valid)),
		zap.Int("dropped", len(rejected)),
	)
	return valid, nil
}

package service

import (
	"testing"

	"statement-parser/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestSanitizeModelResponse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain", `[]`, `[]`},
		{"json fence", "```json\n[1]\n```", `[1]`},
		{"bare fence", "```\n[1]\n```", `[1]`},
		{"fence on one line", "```json[1]```", `[1]`},
		{"surrounding whitespace", "  \n```JSON\n [1] \n```  \n", `[1]`},
		{"no closing fence", "```json\n[1]", `[1]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeModelResponse(tt.raw))
		})
	}
}

func TestDecodeModelResponse(t *testing.T) {
	t.Run("not json", func(t *testing.T) {
		items, err := DecodeModelResponse("Sorry, I cannot process this.")
		assert.Nil(t, items)

		var pe *PipelineError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, KindResponseMalformed, pe.Kind)
		assert.Equal(t, "Failed to parse AI response", pe.Reason)
		assert.Equal(t, "The AI returned invalid JSON format", pe.Detail)
	})

	t.Run("single object", func(t *testing.T) {
		_, err := DecodeModelResponse(`{"date":"2024-01-05","description":"x","amount":1,"type":"Debit","classifiedAs":"Expense"}`)

		var pe *PipelineError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, KindResponseMalformed, pe.Kind)
		assert.Equal(t, "Invalid AI response format", pe.Reason)
		assert.Equal(t, "Expected array of transactions", pe.Detail)
	})

	t.Run("trailing garbage", func(t *testing.T) {
		_, err := DecodeModelResponse(`[] and more`)
		var pe *PipelineError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "Failed to parse AI response", pe.Reason)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := DecodeModelResponse("```json\n```")
		var pe *PipelineError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "Failed to parse AI response", pe.Reason)
	})

	t.Run("array", func(t *testing.T) {
		items, err := DecodeModelResponse("```json\n[1, {\"a\": 2}]\n```")
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})
}

func validRecord() map[string]any {
	return map[string]any{
		"date":         "2024-01-05",
		"description":  "Grocery Store",
		"amount":       45.2,
		"type":         "Debit",
		"classifiedAs": "Expense",
	}
}

func TestValidateTransactions(t *testing.T) {
	mutate := func(f func(map[string]any)) map[string]any {
		r := validRecord()
		f(r)
		return r
	}

	items := []any{
		validRecord(),
		nil,
		"2024-01-05 Grocery Store 45.20",
		[]any{validRecord()},
		mutate(func(r map[string]any) { delete(r, "amount") }),
		mutate(func(r map[string]any) { r["amount"] = "45.20" }),
		mutate(func(r map[string]any) { delete(r, "date") }),
		mutate(func(r map[string]any) { r["date"] = nil }),
		mutate(func(r map[string]any) { r["description"] = 12.0 }),
		mutate(func(r map[string]any) { r["type"] = "debit" }),
		mutate(func(r map[string]any) { r["classifiedAs"] = "Transfer" }),
		mutate(func(r map[string]any) { r["type"] = "Credit"; r["classifiedAs"] = "Income"; r["amount"] = 0.0 }),
	}

	valid, rejected := ValidateTransactions(items)

	require.Len(t, valid, 2)
	assert.Equal(t, models.ExtractedTransaction{
		Date: "2024-01-05", Description: "Grocery Store", Amount: 45.2,
		Type: models.TransactionTypeDebit, ClassifiedAs: models.ClassificationExpense,
	}, valid[0])
	assert.Equal(t, models.TransactionTypeCredit, valid[1].Type)

	require.Len(t, rejected, 10)
	assert.Equal(t, 1, rejected[0].Index)
	assert.Equal(t, "expected object, got null", rejected[0].Reason)
	assert.Equal(t, "amount is not a number", rejected[3].Reason)
}

func TestValidateTransactionsToleratesExtraFields(t *testing.T) {
	rec := validRecord()
	rec["currency"] = "USD"

	valid, rejected := ValidateTransactions([]any{rec})
	require.Len(t, valid, 1)
	assert.Empty(t, rejected)
}

func TestResponseParserDropsInvalidRecords(t *testing.T) {
	p := NewResponseParser(zaptest.NewLogger(t))
	raw := "```json\n" + `[
  {"date":"2024-01-05","description":"Grocery Store","amount":45.20,"type":"Debit","classifiedAs":"Expense"},
  {"date":"2024-01-06","description":"Salary","type":"Credit","classifiedAs":"Income"}
]` + "\n```"

	txs, err := p.Parse(raw)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "Grocery Store", txs[0].Description)
}

func TestResponseParserEmptyArray(t *testing.T) {
	p := NewResponseParser(zaptest.NewLogger(t))

	txs, err := p.Parse("[]")
	require.NoError(t, err)
	assert.NotNil(t, txs)
	assert.Empty(t, txs)
}

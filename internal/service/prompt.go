package service

const classificationPrompt = `You are a personal finance assistant.

Classify each line as a transaction with these fields:
- date
- description
- amount
- type ("Credit" or "Debit")
- classifiedAs ("Income" or "Expense")

If a line doesn't contain a transaction, skip it.
Output a JSON array. Use today's date if no date is present.

TEXT:
"""`

// BuildClassificationPrompt embeds the extracted text in the fixed
// classification instruction.
func BuildClassificationPrompt(text string) string {
	return classificationPrompt + text + `"""`
}

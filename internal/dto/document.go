package dto

type DocumentResponse struct {
	ID                  string `json:"id"`
	FileName            string `json:"fileName"`
	FileSize            int64  `json:"fileSize"`
	Format              string `json:"format"`
	ExtractedTextLength int    `json:"extractedTextLength"`
	TransactionCount    int    `json:"transactionCount"`
	CreatedAt           string `json:"createdAt"`
}

type DocumentTransactionsResponse struct {
	Document     DocumentResponse            `json:"document"`
	Transactions []StoredTransactionResponse `json:"transactions"`
}

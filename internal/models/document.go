package models

import (
	"time"

	"github.com/google/uuid"
)

// Document records one completed extraction.
type Document struct {
	ID                  uuid.UUID  `db:"id"`
	UserID              *uuid.UUID `db:"user_id"`
	FileName            string     `db:"file_name"`
	FileSize            int64      `db:"file_size"`
	Format              string     `db:"format"`
	ExtractedTextLength int        `db:"extracted_text_length"`
	TransactionCount    int        `db:"transaction_count"`
	CreatedAt           time.Time  `db:"created_at"`
}

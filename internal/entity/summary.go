package entity

import (
	"time"

	"github.com/google/uuid"
)

// Summary is the model-generated summary of a completed extraction's
// matched text. Exactly one per completed extraction.
type Summary struct {
	ID           uuid.UUID `json:"id"`
	ExtractionID uuid.UUID `json:"extraction_id"`
	Content      string    `json:"content"`
	WordCount    int       `json:"word_count"`
	Model        string    `json:"model"`
	CreatedAt    time.Time `json:"created_at"`
}

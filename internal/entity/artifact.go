package entity

import (
	"time"

	"github.com/google/uuid"
)

// Artifact is the synthesized output PDF for a completed extraction.
// Exactly one per completed extraction; immutable thereafter.
type Artifact struct {
	ID           uuid.UUID `json:"id"`
	ExtractionID uuid.UUID `json:"extraction_id"`
	FilePath     string    `json:"file_path"`
	FileSize     int64     `json:"file_size"`
	PageCount    int       `json:"page_count"`
	MatchCount   int       `json:"match_count"`
	CreatedAt    time.Time `json:"created_at"`
}

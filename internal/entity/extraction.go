package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/pdf-extract/constants"
)

// Extraction represents one keyword extraction job for data transfer between layers.
type Extraction struct {
	ID                uuid.UUID           `json:"id"`
	Name              string              `json:"name"`
	Keywords          string              `json:"keywords"` // comma-separated global list
	Scope             constants.Scope     `json:"scope"`
	CaseSensitive     bool                `json:"case_sensitive"`
	IncludeContext    bool                `json:"include_context"`
	CompleteSentences bool                `json:"complete_sentences"`
	Status            constants.JobStatus `json:"status"`
	ErrorMessage      *string             `json:"error_message,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
	CompletedAt       *time.Time          `json:"completed_at,omitempty"`
}

// DocumentCriteria carries the per-document keyword override supplied by the
// caller under the "per-document" scope. Not persisted as its own row.
type DocumentCriteria struct {
	DocumentID uuid.UUID `json:"document_id"`
	Keywords   string    `json:"keywords"` // comma-separated
	Alias      string    `json:"alias,omitempty"`
}

package entity

import (
	"time"

	"github.com/google/uuid"
)

// MatchedSegment is one contiguous unit of matched text with its provenance.
// Immutable once produced by the matcher. MatchedKeywords is a comma-joined,
// non-empty subset of the keyword list that was active for the document.
type MatchedSegment struct {
	ID              uuid.UUID `json:"id"`
	ExtractionID    uuid.UUID `json:"extraction_id"`
	DocumentID      uuid.UUID `json:"document_id"`
	Text            string    `json:"text"`
	Page            int       `json:"page"` // coarse estimate, 0 when unknown
	SectionNumber   int       `json:"section_number"`
	SectionTitle    string    `json:"section_title,omitempty"`
	MatchedKeywords string    `json:"matched_keywords"`
	CreatedAt       time.Time `json:"created_at"`
}

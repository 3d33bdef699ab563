package entity

import (
	"time"

	"github.com/google/uuid"
)

// Document represents an uploaded source document. Immutable once created.
type Document struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	SourcePath string    `json:"source_path"` // opaque stored-bytes path
	FileSize   int64     `json:"file_size"`
	MimeType   string    `json:"mime_type"`
	UploadedAt time.Time `json:"uploaded_at"`
}

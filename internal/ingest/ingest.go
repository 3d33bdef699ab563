package ingest

import (
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/pdf-extract/constants"
)

// IngestionResult describes a single file picked up from the inbox.
type IngestionResult struct {
	SourcePath   string
	DocumentID   string
	Deduplicated bool
	FileSize     int64
	Err          string
}

// DirStats aggregates a directory scan.
type DirStats struct {
	Scanned  int
	Ingested int
	Dedup    int
	Skipped  int
	Failed   int
}

// AllowedExt checks if a file extension is in the allowed set.
func AllowedExt(ext string) bool {
	return constants.IsAllowedExt(ext)
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".")
}

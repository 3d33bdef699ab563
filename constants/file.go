package constants

import "strings"

// AllowedExtensions holds the file extensions accepted for document ingestion.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
}

// MimePDF is the mime type recorded for ingested PDF documents.
const MimePDF = "application/pdf"

// MinDirectTextLen is the threshold below which direct PDF text extraction is
// considered to have failed (scanned document) and OCR takes over.
const MinDirectTextLen = 100

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsAllowedExt reports whether the (dotted or bare) extension is ingestible.
func IsAllowedExt(ext string) bool {
	_, ok := AllowedExtensions[NormalizeExt(ext)]
	return ok
}

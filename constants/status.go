package constants

// JobStatus is the canonical status for rows in extractions.
type JobStatus string

// Stable values (store these exact strings in DB).
const (
	JobStatusPending    JobStatus = "pending"    // created, not yet picked up
	JobStatusProcessing JobStatus = "processing" // in progress
	JobStatusCompleted  JobStatus = "completed"  // terminal success: artifact + summary exist
	JobStatusFailed     JobStatus = "failed"     // terminal failure, error message set
)

// Terminal reports whether a status can no longer change.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// Scope decides how keywords apply across an extraction's documents.
type Scope string

const (
	ScopeAll           Scope = "all"            // one keyword list for every document
	ScopePerDocument   Scope = "per-document"   // each document carries its own criteria
	ScopeSpecificPages Scope = "specific-pages" // accepted; keyword handling same as "all"
)

// ValidScope reports whether s is one of the accepted scope values.
func ValidScope(s Scope) bool {
	switch s {
	case ScopeAll, ScopePerDocument, ScopeSpecificPages:
		return true
	}
	return false
}

// NoMatchesMessage is the job failure message when every document yielded
// zero matched segments. Kept stable: it is surfaced to users verbatim.
const NoMatchesMessage = "no relevant text found matching the specified keywords"

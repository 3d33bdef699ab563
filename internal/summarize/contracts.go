// Package summarize defines the summarization capability the engine consumes
// and the provider-error taxonomy surfaced to the orchestrator.
package summarize

import (
	"context"
	"strings"
)

// Result is a produced summary. WordCount counts whitespace-delimited tokens
// of Content.
type Result struct {
	Content   string
	WordCount int
	Model     string
}

// Summarizer turns matched text into a summary. Implementations classify
// provider failures but never retry; retry policy belongs to callers.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (Result, error)
}

// WordCount counts whitespace-delimited tokens.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// JoinSegments builds the summarizer input from matched segment texts in
// aggregation order.
func JoinSegments(texts []string) string {
	return strings.Join(texts, "\n\n")
}

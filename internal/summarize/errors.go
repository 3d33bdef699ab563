package summarize

import (
	"fmt"
	"strings"
)

// FailureKind classifies provider failures where the provider signals a
// distinguishable cause.
type FailureKind string

const (
	FailureRateLimited FailureKind = "rate_limited"
	FailureQuota       FailureKind = "quota_exceeded"
	FailureAuth        FailureKind = "auth_failed"
	FailureUnknown     FailureKind = "unknown"
)

// ProviderError preserves the underlying provider message for diagnostics
// alongside its classification.
type ProviderError struct {
	Kind       FailureKind
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	switch e.Kind {
	case FailureAuth:
		return fmt.Sprintf("summarization provider auth failed: %s", e.Message)
	case FailureQuota:
		return fmt.Sprintf("summarization provider quota exceeded: %s", e.Message)
	case FailureRateLimited:
		return fmt.Sprintf("summarization provider rate limit exceeded: %s", e.Message)
	}
	return fmt.Sprintf("summarization failed: %s", e.Message)
}

// Classify maps an HTTP status and response body onto a failure kind.
func Classify(status int, body string) *ProviderError {
	kind := FailureUnknown
	lower := strings.ToLower(body)
	switch {
	case status == 401 || status == 403 || strings.Contains(lower, "api key"):
		kind = FailureAuth
	case strings.Contains(lower, "insufficient_quota") || strings.Contains(lower, "quota") || strings.Contains(lower, "billing"):
		kind = FailureQuota
	case status == 429 || strings.Contains(lower, "rate limit"):
		kind = FailureRateLimited
	}
	return &ProviderError{Kind: kind, StatusCode: status, Message: strings.TrimSpace(body)}
}

// Package match splits acquired text into candidate units and filters them
// against keyword lists, producing matched segments with provenance.
//
// Two splitting strategies exist: sentence-based (the engine default) and
// section-based. Both are deterministic, never mutate their input, and only
// emit a segment when at least one keyword matched.
package match

import (
	"strings"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/pdf-extract/internal/entity"
)

// Options are the per-extraction matching flags.
type Options struct {
	CaseSensitive     bool // substring match folds case when false
	IncludeContext    bool // sentence strategy: include neighbouring sentences
	CompleteSentences bool // sentence strategy: ensure terminal punctuation
}

// Ref carries the provenance stamped onto every produced segment.
type Ref struct {
	ExtractionID uuid.UUID
	DocumentID   uuid.UUID
}

// Strategy is one way of splitting text into candidate units.
type Strategy interface {
	Name() string
	Match(ref Ref, text string, keywords []string, opts Options) []entity.MatchedSegment
}

// ForName returns the strategy for a config name, defaulting to sentence.
func ForName(name string) Strategy {
	if name == "section" {
		return SectionStrategy{}
	}
	return SentenceStrategy{}
}

// matchedKeywords returns the subset of keywords contained in text, in input
// order. Case is folded unless caseSensitive is set.
func matchedKeywords(text string, keywords []string, caseSensitive bool) []string {
	hay := text
	if !caseSensitive {
		hay = strings.ToLower(text)
	}
	var out []string
	for _, k := range keywords {
		needle := k
		if !caseSensitive {
			needle = strings.ToLower(k)
		}
		if needle != "" && strings.Contains(hay, needle) {
			out = append(out, k)
		}
	}
	return out
}

func endsWithTerminator(s string) bool {
	if s == "" {
		return false
	}
	switch s[len(s)-1] {
	case '.', '!', '?':
		return true
	}
	return false
}

package match

import (
	"strings"

	"github.com/joseph-ayodele/pdf-extract/internal/entity"
)

// SentenceStrategy splits text on sentence-ending punctuation and checks each
// sentence for keyword containment. The page estimate is a coarse heuristic:
// fifty sentences per page.
type SentenceStrategy struct{}

func (SentenceStrategy) Name() string { return "sentence" }

const sentencesPerPage = 50

func (SentenceStrategy) Match(ref Ref, text string, keywords []string, opts Options) []entity.MatchedSegment {
	if strings.TrimSpace(text) == "" || len(keywords) == 0 {
		return nil
	}
	sentences := splitSentences(text)

	var out []entity.MatchedSegment
	for i, sentence := range sentences {
		matched := matchedKeywords(sentence, keywords, opts.CaseSensitive)
		if len(matched) == 0 {
			continue
		}

		unit := sentence
		if opts.IncludeContext {
			parts := make([]string, 0, 3)
			if i > 0 {
				parts = append(parts, sentences[i-1])
			}
			parts = append(parts, sentence)
			if i < len(sentences)-1 {
				parts = append(parts, sentences[i+1])
			}
			unit = strings.Join(parts, ". ")
		}
		if opts.CompleteSentences && !endsWithTerminator(unit) {
			unit += "."
		}

		out = append(out, entity.MatchedSegment{
			ExtractionID:    ref.ExtractionID,
			DocumentID:      ref.DocumentID,
			Text:            unit,
			Page:            i/sentencesPerPage + 1,
			MatchedKeywords: strings.Join(matched, ", "),
		})
	}
	return out
}

// splitSentences breaks text on . ! ? into trimmed sentences without their
// terminators, discarding empties. Newlines inside a sentence collapse to
// spaces so wrapped source lines read as one unit.
func splitSentences(text string) []string {
	var out []string
	var sb strings.Builder
	flush := func() {
		s := strings.TrimSpace(sb.String())
		sb.Reset()
		if s != "" {
			out = append(out, s)
		}
	}
	for _, r := range text {
		switch r {
		case '.', '!', '?':
			flush()
		case '\n', '\r', '\f':
			sb.WriteByte(' ')
		default:
			sb.WriteRune(r)
		}
	}
	flush()
	return out
}

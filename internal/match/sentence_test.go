package match

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

var testRef = Ref{ExtractionID: uuid.New(), DocumentID: uuid.New()}

func TestSentenceMatchBasic(t *testing.T) {
	text := "Quarterly revenue grew 10%. Expenses fell. Nothing else happened."
	segs := SentenceStrategy{}.Match(testRef, text, []string{"revenue"}, Options{CompleteSentences: true})

	if len(segs) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segs))
	}
	if segs[0].Text != "Quarterly revenue grew 10%." {
		t.Errorf("segment text = %q", segs[0].Text)
	}
	if segs[0].MatchedKeywords != "revenue" {
		t.Errorf("matched keywords = %q", segs[0].MatchedKeywords)
	}
	if segs[0].Page != 1 {
		t.Errorf("page = %d, want 1", segs[0].Page)
	}
	if segs[0].ExtractionID != testRef.ExtractionID || segs[0].DocumentID != testRef.DocumentID {
		t.Error("segment missing provenance")
	}
}

func TestSentenceMatchTerminatorHandling(t *testing.T) {
	// Splitting drops the terminator; completeSentences re-attaches one.
	text := "Quarterly revenue grew 10%. Expenses fell."

	bare := (SentenceStrategy{}).Match(testRef, text, []string{"revenue"}, Options{})
	if len(bare) != 1 || bare[0].Text != "Quarterly revenue grew 10%" {
		t.Errorf("without completeSentences: %+v", bare)
	}

	full := (SentenceStrategy{}).Match(testRef, text, []string{"revenue"}, Options{CompleteSentences: true})
	if len(full) != 1 || full[0].Text != "Quarterly revenue grew 10%." {
		t.Errorf("with completeSentences: %+v", full)
	}
}

func TestSentenceMatchCaseFolding(t *testing.T) {
	text := "REVENUE was flat. Profit rose!"

	insensitive := SentenceStrategy{}.Match(testRef, text, []string{"revenue", "profit"}, Options{})
	if len(insensitive) != 2 {
		t.Fatalf("case-insensitive: expected 2 segments, got %d", len(insensitive))
	}

	sensitive := SentenceStrategy{}.Match(testRef, text, []string{"revenue"}, Options{CaseSensitive: true})
	if len(sensitive) != 0 {
		t.Fatalf("case-sensitive: expected 0 segments, got %d", len(sensitive))
	}
}

func TestSentenceMatchMultipleKeywordsOneSentence(t *testing.T) {
	text := "Revenue and profit both rose. Unrelated line."
	segs := SentenceStrategy{}.Match(testRef, text, []string{"profit", "revenue"}, Options{})
	if len(segs) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segs))
	}
	// Keyword order in the report follows the input list.
	if segs[0].MatchedKeywords != "profit, revenue" {
		t.Errorf("matched keywords = %q", segs[0].MatchedKeywords)
	}
}

func TestSentenceMatchContextSuperset(t *testing.T) {
	text := "Before context. Revenue grew. After context. Tail sentence."
	opts := Options{IncludeContext: true}
	segs := SentenceStrategy{}.Match(testRef, text, []string{"revenue"}, opts)
	if len(segs) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segs))
	}
	got := segs[0].Text
	for _, want := range []string{"Before context", "Revenue grew", "After context"} {
		if !strings.Contains(got, want) {
			t.Errorf("context segment %q missing %q", got, want)
		}
	}
	if strings.Contains(got, "Tail sentence") {
		t.Errorf("context segment %q should not reach past neighbours", got)
	}
}

func TestSentenceMatchContextAtBoundaries(t *testing.T) {
	segs := SentenceStrategy{}.Match(testRef, "Revenue only.", []string{"revenue"}, Options{IncludeContext: true})
	if len(segs) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segs))
	}
	if segs[0].Text != "Revenue only" {
		t.Errorf("text = %q", segs[0].Text)
	}
}

func TestSentenceMatchDeterministic(t *testing.T) {
	text := "Alpha revenue. Beta cost. Gamma revenue. Delta profit."
	kw := []string{"revenue", "profit"}
	first := SentenceStrategy{}.Match(testRef, text, kw, Options{})
	second := SentenceStrategy{}.Match(testRef, text, kw, Options{})
	if len(first) != 3 || len(second) != 3 {
		t.Fatalf("expected 3 segments both runs, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Text != second[i].Text {
			t.Errorf("run order diverged at %d: %q vs %q", i, first[i].Text, second[i].Text)
		}
	}
}

func TestSentenceMatchEmptyInputs(t *testing.T) {
	if segs := (SentenceStrategy{}).Match(testRef, "", []string{"x"}, Options{}); segs != nil {
		t.Errorf("empty text: got %v", segs)
	}
	if segs := (SentenceStrategy{}).Match(testRef, "Some text here.", nil, Options{}); segs != nil {
		t.Errorf("no keywords: got %v", segs)
	}
	if segs := (SentenceStrategy{}).Match(testRef, "   \n\n ", []string{"x"}, Options{}); segs != nil {
		t.Errorf("whitespace text: got %v", segs)
	}
}

func TestSentencePageEstimate(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 60; i++ {
		if i == 57 {
			sb.WriteString("The keyword appears here. ")
			continue
		}
		sb.WriteString("Filler sentence content. ")
	}
	segs := SentenceStrategy{}.Match(testRef, sb.String(), []string{"keyword"}, Options{})
	if len(segs) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segs))
	}
	if segs[0].Page != 2 {
		t.Errorf("page = %d, want 2 (sentence index 57)", segs[0].Page)
	}
}

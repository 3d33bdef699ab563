package artifact

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"

	"github.com/joseph-ayodele/pdf-extract/internal/entity"
)

// pageContent returns the decoded content stream of one page.
func pageContent(t *testing.T, path string, page int) []byte {
	t.Helper()
	ctx, err := api.ReadContextFile(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	r, err := pdfcpu.ExtractPageContent(ctx, page)
	if err != nil {
		t.Fatalf("extract page %d: %v", page, err)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func seg(text, keywords string) entity.MatchedSegment {
	return entity.MatchedSegment{
		ExtractionID:    uuid.New(),
		DocumentID:      uuid.New(),
		Text:            text,
		MatchedKeywords: keywords,
	}
}

func TestBuildSingleSegment(t *testing.T) {
	dir := t.TempDir()
	b := NewBuilder(dir, nil)
	id := uuid.New()

	art, err := b.Build([]entity.MatchedSegment{seg("Revenue grew 10%.", "revenue")}, id)
	if err != nil {
		t.Fatal(err)
	}

	wantPath := filepath.Join(dir, "extracted_"+id.String()+".pdf")
	if art.FilePath != wantPath {
		t.Errorf("path = %q, want %q", art.FilePath, wantPath)
	}
	if art.MatchCount != 1 {
		t.Errorf("match count = %d", art.MatchCount)
	}
	if art.PageCount != 1 {
		t.Errorf("page count = %d, want 1", art.PageCount)
	}

	info, err := os.Stat(art.FilePath)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() != art.FileSize {
		t.Errorf("recorded size %d, on disk %d", art.FileSize, info.Size())
	}

	// The written file is a real PDF pdfcpu can open, and the recorded page
	// count matches what a reader sees.
	pages, err := api.PageCountFile(art.FilePath)
	if err != nil {
		t.Fatalf("artifact not readable as PDF: %v", err)
	}
	if pages != art.PageCount {
		t.Errorf("pdfcpu counts %d pages, artifact records %d", pages, art.PageCount)
	}
}

func TestBuildPaginatesLongContent(t *testing.T) {
	dir := t.TempDir()
	b := NewBuilder(dir, nil)

	// Enough body lines to spill well past one A4 page.
	long := strings.Repeat("A long matched sentence used to fill vertical space on the page.\n", 80)
	art, err := b.Build([]entity.MatchedSegment{seg(long, "space")}, uuid.New())
	if err != nil {
		t.Fatal(err)
	}
	if art.PageCount < 2 {
		t.Fatalf("expected multi-page artifact, got %d page(s)", art.PageCount)
	}

	pages, err := api.PageCountFile(art.FilePath)
	if err != nil {
		t.Fatal(err)
	}
	if pages != art.PageCount {
		t.Errorf("pdfcpu counts %d pages, artifact records %d", pages, art.PageCount)
	}

	// A segment that spills across the page break repeats its header.
	if !bytes.Contains(pageContent(t, art.FilePath, 2), []byte("cont.")) {
		t.Errorf("page 2 missing continuation header for spilled segment")
	}
}

func TestBuildSegmentStartingNearPageBottom(t *testing.T) {
	dir := t.TempDir()
	b := NewBuilder(dir, nil)

	// The first segment ends two line heights above the bottom margin, so
	// the second segment moves to a fresh page before drawing anything. Its
	// page must open with the segment's own header, not a continuation line.
	filler := strings.Repeat("Filler body line used to pad the page.\n", 35)
	segs := []entity.MatchedSegment{
		seg(filler, "filler"),
		seg("Expenses fell across the quarter.", "expenses"),
	}
	art, err := b.Build(segs, uuid.New())
	if err != nil {
		t.Fatal(err)
	}
	if art.PageCount != 2 {
		t.Fatalf("page count = %d, want 2", art.PageCount)
	}

	page2 := pageContent(t, art.FilePath, 2)
	if !bytes.Contains(page2, []byte("expenses")) {
		t.Fatalf("second segment not on page 2")
	}
	if bytes.Contains(page2, []byte("cont.")) {
		t.Errorf("page 2 opens with a continuation header for a segment that never spilled")
	}
}

func TestBuildManySegments(t *testing.T) {
	dir := t.TempDir()
	b := NewBuilder(dir, nil)

	var segs []entity.MatchedSegment
	for i := 0; i < 25; i++ {
		segs = append(segs, seg("Sentence with the keyword inside it, repeated for volume.", "keyword"))
	}
	art, err := b.Build(segs, uuid.New())
	if err != nil {
		t.Fatal(err)
	}
	if art.MatchCount != 25 {
		t.Errorf("match count = %d, want 25", art.MatchCount)
	}
	if art.PageCount < 1 {
		t.Errorf("page count = %d", art.PageCount)
	}
}

func TestBuildRejectsEmpty(t *testing.T) {
	b := NewBuilder(t.TempDir(), nil)
	if _, err := b.Build(nil, uuid.New()); err == nil {
		t.Fatal("expected error for zero segments")
	}
}

func TestSegmentLabel(t *testing.T) {
	plain := seg("text", "alpha, beta")
	if got := segmentLabel(plain); got != "Matched: alpha, beta" {
		t.Errorf("label = %q", got)
	}

	sectioned := plain
	sectioned.SectionNumber = 4
	sectioned.SectionTitle = "Financials"
	if got := segmentLabel(sectioned); got != "Section 4: Financials | matched: alpha, beta" {
		t.Errorf("label = %q", got)
	}
}

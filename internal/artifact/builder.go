// Package artifact assembles matched segments into the output PDF and
// records its statistics.
package artifact

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/pdf-extract/internal/entity"
)

// Fixed layout metrics, in points. Carried over from the previous generator
// so existing outputs keep their look.
const (
	marginPt     = 50.0
	lineHeightPt = 20.0
	bodySizePt   = 12.0
	headerSizePt = 10.0
)

// Builder renders segments to a paginated PDF. Segments are laid out in the
// order given; each one gets a header line with its matched-keyword label,
// repeated with a "(cont.)" suffix when the body spills onto a new page.
type Builder struct {
	outputDir string
	logger    *slog.Logger
}

func NewBuilder(outputDir string, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	if outputDir == "" {
		outputDir = "./outputs"
	}
	return &Builder{outputDir: outputDir, logger: logger}
}

// Build writes extracted_<id>.pdf under the output directory and returns the
// artifact record with exact page count, byte size and match count. The only
// hard failure is writing the file; layout itself cannot fail.
func (b *Builder) Build(segments []entity.MatchedSegment, extractionID uuid.UUID) (*entity.Artifact, error) {
	if len(segments) == 0 {
		return nil, fmt.Errorf("no segments to render")
	}

	doc := newLayout()
	for _, seg := range segments {
		doc.renderSegment(seg)
	}

	var buf bytes.Buffer
	if err := doc.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render artifact: %w", err)
	}

	if err := os.MkdirAll(b.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(b.outputDir, fmt.Sprintf("extracted_%s.pdf", extractionID))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("write artifact: %w", err)
	}

	art := &entity.Artifact{
		ExtractionID: extractionID,
		FilePath:     path,
		FileSize:     int64(buf.Len()),
		PageCount:    doc.pdf.PageCount(),
		MatchCount:   len(segments),
	}
	b.logger.Info("artifact built",
		"extraction_id", extractionID, "path", path,
		"pages", art.PageCount, "matches", art.MatchCount, "bytes", art.FileSize)
	return art, nil
}

// layout keeps the cursor state for manual pagination. fpdf's auto page break
// is disabled so page count stays fully under our control.
type layout struct {
	pdf       *fpdf.Fpdf
	y         float64
	width     float64 // usable text width
	height    float64 // page height
	contLabel string  // header repeated on continuation pages
}

func newLayout() *layout {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	w, h := pdf.GetPageSize()
	return &layout{
		pdf:    pdf,
		y:      marginPt + lineHeightPt,
		width:  w - 2*marginPt,
		height: h,
	}
}

func (l *layout) renderSegment(seg entity.MatchedSegment) {
	label := segmentLabel(seg)

	// No continuation header until this segment's own header is on a page,
	// otherwise a segment starting near the bottom gets a "(cont.)" line
	// before it has rendered anything.
	l.contLabel = ""
	l.ensureRoom(2 * lineHeightPt) // header plus at least one body line
	l.drawHeader(label)
	l.contLabel = label + " (cont.)"

	l.pdf.SetFont("Helvetica", "", bodySizePt)
	for _, srcLine := range strings.Split(seg.Text, "\n") {
		for _, line := range l.wrap(srcLine) {
			l.ensureRoom(lineHeightPt)
			l.pdf.Text(marginPt, l.y, line)
			l.y += lineHeightPt
		}
	}
	l.y += lineHeightPt // gap between segments
}

func (l *layout) drawHeader(label string) {
	l.pdf.SetFont("Helvetica", "B", headerSizePt)
	l.pdf.SetTextColor(77, 77, 179)
	l.pdf.Text(marginPt, l.y, label)
	l.pdf.SetTextColor(0, 0, 0)
	l.y += lineHeightPt
	l.pdf.SetFont("Helvetica", "", bodySizePt)
}

// ensureRoom starts a new page (repeating the continuation header) when less
// than need points remain above the bottom margin.
func (l *layout) ensureRoom(need float64) {
	if l.y+need <= l.height-marginPt {
		return
	}
	l.pdf.AddPage()
	l.y = marginPt + lineHeightPt
	if l.contLabel != "" {
		l.drawHeader(l.contLabel)
	}
}

// wrap breaks a line into pieces that fit the usable width, measured with the
// current font, never by character count.
func (l *layout) wrap(line string) []string {
	words := strings.Fields(line)
	if len(words) == 0 {
		return nil
	}
	var out []string
	cur := ""
	for _, word := range words {
		test := word
		if cur != "" {
			test = cur + " " + word
		}
		if l.pdf.GetStringWidth(test) > l.width && cur != "" {
			out = append(out, cur)
			cur = word
			continue
		}
		cur = test
	}
	if cur != "" {
		out = append(out, cur)
	}
	return out
}

func segmentLabel(seg entity.MatchedSegment) string {
	if seg.SectionNumber > 0 {
		title := seg.SectionTitle
		if title != "" {
			title = " " + title
		}
		return fmt.Sprintf("Section %d:%s | matched: %s", seg.SectionNumber, title, seg.MatchedKeywords)
	}
	return "Matched: " + seg.MatchedKeywords
}

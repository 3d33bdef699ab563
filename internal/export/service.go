package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/pdf-extract/internal/entity"
	"github.com/joseph-ayodele/pdf-extract/internal/repository"
)

// Service is a tiny façade over repositories that produces XLSX bytes for
// extraction reports.
type Service struct {
	extractions repository.ExtractionRepository
	segments    repository.SegmentRepository
	documents   repository.DocumentRepository
	logger      *slog.Logger
}

func NewService(extractions repository.ExtractionRepository, segments repository.SegmentRepository, documents repository.DocumentRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{extractions: extractions, segments: segments, documents: documents, logger: logger}
}

// ExportSegmentsXLSX returns an XLSX workbook (as bytes) listing every matched
// segment for the given extraction, in match order.
func (s *Service) ExportSegmentsXLSX(ctx context.Context, extractionID uuid.UUID) ([]byte, error) {
	start := time.Now()

	ext, err := s.extractions.GetByID(ctx, extractionID)
	if err != nil {
		return nil, fmt.Errorf("query extraction: %w", err)
	}
	segs, err := s.segments.ListByExtraction(ctx, extractionID)
	if err != nil {
		return nil, fmt.Errorf("query segments: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Matches"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		_, err := f.NewSheet(sheet)
		if err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Document",
		"Page",
		"Section",
		"Matched Keywords",
		"Text",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	// Document names resolved once per distinct ID.
	names := map[uuid.UUID]string{}
	docName := func(id uuid.UUID) string {
		if n, ok := names[id]; ok {
			return n
		}
		n := id.String()
		if doc, err := s.documents.GetByID(ctx, id); err == nil {
			n = doc.Name
		}
		names[id] = n
		return n
	}

	row := 2
	for _, seg := range segs {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, docName(seg.DocumentID))
		write(2, seg.Page)
		if seg.SectionNumber > 0 {
			write(3, fmt.Sprintf("Section %d: %s", seg.SectionNumber, seg.SectionTitle))
		} else {
			write(3, "")
		}
		write(4, seg.MatchedKeywords)
		write(5, truncate(seg.Text, 500))

		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 30) // document
	_ = f.SetColWidth(sheet, "B", "B", 8)  // page
	_ = f.SetColWidth(sheet, "C", "C", 28) // section
	_ = f.SetColWidth(sheet, "D", "D", 28) // keywords
	_ = f.SetColWidth(sheet, "E", "E", 80) // text

	if err := writeDocumentStats(f, segs, docName); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"extraction_id", extractionID.String(),
		"status", string(ext.Status),
		"rows", len(segs),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// writeDocumentStats adds a second sheet with one row per document: how many
// segments matched and which pages they touched.
func writeDocumentStats(f *excelize.File, segs []entity.MatchedSegment, docName func(uuid.UUID) string) error {
	const sheet = "Documents"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	for i, h := range []string{"Document", "Matches", "Pages"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	type stat struct {
		matches int
		pages   map[int]struct{}
	}
	order := []uuid.UUID{}
	byDoc := map[uuid.UUID]*stat{}
	for _, seg := range segs {
		st, ok := byDoc[seg.DocumentID]
		if !ok {
			st = &stat{pages: map[int]struct{}{}}
			byDoc[seg.DocumentID] = st
			order = append(order, seg.DocumentID)
		}
		st.matches++
		if seg.Page > 0 {
			st.pages[seg.Page] = struct{}{}
		}
	}

	for i, id := range order {
		st := byDoc[id]
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, docName(id))
		write(2, st.matches)
		write(3, len(st.pages))
	}

	_ = f.SetColWidth(sheet, "A", "A", 30)
	return nil
}

// truncate shortens s to fit a cell, cutting on a rune boundary so the
// result stays valid UTF-8.
func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	cut := n - 1
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "…"
}

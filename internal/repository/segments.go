package repository

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/pdf-extract/internal/common"
	"github.com/joseph-ayodele/pdf-extract/internal/entity"
)

type SegmentRepository interface {
	// SaveBatch persists segments in the order given; that order is the
	// aggregation order callers get back from ListByExtraction.
	SaveBatch(ctx context.Context, segments []entity.MatchedSegment) error
	ListByExtraction(ctx context.Context, extractionID uuid.UUID) ([]entity.MatchedSegment, error)
}

type segmentRepo struct {
	db  *DB
	log *slog.Logger
}

func NewSegmentRepository(db *DB, log *slog.Logger) SegmentRepository {
	if log == nil {
		log = slog.Default()
	}
	return &segmentRepo{db: db, log: log}
}

func (r *segmentRepo) SaveBatch(ctx context.Context, segments []entity.MatchedSegment) error {
	if len(segments) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return common.WrapError(err, "begin save segments")
	}
	defer func() { _ = tx.Rollback() }()

	stmt := r.db.Rebind(`
		INSERT INTO matched_segments
			(id, extraction_id, document_id, position, text, page,
			 section_number, section_title, matched_keywords, created_at)
		VALUES (?,?,?,?,?,?,?,?,?,?)`)
	now := time.Now().UTC()
	for i, seg := range segments {
		id := seg.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		createdAt := seg.CreatedAt
		if createdAt.IsZero() {
			createdAt = now
		}
		if _, err := tx.ExecContext(ctx, stmt,
			id.String(), seg.ExtractionID.String(), seg.DocumentID.String(), i,
			seg.Text, seg.Page, seg.SectionNumber, seg.SectionTitle,
			seg.MatchedKeywords, createdAt); err != nil {
			return common.WrapError(err, "insert segment")
		}
	}
	if err := tx.Commit(); err != nil {
		return common.WrapError(err, "commit segments")
	}
	r.log.Info("segments saved", "extraction_id", segments[0].ExtractionID, "count", len(segments))
	return nil
}

func (r *segmentRepo) ListByExtraction(ctx context.Context, extractionID uuid.UUID) ([]entity.MatchedSegment, error) {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(`
		SELECT id, extraction_id, document_id, text, page,
		       section_number, section_title, matched_keywords, created_at
		FROM matched_segments
		WHERE extraction_id = ?
		ORDER BY position`), extractionID.String())
	if err != nil {
		return nil, common.WrapError(err, "list segments")
	}
	defer rows.Close()

	var out []entity.MatchedSegment
	for rows.Next() {
		var seg entity.MatchedSegment
		var rawID, rawExID, rawDocID string
		if err := rows.Scan(&rawID, &rawExID, &rawDocID, &seg.Text, &seg.Page,
			&seg.SectionNumber, &seg.SectionTitle, &seg.MatchedKeywords, &seg.CreatedAt); err != nil {
			return nil, common.WrapError(err, "scan segment")
		}
		if seg.ID, err = uuid.Parse(rawID); err != nil {
			return nil, common.WrapError(err, "parse segment id")
		}
		if seg.ExtractionID, err = uuid.Parse(rawExID); err != nil {
			return nil, common.WrapError(err, "parse extraction id")
		}
		if seg.DocumentID, err = uuid.Parse(rawDocID); err != nil {
			return nil, common.WrapError(err, "parse document id")
		}
		out = append(out, seg)
	}
	return out, rows.Err()
}

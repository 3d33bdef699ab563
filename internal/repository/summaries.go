package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/pdf-extract/internal/common"
	"github.com/joseph-ayodele/pdf-extract/internal/entity"
)

type SummaryRepository interface {
	Create(ctx context.Context, s *entity.Summary) error
	GetByExtraction(ctx context.Context, extractionID uuid.UUID) (*entity.Summary, error)
}

type summaryRepo struct {
	db  *DB
	log *slog.Logger
}

func NewSummaryRepository(db *DB, log *slog.Logger) SummaryRepository {
	if log == nil {
		log = slog.Default()
	}
	return &summaryRepo{db: db, log: log}
}

func (r *summaryRepo) Create(ctx context.Context, s *entity.Summary) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO summaries (id, extraction_id, content, word_count, model, created_at)
		VALUES (?,?,?,?,?,?)`),
		s.ID.String(), s.ExtractionID.String(), s.Content, s.WordCount, s.Model, s.CreatedAt)
	if err != nil {
		r.log.Error("summary create failed", "extraction_id", s.ExtractionID, "err", err)
		return common.WrapError(err, "create summary")
	}
	r.log.Info("summary recorded", "extraction_id", s.ExtractionID, "words", s.WordCount, "model", s.Model)
	return nil
}

func (r *summaryRepo) GetByExtraction(ctx context.Context, extractionID uuid.UUID) (*entity.Summary, error) {
	row := r.db.QueryRowContext(ctx, r.db.Rebind(`
		SELECT id, extraction_id, content, word_count, model, created_at
		FROM summaries WHERE extraction_id = ?`), extractionID.String())

	var s entity.Summary
	var rawID, rawExID string
	err := row.Scan(&rawID, &rawExID, &s.Content, &s.WordCount, &s.Model, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, common.WrapError(err, "get summary")
	}
	if s.ID, err = uuid.Parse(rawID); err != nil {
		return nil, common.WrapError(err, "parse summary id")
	}
	if s.ExtractionID, err = uuid.Parse(rawExID); err != nil {
		return nil, common.WrapError(err, "parse extraction id")
	}
	return &s, nil
}

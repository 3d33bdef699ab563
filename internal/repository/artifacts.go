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

type ArtifactRepository interface {
	Create(ctx context.Context, a *entity.Artifact) error
	GetByExtraction(ctx context.Context, extractionID uuid.UUID) (*entity.Artifact, error)
}

type artifactRepo struct {
	db  *DB
	log *slog.Logger
}

func NewArtifactRepository(db *DB, log *slog.Logger) ArtifactRepository {
	if log == nil {
		log = slog.Default()
	}
	return &artifactRepo{db: db, log: log}
}

func (r *artifactRepo) Create(ctx context.Context, a *entity.Artifact) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO artifacts (id, extraction_id, file_path, file_size, page_count, match_count, created_at)
		VALUES (?,?,?,?,?,?,?)`),
		a.ID.String(), a.ExtractionID.String(), a.FilePath, a.FileSize,
		a.PageCount, a.MatchCount, a.CreatedAt)
	if err != nil {
		r.log.Error("artifact create failed", "extraction_id", a.ExtractionID, "err", err)
		return common.WrapError(err, "create artifact")
	}
	r.log.Info("artifact recorded",
		"extraction_id", a.ExtractionID, "path", a.FilePath,
		"pages", a.PageCount, "matches", a.MatchCount, "bytes", a.FileSize)
	return nil
}

func (r *artifactRepo) GetByExtraction(ctx context.Context, extractionID uuid.UUID) (*entity.Artifact, error) {
	row := r.db.QueryRowContext(ctx, r.db.Rebind(`
		SELECT id, extraction_id, file_path, file_size, page_count, match_count, created_at
		FROM artifacts WHERE extraction_id = ?`), extractionID.String())

	var a entity.Artifact
	var rawID, rawExID string
	err := row.Scan(&rawID, &rawExID, &a.FilePath, &a.FileSize, &a.PageCount, &a.MatchCount, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, common.WrapError(err, "get artifact")
	}
	if a.ID, err = uuid.Parse(rawID); err != nil {
		return nil, common.WrapError(err, "parse artifact id")
	}
	if a.ExtractionID, err = uuid.Parse(rawExID); err != nil {
		return nil, common.WrapError(err, "parse extraction id")
	}
	return &a, nil
}

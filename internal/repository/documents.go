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

type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.Document) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Document, error)
	GetBySourcePath(ctx context.Context, path string) (*entity.Document, error)
}

type documentRepo struct {
	db  *DB
	log *slog.Logger
}

func NewDocumentRepository(db *DB, log *slog.Logger) DocumentRepository {
	if log == nil {
		log = slog.Default()
	}
	return &documentRepo{db: db, log: log}
}

func (r *documentRepo) Create(ctx context.Context, doc *entity.Document) error {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	if doc.UploadedAt.IsZero() {
		doc.UploadedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO documents (id, name, source_path, file_size, mime_type, uploaded_at)
		VALUES (?,?,?,?,?,?)`),
		doc.ID.String(), doc.Name, doc.SourcePath, doc.FileSize, doc.MimeType, doc.UploadedAt)
	if err != nil {
		r.log.Error("document create failed", "name", doc.Name, "err", err)
		return common.WrapError(err, "create document")
	}
	r.log.Info("document registered", "document_id", doc.ID, "name", doc.Name, "size", doc.FileSize)
	return nil
}

func (r *documentRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	row := r.db.QueryRowContext(ctx, r.db.Rebind(`
		SELECT id, name, source_path, file_size, mime_type, uploaded_at
		FROM documents WHERE id = ?`), id.String())
	return scanDocument(row)
}

func (r *documentRepo) GetBySourcePath(ctx context.Context, path string) (*entity.Document, error) {
	row := r.db.QueryRowContext(ctx, r.db.Rebind(`
		SELECT id, name, source_path, file_size, mime_type, uploaded_at
		FROM documents WHERE source_path = ?`), path)
	return scanDocument(row)
}

func scanDocument(row *sql.Row) (*entity.Document, error) {
	var doc entity.Document
	var rawID string
	err := row.Scan(&rawID, &doc.Name, &doc.SourcePath, &doc.FileSize, &doc.MimeType, &doc.UploadedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, common.WrapError(err, "get document")
	}
	doc.ID, err = uuid.Parse(rawID)
	if err != nil {
		return nil, common.WrapError(err, "parse document id")
	}
	return &doc, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/pdf-extract/constants"
	"github.com/joseph-ayodele/pdf-extract/internal/common"
	"github.com/joseph-ayodele/pdf-extract/internal/entity"
)

type ExtractionRepository interface {
	Create(ctx context.Context, ex *entity.Extraction) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Extraction, error)
	LinkDocument(ctx context.Context, extractionID, documentID uuid.UUID) error
	// ListDocuments returns the linked documents in link order.
	ListDocuments(ctx context.Context, extractionID uuid.UUID) ([]entity.Document, error)
	MarkProcessing(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, message string) error
	Complete(ctx context.Context, id uuid.UUID) error
}

type extractionRepo struct {
	db  *DB
	log *slog.Logger
}

func NewExtractionRepository(db *DB, log *slog.Logger) ExtractionRepository {
	if log == nil {
		log = slog.Default()
	}
	return &extractionRepo{db: db, log: log}
}

func (r *extractionRepo) Create(ctx context.Context, ex *entity.Extraction) error {
	if ex.ID == uuid.Nil {
		ex.ID = uuid.New()
	}
	if ex.Status == "" {
		ex.Status = constants.JobStatusPending
	}
	if ex.CreatedAt.IsZero() {
		ex.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO extractions
			(id, name, keywords, scope, case_sensitive, include_context,
			 complete_sentences, status, error_message, created_at, completed_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`),
		ex.ID.String(), ex.Name, ex.Keywords, string(ex.Scope),
		ex.CaseSensitive, ex.IncludeContext, ex.CompleteSentences,
		string(ex.Status), nil, ex.CreatedAt, nil)
	if err != nil {
		r.log.Error("extraction create failed", "name", ex.Name, "err", err)
		return common.WrapError(err, "create extraction")
	}
	r.log.Info("extraction created", "extraction_id", ex.ID, "scope", ex.Scope)
	return nil
}

func (r *extractionRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Extraction, error) {
	row := r.db.QueryRowContext(ctx, r.db.Rebind(`
		SELECT id, name, keywords, scope, case_sensitive, include_context,
		       complete_sentences, status, error_message, created_at, completed_at
		FROM extractions WHERE id = ?`), id.String())

	var (
		ex          entity.Extraction
		rawID       string
		scope       string
		status      string
		caseSens    any
		withCtx     any
		completeSen any
		errMsg      sql.NullString
		completedAt sql.NullTime
	)
	err := row.Scan(&rawID, &ex.Name, &ex.Keywords, &scope, &caseSens, &withCtx,
		&completeSen, &status, &errMsg, &ex.CreatedAt, &completedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, common.WrapError(err, "get extraction")
	}
	ex.ID, err = uuid.Parse(rawID)
	if err != nil {
		return nil, common.WrapError(err, "parse extraction id")
	}
	ex.Scope = constants.Scope(scope)
	ex.Status = constants.JobStatus(status)
	ex.CaseSensitive = asBool(caseSens)
	ex.IncludeContext = asBool(withCtx)
	ex.CompleteSentences = asBool(completeSen)
	if errMsg.Valid {
		ex.ErrorMessage = &errMsg.String
	}
	if completedAt.Valid {
		ex.CompletedAt = &completedAt.Time
	}
	return &ex, nil
}

func (r *extractionRepo) LinkDocument(ctx context.Context, extractionID, documentID uuid.UUID) error {
	// Position continues from the current max so links keep insertion order.
	var next int
	row := r.db.QueryRowContext(ctx, r.db.Rebind(`
		SELECT COALESCE(MAX(position), -1) + 1 FROM extraction_documents
		WHERE extraction_id = ?`), extractionID.String())
	if err := row.Scan(&next); err != nil {
		return common.WrapError(err, "next link position")
	}
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO extraction_documents (extraction_id, document_id, position)
		VALUES (?,?,?)`),
		extractionID.String(), documentID.String(), next)
	if err != nil {
		r.log.Error("link document failed", "extraction_id", extractionID, "document_id", documentID, "err", err)
		return common.WrapError(err, "link document")
	}
	return nil
}

func (r *extractionRepo) ListDocuments(ctx context.Context, extractionID uuid.UUID) ([]entity.Document, error) {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(`
		SELECT d.id, d.name, d.source_path, d.file_size, d.mime_type, d.uploaded_at
		FROM extraction_documents ed
		JOIN documents d ON d.id = ed.document_id
		WHERE ed.extraction_id = ?
		ORDER BY ed.position`), extractionID.String())
	if err != nil {
		return nil, common.WrapError(err, "list documents")
	}
	defer rows.Close()

	var docs []entity.Document
	for rows.Next() {
		var doc entity.Document
		var rawID string
		if err := rows.Scan(&rawID, &doc.Name, &doc.SourcePath, &doc.FileSize, &doc.MimeType, &doc.UploadedAt); err != nil {
			return nil, common.WrapError(err, "scan document")
		}
		doc.ID, err = uuid.Parse(rawID)
		if err != nil {
			return nil, common.WrapError(err, "parse document id")
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (r *extractionRepo) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	return r.setStatus(ctx, id, constants.JobStatusProcessing, "")
}

func (r *extractionRepo) MarkFailed(ctx context.Context, id uuid.UUID, message string) error {
	if err := r.setStatus(ctx, id, constants.JobStatusFailed, message); err != nil {
		return err
	}
	r.log.Warn("extraction failed", "extraction_id", id, "error", message)
	return nil
}

func (r *extractionRepo) Complete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE extractions SET status = ?, completed_at = ?, error_message = NULL
		WHERE id = ?`),
		string(constants.JobStatusCompleted), time.Now().UTC(), id.String())
	if err != nil {
		r.log.Error("extraction complete failed", "extraction_id", id, "err", err)
		return common.WrapError(err, "complete extraction")
	}
	r.log.Info("extraction completed", "extraction_id", id)
	return nil
}

func (r *extractionRepo) setStatus(ctx context.Context, id uuid.UUID, status constants.JobStatus, message string) error {
	var errMsg any
	if message != "" {
		errMsg = message
	}
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE extractions SET status = ?, error_message = ? WHERE id = ?`),
		string(status), errMsg, id.String())
	if err != nil {
		r.log.Error("extraction status update failed", "extraction_id", id, "status", status, "err", err)
		return common.WrapError(err, "update extraction status")
	}
	return nil
}

// asBool normalizes boolean columns across drivers: pgx returns bool, sqlite
// returns int64.
func asBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case int64:
		return t != 0
	case string:
		return t == "1" || t == "true"
	}
	return false
}

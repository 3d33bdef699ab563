package repository

import (
	"context"
	"fmt"
)

// DDL shared by both dialects. Types are deliberately conservative so the
// statements run unchanged on SQLite and Postgres.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS documents (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		source_path TEXT NOT NULL,
		file_size   BIGINT NOT NULL,
		mime_type   TEXT NOT NULL,
		uploaded_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS extractions (
		id                 TEXT PRIMARY KEY,
		name               TEXT NOT NULL,
		keywords           TEXT NOT NULL,
		scope              TEXT NOT NULL,
		case_sensitive     BOOLEAN NOT NULL,
		include_context    BOOLEAN NOT NULL,
		complete_sentences BOOLEAN NOT NULL,
		status             TEXT NOT NULL,
		error_message      TEXT,
		created_at         TIMESTAMP NOT NULL,
		completed_at       TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS extraction_documents (
		extraction_id TEXT NOT NULL,
		document_id   TEXT NOT NULL,
		position      INTEGER NOT NULL,
		PRIMARY KEY (extraction_id, document_id)
	)`,
	`CREATE TABLE IF NOT EXISTS matched_segments (
		id               TEXT PRIMARY KEY,
		extraction_id    TEXT NOT NULL,
		document_id      TEXT NOT NULL,
		position         INTEGER NOT NULL,
		text             TEXT NOT NULL,
		page             INTEGER NOT NULL,
		section_number   INTEGER NOT NULL,
		section_title    TEXT NOT NULL,
		matched_keywords TEXT NOT NULL,
		created_at       TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_segments_extraction
		ON matched_segments (extraction_id, position)`,
	`CREATE TABLE IF NOT EXISTS artifacts (
		id            TEXT PRIMARY KEY,
		extraction_id TEXT NOT NULL UNIQUE,
		file_path     TEXT NOT NULL,
		file_size     BIGINT NOT NULL,
		page_count    INTEGER NOT NULL,
		match_count   INTEGER NOT NULL,
		created_at    TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS summaries (
		id            TEXT PRIMARY KEY,
		extraction_id TEXT NOT NULL UNIQUE,
		content       TEXT NOT NULL,
		word_count    INTEGER NOT NULL,
		model         TEXT NOT NULL,
		created_at    TIMESTAMP NOT NULL
	)`,
}

// Migrate creates the schema if it does not exist yet.
func (d *DB) Migrate(ctx context.Context) error {
	for _, stmt := range migrations {
		if _, err := d.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

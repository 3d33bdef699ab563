package repository

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/pdf-extract/constants"
	"github.com/joseph-ayodele/pdf-extract/internal/common"
	"github.com/joseph-ayodele/pdf-extract/internal/entity"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "test.db")
	db, err := Open(context.Background(), Config{DSN: dsn}, nil)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close(nil) })
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func mustCreateDocument(t *testing.T, repo DocumentRepository, name string) *entity.Document {
	t.Helper()
	doc := &entity.Document{
		Name:       name,
		SourcePath: "/docs/" + name,
		FileSize:   1024,
		MimeType:   constants.MimePDF,
	}
	if err := repo.Create(context.Background(), doc); err != nil {
		t.Fatalf("create document: %v", err)
	}
	return doc
}

func TestDocumentRoundTrip(t *testing.T) {
	db := testDB(t)
	repo := NewDocumentRepository(db, nil)
	ctx := context.Background()

	doc := mustCreateDocument(t, repo, "report.pdf")

	got, err := repo.GetByID(ctx, doc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "report.pdf" || got.SourcePath != "/docs/report.pdf" || got.FileSize != 1024 {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.UploadedAt.IsZero() {
		t.Error("uploaded_at not set")
	}

	byPath, err := repo.GetBySourcePath(ctx, "/docs/report.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if byPath.ID != doc.ID {
		t.Error("GetBySourcePath returned a different document")
	}

	if _, err := repo.GetByID(ctx, uuid.New()); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("missing document: err = %v, want ErrNotFound", err)
	}
}

func TestExtractionLifecycle(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := NewExtractionRepository(db, nil)

	ex := &entity.Extraction{
		Name:           "quarterly review",
		Keywords:       "revenue, profit",
		Scope:          constants.ScopeAll,
		IncludeContext: true,
	}
	if err := repo.Create(ctx, ex); err != nil {
		t.Fatal(err)
	}

	got, err := repo.GetByID(ctx, ex.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != constants.JobStatusPending {
		t.Errorf("new extraction status = %s, want pending", got.Status)
	}
	if !got.IncludeContext || got.CaseSensitive {
		t.Errorf("flags mishandled: %+v", got)
	}
	if got.Keywords != "revenue, profit" || got.Scope != constants.ScopeAll {
		t.Errorf("fields mishandled: %+v", got)
	}

	if err := repo.MarkProcessing(ctx, ex.ID); err != nil {
		t.Fatal(err)
	}
	got, _ = repo.GetByID(ctx, ex.ID)
	if got.Status != constants.JobStatusProcessing {
		t.Errorf("status = %s, want processing", got.Status)
	}

	if err := repo.MarkFailed(ctx, ex.ID, "no relevant text found"); err != nil {
		t.Fatal(err)
	}
	got, _ = repo.GetByID(ctx, ex.ID)
	if got.Status != constants.JobStatusFailed {
		t.Errorf("status = %s, want failed", got.Status)
	}
	if got.ErrorMessage == nil || *got.ErrorMessage != "no relevant text found" {
		t.Errorf("error message = %v", got.ErrorMessage)
	}

	if err := repo.Complete(ctx, ex.ID); err != nil {
		t.Fatal(err)
	}
	got, _ = repo.GetByID(ctx, ex.ID)
	if got.Status != constants.JobStatusCompleted {
		t.Errorf("status = %s, want completed", got.Status)
	}
	if got.CompletedAt == nil {
		t.Error("completed_at not set")
	}
	if got.ErrorMessage != nil {
		t.Errorf("error message should clear on completion, got %q", *got.ErrorMessage)
	}
}

func TestLinkDocumentsPreservesOrder(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	docs := NewDocumentRepository(db, nil)
	exRepo := NewExtractionRepository(db, nil)

	ex := &entity.Extraction{Name: "ordered", Keywords: "k", Scope: constants.ScopeAll}
	if err := exRepo.Create(ctx, ex); err != nil {
		t.Fatal(err)
	}

	names := []string{"c.pdf", "a.pdf", "b.pdf"}
	var ids []uuid.UUID
	for _, n := range names {
		d := mustCreateDocument(t, docs, n)
		if err := exRepo.LinkDocument(ctx, ex.ID, d.ID); err != nil {
			t.Fatal(err)
		}
		ids = append(ids, d.ID)
	}

	linked, err := exRepo.ListDocuments(ctx, ex.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(linked) != 3 {
		t.Fatalf("linked = %d, want 3", len(linked))
	}
	for i := range linked {
		if linked[i].ID != ids[i] {
			t.Errorf("position %d: got %s, want %s (link order must hold)", i, linked[i].Name, names[i])
		}
	}
}

func TestSegmentBatchOrder(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := NewSegmentRepository(db, nil)

	exID := uuid.New()
	docID := uuid.New()
	batch := []entity.MatchedSegment{
		{ExtractionID: exID, DocumentID: docID, Text: "third match", Page: 3, MatchedKeywords: "k"},
		{ExtractionID: exID, DocumentID: docID, Text: "first match", Page: 1, MatchedKeywords: "k"},
		{ExtractionID: exID, DocumentID: docID, Text: "second match", Page: 2, MatchedKeywords: "k"},
	}
	if err := repo.SaveBatch(ctx, batch); err != nil {
		t.Fatal(err)
	}

	got, err := repo.ListByExtraction(ctx, exID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d segments", len(got))
	}
	for i := range batch {
		if got[i].Text != batch[i].Text {
			t.Errorf("position %d: %q, want %q", i, got[i].Text, batch[i].Text)
		}
	}
	// Other extractions are invisible.
	other, err := repo.ListByExtraction(ctx, uuid.New())
	if err != nil {
		t.Fatal(err)
	}
	if len(other) != 0 {
		t.Errorf("foreign extraction sees %d segments", len(other))
	}
}

func TestSegmentSaveEmptyBatch(t *testing.T) {
	db := testDB(t)
	repo := NewSegmentRepository(db, nil)
	if err := repo.SaveBatch(context.Background(), nil); err != nil {
		t.Fatalf("empty batch should be a no-op: %v", err)
	}
}

func TestArtifactRoundTrip(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := NewArtifactRepository(db, nil)

	exID := uuid.New()
	art := &entity.Artifact{
		ExtractionID: exID,
		FilePath:     "/out/extracted_x.pdf",
		FileSize:     2048,
		PageCount:    3,
		MatchCount:   7,
	}
	if err := repo.Create(ctx, art); err != nil {
		t.Fatal(err)
	}

	got, err := repo.GetByExtraction(ctx, exID)
	if err != nil {
		t.Fatal(err)
	}
	if got.FilePath != art.FilePath || got.PageCount != 3 || got.MatchCount != 7 || got.FileSize != 2048 {
		t.Errorf("round trip mismatch: %+v", got)
	}

	if _, err := repo.GetByExtraction(ctx, uuid.New()); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("missing artifact: err = %v, want ErrNotFound", err)
	}
}

func TestSummaryRoundTrip(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := NewSummaryRepository(db, nil)

	exID := uuid.New()
	sum := &entity.Summary{
		ExtractionID: exID,
		Content:      "Revenue grew while costs held steady.",
		WordCount:    6,
		Model:        "gpt-4o",
	}
	if err := repo.Create(ctx, sum); err != nil {
		t.Fatal(err)
	}

	got, err := repo.GetByExtraction(ctx, exID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Content != sum.Content || got.WordCount != 6 || got.Model != "gpt-4o" {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"file:test.db", "file:test.db?_pragma=busy_timeout(5000)"},
		{"file:test.db?mode=rwc", "file:test.db?mode=rwc&_pragma=busy_timeout(5000)"},
		{"file:test.db?_pragma=busy_timeout(100)", "file:test.db?_pragma=busy_timeout(100)"},
	}
	for _, tt := range tests {
		if got := sqliteDSN(tt.in); got != tt.want {
			t.Errorf("sqliteDSN(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOpenSQLiteSingleConnection(t *testing.T) {
	db := testDB(t)
	if got := db.Stats().MaxOpenConnections; got != 1 {
		t.Errorf("sqlite max open conns = %d, want 1", got)
	}
}

func TestConcurrentWriters(t *testing.T) {
	db := testDB(t)
	repo := NewDocumentRepository(db, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			doc := &entity.Document{
				Name:       fmt.Sprintf("doc-%d.pdf", i),
				SourcePath: fmt.Sprintf("/docs/doc-%d.pdf", i),
				FileSize:   1,
				MimeType:   constants.MimePDF,
			}
			if err := repo.Create(ctx, doc); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent create: %v", err)
	}
}

func TestRebind(t *testing.T) {
	sqlite := &DB{driver: "sqlite"}
	if got := sqlite.Rebind("SELECT ?, ?"); got != "SELECT ?, ?" {
		t.Errorf("sqlite rebind changed query: %q", got)
	}
	pg := &DB{driver: "pgx"}
	if got := pg.Rebind("INSERT INTO t VALUES (?,?,?)"); got != "INSERT INTO t VALUES ($1,$2,$3)" {
		t.Errorf("pgx rebind = %q", got)
	}
}

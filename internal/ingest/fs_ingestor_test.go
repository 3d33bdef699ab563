package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/joseph-ayodele/pdf-extract/internal/repository"
)

func testRepo(t *testing.T) repository.DocumentRepository {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "ingest.db")
	db, err := repository.Open(context.Background(), repository.Config{DSN: dsn}, nil)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close(nil) })
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return repository.NewDocumentRepository(db, nil)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestIngestPath(t *testing.T) {
	repo := testRepo(t)
	ing := NewFSIngestor(repo, nil)
	dir := t.TempDir()
	path := writeFile(t, dir, "invoice.pdf", "%PDF-1.4 fake body")

	res, err := ing.IngestPath(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if res.Deduplicated {
		t.Error("first ingest must not dedup")
	}
	if res.DocumentID == "" {
		t.Error("no document id assigned")
	}
	if res.FileSize != int64(len("%PDF-1.4 fake body")) {
		t.Errorf("size = %d", res.FileSize)
	}

	// Same path again dedups to the same document.
	again, err := ing.IngestPath(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if !again.Deduplicated {
		t.Error("second ingest should dedup")
	}
	if again.DocumentID != res.DocumentID {
		t.Errorf("dedup returned a new id: %s vs %s", again.DocumentID, res.DocumentID)
	}
}

func TestIngestPathRejectsNonPDF(t *testing.T) {
	ing := NewFSIngestor(testRepo(t), nil)
	dir := t.TempDir()
	path := writeFile(t, dir, "notes.txt", "plain text")

	if _, err := ing.IngestPath(context.Background(), path); err == nil {
		t.Fatal("expected rejection of non-PDF extension")
	}
}

func TestIngestDirectory(t *testing.T) {
	ing := NewFSIngestor(testRepo(t), nil)
	dir := t.TempDir()
	writeFile(t, dir, "a.pdf", "%PDF a")
	writeFile(t, dir, "b.pdf", "%PDF b")
	writeFile(t, dir, "skip.txt", "not a pdf")
	hidden := filepath.Join(dir, ".hidden")
	if err := os.MkdirAll(hidden, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, hidden, "c.pdf", "%PDF c")

	results, stats, err := ing.IngestDirectory(context.Background(), dir, true)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Ingested != 2 {
		t.Errorf("ingested = %d, want 2", stats.Ingested)
	}
	if stats.Skipped != 1 {
		t.Errorf("skipped = %d, want 1 (the .txt)", stats.Skipped)
	}
	if stats.Failed != 0 {
		t.Errorf("failed = %d: %+v", stats.Failed, results)
	}
	for _, r := range results {
		if filepath.Base(r.SourcePath) == "c.pdf" {
			t.Error("hidden directory should be skipped")
		}
	}
}

func TestIsHidden(t *testing.T) {
	if !IsHidden("/inbox/.partial.pdf") {
		t.Error("dotfile should be hidden")
	}
	if IsHidden("/inbox/report.pdf") {
		t.Error("regular file flagged hidden")
	}
}

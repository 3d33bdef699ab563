package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/pdf-extract/constants"
	"github.com/joseph-ayodele/pdf-extract/internal/common"
	"github.com/joseph-ayodele/pdf-extract/internal/entity"
	"github.com/joseph-ayodele/pdf-extract/internal/repository"
)

// FSIngestor registers PDF files from the local filesystem as documents.
type FSIngestor struct {
	docs   repository.DocumentRepository
	logger *slog.Logger
}

func NewFSIngestor(docs repository.DocumentRepository, logger *slog.Logger) *FSIngestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &FSIngestor{docs: docs, logger: logger}
}

// IngestPath registers a single file. Files already registered under the same
// absolute path are deduplicated rather than re-created.
func (i *FSIngestor) IngestPath(ctx context.Context, path string) (IngestionResult, error) {
	var out IngestionResult

	abs, err := filepath.Abs(path)
	if err != nil {
		i.logger.Error("ingest.abs_path_failed", "path", path, "err", err)
		return out, err
	}

	ext := constants.NormalizeExt(filepath.Ext(abs))
	if ext == "" || !AllowedExt(ext) {
		return out, fmt.Errorf("unsupported or missing extension: %q", ext)
	}

	info, err := os.Stat(abs)
	if err != nil {
		i.logger.Error("ingest.stat_failed", "path", abs, "err", err)
		return out, err
	}
	if info.IsDir() {
		return out, fmt.Errorf("%s is a directory", abs)
	}

	existing, err := i.docs.GetBySourcePath(ctx, abs)
	if err == nil {
		out = IngestionResult{
			SourcePath:   existing.SourcePath,
			DocumentID:   existing.ID.String(),
			Deduplicated: true,
			FileSize:     existing.FileSize,
		}
		return out, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return out, err
	}

	doc := &entity.Document{
		Name:       filepath.Base(abs),
		SourcePath: abs,
		FileSize:   info.Size(),
		MimeType:   constants.MimePDF,
	}
	if err := i.docs.Create(ctx, doc); err != nil {
		return out, err
	}

	out = IngestionResult{
		SourcePath: abs,
		DocumentID: doc.ID.String(),
		FileSize:   info.Size(),
	}
	i.logger.Info("ingest.registered", "document_id", doc.ID, "path", abs, "size", info.Size())
	return out, nil
}

// IngestDirectory walks root, skips hidden entries if requested,
// and calls IngestPath for each file. Returns per-file results + aggregate stats.
func (i *FSIngestor) IngestDirectory(ctx context.Context, root string, skipHidden bool) ([]IngestionResult, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root path is required")
	}

	var results []IngestionResult
	var stats DirStats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			results = append(results, IngestionResult{SourcePath: path, Err: walkErr.Error()})
			stats.Failed++
			return nil
		}
		if skipHidden && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		stats.Scanned++
		if !AllowedExt(constants.NormalizeExt(filepath.Ext(path))) {
			stats.Skipped++
			return nil
		}

		res, err := i.IngestPath(ctx, path)
		if err != nil {
			results = append(results, IngestionResult{SourcePath: path, Err: err.Error()})
			stats.Failed++
			return nil
		}
		if res.Deduplicated {
			stats.Dedup++
		} else {
			stats.Ingested++
		}
		results = append(results, res)
		return nil
	})
	if err != nil {
		return results, stats, err
	}

	i.logger.Info("ingest.directory_done",
		"root", root,
		"scanned", stats.Scanned,
		"ingested", stats.Ingested,
		"dedup", stats.Dedup,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
	)
	return results, stats, nil
}

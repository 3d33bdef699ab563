// Command extractd is the long-running extraction daemon. It watches an inbox
// directory for PDFs, registers them as documents, and when EXTRACT_KEYWORDS
// is set, queues an extraction job for each newly registered document.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/joseph-ayodele/pdf-extract/constants"
	"github.com/joseph-ayodele/pdf-extract/internal/artifact"
	"github.com/joseph-ayodele/pdf-extract/internal/async"
	"github.com/joseph-ayodele/pdf-extract/internal/common"
	"github.com/joseph-ayodele/pdf-extract/internal/core"
	"github.com/joseph-ayodele/pdf-extract/internal/entity"
	"github.com/joseph-ayodele/pdf-extract/internal/ingest"
	"github.com/joseph-ayodele/pdf-extract/internal/match"
	"github.com/joseph-ayodele/pdf-extract/internal/repository"
	"github.com/joseph-ayodele/pdf-extract/internal/summarize/openai"
	"github.com/joseph-ayodele/pdf-extract/internal/textacquire"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if cfg.Ingest.InboxDir == "" {
		logger.Error("INBOX_DIR is required for extractd")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repository.Open(ctx, repository.Config{
		DSN:              cfg.Database.DSN,
		MaxConns:         cfg.Database.MaxConns,
		MaxConnLifetime:  cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:  cfg.Database.MaxConnIdleTime,
		DialTimeout:      cfg.Database.DialTimeout,
		StatementTimeout: cfg.Database.StatementTimeout,
	}, logger)
	if err != nil {
		logger.Error("open db", "error", err)
		os.Exit(1)
	}
	defer db.Close(logger)

	if err := db.HealthCheck(ctx, cfg.Database.DialTimeout); err != nil {
		logger.Error("db health failed", "error", err)
		os.Exit(1)
	}
	if err := db.Migrate(ctx); err != nil {
		logger.Error("db migrate failed", "error", err)
		os.Exit(1)
	}

	documents := repository.NewDocumentRepository(db, logger)
	extractions := repository.NewExtractionRepository(db, logger)
	segments := repository.NewSegmentRepository(db, logger)
	artifacts := repository.NewArtifactRepository(db, logger)
	summaries := repository.NewSummaryRepository(db, logger)

	acquirer := textacquire.NewAcquirer(textacquire.Config{
		Pdftoppm:    cfg.OCR.Pdftoppm,
		Tesseract:   cfg.OCR.Tesseract,
		Language:    cfg.OCR.Language,
		DPI:         cfg.OCR.DPI,
		MaxPages:    cfg.OCR.MaxPages,
		TessdataDir: cfg.OCR.TessdataDir,
	}, logger)

	builder := artifact.NewBuilder(cfg.Extract.OutputDir, logger)

	summarizer := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)

	processor := core.NewProcessor(
		logger,
		extractions, segments, artifacts, summaries,
		acquirer,
		match.ForName(cfg.Extract.Strategy),
		builder,
		summarizer,
	)

	queue := async.NewProcessorQueue(processor, logger,
		async.WithWorkers(cfg.Extract.Workers),
		async.WithQueueSize(cfg.Extract.QueueSize),
		async.WithJobTimeout(cfg.Extract.JobTimeout),
	)

	ingestor := ingest.NewFSIngestor(documents, logger)

	evCh, errCh, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       []string{cfg.Ingest.InboxDir},
		InitialScan: true,
		Debounce:    500 * time.Millisecond,
	})
	if err != nil {
		logger.Error("start watcher", "inbox", cfg.Ingest.InboxDir, "error", err)
		os.Exit(1)
	}

	autoKeywords := strings.TrimSpace(os.Getenv("EXTRACT_KEYWORDS"))

	logger.Info("extractd.started",
		"inbox", cfg.Ingest.InboxDir,
		"output_dir", cfg.Extract.OutputDir,
		"strategy", cfg.Extract.Strategy,
		"workers", cfg.Extract.Workers,
		"auto_extract", autoKeywords != "",
	)

	for {
		select {
		case <-ctx.Done():
			logger.Info("extractd.shutting_down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			queue.Shutdown(shutdownCtx)
			cancel()
			return
		case werr, ok := <-errCh:
			if ok && werr != nil {
				logger.Warn("watcher reported error", "error", werr)
			}
		case path, ok := <-evCh:
			if !ok {
				return
			}
			res, err := ingestor.IngestPath(ctx, path)
			if err != nil {
				logger.Warn("inbox file rejected", "path", path, "error", err)
				continue
			}
			if res.Deduplicated || autoKeywords == "" {
				continue
			}
			if err := enqueueExtraction(ctx, extractions, queue, res, autoKeywords, logger); err != nil {
				logger.Error("auto extraction failed to queue", "path", path, "error", err)
			}
		}
	}
}

func enqueueExtraction(
	ctx context.Context,
	extractions repository.ExtractionRepository,
	queue async.Queue,
	res ingest.IngestionResult,
	keywordList string,
	logger *slog.Logger,
) error {
	ex := &entity.Extraction{
		Name:              "inbox: " + res.SourcePath,
		Keywords:          keywordList,
		Scope:             constants.ScopeAll,
		CompleteSentences: true,
	}
	if err := extractions.Create(ctx, ex); err != nil {
		return err
	}
	docID, err := uuid.Parse(res.DocumentID)
	if err != nil {
		return err
	}
	if err := extractions.LinkDocument(ctx, ex.ID, docID); err != nil {
		return err
	}
	if err := queue.Enqueue(ctx, async.Job{
		Request:     core.Request{ExtractionID: ex.ID},
		SubmittedAt: time.Now().UTC(),
		TraceID:     ex.ID.String(),
	}); err != nil {
		return err
	}
	logger.Info("extractd.job_queued", "extraction_id", ex.ID, "document_id", docID)
	return nil
}

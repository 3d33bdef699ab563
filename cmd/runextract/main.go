// Command runextract runs a single extraction synchronously: it registers the
// given PDFs as documents, creates an extraction with the given keywords, and
// processes it end to end, printing the artifact and summary when done.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/joseph-ayodele/pdf-extract/constants"
	"github.com/joseph-ayodele/pdf-extract/internal/artifact"
	"github.com/joseph-ayodele/pdf-extract/internal/common"
	"github.com/joseph-ayodele/pdf-extract/internal/core"
	"github.com/joseph-ayodele/pdf-extract/internal/entity"
	"github.com/joseph-ayodele/pdf-extract/internal/export"
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

	var (
		keywordList  = flag.String("keywords", "", "comma-separated keywords (required)")
		name         = flag.String("name", "ad-hoc extraction", "extraction name")
		caseSens     = flag.Bool("case-sensitive", false, "match keywords case-sensitively")
		withContext  = flag.Bool("context", false, "include neighboring sentences around each match")
		completeSent = flag.Bool("complete-sentences", true, "append terminal punctuation to matched sentences")
		xlsxOut      = flag.String("xlsx", "", "also write an XLSX report of the matches to this path")
	)
	flag.Parse()

	if *keywordList == "" || flag.NArg() == 0 {
		logger.Error("usage", "cmd", "runextract -keywords k1,k2 [flags] file.pdf [file2.pdf ...]")
		os.Exit(2)
	}

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := repository.Open(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxConns:        cfg.Database.MaxConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
		DialTimeout:     cfg.Database.DialTimeout,
	}, logger)
	if err != nil {
		logger.Error("open db", "error", err)
		os.Exit(1)
	}
	defer db.Close(logger)

	if err := db.Migrate(ctx); err != nil {
		logger.Error("db migrate failed", "error", err)
		os.Exit(1)
	}

	documents := repository.NewDocumentRepository(db, logger)
	extractions := repository.NewExtractionRepository(db, logger)
	segments := repository.NewSegmentRepository(db, logger)
	artifacts := repository.NewArtifactRepository(db, logger)
	summaries := repository.NewSummaryRepository(db, logger)

	ingestor := ingest.NewFSIngestor(documents, logger)

	var docIDs []uuid.UUID
	for _, path := range flag.Args() {
		res, err := ingestor.IngestPath(ctx, path)
		if err != nil {
			logger.Error("register document", "path", path, "error", err)
			os.Exit(1)
		}
		id, err := uuid.Parse(res.DocumentID)
		if err != nil {
			logger.Error("parse document id", "raw", res.DocumentID, "error", err)
			os.Exit(1)
		}
		docIDs = append(docIDs, id)
	}

	ex := &entity.Extraction{
		Name:              *name,
		Keywords:          *keywordList,
		Scope:             constants.ScopeAll,
		CaseSensitive:     *caseSens,
		IncludeContext:    *withContext,
		CompleteSentences: *completeSent,
	}
	if err := extractions.Create(ctx, ex); err != nil {
		logger.Error("create extraction", "error", err)
		os.Exit(1)
	}
	for _, id := range docIDs {
		if err := extractions.LinkDocument(ctx, ex.ID, id); err != nil {
			logger.Error("link document", "document_id", id, "error", err)
			os.Exit(1)
		}
	}

	acquirer := textacquire.NewAcquirer(textacquire.Config{
		Pdftoppm:    cfg.OCR.Pdftoppm,
		Tesseract:   cfg.OCR.Tesseract,
		Language:    cfg.OCR.Language,
		DPI:         cfg.OCR.DPI,
		MaxPages:    cfg.OCR.MaxPages,
		TessdataDir: cfg.OCR.TessdataDir,
	}, logger)

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
		artifact.NewBuilder(cfg.Extract.OutputDir, logger),
		summarizer,
	)

	if err := processor.ProcessExtraction(ctx, core.Request{ExtractionID: ex.ID}); err != nil {
		logger.Error("extraction failed", "extraction_id", ex.ID, "error", err)
		os.Exit(1)
	}

	art, err := artifacts.GetByExtraction(ctx, ex.ID)
	if err != nil {
		logger.Error("load artifact", "error", err)
		os.Exit(1)
	}
	sum, err := summaries.GetByExtraction(ctx, ex.ID)
	if err != nil {
		logger.Error("load summary", "error", err)
		os.Exit(1)
	}

	if *xlsxOut != "" {
		svc := export.NewService(extractions, segments, documents, logger)
		data, err := svc.ExportSegmentsXLSX(ctx, ex.ID)
		if err != nil {
			logger.Error("xlsx export failed", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*xlsxOut, data, 0o644); err != nil {
			logger.Error("write xlsx", "path", *xlsxOut, "error", err)
			os.Exit(1)
		}
	}

	fmt.Printf("extraction %s completed\n", ex.ID)
	fmt.Printf("artifact: %s (%d pages, %d matches)\n", art.FilePath, art.PageCount, art.MatchCount)
	fmt.Printf("summary (%d words, %s):\n%s\n", sum.WordCount, sum.Model, sum.Content)
}

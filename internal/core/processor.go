// Package core drives one extraction job end to end: keyword resolution,
// per-document acquisition and matching, artifact build, summarization, and
// the job's status transitions.
package core

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/pdf-extract/constants"
	"github.com/joseph-ayodele/pdf-extract/internal/entity"
	"github.com/joseph-ayodele/pdf-extract/internal/keywords"
	"github.com/joseph-ayodele/pdf-extract/internal/match"
	"github.com/joseph-ayodele/pdf-extract/internal/repository"
	"github.com/joseph-ayodele/pdf-extract/internal/summarize"
)

// TextAcquirer is the acquisition capability (4.2) the processor depends on.
type TextAcquirer interface {
	AcquireText(ctx context.Context, path string) (string, error)
}

// ArtifactBuilder renders segments into the output document.
type ArtifactBuilder interface {
	Build(segments []entity.MatchedSegment, extractionID uuid.UUID) (*entity.Artifact, error)
}

// Request is a job submission: which extraction to run, an optional document
// filter, and per-document criteria for the per-document scope.
type Request struct {
	ExtractionID uuid.UUID
	DocumentIDs  []uuid.UUID
	Criteria     []entity.DocumentCriteria
}

// Processor coordinates the extraction pipeline for single jobs. A job is
// processed exactly once; re-invoking a terminal job is the caller's bug.
type Processor struct {
	logger      *slog.Logger
	extractions repository.ExtractionRepository
	segments    repository.SegmentRepository
	artifacts   repository.ArtifactRepository
	summaries   repository.SummaryRepository
	acquirer    TextAcquirer
	strategy    match.Strategy
	builder     ArtifactBuilder
	summarizer  summarize.Summarizer
}

func NewProcessor(
	logger *slog.Logger,
	extractions repository.ExtractionRepository,
	segments repository.SegmentRepository,
	artifacts repository.ArtifactRepository,
	summaries repository.SummaryRepository,
	acquirer TextAcquirer,
	strategy match.Strategy,
	builder ArtifactBuilder,
	summarizer summarize.Summarizer,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if strategy == nil {
		strategy = match.SentenceStrategy{}
	}
	return &Processor{
		logger:      logger,
		extractions: extractions,
		segments:    segments,
		artifacts:   artifacts,
		summaries:   summaries,
		acquirer:    acquirer,
		strategy:    strategy,
		builder:     builder,
		summarizer:  summarizer,
	}
}

// docResult is the per-document outcome: either segments (possibly none) or
// the error that made the document unusable. Errors are logged, counted, and
// never escalate past the document.
type docResult struct {
	doc      entity.Document
	segments []entity.MatchedSegment
	err      error
}

// ProcessExtraction runs one job to its terminal state. Every exit from
// "processing" is either completed or failed with a message; the returned
// error mirrors the failure already recorded on the job.
func (p *Processor) ProcessExtraction(ctx context.Context, req Request) error {
	ex, err := p.extractions.GetByID(ctx, req.ExtractionID)
	if err != nil {
		return fmt.Errorf("load extraction %s: %w", req.ExtractionID, err)
	}
	p.logger.Info("extract.job.start",
		"extraction_id", ex.ID, "scope", ex.Scope, "strategy", p.strategy.Name())

	if err := p.extractions.MarkProcessing(ctx, ex.ID); err != nil {
		return fmt.Errorf("mark processing: %w", err)
	}
	// Failure is a transition out of processing, so validation runs after
	// the job is claimed.
	if !constants.ValidScope(ex.Scope) {
		return p.fail(ctx, ex.ID, fmt.Sprintf("invalid extraction scope: %q", ex.Scope))
	}

	docs, err := p.extractions.ListDocuments(ctx, ex.ID)
	if err != nil {
		return p.fail(ctx, ex.ID, fmt.Sprintf("list documents: %v", err))
	}
	docs = filterDocuments(docs, req.DocumentIDs)
	resolved := keywords.Resolve(ex.Scope, ex.Keywords, req.Criteria, docs, p.logger)

	opts := match.Options{
		CaseSensitive:     ex.CaseSensitive,
		IncludeContext:    ex.IncludeContext,
		CompleteSentences: ex.CompleteSentences,
	}

	// Per-document fold: failures and keyword-less documents are skipped,
	// the rest contribute segments in link order.
	results := make([]docResult, 0, len(docs))
	for _, doc := range docs {
		kws, ok := resolved[doc.ID]
		if !ok {
			continue
		}
		results = append(results, p.processDocument(ctx, ex, doc, kws, opts))
	}

	var all []entity.MatchedSegment
	for _, res := range results {
		if res.err != nil {
			p.logger.Error("extract.document.failed",
				"extraction_id", ex.ID, "document_id", res.doc.ID, "name", res.doc.Name, "err", res.err)
			continue
		}
		all = append(all, res.segments...)
	}

	if len(all) == 0 {
		return p.fail(ctx, ex.ID, constants.NoMatchesMessage)
	}

	artifact, err := p.builder.Build(all, ex.ID)
	if err != nil {
		return p.fail(ctx, ex.ID, err.Error())
	}

	texts := make([]string, len(all))
	for i, seg := range all {
		texts[i] = seg.Text
	}
	summary, err := p.summarizer.Summarize(ctx, summarize.JoinSegments(texts))
	if err != nil {
		return p.fail(ctx, ex.ID, err.Error())
	}

	// All results are known; persist them, then flip the job terminal.
	if err := p.segments.SaveBatch(ctx, all); err != nil {
		return p.fail(ctx, ex.ID, fmt.Sprintf("save segments: %v", err))
	}
	if err := p.artifacts.Create(ctx, artifact); err != nil {
		return p.fail(ctx, ex.ID, fmt.Sprintf("save artifact: %v", err))
	}
	if err := p.summaries.Create(ctx, &entity.Summary{
		ExtractionID: ex.ID,
		Content:      summary.Content,
		WordCount:    summary.WordCount,
		Model:        summary.Model,
	}); err != nil {
		return p.fail(ctx, ex.ID, fmt.Sprintf("save summary: %v", err))
	}
	if err := p.extractions.Complete(ctx, ex.ID); err != nil {
		return fmt.Errorf("complete extraction: %w", err)
	}

	p.logger.Info("extract.job.completed",
		"extraction_id", ex.ID,
		"documents", len(results),
		"matches", artifact.MatchCount,
		"pages", artifact.PageCount,
		"summary_words", summary.WordCount)
	return nil
}

func (p *Processor) processDocument(ctx context.Context, ex *entity.Extraction, doc entity.Document, kws []string, opts match.Options) docResult {
	p.logger.Debug("extract.document.start",
		"extraction_id", ex.ID, "document_id", doc.ID, "name", doc.Name, "keywords", len(kws))

	text, err := p.acquirer.AcquireText(ctx, doc.SourcePath)
	if err != nil {
		return docResult{doc: doc, err: fmt.Errorf("acquire text: %w", err)}
	}
	segs := p.strategy.Match(match.Ref{ExtractionID: ex.ID, DocumentID: doc.ID}, text, kws, opts)

	p.logger.Info("extract.document.ok",
		"extraction_id", ex.ID, "document_id", doc.ID, "name", doc.Name,
		"chars", len(text), "matches", len(segs))
	return docResult{doc: doc, segments: segs}
}

// fail records the terminal failure on the job and mirrors it to the caller.
func (p *Processor) fail(ctx context.Context, id uuid.UUID, message string) error {
	if err := p.extractions.MarkFailed(ctx, id, message); err != nil {
		p.logger.Error("extract.job.fail_update_failed", "extraction_id", id, "err", err)
	}
	return fmt.Errorf("extraction %s failed: %s", id, message)
}

// filterDocuments keeps only the requested IDs (in link order) when a filter
// is supplied; an empty filter means every linked document.
func filterDocuments(docs []entity.Document, ids []uuid.UUID) []entity.Document {
	if len(ids) == 0 {
		return docs
	}
	want := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := docs[:0:0]
	for _, d := range docs {
		if _, ok := want[d.ID]; ok {
			out = append(out, d)
		}
	}
	return out
}

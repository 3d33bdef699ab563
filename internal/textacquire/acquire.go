// Package textacquire turns a stored document path into plain text, falling
// back to OCR when the embedded text layer is missing or too thin.
package textacquire

import (
	"context"
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/pdf-extract/constants"
)

type Config struct {
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	Language string // default "eng"
	DPI      int    // rasterization DPI for scanned PDFs, default 300
	MaxPages int    // 0 = no limit

	TessdataDir string
}

// DirectExtractor reads a PDF's embedded text layer.
type DirectExtractor interface {
	ExtractText(path string) (string, error)
}

// OCREngine recognizes text from a (possibly scanned) document.
type OCREngine interface {
	Recognize(ctx context.Context, path string) (string, error)
}

// Acquirer implements the acquisition policy: direct extraction first, OCR
// replacing it entirely when the result is under the threshold.
type Acquirer struct {
	direct DirectExtractor
	ocr    OCREngine
	logger *slog.Logger
}

func NewAcquirer(cfg Config, logger *slog.Logger) *Acquirer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Language == "" {
		cfg.Language = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &Acquirer{
		direct: pdfcpuExtractor{},
		ocr:    newTesseractEngine(cfg, execRunner{}, logger),
		logger: logger,
	}
}

// NewAcquirerWith wires explicit extraction backends; used by tests and by
// callers that bring their own OCR capability.
func NewAcquirerWith(direct DirectExtractor, ocr OCREngine, logger *slog.Logger) *Acquirer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Acquirer{direct: direct, ocr: ocr, logger: logger}
}

// AcquireText returns the document's plain text. A result shorter than
// constants.MinDirectTextLen marks the document as scanned: OCR output then
// replaces (not appends to) the direct extraction. OCR failures degrade to
// empty text so one unreadable document never sinks a whole job.
func (a *Acquirer) AcquireText(ctx context.Context, path string) (string, error) {
	text, err := a.direct.ExtractText(path)
	if err != nil {
		a.logger.Warn("direct text extraction failed", "path", path, "error", err)
		text = ""
	}
	if len(strings.TrimSpace(text)) >= constants.MinDirectTextLen {
		a.logger.Debug("text layer extracted", "path", path, "chars", len(text))
		return text, nil
	}

	a.logger.Info("document appears to be scanned, running OCR", "path", path, "direct_chars", len(text))
	ocrText, err := a.ocr.Recognize(ctx, path)
	if err != nil {
		a.logger.Error("ocr failed", "path", path, "error", err)
		return "", nil
	}
	return ocrText, nil
}

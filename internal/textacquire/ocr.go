package textacquire

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// tesseractEngine rasterizes PDF pages with pdftoppm and feeds each page
// image through tesseract.
type tesseractEngine struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func newTesseractEngine(cfg Config, runner Runner, logger *slog.Logger) *tesseractEngine {
	return &tesseractEngine{cfg: cfg, runner: runner, logger: logger}
}

func (e *tesseractEngine) Recognize(ctx context.Context, path string) (string, error) {
	tmpDir, err := os.MkdirTemp("", "px-ocr-*")
	if err != nil {
		return "", err
	}
	defer func() {
		if rmErr := os.RemoveAll(tmpDir); rmErr != nil {
			e.logger.Warn("failed to remove ocr temp dir", "dir", tmpDir, "error", rmErr)
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r <dpi> -png <in.pdf> <tmp/page>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm, "-r", fmt.Sprintf("%d", e.cfg.DPI), "-png", path, prefix)
	if err != nil {
		return "", fmt.Errorf("pdftoppm: %s: %w", strings.TrimSpace(string(errb)), err)
	}

	// collect generated pngs (prefix-1.png, prefix-2.png, ...)
	pages, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(pages)
	if e.cfg.MaxPages > 0 && len(pages) > e.cfg.MaxPages {
		pages = pages[:e.cfg.MaxPages]
	}
	if len(pages) == 0 {
		return "", fmt.Errorf("pdftoppm produced no page images")
	}

	var b strings.Builder
	for _, img := range pages {
		txt, err := e.tesseract(ctx, img)
		if err != nil {
			e.logger.Warn("ocr page failed", "image", img, "error", err)
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\f\n") // keep a clear page break marker
		}
		b.WriteString(txt)
	}
	return b.String(), nil
}

func (e *tesseractEngine) tesseract(ctx context.Context, imgPath string) (string, error) {
	args := []string{imgPath, "stdout", "-l", e.cfg.Language}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %s: %w", strings.TrimSpace(string(errb)), err)
	}
	return strings.TrimSpace(string(out)), nil
}

package extract

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor pulls the embedded text layer out of policy PDFs. Scanned
// pages without a text layer come back empty, which the pipeline records as
// a TextEmpty outcome.
type PDFExtractor struct {
	log *slog.Logger
}

func NewPDFExtractor(logger *slog.Logger) *PDFExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFExtractor{log: logger}
}

func (e *PDFExtractor) Extract(ctx context.Context, path string) (TextResult, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return TextResult{}, err
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".txt" {
		b, err := os.ReadFile(path)
		if err != nil {
			return TextResult{}, fmt.Errorf("read text file: %w", err)
		}
		return TextResult{Text: string(b), Pages: 1, Method: "plain-text", Duration: time.Since(start)}, nil
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return TextResult{}, fmt.Errorf("open pdf: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			e.log.Warn("extract.pdf.close_error", "path", path, "error", err)
		}
	}()

	reader, err := r.GetPlainText()
	if err != nil {
		return TextResult{}, fmt.Errorf("pdf text layer: %w", err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return TextResult{}, fmt.Errorf("read pdf text: %w", err)
	}

	res := TextResult{
		Text:     buf.String(),
		Pages:    r.NumPage(),
		Method:   "pdf-text",
		Duration: time.Since(start),
	}
	e.log.Info("extract.pdf.ok",
		"path", path,
		"pages", res.Pages,
		"bytes", len(res.Text),
		"elapsed_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

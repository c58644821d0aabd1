package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/insurelens/policy-extract/internal/extract"
	"github.com/insurelens/policy-extract/internal/llm"
	"github.com/insurelens/policy-extract/internal/normalize"
	"github.com/insurelens/policy-extract/internal/reconcile"
	"github.com/insurelens/policy-extract/internal/schema"
)

// Outcome is a document's terminal state.
type Outcome int

const (
	Succeeded Outcome = iota
	TextEmpty
	ExtractionFailed
)

func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "succeeded"
	case TextEmpty:
		return "text_empty"
	case ExtractionFailed:
		return "extraction_failed"
	default:
		return "unknown"
	}
}

// Document is the result of one pipeline run. Record is set only for
// Succeeded; Raw retains the service response for malformed-response
// diagnosis.
type Document struct {
	Source   string
	Outcome  Outcome
	Record   reconcile.Record
	Warnings []reconcile.Warning
	Failure  string
	Raw      []byte
}

// Pipeline runs one document through text acquisition, structured
// extraction, and reconciliation. No retries: a failed document is recorded
// and the batch proceeds.
type Pipeline struct {
	log    *slog.Logger
	text   extract.TextExtractor
	fields llm.FieldExtractor
	schema *schema.FieldSchema

	// Timeout bounds each document's extraction call so a hung service
	// cannot stall the whole batch; a timeout reads as ExtractionFailed.
	Timeout time.Duration
}

func New(logger *slog.Logger, text extract.TextExtractor, fields llm.FieldExtractor, s *schema.FieldSchema) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{log: logger, text: text, fields: fields, schema: s}
}

// Process runs the document at path to a terminal state. It never returns an
// error: every failure is folded into the Document outcome.
func (p *Pipeline) Process(ctx context.Context, path string) Document {
	start := time.Now()
	doc := Document{Source: path}

	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	txt, err := p.text.Extract(ctx, path)
	if err != nil || strings.TrimSpace(txt.Text) == "" {
		doc.Outcome = TextEmpty
		if err != nil {
			doc.Failure = err.Error()
		} else {
			doc.Failure = "document produced no text"
		}
		p.log.Warn("pipeline.text_empty",
			"source", path, "error", doc.Failure,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return doc
	}

	raw, rawBytes, err := p.fields.ExtractFields(ctx, llm.ExtractRequest{
		Text:         normalize.Text(txt.Text),
		FilenameHint: filepath.Base(path),
		Schema:       p.schema,
	})
	if err != nil {
		doc.Outcome = ExtractionFailed
		doc.Failure = err.Error()
		doc.Raw = rawBytes
		if ee, ok := llm.AsExtractionError(err); ok && len(ee.Raw) > 0 {
			doc.Raw = ee.Raw
		}
		p.log.Error("pipeline.extraction_failed",
			"source", path, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return doc
	}

	rec, warns := reconcile.Apply(raw, p.schema)
	rec[schema.SourceFile] = filepath.Base(path)

	doc.Outcome = Succeeded
	doc.Record = rec
	doc.Warnings = warns
	for _, w := range warns {
		p.log.Warn("pipeline.reconcile_warning", "source", path, "field", w.Field, "reason", w.Reason)
	}
	p.log.Info("pipeline.ok",
		"source", path,
		"fields", len(rec),
		"warnings", len(warns),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return doc
}

package batch

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/insurelens/policy-extract/internal/pipeline"
	"github.com/insurelens/policy-extract/internal/reconcile"
	"github.com/insurelens/policy-extract/internal/schema"
)

// Result aggregates one consolidation run. Records holds the successful
// documents' canonical records in submission order, serials 1..M already
// assigned; Documents keeps the per-document outcome for every input,
// failures included.
type Result struct {
	BatchID   string
	Documents []pipeline.Document
	Records   []reconcile.Record

	Succeeded        int
	TextEmpty        int
	ExtractionFailed int
}

// Failures returns the documents that did not reach Succeeded.
func (r *Result) Failures() []pipeline.Document {
	var out []pipeline.Document
	for _, d := range r.Documents {
		if d.Outcome != pipeline.Succeeded {
			out = append(out, d)
		}
	}
	return out
}

// Consolidator runs the single-document pipeline over a document list,
// one at a time. Sequential on purpose: the extractor service is rate- and
// cost-sensitive, so there is no parallel fan-out; serial numbers are
// assigned in submission order to successes only, with no gaps.
type Consolidator struct {
	log  *slog.Logger
	pipe *pipeline.Pipeline
}

func NewConsolidator(logger *slog.Logger, pipe *pipeline.Pipeline) *Consolidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Consolidator{log: logger, pipe: pipe}
}

// Run processes paths in the order supplied. A document failure never aborts
// the batch; it is counted and recorded.
func (c *Consolidator) Run(ctx context.Context, paths []string) *Result {
	start := time.Now()
	res := &Result{BatchID: uuid.New().String()}

	c.log.Info("batch.start", "batch_id", res.BatchID, "documents", len(paths))

	serial := 0
	for _, path := range paths {
		doc := c.pipe.Process(ctx, path)
		res.Documents = append(res.Documents, doc)

		switch doc.Outcome {
		case pipeline.Succeeded:
			serial++
			doc.Record[schema.SerialNo] = float64(serial)
			res.Records = append(res.Records, doc.Record)
			res.Succeeded++
		case pipeline.TextEmpty:
			res.TextEmpty++
		case pipeline.ExtractionFailed:
			res.ExtractionFailed++
		}
	}

	c.log.Info("batch.done",
		"batch_id", res.BatchID,
		"documents", len(paths),
		"succeeded", res.Succeeded,
		"text_empty", res.TextEmpty,
		"extraction_failed", res.ExtractionFailed,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res
}

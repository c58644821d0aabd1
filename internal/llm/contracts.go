package llm

import (
	"context"

	"github.com/insurelens/policy-extract/internal/schema"
)

// RawRecord is the extractor service's parsed output: canonical (or synonym)
// field name -> raw scalar value. Returned verbatim — validating individual
// field values is the reconciler's job, not the adapter's.
type RawRecord map[string]any

// ExtractRequest carries one document's text to the extractor service along
// with the field schema whose canonical names and synonym hints are embedded
// in the instructions. Extraction quality depends on that hinting, so it is
// part of the contract, not a presentation detail.
type ExtractRequest struct {
	Text         string
	FilenameHint string
	Schema       *schema.FieldSchema
}

// FieldExtractor is the interface the pipeline depends on: text in,
// key/value record out. Implementations must not mutate shared state; the
// raw response bytes are returned for diagnosis alongside the parsed record.
type FieldExtractor interface {
	ExtractFields(ctx context.Context, req ExtractRequest) (RawRecord, []byte, error)
}

package extract

import (
	"context"
	"time"
)

// TextExtractor is stage 1: document file -> text. Implementations never let
// failures escape the pipeline boundary in a way that aborts a batch; the
// pipeline normalizes errors and empty text to the same terminal outcome.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (TextResult, error)
}

type TextResult struct {
	Text     string
	Pages    int
	Method   string // "pdf-text" | "plain-text"
	Duration time.Duration
}

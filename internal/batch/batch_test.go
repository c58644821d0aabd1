package batch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insurelens/policy-extract/internal/extract"
	"github.com/insurelens/policy-extract/internal/llm"
	"github.com/insurelens/policy-extract/internal/pipeline"
	"github.com/insurelens/policy-extract/internal/schema"
)

// scriptedText returns canned text per path; empty string means no text layer.
type scriptedText map[string]string

func (s scriptedText) Extract(ctx context.Context, path string) (extract.TextResult, error) {
	return extract.TextResult{Text: s[path], Method: "stub"}, nil
}

// scriptedFields fails for paths listed in fail, succeeds otherwise.
type scriptedFields struct {
	fail map[string]bool
}

func (s *scriptedFields) ExtractFields(ctx context.Context, req llm.ExtractRequest) (llm.RawRecord, []byte, error) {
	if s.fail[req.FilenameHint] {
		return nil, nil, llm.NewServiceFailure("scripted failure", nil)
	}
	return llm.RawRecord{
		"POLICY_NO":   req.FilenameHint,
		"OD_PREMIUM":  "1000",
		"NET_PREMIUM": "1000",
	}, []byte(`{}`), nil
}

func TestRunAssignsGaplessSerials(t *testing.T) {
	paths := []string{"a.pdf", "b.pdf", "c.pdf"}
	text := scriptedText{"a.pdf": "text a", "b.pdf": "text b", "c.pdf": "text c"}
	fields := &scriptedFields{fail: map[string]bool{"b.pdf": true}}

	pipe := pipeline.New(nil, text, fields, schema.Default())
	res := NewConsolidator(nil, pipe).Run(context.Background(), paths)

	assert.Equal(t, 2, res.Succeeded)
	assert.Equal(t, 1, res.ExtractionFailed)
	assert.Equal(t, 0, res.TextEmpty)
	require.Len(t, res.Records, 2)

	// serials are 1..M in submission order, reassigned over successes only
	assert.Equal(t, 1.0, res.Records[0][schema.SerialNo])
	assert.Equal(t, 2.0, res.Records[1][schema.SerialNo])
	assert.Equal(t, "a.pdf", res.Records[0][schema.PolicyNo])
	assert.Equal(t, "c.pdf", res.Records[1][schema.PolicyNo])

	require.Len(t, res.Failures(), 1)
	assert.Equal(t, "b.pdf", res.Failures()[0].Source)
	assert.NotEmpty(t, res.BatchID)
}

func TestRunCountsEmptyText(t *testing.T) {
	paths := []string{"blank.pdf", "ok.pdf"}
	text := scriptedText{"blank.pdf": "", "ok.pdf": "policy text"}
	pipe := pipeline.New(nil, text, &scriptedFields{}, schema.Default())

	res := NewConsolidator(nil, pipe).Run(context.Background(), paths)
	assert.Equal(t, 1, res.TextEmpty)
	assert.Equal(t, 1, res.Succeeded)
	require.Len(t, res.Records, 1)
	assert.Equal(t, 1.0, res.Records[0][schema.SerialNo])
}

func TestListDocuments(t *testing.T) {
	dir := t.TempDir()
	mustTouch(t, filepath.Join(dir, "b_policy.pdf"))
	mustTouch(t, filepath.Join(dir, "a_policy.PDF"))
	mustTouch(t, filepath.Join(dir, "notes.txt"))
	mustTouch(t, filepath.Join(dir, "image.png"))
	mustTouch(t, filepath.Join(dir, ".hidden.pdf"))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))
	mustTouch(t, filepath.Join(dir, ".git", "x.pdf"))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	mustTouch(t, filepath.Join(dir, "nested", "c_policy.pdf"))

	paths, err := ListDocuments(dir)
	require.NoError(t, err)

	want := []string{
		filepath.Join(dir, "a_policy.PDF"),
		filepath.Join(dir, "b_policy.pdf"),
		filepath.Join(dir, "nested", "c_policy.pdf"),
		filepath.Join(dir, "notes.txt"),
	}
	assert.Equal(t, want, paths)
}

func TestListDocumentsRequiresRoot(t *testing.T) {
	_, err := ListDocuments("  ")
	assert.Error(t, err)
}

func mustTouch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

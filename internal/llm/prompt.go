package llm

import (
	"strings"

	"github.com/insurelens/policy-extract/internal/schema"
)

// maxPromptText caps how much document text goes into the user prompt.
// Policy schedules fit comfortably; anything beyond this is boilerplate
// wording and exclusion clauses.
const maxPromptText = 8000

// PromptFields returns the canonical keys the extractor is asked to produce:
// every schema column except the ones this system assigns itself.
func PromptFields(s *schema.FieldSchema) []string {
	var out []string
	for _, c := range s.Columns() {
		if c == schema.SerialNo || c == schema.SourceFile {
			continue
		}
		out = append(out, c)
	}
	return out
}

// BuildSystemPrompt composes the extraction instructions: the canonical field
// list, the synonym hints telling the service which document labels feed
// which canonical concept, and formatting rules.
func BuildSystemPrompt(s *schema.FieldSchema) string {
	fields := PromptFields(s)

	parts := []string{
		"You are an insurance policy parser. Return ONLY JSON that matches the provided JSON Schema.",
		"Use exactly these canonical keys: " + strings.Join(fields, ", ") + ".",
		"If a field is not found in the text, return \"" + schema.Sentinel + "\" for it.",
		"Premium fields are plain decimal amounts; strip currency symbols and thousands separators.",
		"Dates stay as printed on the policy (typically DD/MM/YYYY).",
		"Label hints — documents use varying labels for the same concept: " + buildSynonymHints(s, fields) + ".",
		"Never output null. Do not invent values.",
	}
	return strings.Join(parts, " ")
}

// BuildUserPrompt packages the filename hint and the (truncated) policy text.
func BuildUserPrompt(req ExtractRequest) string {
	var b strings.Builder
	if f := strings.TrimSpace(req.FilenameHint); f != "" {
		b.WriteString("Filename: ")
		b.WriteString(f)
		b.WriteString("\n")
	}
	b.WriteString("\nPolicy text (first ~8k chars):\n")
	text := strings.TrimSpace(req.Text)
	if len(text) > maxPromptText {
		b.WriteString(text[:maxPromptText])
		b.WriteString("\n…(truncated)")
	} else {
		b.WriteString(text)
	}
	return b.String()
}

func buildSynonymHints(s *schema.FieldSchema, fields []string) string {
	hints := s.SynonymHints()
	var parts []string
	for _, f := range fields {
		labels := hints[f]
		if len(labels) == 0 {
			continue
		}
		parts = append(parts, f+" may appear as: "+strings.Join(labels, " / "))
	}
	return strings.Join(parts, "; ")
}

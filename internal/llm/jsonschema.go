package llm

import (
	"github.com/insurelens/policy-extract/internal/schema"
)

// BuildPolicyJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. We pass this to the extractor as a structured output
// constraint and also use it locally to validate the response shape.
// Unrecognized keys are tolerated (additionalProperties stays true) — the
// contract says they are ignored, not rejected; missing keys are absent
// fields, not errors.
func BuildPolicyJSONSchema(s *schema.FieldSchema) map[string]any {
	props := map[string]any{}
	for _, f := range PromptFields(s) {
		if s.IsNumeric(f) {
			// the service reports amounts as strings or bare numbers
			props[f] = map[string]any{"type": []string{"string", "number"}}
		} else {
			props[f] = map[string]any{"type": "string"}
		}
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
	}
}

package llm

import (
	"encoding/json"
	"strconv"

	"github.com/insurelens/policy-extract/internal/schema"
)

// ParseRecord decodes extractor response content into a RawRecord. Null and
// composite (array/object) values are dropped before validation — the
// instructions forbid them, but services emit them anyway and an optional
// field the model nulled out should read as absent, not kill the document.
// Scalar values pass through; a bare number under a text key (models love
// unquoting policy numbers) is coerced to its decimal string rather than
// failing the document, value-level checks belong to reconciliation.
// Failures are MalformedResponse.
func ParseRecord(content []byte, s *schema.FieldSchema) (RawRecord, error) {
	var m map[string]any
	if err := json.Unmarshal(content, &m); err != nil {
		return nil, NewMalformedResponse("response is not a JSON object", content, err)
	}

	for k, v := range m {
		switch t := v.(type) {
		case nil, []any, map[string]any:
			delete(m, k)
		case bool:
			m[k] = strconv.FormatBool(t)
		case float64:
			if !s.IsNumeric(k) {
				m[k] = strconv.FormatFloat(t, 'f', -1, 64)
			}
		}
	}

	cleaned, err := json.Marshal(m)
	if err != nil {
		return nil, NewMalformedResponse("re-encode response", content, err)
	}
	if err := ValidateJSONAgainstSchema(BuildPolicyJSONSchema(s), cleaned); err != nil {
		return nil, NewMalformedResponse("schema validation failed", content, err)
	}
	return RawRecord(m), nil
}

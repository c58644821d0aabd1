package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insurelens/policy-extract/internal/llm"
	"github.com/insurelens/policy-extract/internal/schema"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{APIKey: "test-key", BaseURL: srv.URL, Model: "test-model"}, nil)
}

func completion(content string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
}

func testRequest() llm.ExtractRequest {
	return llm.ExtractRequest{
		Text:         "Policy No: 201520070124700944100000 Total Premium: 4090.00",
		FilenameHint: "policy.pdf",
		Schema:       schema.Default(),
	}
}

func TestExtractFieldsSuccess(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/chat/completions", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "test-model", body["model"])

		_ = json.NewEncoder(w).Encode(completion(
			`{"POLICY_NO": "201520070124700944100000", "TOTAL_PREMIUM": "4090.00"}`))
	})

	rec, raw, err := client.ExtractFields(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "201520070124700944100000", rec["POLICY_NO"])
	assert.NotEmpty(t, raw)
}

func TestExtractFieldsServiceFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	_, _, err := client.ExtractFields(context.Background(), testRequest())
	require.Error(t, err)
	ee, ok := llm.AsExtractionError(err)
	require.True(t, ok)
	assert.Equal(t, llm.ServiceFailure, ee.Kind)
}

func TestExtractFieldsMalformedContent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(completion("The policy number appears to be 12345."))
	})

	_, raw, err := client.ExtractFields(context.Background(), testRequest())
	require.Error(t, err)
	ee, ok := llm.AsExtractionError(err)
	require.True(t, ok)
	assert.Equal(t, llm.MalformedResponse, ee.Kind)
	// raw response text is retained for diagnosis
	assert.Contains(t, string(raw), "policy number appears")
}

func TestExtractFieldsNoChoices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	})

	_, _, err := client.ExtractFields(context.Background(), testRequest())
	require.Error(t, err)
	ee, ok := llm.AsExtractionError(err)
	require.True(t, ok)
	assert.Equal(t, llm.MalformedResponse, ee.Kind)
}

package testutil

import (
	"encoding/json"
	"testing"
)

// JSONMarshal marshals a value to JSON for testing
func JSONMarshal(t *testing.T, v interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Failed to marshal JSON: %v", err)
	}
	return data
}

// Passage describes one entry of a chat reply's docs array. Zero fields are
// left out of the JSON entirely.
type Passage struct {
	Content string
	Source  string
	Page    int
}

// ChatReply builds a chat endpoint body with the given answer and passages
func ChatReply(t *testing.T, message string, passages ...Passage) string {
	t.Helper()
	docs := make([]map[string]interface{}, 0, len(passages))
	for _, p := range passages {
		doc := map[string]interface{}{}
		if p.Content != "" {
			doc["pageContent"] = p.Content
		}
		meta := map[string]interface{}{}
		if p.Source != "" {
			meta["source"] = p.Source
		}
		if p.Page != 0 {
			meta["loc"] = map[string]interface{}{"pageNumber": p.Page}
		}
		if len(meta) > 0 {
			doc["metadata"] = meta
		}
		docs = append(docs, doc)
	}
	return string(JSONMarshal(t, map[string]interface{}{
		"message": message,
		"docs":    docs,
	}))
}

package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iksnae/docchat/internal"
)

// JSONLExporter exports transcripts in JSONL format (one message per line)
type JSONLExporter struct{}

// Export writes each message on its own line, citations included
func (e *JSONLExporter) Export(t *internal.Transcript, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	for i, msg := range t.Messages {
		obj := map[string]interface{}{
			"index":   i,
			"role":    msg.Role,
			"content": msg.Content,
		}
		if msg.HasCitations() {
			obj["citations"] = msg.Citations
		}

		if err := enc.Encode(obj); err != nil {
			return fmt.Errorf("failed to encode message %d: %w", i, err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}

package export

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"

	"github.com/iksnae/docchat/internal"
)

func TestJSONLExporter_Export(t *testing.T) {
	tests := []struct {
		name      string
		tr        *internal.Transcript
		wantLines int
	}{
		{name: "question and answer", tr: internal.CreateTestTranscript("t1"), wantLines: 2},
		{name: "empty", tr: internal.CreateTestTranscriptWithMessages("t2", nil), wantLines: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := (&JSONLExporter{}).Export(tt.tr, &buf); err != nil {
				t.Fatalf("Export() error = %v", err)
			}

			lines := 0
			scanner := bufio.NewScanner(&buf)
			for scanner.Scan() {
				var obj map[string]interface{}
				if err := json.Unmarshal(scanner.Bytes(), &obj); err != nil {
					t.Fatalf("line %d is not valid JSON: %v", lines, err)
				}
				if obj["role"] != string(tt.tr.Messages[lines].Role) {
					t.Errorf("line %d role = %v", lines, obj["role"])
				}
				_, hasCitations := obj["citations"]
				if hasCitations != tt.tr.Messages[lines].HasCitations() {
					t.Errorf("line %d citations present = %v", lines, hasCitations)
				}
				lines++
			}
			if lines != tt.wantLines {
				t.Errorf("lines = %d, want %d", lines, tt.wantLines)
			}
		})
	}
}

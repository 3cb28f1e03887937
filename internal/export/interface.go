package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/renameio/v2"
	"github.com/iksnae/docchat/internal"
)

// Exporter defines the interface for all transcript export formats
type Exporter interface {
	Export(t *internal.Transcript, w io.Writer) error
	Extension() string
}

// Formats lists the accepted format names
var Formats = []string{"jsonl", "md", "yaml", "json", "html"}

// NewExporter creates a new exporter based on format
func NewExporter(format string) (Exporter, error) {
	switch strings.ToLower(format) {
	case "jsonl":
		return &JSONLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "yaml", "yml":
		return &YAMLExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	case "html":
		return &HTMLExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: %s)", format, strings.Join(Formats, ", "))
	}
}

// Save exports t to path in the given format. The file is replaced
// atomically, so a failed export never leaves a partial transcript.
func Save(t *internal.Transcript, format, path string) error {
	exp, err := NewExporter(format)
	if err != nil {
		return &internal.ExportError{Format: format, Path: path, Err: err}
	}

	pf, err := renameio.NewPendingFile(path, renameio.WithPermissions(0644))
	if err != nil {
		return &internal.ExportError{Format: format, Path: path, Err: err}
	}
	defer func() { _ = pf.Cleanup() }()

	if err := exp.Export(t, pf); err != nil {
		return &internal.ExportError{Format: format, Path: path, Err: err}
	}
	if err := pf.CloseAtomicallyReplace(); err != nil {
		return &internal.ExportError{Format: format, Path: path, Err: err}
	}
	internal.LogDebug("Exported transcript %s to %s", t.ID, path)
	return nil
}

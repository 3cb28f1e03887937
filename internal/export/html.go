package export

import (
	"bytes"
	"fmt"
	"html"
	"io"

	"github.com/iksnae/docchat/internal"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// HTMLExporter renders the markdown transcript into a standalone HTML page.
// Raw HTML inside replies is dropped by the converter.
type HTMLExporter struct{}

var htmlConverter = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Export writes the transcript as an HTML document
func (e *HTMLExporter) Export(t *internal.Transcript, w io.Writer) error {
	var md bytes.Buffer
	if err := (&MarkdownExporter{}).Export(t, &md); err != nil {
		return err
	}

	var body bytes.Buffer
	if err := htmlConverter.Convert(md.Bytes(), &body); err != nil {
		return fmt.Errorf("failed to render html: %w", err)
	}

	_, err := fmt.Fprintf(w, htmlPage, html.EscapeString(t.ID), body.String())
	return err
}

// Extension returns the file extension for this format
func (e *HTMLExporter) Extension() string {
	return "html"
}

const htmlPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Conversation %s</title>
<style>
body { font-family: sans-serif; max-width: 48rem; margin: 2rem auto; line-height: 1.5; }
blockquote { color: #555; border-left: 3px solid #ccc; margin-left: 0; padding-left: 1rem; }
</style>
</head>
<body>
%s</body>
</html>
`

package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/iksnae/docchat/internal"
)

// MarkdownExporter exports transcripts in Markdown format
type MarkdownExporter struct{}

// Export writes a readable transcript. Assistant replies are already
// markdown and are written as-is; user text is escaped.
func (e *MarkdownExporter) Export(t *internal.Transcript, w io.Writer) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Conversation %s\n\n", t.ID)
	if t.Document != "" {
		fmt.Fprintf(&b, "**Document:** %s  \n", t.Document)
	}
	if t.Backend != "" {
		fmt.Fprintf(&b, "**Backend:** %s  \n", t.Backend)
	}
	if t.Metadata.CreatedAt != "" {
		fmt.Fprintf(&b, "**Started:** %s  \n", t.Metadata.CreatedAt)
	}
	fmt.Fprintf(&b, "**Messages:** %d\n\n", len(t.Messages))

	b.WriteString("---\n\n")
	b.WriteString("## Messages\n\n")

	for i, msg := range t.Messages {
		switch msg.Role {
		case internal.RoleUser:
			fmt.Fprintf(&b, "**You:**\n\n%s\n\n", escapeMarkdown(msg.Content))
		default:
			fmt.Fprintf(&b, "**Assistant:**\n\n%s\n\n", msg.Content)
		}

		if msg.HasCitations() {
			writeSources(&b, msg.Citations)
		}

		if i < len(t.Messages)-1 {
			b.WriteString("---\n\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeSources(b *strings.Builder, citations []internal.Citation) {
	b.WriteString("**Sources:**\n\n")
	for i, c := range citations {
		fmt.Fprintf(b, "%d. %s\n", i+1, c.Label())
		if c.Downloadable() {
			for _, line := range strings.Split(*c.Text, "\n") {
				fmt.Fprintf(b, "   > %s\n", line)
			}
		}
	}
	b.WriteString("\n")
}

// escapeMarkdown escapes emphasis markers outside code blocks
func escapeMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			result = append(result, line)
		} else if inCodeBlock {
			result = append(result, line)
		} else {
			line = strings.ReplaceAll(line, "**", "\\*\\*")
			line = strings.ReplaceAll(line, "__", "\\_\\_")
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}

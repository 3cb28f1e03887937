package internal

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

var (
	userMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 1)

	assistantMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("135")).
				Bold(true).
				Padding(0, 1)

	messageContentStyle = lipgloss.NewStyle().
				Padding(0, 2)

	sourcesHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243")).
				Bold(true).
				Padding(0, 2)

	sourceItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Padding(0, 3)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// MarkdownFunc turns markdown into its displayed form
type MarkdownFunc func(markdown string) (string, error)

// Renderer draws messages for the terminal. Assistant content goes to the
// markdown transform exactly as received; sanitizing is the transform's job.
type Renderer struct {
	markdown MarkdownFunc
}

// NewRenderer renders assistant markdown with glamour, picking a style that
// suits the terminal background
func NewRenderer(width int) (*Renderer, error) {
	return newGlamourRenderer(width, glamour.WithAutoStyle())
}

// NewPlainRenderer renders markdown without colors, for pipes and tests
func NewPlainRenderer(width int) (*Renderer, error) {
	return newGlamourRenderer(width, glamour.WithStandardStyle(styles.NoTTYStyle))
}

func newGlamourRenderer(width int, style glamour.TermRendererOption) (*Renderer, error) {
	if width <= 0 {
		width = 80
	}
	tr, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return &Renderer{markdown: tr.Render}, nil
}

// NewRendererWithMarkdown uses a custom markdown transform
func NewRendererWithMarkdown(fn MarkdownFunc) *Renderer {
	return &Renderer{markdown: fn}
}

// RenderMessage draws one message with its header and, for replies, its sources
func (r *Renderer) RenderMessage(msg Message) string {
	var b strings.Builder

	switch msg.Role {
	case RoleUser:
		b.WriteString(userMessageStyle.Render("👤 You"))
		b.WriteString("\n")
		b.WriteString(messageContentStyle.Render(msg.Content))
		b.WriteString("\n")
	default:
		b.WriteString(assistantMessageStyle.Render("🤖 Assistant"))
		b.WriteString("\n")
		b.WriteString(r.renderMarkdown(msg.Content))
		if msg.HasCitations() {
			b.WriteString(r.RenderSources(msg.Citations))
		}
	}

	return b.String()
}

// RenderLog draws the whole log, or the empty-state hint when there is nothing yet
func (r *Renderer) RenderLog(messages []Message) string {
	if len(messages) == 0 {
		return RenderEmptyState()
	}
	parts := make([]string, 0, len(messages))
	for _, m := range messages {
		parts = append(parts, r.RenderMessage(m))
	}
	return strings.Join(parts, "\n")
}

// RenderSources lists citations in backend order, numbered from 1
func (r *Renderer) RenderSources(citations []Citation) string {
	var b strings.Builder
	b.WriteString(sourcesHeaderStyle.Render("Sources:"))
	b.WriteString("\n")
	for i, c := range citations {
		line := fmt.Sprintf("%d. 📄 %s", i+1, c.Label())
		if !c.Downloadable() {
			line += " " + mutedStyle.Render("(no content)")
		}
		b.WriteString(sourceItemStyle.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

func (r *Renderer) renderMarkdown(content string) string {
	if r.markdown == nil || content == "" {
		return messageContentStyle.Render(content) + "\n"
	}
	out, err := r.markdown(content)
	if err != nil {
		LogWarn("Markdown rendering failed, showing raw text: %v", err)
		return messageContentStyle.Render(content) + "\n"
	}
	return out
}

// RenderEmptyState is shown before the first message
func RenderEmptyState() string {
	return mutedStyle.Render("No messages yet") + "\n" +
		mutedStyle.Render("Upload a PDF and start a conversation") + "\n"
}

// RenderThinking is the placeholder shown while a reply is awaited
func RenderThinking(frame string) string {
	return assistantMessageStyle.Render("🤖 Assistant") + "\n" + messageContentStyle.Render(frame) + "\n"
}

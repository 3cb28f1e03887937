package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/docchat/internal"
)

// Options wires the chat screen to its managers
type Options struct {
	Conversation  *internal.Conversation
	Uploader      *internal.Uploader
	Renderer      *internal.Renderer
	Notifications <-chan internal.Notification
	Backend       string
	MaxUpload     int64
}

// Model is the chat screen: message log, upload panel and input line
type Model struct {
	ctx      context.Context
	conv     *internal.Conversation
	uploader *internal.Uploader
	renderer *internal.Renderer
	notes    <-chan internal.Notification

	backend   string
	maxUpload int64

	input        textinput.Model
	spinner      spinner.Model
	viewport     viewport.Model
	selectedInfo internal.FileInfo
	status       internal.Notification
	hasStatus    bool
	width        int
	height       int
	quitting     bool
}

func NewModel(ctx context.Context, opts Options) Model {
	in := textinput.New()
	in.Placeholder = "Ask a question about your document..."
	in.CharLimit = 2000
	in.Prompt = "> "
	in.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	renderer := opts.Renderer
	if renderer == nil {
		renderer = internal.NewRendererWithMarkdown(nil)
	}

	m := Model{
		ctx:       ctx,
		conv:      opts.Conversation,
		uploader:  opts.Uploader,
		renderer:  renderer,
		notes:     opts.Notifications,
		backend:   opts.Backend,
		maxUpload: opts.MaxUpload,
		input:     in,
		spinner:   s,
		viewport:  viewport.New(100, 20),
		width:     100,
		height:    30,
	}
	m.resize()
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForNote(m.notes))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)

	case replyMsg:
		if msg.err != nil {
			internal.LogDebug("Query settled with error: %v", msg.err)
		}
		m.refresh()
		return m, nil

	case uploadDoneMsg:
		if msg.err == nil {
			m.selectedInfo = internal.FileInfo{}
		}
		m.refresh()
		return m, nil

	case noteMsg:
		m.setStatus(msg.Level, msg.Message)
		return m, waitForNote(m.notes)

	case spinner.TickMsg:
		if !m.working() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refresh()
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "esc":
		m.input.Reset()
		return m, nil

	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case "enter":
		return m.submit()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit sends the input line as a question or runs it as a slash command.
// The input is locked while a reply is awaited.
func (m Model) submit() (tea.Model, tea.Cmd) {
	line := m.input.Value()
	if strings.TrimSpace(line) == "" {
		return m, nil
	}

	if strings.HasPrefix(strings.TrimSpace(line), "/") {
		m.input.Reset()
		cmd := m.runCommand(line)
		m.refresh()
		return m, cmd
	}

	if m.conv.Busy() {
		return m, nil
	}

	m.conv.SetDraft(line)
	q := m.conv.SubmitDraft(m.ctx)
	m.input.Reset()
	m.refresh()
	if q == nil {
		return m, nil
	}
	return m, tea.Batch(waitForReply(m.ctx, q), m.spinner.Tick)
}

func (m *Model) setStatus(level internal.NotificationLevel, message string) {
	m.status = internal.Notification{Level: level, Message: message}
	m.hasStatus = true
}

func (m Model) working() bool {
	return m.conv.Busy() || m.uploader.Busy()
}

func (m *Model) resize() {
	// title, upload panel (3), status, input, help
	h := m.height - 8
	if h < 3 {
		h = 3
	}
	m.viewport.Width = m.width
	m.viewport.Height = h
	m.input.Width = m.width - 6
}

// refresh re-renders the log into the viewport and scrolls to the newest message
func (m *Model) refresh() {
	content := m.renderer.RenderLog(m.conv.Messages())
	if m.conv.Busy() {
		content += "\n" + internal.RenderThinking(m.spinner.View()+" Thinking...")
	}
	m.viewport.SetContent(content)
	m.viewport.GotoBottom()
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := titleStyle.Render("DocChat")
	info := dimStyle.Render("  " + m.backend)
	if doc := m.uploader.Uploaded(); doc != "" {
		info += dimStyle.Render("  📄 " + doc)
	}
	b.WriteString(title + info + "\n")

	b.WriteString(m.viewport.View() + "\n")
	b.WriteString(m.renderUploadPanel() + "\n")

	if m.hasStatus {
		b.WriteString(renderNote(m.status) + "\n")
	} else {
		b.WriteString("\n")
	}

	input := m.input.View()
	if m.conv.Busy() {
		input = dimStyle.Render("> waiting for the answer...")
	}
	b.WriteString(inputStyle.Render(input) + "\n")
	b.WriteString(helpStyle.Render("  Enter: send  Esc: clear  PgUp/PgDn: scroll  " + helpText))

	return b.String()
}

func (m Model) renderUploadPanel() string {
	f := m.uploader.Selected()
	if f == nil {
		return statusBarStyle.Render("No file selected · /upload <path> to choose a PDF")
	}

	name := fileNameStyle.Render(f.Name)
	detail := fmt.Sprintf(" (%s)", f.SizeLabel())
	if m.selectedInfo.Name == f.Name && m.selectedInfo.Pages > 0 {
		detail = fmt.Sprintf(" (%s, %d pages)", f.SizeLabel(), m.selectedInfo.Pages)
	}

	var action string
	switch {
	case m.uploader.Busy():
		action = m.spinner.View() + " Uploading..."
	case m.uploader.LastError() != nil:
		action = "Upload failed · /confirm to retry  /cancel"
	default:
		action = "/confirm to upload  /cancel"
	}
	return uploadPanelStyle.Render(lipgloss.JoinHorizontal(lipgloss.Left, name, dimStyle.Render(detail), "  ", action))
}

func renderNote(n internal.Notification) string {
	switch n.Level {
	case internal.NotifySuccess:
		return successNoteStyle.Render("✓ " + n.Message)
	case internal.NotifyError:
		return errorNoteStyle.Render("✗ " + n.Message)
	default:
		return infoNoteStyle.Render("ℹ " + n.Message)
	}
}

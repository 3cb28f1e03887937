package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/iksnae/docchat/internal"
	"github.com/iksnae/docchat/internal/export"
	"github.com/samber/lo"
)

// replyMsg reports that a submitted query settled
type replyMsg struct {
	err error
}

// uploadDoneMsg reports that the selected file finished uploading
type uploadDoneMsg struct {
	err error
}

// noteMsg carries a notification from the managers
type noteMsg internal.Notification

const helpText = "/upload <path>  /confirm  /cancel  /save [<reply>:]<n>  /export <format> <path>  /quit"

func waitForReply(ctx context.Context, q *internal.Query) tea.Cmd {
	return func() tea.Msg {
		_, err := q.Wait(ctx)
		return replyMsg{err: err}
	}
}

func waitForNote(ch <-chan internal.Notification) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return noteMsg(n)
	}
}

func confirmUpload(ctx context.Context, u *internal.Uploader) tea.Cmd {
	return func() tea.Msg {
		return uploadDoneMsg{err: u.ConfirmUpload(ctx)}
	}
}

// runCommand handles a slash command typed into the input
func (m *Model) runCommand(line string) tea.Cmd {
	fields := strings.Fields(line)
	name, args := fields[0], fields[1:]

	switch name {
	case "/quit", "/exit":
		m.quitting = true
		return tea.Quit

	case "/help":
		m.setStatus(internal.NotifyInfo, helpText)

	case "/upload":
		if len(args) == 0 {
			m.setStatus(internal.NotifyError, "Usage: /upload <path>")
			return nil
		}
		picker := internal.PathPicker{Path: strings.Join(args, " "), MaxSize: m.maxUpload}
		if err := m.uploader.PickFile(m.ctx, picker); err != nil {
			internal.LogDebug("Pick failed: %v", err)
			return nil
		}
		if f := m.uploader.Selected(); f != nil {
			m.selectedInfo = internal.DescribeFile(f)
		}

	case "/confirm":
		if m.uploader.Selected() == nil {
			m.setStatus(internal.NotifyError, "No file selected")
			return nil
		}
		if m.uploader.Busy() {
			return nil
		}
		return tea.Batch(confirmUpload(m.ctx, m.uploader), m.spinner.Tick)

	case "/cancel":
		if err := m.uploader.CancelSelection(); err != nil {
			m.setStatus(internal.NotifyError, "Cannot cancel while uploading")
		}

	case "/save":
		m.saveCitation(args)

	case "/export":
		if len(args) < 2 {
			m.setStatus(internal.NotifyError, "Usage: /export <format> <path>")
			return nil
		}
		path := strings.Join(args[1:], " ")
		tr := m.conv.Transcript(m.backend, m.uploader.Uploaded())
		if err := export.Save(tr, args[0], path); err != nil {
			internal.LogError("Export failed: %v", err)
			m.setStatus(internal.NotifyError, "Failed to export conversation")
			return nil
		}
		m.setStatus(internal.NotifySuccess, fmt.Sprintf("Conversation exported to %s", path))

	default:
		m.setStatus(internal.NotifyError, fmt.Sprintf("Unknown command %s (try /help)", name))
	}
	return nil
}

// saveCitation downloads a cited passage. "/save <n>" picks source n of the
// latest reply, "/save <r>:<n>" source n of reply r. Replies count from 1.
func (m *Model) saveCitation(args []string) {
	replies := lo.Filter(m.conv.Messages(), func(msg internal.Message, _ int) bool {
		return msg.Role == internal.RoleAssistant
	})
	if len(replies) == 0 {
		m.setStatus(internal.NotifyError, "No sources to save")
		return
	}

	r, ref := len(replies), "1"
	if len(args) > 0 {
		ref = args[0]
	}
	if before, after, ok := strings.Cut(ref, ":"); ok {
		v, err := strconv.Atoi(before)
		if err != nil || v < 1 || v > len(replies) {
			m.setStatus(internal.NotifyError, fmt.Sprintf("Pick a reply between 1 and %d", len(replies)))
			return
		}
		r, ref = v, after
	}

	reply := replies[r-1]
	if !reply.HasCitations() {
		m.setStatus(internal.NotifyError, "No sources to save")
		return
	}
	n, err := strconv.Atoi(ref)
	if err != nil || n < 1 || n > len(reply.Citations) {
		m.setStatus(internal.NotifyError, fmt.Sprintf("Pick a source between 1 and %d", len(reply.Citations)))
		return
	}
	// DownloadCitation reports the outcome through the notifier
	_, _ = m.conv.DownloadCitation(reply.Citations[n-1])
}

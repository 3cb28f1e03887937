package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/iksnae/docchat/internal"
	"github.com/iksnae/docchat/internal/tui"
	"github.com/spf13/cobra"
)

var chatWidth int

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open the interactive chat screen",
	Long: `Open a full-screen chat with the backend.

Type a question and press Enter. While an answer is pending the input is
locked. Commands:
  /upload <path>           Select a PDF
  /confirm                 Upload the selected PDF
  /cancel                  Discard the selection
  /save <n>                Save source n of the last answer
  /save <r>:<n>            Save source n of answer r (answers count from 1)
  /export <format> <path>  Write the conversation to a file
  /quit                    Leave

Logs are written to $XDG_STATE_HOME/docchat/docchat.log while the screen is open.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logPath, err := internal.LogFilePath()
		if err != nil {
			return fmt.Errorf("failed to locate log file: %w", err)
		}
		logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		internal.SetLogOutput(logFile)
		defer func() {
			internal.SetLogOutput(os.Stderr)
			_ = logFile.Close()
		}()

		ctx := cmd.Context()
		client := internal.NewClient(cfg)
		notes := internal.NewChannelNotifier(32)

		renderer, err := internal.NewRenderer(chatWidth)
		if err != nil {
			return err
		}

		model := tui.NewModel(ctx, tui.Options{
			Conversation:  newConversation(client, notes),
			Uploader:      internal.NewUploader(client, notes),
			Renderer:      renderer,
			Notifications: notes.C,
			Backend:       cfg.Backend.URL,
			MaxUpload:     cfg.Upload.MaxSize,
		})

		p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("chat screen failed: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().IntVar(&chatWidth, "width", 80, "Wrap width for rendered answers")
}

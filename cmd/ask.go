package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/iksnae/docchat/internal"
	"github.com/iksnae/docchat/internal/export"
	"github.com/spf13/cobra"
)

var (
	askFormat        string
	askOutput        string
	askSaveCitations bool
	askWidth         int
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask <message>",
	Short: "Ask a single question about the uploaded document",
	Long: `Send one message to the backend and print the answer with its sources.

By default the answer is rendered as markdown. Use --format to print the
exchange as a transcript instead (jsonl, md, yaml, json, html), and --out to
write it to a file.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		message := strings.Join(args, " ")
		if strings.TrimSpace(message) == "" {
			return fmt.Errorf("message must not be empty")
		}

		if askOutput != "" && askFormat == "" {
			return fmt.Errorf("--out requires --format")
		}

		var exporter export.Exporter
		if askFormat != "" {
			var err error
			if exporter, err = export.NewExporter(askFormat); err != nil {
				return err
			}
		}

		ctx := cmd.Context()
		conv := newConversation(internal.NewClient(cfg), internal.TerminalNotifier{})
		query := conv.Submit(ctx, message)

		var reply *internal.Message
		err := internal.ShowProgress(ctx, "Waiting for the answer", func(ctx context.Context) error {
			var waitErr error
			reply, waitErr = query.Wait(ctx)
			return waitErr
		})
		if err != nil {
			return fmt.Errorf("no answer: %w", err)
		}

		out := cmd.OutOrStdout()
		switch {
		case exporter != nil && askOutput != "":
			if err := export.Save(conv.Transcript(cfg.Backend.URL, ""), askFormat, askOutput); err != nil {
				return err
			}
			internal.PrintSuccess(fmt.Sprintf("Transcript written to %s", askOutput))
		case exporter != nil:
			if err := exporter.Export(conv.Transcript(cfg.Backend.URL, ""), out); err != nil {
				return fmt.Errorf("failed to export transcript: %w", err)
			}
		default:
			renderer, err := newRenderer(askWidth)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprint(out, renderer.RenderMessage(*reply))
		}

		if askSaveCitations {
			saved := 0
			for _, c := range reply.Citations {
				if !c.Downloadable() {
					continue
				}
				path, err := conv.DownloadCitation(c)
				if err != nil {
					return err
				}
				internal.LogInfo("Saved %s to %s", c.Label(), path)
				saved++
			}
			internal.LogDebug("Saved %d of %d citation(s)", saved, len(reply.Citations))
		}
		return nil
	},
}

// newRenderer picks a colored renderer for terminals and a plain one for pipes
func newRenderer(width int) (*internal.Renderer, error) {
	if internal.IsTerminal(os.Stdout) {
		return internal.NewRenderer(width)
	}
	return internal.NewPlainRenderer(width)
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVarP(&askFormat, "format", "f", "", "Print a transcript in this format instead (jsonl, md, yaml, json, html)")
	askCmd.Flags().StringVarP(&askOutput, "out", "o", "", "Write the transcript to this file (requires --format)")
	askCmd.Flags().BoolVar(&askSaveCitations, "save-citations", false, "Save every cited passage to the download directory")
	askCmd.Flags().IntVar(&askWidth, "width", 80, "Wrap width for rendered answers")
}

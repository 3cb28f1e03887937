package cmd

import (
	"bufio"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/iksnae/docchat/internal"
	"github.com/spf13/cobra"
)

var uploadYes bool

// uploadCmd represents the upload command
var uploadCmd = &cobra.Command{
	Use:   "upload <file.pdf>",
	Short: "Upload a PDF to the backend for indexing",
	Long: `Select a PDF, show what will be sent, and upload it once confirmed.

Only PDF files are accepted; the file type is checked from its content, not
just its extension. A failed upload can simply be run again.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		uploader := internal.NewUploader(internal.NewClient(cfg), internal.TerminalNotifier{})

		picker := internal.PathPicker{Path: args[0], MaxSize: cfg.Upload.MaxSize}
		name := filepath.Base(args[0])

		var info internal.FileInfo
		steps := []internal.ProgressStep{
			{
				Message: fmt.Sprintf("Checking %s", name),
				Fn: func(ctx context.Context) error {
					if err := uploader.PickFile(ctx, picker); err != nil {
						return err
					}
					file := uploader.Selected()
					if file == nil {
						return fmt.Errorf("no file selected")
					}
					info = internal.DescribeFile(file)
					return nil
				},
			},
			{
				Message: fmt.Sprintf("Uploading %s", name),
				Fn:      uploader.ConfirmUpload,
			},
		}

		if uploadYes {
			err := internal.ShowProgressWithSteps(ctx, steps)
			if info.Name != "" {
				describe(cmd, info)
			}
			return err
		}

		if err := internal.ShowProgressWithSteps(ctx, steps[:1]); err != nil {
			return err
		}
		describe(cmd, info)
		if !confirm(cmd, "Upload this file?") {
			_ = uploader.CancelSelection()
			internal.PrintInfo("Upload cancelled")
			return nil
		}
		return internal.ShowProgressWithSteps(ctx, steps[1:])
	},
}

// describe prints what will be sent and warns when the page count is unknown
func describe(cmd *cobra.Command, info internal.FileInfo) {
	out := cmd.OutOrStdout()
	if info.Pages > 0 {
		_, _ = fmt.Fprintf(out, "📄 %s (%s, %d pages)\n", info.Name, info.Size, info.Pages)
		return
	}
	_, _ = fmt.Fprintf(out, "📄 %s (%s)\n", info.Name, info.Size)
	internal.PrintWarning(fmt.Sprintf("Could not read the page count of %s; the backend may reject it", info.Name))
}

// confirm asks a yes/no question on the command's input; anything but y/yes is no
func confirm(cmd *cobra.Command, question string) bool {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", question)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func init() {
	rootCmd.AddCommand(uploadCmd)
	uploadCmd.Flags().BoolVarP(&uploadYes, "yes", "y", false, "Upload without asking for confirmation")
}

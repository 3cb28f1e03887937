package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/docchat/internal"
	"github.com/spf13/cobra"
)

var (
	healthcheckVerbose bool
	healthcheckTimeout time.Duration
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check that docchat is configured and the backend is reachable",
	Long: `Check the health of docchat by verifying:
  • Configuration and endpoint addresses
  • Download directory for saved citations
  • Backend reachability

This command is useful for debugging connection issues before opening the chat screen.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintln(out, sectionStyle.Render("🔍 DocChat Health Check"))
		_, _ = fmt.Fprintln(out)

		// Step 1: Configuration
		_, _ = fmt.Fprintln(out, infoStyle.Render("Step 1: Checking configuration..."))
		_, _ = fmt.Fprintln(out, successStyle.Render("✅ Configuration loaded"))
		if healthcheckVerbose {
			if used := conf.ConfigFileUsed(); used != "" {
				_, _ = fmt.Fprintf(out, "   Config file: %s\n", used)
			} else {
				_, _ = fmt.Fprintf(out, "   Config file: none (defaults and environment)\n")
			}
			_, _ = fmt.Fprintf(out, "   Chat endpoint: %s\n", cfg.ChatURL())
			_, _ = fmt.Fprintf(out, "   Upload endpoint: %s (field %q)\n", cfg.UploadURL(), cfg.Backend.UploadField)
			_, _ = fmt.Fprintf(out, "   Request timeout: %s\n", cfg.Backend.Timeout)
		}
		_, _ = fmt.Fprintln(out)

		// Step 2: Download directory
		_, _ = fmt.Fprintln(out, infoStyle.Render("Step 2: Checking download directory..."))
		if info, err := os.Stat(cfg.Downloads.Dir); err == nil && info.IsDir() {
			_, _ = fmt.Fprintln(out, successStyle.Render("✅ Download directory exists"))
		} else {
			_, _ = fmt.Fprintln(out, warningStyle.Render("⚠️  Download directory not found, it will be created on first save"))
		}
		if healthcheckVerbose {
			_, _ = fmt.Fprintf(out, "   Directory: %s\n", cfg.Downloads.Dir)
		}
		_, _ = fmt.Fprintln(out)

		// Step 3: Backend
		_, _ = fmt.Fprintln(out, infoStyle.Render("Step 3: Contacting backend..."))
		ctx, cancel := context.WithTimeout(cmd.Context(), healthcheckTimeout)
		defer cancel()
		status, err := internal.NewClient(cfg).Ping(ctx)
		if err != nil {
			_, _ = fmt.Fprintln(out, errorStyle.Render("❌ Backend unreachable:"), err)
			_, _ = fmt.Fprintln(out)
			_, _ = fmt.Fprintf(out, "Is the backend running at %s?\n", cfg.Backend.URL)
			return fmt.Errorf("backend unreachable at %s", cfg.Backend.URL)
		}
		_, _ = fmt.Fprintln(out, successStyle.Render("✅ Backend is reachable"))
		if healthcheckVerbose {
			_, _ = fmt.Fprintf(out, "   %s answered with HTTP %d\n", cfg.Backend.URL, status)
		}
		_, _ = fmt.Fprintln(out)

		_, _ = fmt.Fprintln(out, successStyle.Render("✅ All checks passed"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
	healthcheckCmd.Flags().BoolVarP(&healthcheckVerbose, "verbose", "v", false, "Show detailed diagnostic information")
	healthcheckCmd.Flags().DurationVar(&healthcheckTimeout, "timeout", 5*time.Second, "How long to wait for the backend")
}

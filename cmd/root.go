package cmd

import (
	"fmt"
	"os"

	"github.com/iksnae/docchat/internal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	verbose     bool
	configPath  string
	backendURL  string
	downloadDir string
	version     string = "dev"
	commit      string = "unknown"
	date        string = "unknown"

	// cfg is loaded before any subcommand runs
	cfg  *internal.Config
	conf = viper.New()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "docchat",
	Short: "Chat with your PDF documents",
	Long: `A terminal client for a retrieval-augmented chat backend.

Upload a PDF to the backend for indexing, then ask questions about it.
Answers come back with the passages they were drawn from, and any passage
can be saved as a text file.

Features:
  • Interactive chat screen with markdown rendering
  • Numbered sources with page references
  • One-shot questions for scripts and pipes
  • Transcript export (JSON, JSONL, Markdown, YAML, HTML)

Quick Start:
  docchat upload manual.pdf               # Index a document
  docchat chat                            # Start chatting
  docchat ask "What is the warranty?"     # Ask a single question

Configuration is read from $XDG_CONFIG_HOME/docchat/config.yaml and
DOCCHAT_* environment variables (e.g. DOCCHAT_BACKEND_URL).`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		internal.SetVerbose(verbose)

		loaded, err := internal.LoadConfig(conf, configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		internal.LogDebug("Backend: %s", cfg.Backend.URL)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/docchat/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&backendURL, "backend", "", "Backend base URL (default http://localhost:8000)")
	rootCmd.PersistentFlags().StringVar(&downloadDir, "download-dir", "", "Directory for saved citations (default your Downloads folder)")

	_ = conf.BindPFlag("backend.url", rootCmd.PersistentFlags().Lookup("backend"))
	_ = conf.BindPFlag("downloads.dir", rootCmd.PersistentFlags().Lookup("download-dir"))

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// newConversation builds a conversation against the configured backend
func newConversation(backend internal.Querier, notifier internal.Notifier) *internal.Conversation {
	return internal.NewConversation(backend,
		internal.WithNotifier(notifier),
		internal.WithDownloadDir(cfg.Downloads.Dir),
		internal.WithRequestTimeout(cfg.Backend.Timeout),
	)
}

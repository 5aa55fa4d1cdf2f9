// Package cli provides the cobra command tree that drives the
// application services.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/doctalk-labs/doctalk/internal/adapters/driven/config/file"
	"github.com/doctalk-labs/doctalk/internal/core/ports/driving"
	"github.com/doctalk-labs/doctalk/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services wired by the composition root before Execute.
var (
	searchService   driving.SearchService
	documentService driving.DocumentService
	dialogueService driving.DialogueService
	configStore     *file.ConfigStore
)

// Persistent flags.
var (
	verbose    bool
	userIDFlag int64
)

var rootCmd = &cobra.Command{
	Use:   "doctalk",
	Short: "Talk to your documents",
	Long: `Doctalk ingests text and markdown documents, indexes them for
hybrid keyword and semantic search, and answers questions about them
with cited sources.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().Int64VarP(&userIDFlag, "user", "u", 1, "user ID owning the documents")
}

// Services bundles everything the command tree needs.
type Services struct {
	Search   driving.SearchService
	Document driving.DocumentService
	Dialogue driving.DialogueService
	Config   *file.ConfigStore
}

// SetServices injects the application services. Must be called before
// Execute.
func SetServices(s Services) {
	searchService = s.Search
	documentService = s.Document
	dialogueService = s.Dialogue
	configStore = s.Config
}

// SetVersion overrides the reported version string.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

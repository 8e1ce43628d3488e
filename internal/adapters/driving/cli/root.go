// Package cli wires the cobra command tree that fronts the tutor.
//
// Commands hold no business logic; each one resolves the acting owner,
// calls a driving port and renders the result. Services are injected
// once at startup via SetServices, which keeps the commands testable
// with fakes.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/tutora-cli/internal/core/ports/driving"
	"github.com/custodia-labs/tutora-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services wired at startup. Tests swap individual entries.
var (
	ingestService   driving.IngestService
	tutorService    driving.TutorService
	documentService driving.DocumentService
	settingsService driving.SettingsService
)

// Root flags.
var (
	verbose   bool
	ownerFlag string
)

var rootCmd = &cobra.Command{
	Use:   "tutora",
	Short: "A study tutor grounded in your own notes",
	Long: `Tutora ingests your note files and turns them into a personal tutor.

Ask questions, generate quizzes, puzzles and practice questions - all
answered strictly from what you have ingested, never from the model's
general knowledge.

Get started:
  tutora settings wizard    configure an AI provider
  tutora ingest notes/      index your notes
  tutora ask "..."          ask about them`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&ownerFlag, "owner", "", "owner whose library to use (defaults to the configured owner)")
}

// Services bundles the driving ports the command tree depends on.
type Services struct {
	Ingest    driving.IngestService
	Tutor     driving.TutorService
	Documents driving.DocumentService
	Settings  driving.SettingsService
}

// SetServices injects the service implementations used by all commands.
func SetServices(s *Services) {
	if s == nil {
		return
	}
	ingestService = s.Ingest
	tutorService = s.Tutor
	documentService = s.Documents
	settingsService = s.Settings
}

// SetVersion records the build version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the command tree. ctx is cancelled on interrupt so
// long-running commands (watch, chat, mcp serve) shut down cleanly.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// resolveOwner returns the owner for this invocation: the --owner flag
// when given, otherwise the configured default.
func resolveOwner() string {
	if ownerFlag != "" {
		return ownerFlag
	}
	if settingsService != nil {
		return settingsService.Owner()
	}
	return "default"
}

// Package cli provides the brdify command line interface.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/brdify/internal/adapters/driving/watch"
	"github.com/custodia-labs/brdify/internal/core/ports/driving"
	"github.com/custodia-labs/brdify/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services used by the commands. They are wired from the config file on
// first use unless a caller has already set them.
var (
	brdService      driving.BrdService
	ingestService   driving.IngestService
	settingsService driving.SettingsService
	fileFilter      watch.Filter
)

// closeServices releases resources opened by wireServices.
var closeServices func()

var (
	verbose bool
	quiet   bool
)

// Command annotations controlling service wiring.
const (
	annotationWiring = "brdify/wiring"
	wiringNone       = "none"
	wiringSettings   = "settings"
)

var errBrdServiceMissing = errors.New("brd service not configured")

var rootCmd = &cobra.Command{
	Use:   "brdify",
	Short: "Turn meeting transcripts and documents into BRDs",
	Long: `brdify extracts requirements, decisions, stakeholders, risks and
milestones from transcripts, emails and documents with an LLM, and keeps a
requirements traceability matrix (RTM) linking every requirement back to
the source text it came from.

Configure a provider first:
  brdify config set llm.provider groq
  export BRDIFY_LLM_API_KEY=...`,
	SilenceUsage:      true,
	PersistentPreRunE: prepare,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print pipeline progress to stderr")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress warnings")
	rootCmd.PersistentFlags().StringVar(&configDir, "home", "", "Config and data directory (default ~/.brdify)")
}

// prepare configures logging and wires the services a command needs.
func prepare(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	logger.SetQuiet(quiet)

	switch cmd.Annotations[annotationWiring] {
	case wiringNone:
		return nil
	case wiringSettings:
		return ensureSettings()
	default:
		return ensureServices()
	}
}

// SetVersion sets the version reported by `brdify version` and the MCP server.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command and releases wired services afterwards.
func Execute(ctx context.Context) error {
	defer func() {
		if closeServices != nil {
			closeServices()
			closeServices = nil
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}

func requireBrdService() error {
	if brdService == nil {
		return errBrdServiceMissing
	}
	return nil
}

// commandContext returns the command's context, which is nil when a
// command runs without ExecuteContext.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

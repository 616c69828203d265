package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/brdify/internal/adapters/driving/tui"
)

var viewCmd = &cobra.Command{
	Use:   "view [brd-id]",
	Short: "Browse BRDs in an interactive terminal UI",
	Long: `Browse stored BRDs in an interactive terminal UI. With an ID the
document opens directly.

Controls:
  ↑/k, ↓/j     Navigate
  Enter        Open document
  Tab          Next section (overview, requirements, traceability)
  d            Delete document
  r            Reload
  Esc          Back
  ?            Toggle help
  q            Quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)
}

// runApp runs the TUI program; tests replace it to avoid a terminal.
var runApp = func(app *tui.App) error {
	return app.Run()
}

func runView(cmd *cobra.Command, args []string) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	app, err := tui.NewApp(tui.NewPorts(brdService))
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(commandContext(cmd))
	if len(args) == 1 {
		app.WithDocument(args[0])
	}

	if err := runApp(app); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/brdify/internal/adapters/driving/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Generate BRDs for files dropped into a directory",
	Long: `Watch a directory and generate a BRD for every supported file that
is created or written there. Hidden files are ignored. Stop with Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

var watchDebounce time.Duration

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce,
		"How long a file must be unchanged before it is processed")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := requireBrdService(); err != nil {
		return err
	}
	if fileFilter == nil {
		return errors.New("file filter not configured")
	}

	w := watch.New(args[0], brdService, fileFilter, watch.WithDebounce(watchDebounce))
	results, err := w.Watch(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", args[0], err)
	}

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", args[0])
	for r := range results {
		if r.Err != nil {
			cmd.Printf("FAIL  %s: %v\n", r.Path, r.Err)
			continue
		}
		cmd.Printf("OK    %s -> %s (%d requirements)\n", r.Path, r.Document.ID, len(r.Document.Requirements))
	}
	return nil
}

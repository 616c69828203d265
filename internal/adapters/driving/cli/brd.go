package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/brdify/internal/connectors/filesystem"
	"github.com/custodia-labs/brdify/internal/core/domain"
	"github.com/custodia-labs/brdify/internal/core/ports/driving"
	"github.com/custodia-labs/brdify/internal/core/services"
)

var createCmd = &cobra.Command{
	Use:   "create [file|-]",
	Short: "Generate a BRD from a file or stdin",
	Long: `Generate a Business Requirements Document from a transcript, email,
markdown, HTML or docx file. Use "-" or pipe text to read raw text from stdin.

Examples:
  brdify create kickoff-call.txt
  brdify create requirements.docx --title "Payments revamp"
  pbpaste | brdify create -`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCreate,
}

var ingestCmd = &cobra.Command{
	Use:   "ingest [files or dirs...]",
	Short: "Generate BRDs from several files in parallel",
	Long: `Generate one BRD per file. Directories contribute their visible files
of a supported type (.txt, .md, .eml, .docx, .html); use --recursive to include
subdirectories. Documents are processed in parallel, bounded by the
ingest.concurrency setting.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

var getCmd = &cobra.Command{
	Use:   "get [brd-id]",
	Short: "Show a BRD",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored BRDs",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var rtmCmd = &cobra.Command{
	Use:   "rtm [brd-id]",
	Short: "Show the requirements traceability matrix of a BRD",
	Args:  cobra.ExactArgs(1),
	RunE:  runRTM,
}

var updateCmd = &cobra.Command{
	Use:   "update [brd-id]",
	Short: "Replace the entity lists of a BRD",
	Long: `Replace the requirements, decisions, stakeholders, risks and timeline
of a BRD with the lists in a JSON file. Entries keep their traceability
links when they carry the key they were given (REQ-1, DEC-2, ...); new
entries get fresh keys.

Start from the current document:
  brdify get <id> --json > edits.json
  $EDITOR edits.json
  brdify update <id> --file edits.json`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

var deleteCmd = &cobra.Command{
	Use:   "delete [brd-id]",
	Short: "Delete a BRD",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var exportCmd = &cobra.Command{
	Use:   "export [brd-id]",
	Short: "Export a BRD as PDF, Markdown or JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

var (
	createTitle  string
	createType   string
	jsonOutput   bool
	updateFile   string
	exportFormat string
	exportOutput string
	recursive    bool
)

// stdinIsTerminal reports whether stdin is interactive.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) //nolint:gosec // fd fits in int
}

func init() {
	createCmd.Flags().StringVarP(&createTitle, "title", "t", "", "Document title (default \"BRD from <source type>\")")
	createCmd.Flags().StringVar(&createType, "type", "", "Source type for stdin text: TRANSCRIPT, DOCUMENT or TEXT_INPUT")
	updateCmd.Flags().StringVarP(&updateFile, "file", "f", "", "JSON file with the replacement lists (\"-\" for stdin)")
	_ = updateCmd.MarkFlagRequired("file")
	ingestCmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Walk subdirectories")
	exportCmd.Flags().StringVar(&exportFormat, "format", "markdown", "Export format")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default stdout)")

	for _, c := range []*cobra.Command{createCmd, ingestCmd, getCmd, listCmd, rtmCmd, updateCmd} {
		c.Flags().BoolVar(&jsonOutput, "json", false, "Print JSON")
	}

	rootCmd.AddCommand(createCmd, ingestCmd, getCmd, listCmd, rtmCmd, updateCmd, deleteCmd, exportCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	if err := requireBrdService(); err != nil {
		return err
	}
	ctx := commandContext(cmd)

	var (
		doc *domain.BrdDocument
		err error
	)
	if len(args) == 1 && args[0] != "-" {
		doc, err = brdService.CreateFromFile(ctx, args[0], createTitle)
	} else {
		if len(args) == 0 && cmd.InOrStdin() == os.Stdin && stdinIsTerminal() {
			return errors.New("no input: pass a file, or pipe text and use \"-\"")
		}
		var content []byte
		content, err = io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		doc, err = brdService.Create(ctx, driving.CreateRequest{
			Content:    string(content),
			SourceType: domain.SourceType(strings.ToUpper(createType)),
			Title:      createTitle,
		})
	}
	if err != nil {
		return fmt.Errorf("failed to create BRD: %w", err)
	}

	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), doc)
	}
	cmd.Printf("Created BRD %s\n", doc.ID)
	cmd.Printf("  Title:        %s\n", doc.Title)
	printCounts(cmd, doc)
	return nil
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	ctx := commandContext(cmd)

	paths, err := filesystem.Expand(ctx, args, fileFilter, recursive)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("%w: no supported files found", domain.ErrInvalidInput)
	}

	results := ingestService.IngestFiles(ctx, paths)
	created := services.Succeeded(results)
	failed := len(results) - len(created)

	if jsonOutput {
		if err := writeJSON(cmd.OutOrStdout(), ingestJSON(results)); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			if r.Err != nil {
				cmd.Printf("FAIL  %s: %v\n", r.Path, r.Err)
			} else {
				cmd.Printf("OK    %s -> %s (%d requirements)\n", r.Path, r.Document.ID, len(r.Document.Requirements))
			}
		}
		cmd.Printf("\nCreated %d of %d BRDs\n", len(created), len(results))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}

type ingestEntry struct {
	Path  string `json:"path"`
	ID    string `json:"id,omitempty"`
	Error string `json:"error,omitempty"`
}

func ingestJSON(results []driving.IngestResult) []ingestEntry {
	out := make([]ingestEntry, len(results))
	for i, r := range results {
		out[i] = ingestEntry{Path: r.Path}
		if r.Err != nil {
			out[i].Error = r.Err.Error()
		} else if r.Document != nil {
			out[i].ID = r.Document.ID
		}
	}
	return out
}

func runGet(cmd *cobra.Command, args []string) error {
	if err := requireBrdService(); err != nil {
		return err
	}

	doc, err := brdService.Get(commandContext(cmd), args[0])
	if err != nil {
		return fmt.Errorf("failed to get BRD: %w", err)
	}
	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), doc)
	}
	printDocument(cmd, doc)
	return nil
}

func runList(cmd *cobra.Command, _ []string) error {
	if err := requireBrdService(); err != nil {
		return err
	}

	summaries, err := brdService.List(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("failed to list BRDs: %w", err)
	}
	if jsonOutput {
		if summaries == nil {
			summaries = []domain.BrdSummary{}
		}
		return writeJSON(cmd.OutOrStdout(), summaries)
	}

	if len(summaries) == 0 {
		cmd.Println("No BRDs yet. Create one with: brdify create <file>")
		return nil
	}

	for _, s := range summaries {
		cmd.Printf("  %s\n", s.ID)
		cmd.Printf("    Title:        %s\n", s.Title)
		cmd.Printf("    Status:       %s\n", s.Status)
		cmd.Printf("    Source:       %s\n", s.SourceType)
		cmd.Printf("    Requirements: %d\n", s.RequirementCount)
		cmd.Printf("    Updated:      %s\n", s.UpdatedAt.Format("2006-01-02 15:04:05"))
		cmd.Println()
	}
	cmd.Printf("Total: %d BRDs\n", len(summaries))
	return nil
}

func runRTM(cmd *cobra.Command, args []string) error {
	if err := requireBrdService(); err != nil {
		return err
	}

	rows, err := brdService.RTM(commandContext(cmd), args[0])
	if err != nil {
		return fmt.Errorf("failed to get RTM: %w", err)
	}
	if jsonOutput {
		if rows == nil {
			rows = []driving.RtmRow{}
		}
		return writeJSON(cmd.OutOrStdout(), rows)
	}

	if len(rows) == 0 {
		cmd.Println("No requirements are traced.")
		return nil
	}
	for _, r := range rows {
		cmd.Printf("%s  %s\n", r.RequirementKey, r.Requirement)
		cmd.Printf("    Source:    %s\n", excerpt(r.SourceChunk, 100))
		if r.DecisionKey != "" {
			cmd.Printf("    Decision:  %s %s\n", r.DecisionKey, r.Decision)
		}
		if r.RiskKey != "" {
			cmd.Printf("    Risk:      %s %s\n", r.RiskKey, r.Risk)
		}
		if r.TimelineKey != "" {
			cmd.Printf("    Milestone: %s %s\n", r.TimelineKey, r.Milestone)
		}
	}
	return nil
}

func runUpdate(cmd *cobra.Command, args []string) error {
	if err := requireBrdService(); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	if updateFile == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(filepath.Clean(updateFile))
	}
	if err != nil {
		return fmt.Errorf("read edits: %w", err)
	}

	var upd driving.BrdUpdate
	if err := json.Unmarshal(data, &upd); err != nil {
		return fmt.Errorf("%w: parse edits: %w", domain.ErrInvalidInput, err)
	}

	doc, err := brdService.Update(commandContext(cmd), args[0], upd)
	if err != nil {
		return fmt.Errorf("failed to update BRD: %w", err)
	}
	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), doc)
	}
	cmd.Printf("Updated BRD %s\n", doc.ID)
	printCounts(cmd, doc)
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	if err := requireBrdService(); err != nil {
		return err
	}

	if err := brdService.Delete(commandContext(cmd), args[0]); err != nil {
		return fmt.Errorf("failed to delete BRD: %w", err)
	}
	cmd.Printf("Deleted BRD %s\n", args[0])
	return nil
}

func runExport(cmd *cobra.Command, args []string) (err error) {
	if err := requireBrdService(); err != nil {
		return err
	}
	ctx := commandContext(cmd)

	// Check the document first so a bad ID does not leave an empty file.
	if _, err := brdService.Get(ctx, args[0]); err != nil {
		return fmt.Errorf("failed to export BRD: %w", err)
	}

	w := cmd.OutOrStdout()
	if exportOutput != "" {
		f, ferr := os.Create(filepath.Clean(exportOutput))
		if ferr != nil {
			return fmt.Errorf("create %s: %w", exportOutput, ferr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		w = f
	}

	if err := brdService.Render(ctx, args[0], exportFormat, w); err != nil {
		return fmt.Errorf("failed to export BRD (formats: %s): %w",
			strings.Join(brdService.Formats(), ", "), err)
	}
	if exportOutput != "" {
		cmd.Printf("Exported %s to %s\n", args[0], exportOutput)
	}
	return nil
}

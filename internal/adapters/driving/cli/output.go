package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/brdify/internal/core/domain"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

func printCounts(cmd *cobra.Command, doc *domain.BrdDocument) {
	cmd.Printf("  Requirements: %d (%d traced)\n", len(doc.Requirements), len(doc.RTM))
	cmd.Printf("  Decisions:    %d\n", len(doc.Decisions))
	cmd.Printf("  Stakeholders: %d\n", len(doc.Stakeholders))
	cmd.Printf("  Risks:        %d\n", len(doc.Risks))
	cmd.Printf("  Milestones:   %d\n", len(doc.Timeline))
}

func printDocument(cmd *cobra.Command, doc *domain.BrdDocument) {
	cmd.Printf("BRD: %s\n\n", doc.ID)
	cmd.Printf("  Title:    %s\n", doc.Title)
	cmd.Printf("  Status:   %s\n", doc.Status)
	cmd.Printf("  Source:   %s\n", doc.Source.SourceType)
	if doc.Source.URI != "" {
		cmd.Printf("  File:     %s\n", doc.Source.URI)
	}
	cmd.Printf("  Created:  %s\n", doc.CreatedAt.Format("2006-01-02 15:04:05"))
	cmd.Printf("  Updated:  %s\n", doc.UpdatedAt.Format("2006-01-02 15:04:05"))

	if doc.Summary != "" {
		cmd.Println("\nExecutive summary:")
		cmd.Printf("  %s\n", doc.Summary)
	}

	cmd.Printf("\nRequirements (%d):\n", len(doc.Requirements))
	for _, r := range doc.Requirements {
		cmd.Printf("  %-7s [%s/%s] %s\n", r.Key, r.Type, r.Priority, r.Description)
	}

	cmd.Printf("\nDecisions (%d):\n", len(doc.Decisions))
	for _, d := range doc.Decisions {
		cmd.Printf("  %-7s %s (%s)\n", d.Key, d.Description, d.Status)
	}

	cmd.Printf("\nStakeholders (%d):\n", len(doc.Stakeholders))
	for _, s := range doc.Stakeholders {
		cmd.Printf("  %-7s %s", s.Key, s.Name)
		if s.Role != "" {
			cmd.Printf(", %s", s.Role)
		}
		cmd.Println()
	}

	cmd.Printf("\nRisks (%d):\n", len(doc.Risks))
	for _, r := range doc.Risks {
		cmd.Printf("  %-7s %s [probability %s, impact %s]\n", r.Key, r.Description, r.Probability, r.Impact)
	}

	cmd.Printf("\nTimeline (%d):\n", len(doc.Timeline))
	for _, t := range doc.Timeline {
		cmd.Printf("  %-7s %s", t.Key, t.Milestone)
		if t.ExpectedDate != "" {
			cmd.Printf(" (%s)", t.ExpectedDate)
		}
		cmd.Println()
	}

	cmd.Printf("\nTraced requirements: %d of %d\n", len(doc.RTM), len(doc.Requirements))
}

// excerpt flattens whitespace and cuts s to at most n runes.
func excerpt(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

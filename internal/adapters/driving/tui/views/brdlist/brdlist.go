// Package brdlist provides the document list view for the TUI.
package brdlist

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/brdify/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/brdify/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/brdify/internal/core/domain"
	"github.com/custodia-labs/brdify/internal/core/ports/driving"
)

// View is the document list view.
type View struct {
	styles     *styles.Styles
	brdService driving.BrdService
	ctx        context.Context

	summaries     []domain.BrdSummary
	selected      int
	width         int
	height        int
	err           error
	loading       bool
	confirmDelete bool
	scrollOffset  int
}

// NewView creates a new document list view.
func NewView(s *styles.Styles, brdService driving.BrdService) *View {
	return &View{
		styles:     s,
		brdService: brdService,
		ctx:        context.Background(),
	}
}

// WithContext sets the context used for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the documents.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.load()
}

func (v *View) load() tea.Cmd {
	return func() tea.Msg {
		if v.brdService == nil {
			return messages.BrdsLoaded{Err: fmt.Errorf("brd service not available")}
		}
		summaries, err := v.brdService.List(v.ctx)
		return messages.BrdsLoaded{Summaries: summaries, Err: err}
	}
}

func (v *View) remove(id string) tea.Cmd {
	return func() tea.Msg {
		if v.brdService == nil {
			return messages.BrdDeleted{ID: id, Err: fmt.Errorf("brd service not available")}
		}
		return messages.BrdDeleted{ID: id, Err: v.brdService.Delete(v.ctx, id)}
	}
}

// Update handles messages for the list view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if v.confirmDelete {
			return v.handleConfirmKeyMsg(msg)
		}
		return v.handleKeyMsg(msg)

	case messages.BrdsLoaded:
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.summaries = msg.Summaries
			if v.selected >= len(v.summaries) {
				v.selected = max(len(v.summaries)-1, 0)
			}
			v.adjustScroll()
		}
		return v, nil

	case messages.BrdDeleted:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.loading = true
		return v, v.load()

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
			v.adjustScroll()
		}
	case "down", "j":
		if v.selected < len(v.summaries)-1 {
			v.selected++
			v.adjustScroll()
		}
	case "enter":
		if sum := v.SelectedSummary(); sum != nil {
			id := sum.ID
			return v, func() tea.Msg {
				return messages.BrdSelected{ID: id}
			}
		}
	case "d":
		if len(v.summaries) > 0 {
			v.confirmDelete = true
		}
	case "r":
		v.loading = true
		return v, v.load()
	case "q":
		return v, func() tea.Msg { return messages.Quit{} }
	}

	return v, nil
}

func (v *View) handleConfirmKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	v.confirmDelete = false
	if msg.String() != "y" {
		return v, nil
	}
	if sum := v.SelectedSummary(); sum != nil {
		return v, v.remove(sum.ID)
	}
	return v, nil
}

// adjustScroll keeps the selected row visible.
func (v *View) adjustScroll() {
	visible := v.visibleItemCount()
	if v.selected < v.scrollOffset {
		v.scrollOffset = v.selected
	} else if v.selected >= v.scrollOffset+visible {
		v.scrollOffset = v.selected - visible + 1
	}
}

func (v *View) visibleItemCount() int {
	// Title, header, help and status bar.
	return max(v.height-8, 1)
}

// View renders the list.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Business Requirements Documents (%d)", len(v.summaries))))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading documents..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	case len(v.summaries) == 0:
		b.WriteString(v.styles.Muted.Render("No documents yet. Run `brdify create <file>` to make one."))
	case v.confirmDelete:
		sum := v.summaries[v.selected]
		b.WriteString(v.styles.Warning.Render(fmt.Sprintf("Delete %q (%s)? [y/N]", sum.Title, sum.ID)))
	default:
		visible := v.visibleItemCount()
		for i := v.scrollOffset; i < len(v.summaries) && i < v.scrollOffset+visible; i++ {
			b.WriteString(v.renderRow(i, &v.summaries[i]))
			b.WriteString("\n")
		}
		if len(v.summaries) > visible {
			b.WriteString("\n")
			b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d-%d of %d]",
				v.scrollOffset+1,
				min(v.scrollOffset+visible, len(v.summaries)),
				len(v.summaries))))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[↑/↓] navigate  [enter] open  [d] delete  [r] reload  [q] quit"))
	return b.String()
}

func (v *View) renderRow(index int, sum *domain.BrdSummary) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}

	titleWidth := max(v.width-48, 16)
	title := truncate(sum.Title, titleWidth)
	created := sum.CreatedAt.Local().Format("2006-01-02 15:04")
	reqs := fmt.Sprintf("%3d req", sum.RequirementCount)

	if index == v.selected {
		return v.styles.Selected.Render(fmt.Sprintf("%s%-*s  %-8s %s  %s",
			indicator, titleWidth, title, sum.Status, reqs, created))
	}
	return v.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", indicator, titleWidth, title)) +
		v.styles.Status(string(sum.Status)).Render(fmt.Sprintf("%-8s ", sum.Status)) +
		v.styles.Muted.Render(fmt.Sprintf("%s  %s", reqs, created))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Summaries returns the listed documents.
func (v *View) Summaries() []domain.BrdSummary {
	return v.summaries
}

// SelectedIndex returns the highlighted row.
func (v *View) SelectedIndex() int {
	return v.selected
}

// SelectedSummary returns the highlighted document, or nil.
func (v *View) SelectedSummary() *domain.BrdSummary {
	if v.selected < len(v.summaries) {
		return &v.summaries[v.selected]
	}
	return nil
}

// IsConfirmingDelete reports whether the delete prompt is shown.
func (v *View) IsConfirmingDelete() bool {
	return v.confirmDelete
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

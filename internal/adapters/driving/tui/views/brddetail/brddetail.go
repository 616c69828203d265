// Package brddetail provides the document detail view for the TUI: an
// overview, the requirement list and the traceability matrix.
package brddetail

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/brdify/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/brdify/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/brdify/internal/core/domain"
	"github.com/custodia-labs/brdify/internal/core/ports/driving"
)

// Tab is a section of the detail view.
type Tab int

const (
	TabOverview Tab = iota
	TabRequirements
	TabRTM
	tabCount
)

var tabNames = [tabCount]string{"Overview", "Requirements", "Traceability"}

// String returns the tab label.
func (t Tab) String() string {
	if t < 0 || t >= tabCount {
		return "unknown"
	}
	return tabNames[t]
}

// View is the document detail view.
type View struct {
	styles     *styles.Styles
	brdService driving.BrdService
	ctx        context.Context

	id       string
	document *domain.BrdDocument
	rows     []driving.RtmRow
	tab      Tab

	overview     viewport.Model
	requirements table.Model
	rtm          table.Model

	width   int
	height  int
	err     error
	loading bool
}

// NewView creates a new detail view.
func NewView(s *styles.Styles, brdService driving.BrdService) *View {
	v := &View{
		styles:     s,
		brdService: brdService,
		ctx:        context.Background(),
		overview:   viewport.New(80, 20),
		requirements: table.New(
			table.WithFocused(true),
			table.WithStyles(s.Table()),
		),
		rtm: table.New(
			table.WithFocused(true),
			table.WithStyles(s.Table()),
		),
	}
	v.layout()
	return v
}

// WithContext sets the context used for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// SetDocument switches to the document with the given ID and loads it.
func (v *View) SetDocument(id string) tea.Cmd {
	v.id = id
	v.document = nil
	v.rows = nil
	v.tab = TabOverview
	v.err = nil
	v.loading = true
	return v.load()
}

func (v *View) load() tea.Cmd {
	id := v.id
	return func() tea.Msg {
		if v.brdService == nil {
			return messages.BrdLoaded{Err: fmt.Errorf("brd service not available")}
		}
		doc, err := v.brdService.Get(v.ctx, id)
		if err != nil {
			return messages.BrdLoaded{Err: err}
		}
		rows, err := v.brdService.RTM(v.ctx, id)
		return messages.BrdLoaded{Document: doc, Rows: rows, Err: err}
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the detail view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.BrdLoaded:
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.document = msg.Document
			v.rows = msg.Rows
			v.fill()
		}
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewList}
		}
	case "tab", "l", "right":
		v.tab = (v.tab + 1) % tabCount
		return v, nil
	case "shift+tab", "h", "left":
		v.tab = (v.tab + tabCount - 1) % tabCount
		return v, nil
	case "r":
		if v.id != "" {
			v.loading = true
			return v, v.load()
		}
		return v, nil
	}

	var cmd tea.Cmd
	switch v.tab {
	case TabOverview:
		v.overview, cmd = v.overview.Update(msg)
	case TabRequirements:
		v.requirements, cmd = v.requirements.Update(msg)
	case TabRTM:
		v.rtm, cmd = v.rtm.Update(msg)
	}
	return v, cmd
}

// fill copies the loaded document into the section widgets.
func (v *View) fill() {
	v.overview.SetContent(v.renderOverview())
	v.overview.GotoTop()

	reqRows := make([]table.Row, len(v.document.Requirements))
	for i, r := range v.document.Requirements {
		reqRows[i] = table.Row{r.Key, r.Type, r.Priority, oneLine(r.Description)}
	}
	v.requirements.SetRows(reqRows)
	v.requirements.GotoTop()

	rtmRows := make([]table.Row, len(v.rows))
	for i, r := range v.rows {
		rtmRows[i] = table.Row{
			r.RequirementKey,
			oneLine(r.SourceChunk),
			orDash(r.DecisionKey),
			orDash(r.RiskKey),
			orDash(r.Milestone),
		}
	}
	v.rtm.SetRows(rtmRows)
	v.rtm.GotoTop()
}

func (v *View) renderOverview() string {
	doc := v.document
	var b strings.Builder

	fmt.Fprintf(&b, "%s  %s  source %s\n\n",
		v.styles.Status(string(doc.Status)).Render(string(doc.Status)),
		v.styles.Muted.Render(doc.ID),
		doc.Source.SourceType)

	if doc.Summary != "" {
		b.WriteString(v.styles.Subtitle.Render("Executive summary"))
		b.WriteString("\n")
		b.WriteString(doc.Summary)
		b.WriteString("\n\n")
	}

	section := func(title string, lines []string) {
		b.WriteString(v.styles.Subtitle.Render(fmt.Sprintf("%s (%d)", title, len(lines))))
		b.WriteString("\n")
		if len(lines) == 0 {
			b.WriteString(v.styles.Muted.Render("  none identified"))
			b.WriteString("\n")
		}
		for _, l := range lines {
			b.WriteString("  ")
			b.WriteString(l)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	decisions := make([]string, len(doc.Decisions))
	for i, d := range doc.Decisions {
		decisions[i] = fmt.Sprintf("%-7s %s (%s)", d.Key, d.Description, d.Status)
	}
	section("Decisions", decisions)

	stakeholders := make([]string, len(doc.Stakeholders))
	for i, s := range doc.Stakeholders {
		line := fmt.Sprintf("%-7s %s", s.Key, s.Name)
		if s.Role != "" {
			line += ": " + s.Role
		}
		stakeholders[i] = line
	}
	section("Stakeholders", stakeholders)

	risks := make([]string, len(doc.Risks))
	for i, r := range doc.Risks {
		risks[i] = fmt.Sprintf("%-7s %s [P:%s I:%s]", r.Key, r.Description, r.Probability, r.Impact)
	}
	section("Risks", risks)

	timeline := make([]string, len(doc.Timeline))
	for i, t := range doc.Timeline {
		line := fmt.Sprintf("%-7s %s", t.Key, t.Milestone)
		if t.ExpectedDate != "" {
			line += " (" + t.ExpectedDate + ")"
		}
		timeline[i] = line
	}
	section("Timeline", timeline)

	return b.String()
}

// layout sizes the widgets to the terminal.
func (v *View) layout() {
	width := max(v.width-2, 40)
	// Title, tabs, help and status bar.
	height := max(v.height-8, 3)

	v.overview.Width = width
	v.overview.Height = height

	descWidth := max(width-32, 20)
	v.requirements.SetColumns([]table.Column{
		{Title: "Key", Width: 7},
		{Title: "Type", Width: 14},
		{Title: "Priority", Width: 8},
		{Title: "Description", Width: descWidth},
	})
	v.requirements.SetWidth(width)
	v.requirements.SetHeight(height)

	sourceWidth := max(width-40, 20)
	v.rtm.SetColumns([]table.Column{
		{Title: "Req", Width: 7},
		{Title: "Source", Width: sourceWidth},
		{Title: "Decision", Width: 8},
		{Title: "Risk", Width: 7},
		{Title: "Milestone", Width: 14},
	})
	v.rtm.SetWidth(width)
	v.rtm.SetHeight(height)
}

// View renders the detail view.
func (v *View) View() string {
	var b strings.Builder

	title := "Document"
	if v.document != nil {
		title = v.document.Title
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n")
	b.WriteString(v.renderTabs())
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading document..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	case v.document == nil:
		b.WriteString(v.styles.Muted.Render("(No document)"))
	default:
		switch v.tab {
		case TabOverview:
			b.WriteString(v.overview.View())
		case TabRequirements:
			b.WriteString(v.requirements.View())
		case TabRTM:
			if len(v.rows) == 0 {
				b.WriteString(v.styles.Muted.Render("No traced requirements."))
			} else {
				b.WriteString(v.rtm.View())
			}
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[tab] section  [↑/↓] scroll  [r] reload  [esc] back"))
	return b.String()
}

func (v *View) renderTabs() string {
	tabs := make([]string, tabCount)
	for t := Tab(0); t < tabCount; t++ {
		if t == v.tab {
			tabs[t] = v.styles.ActiveTab.Render(t.String())
		} else {
			tabs[t] = v.styles.Tab.Render(t.String())
		}
	}
	return strings.Join(tabs, " ")
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.layout()
}

// Document returns the loaded document.
func (v *View) Document() *domain.BrdDocument {
	return v.document
}

// Tab returns the active section.
func (v *View) Tab() Tab {
	return v.tab
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/brdify/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/brdify/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/brdify/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/brdify/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/brdify/internal/adapters/driving/tui/views/brddetail"
	"github.com/custodia-labs/brdify/internal/adapters/driving/tui/views/brdlist"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	listView   *brdlist.View
	detailView *brddetail.View
	statusBar  *status.Bar

	// initialID opens a document directly on start.
	initialID string

	currentView messages.ViewType
	// previousView is restored when help is dismissed.
	previousView messages.ViewType

	err    error
	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	bar := status.NewBar(s, km)
	bar.SetHints(status.HintsList)

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		listView:    brdlist.NewView(s, ports.Brd),
		detailView:  brddetail.NewView(s, ports.Brd),
		statusBar:   bar,
		currentView: messages.ViewList,
	}, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.listView.WithContext(ctx)
	a.detailView.WithContext(ctx)
	return a
}

// WithDocument opens the given document when the program starts.
func (a *App) WithDocument(id string) *App {
	a.initialID = id
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.SetWindowTitle("brdify"),
		a.listView.Init(),
	}
	if a.initialID != "" {
		id := a.initialID
		cmds = append(cmds, func() tea.Msg { return messages.BrdSelected{ID: id} })
	}
	a.statusBar.SetState(status.StateLoading)
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case messages.BrdsLoaded:
		a.listView, cmd = a.listView.Update(msg)
		if msg.Err != nil {
			a.setError(msg.Err)
		} else {
			a.statusBar.Clear()
			a.statusBar.SetCount(len(msg.Summaries))
		}
		return a, cmd

	case messages.BrdDeleted:
		a.listView, cmd = a.listView.Update(msg)
		if msg.Err != nil {
			a.setError(msg.Err)
		} else {
			a.statusBar.SetState(status.StateLoading)
		}
		return a, cmd

	case messages.BrdSelected:
		a.currentView = messages.ViewDetail
		a.statusBar.SetHints(status.HintsDetail)
		a.statusBar.SetState(status.StateLoading)
		return a, a.detailView.SetDocument(msg.ID)

	case messages.BrdLoaded:
		a.detailView, cmd = a.detailView.Update(msg)
		if msg.Err != nil {
			a.setError(msg.Err)
		} else {
			a.err = nil
			a.statusBar.SetState(status.StateReady)
			if msg.Document != nil {
				a.statusBar.SetMessage(fmt.Sprintf("%s  %d requirements", msg.Document.ID, len(msg.Document.Requirements)))
			}
		}
		return a, cmd

	case messages.ViewChanged:
		a.currentView = msg.View
		if msg.View == messages.ViewList {
			a.statusBar.Clear()
			a.statusBar.SetHints(status.HintsList)
			a.statusBar.SetState(status.StateLoading)
			return a, a.listView.Init()
		}
		return a, nil

	case messages.ErrorOccurred:
		a.setError(msg.Err)
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	return a, nil
}

func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewHelp:
		if msg.Type == tea.KeyEsc || keymap.Matches(msg.String(), a.keymap.Help) {
			a.currentView = a.previousView
		}
		return a, nil

	case messages.ViewDetail:
		if keymap.Matches(msg.String(), a.keymap.Help) {
			a.showHelp()
			return a, nil
		}
		a.detailView, cmd = a.detailView.Update(msg)
		return a, cmd

	default:
		if !a.listView.IsConfirmingDelete() && keymap.Matches(msg.String(), a.keymap.Help) {
			a.showHelp()
			return a, nil
		}
		a.listView, cmd = a.listView.Update(msg)
		return a, cmd
	}
}

func (a *App) showHelp() {
	a.previousView = a.currentView
	a.currentView = messages.ViewHelp
}

func (a *App) setError(err error) {
	a.err = err
	a.statusBar.SetState(status.StateError)
	a.statusBar.SetMessage(err.Error())
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewDetail:
		body = a.detailView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	default:
		body = a.listView.View()
	}

	return body + "\n" + a.statusBar.View()
}

func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("brdify - Keyboard Shortcuts"))
	b.WriteString("\n\n")
	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			fmt.Fprintf(&b, "  %-14s %s\n", h.Key, h.Desc)
		}
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Help.Render("[esc] back"))
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has received its dimensions.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions and resizes every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	// Leave a line for the status bar.
	a.listView.SetDimensions(width, height-1)
	a.detailView.SetDimensions(width, height-1)
	a.statusBar.SetWidth(width)
}

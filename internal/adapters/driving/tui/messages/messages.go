// Package messages defines Bubbletea message types for the TUI.
package messages

import (
	"github.com/custodia-labs/brdify/internal/core/domain"
	"github.com/custodia-labs/brdify/internal/core/ports/driving"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewList lists stored documents.
	ViewList ViewType = iota
	// ViewDetail shows one document and its RTM.
	ViewDetail
	// ViewHelp is the keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewList:
		return "list"
	case ViewDetail:
		return "detail"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// BrdsLoaded carries the document summaries.
type BrdsLoaded struct {
	Summaries []domain.BrdSummary
	Err       error
}

// BrdSelected asks for one document to be opened.
type BrdSelected struct {
	ID string
}

// BrdLoaded carries one document with its resolved RTM.
type BrdLoaded struct {
	Document *domain.BrdDocument
	Rows     []driving.RtmRow
	Err      error
}

// BrdDeleted signals a document was deleted.
type BrdDeleted struct {
	ID  string
	Err error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

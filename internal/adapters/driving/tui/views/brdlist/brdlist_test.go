package brdlist

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/brdify/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/brdify/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/brdify/internal/core/domain"
	"github.com/custodia-labs/brdify/internal/core/ports/driving"
)

// mockBrdService overrides the methods the list view uses.
type mockBrdService struct {
	driving.BrdService
	summaries []domain.BrdSummary
	listErr   error
	deleted   []string
}

func (m *mockBrdService) List(context.Context) ([]domain.BrdSummary, error) {
	return m.summaries, m.listErr
}

func (m *mockBrdService) Delete(_ context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func sampleSummaries() []domain.BrdSummary {
	created := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	return []domain.BrdSummary{
		{ID: "brd-1", Title: "Checkout revamp", Status: domain.StatusDraft, RequirementCount: 7, CreatedAt: created},
		{ID: "brd-2", Title: "SSO rollout", Status: domain.StatusEdited, RequirementCount: 3, CreatedAt: created},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func loadedView(t *testing.T, svc *mockBrdService) *View {
	t.Helper()
	v := NewView(styles.DefaultStyles(), svc)
	v.SetDimensions(100, 30)
	cmd := v.Init()
	require.NotNil(t, cmd)
	v, _ = v.Update(cmd())
	return v
}

func TestView_LoadsSummaries(t *testing.T) {
	v := loadedView(t, &mockBrdService{summaries: sampleSummaries()})

	assert.Len(t, v.Summaries(), 2)
	out := v.View()
	assert.Contains(t, out, "Business Requirements Documents (2)")
	assert.Contains(t, out, "Checkout revamp")
	assert.Contains(t, out, "EDITED")
	assert.Contains(t, out, "7 req")
}

func TestView_EmptyAndError(t *testing.T) {
	v := loadedView(t, &mockBrdService{})
	assert.Contains(t, v.View(), "No documents yet")

	v = loadedView(t, &mockBrdService{listErr: errors.New("db locked")})
	assert.Contains(t, v.View(), "Error: db locked")
	assert.Error(t, v.Err())
}

func TestView_NilService(t *testing.T) {
	v := NewView(styles.DefaultStyles(), nil)
	msg := v.Init()()

	loaded, ok := msg.(messages.BrdsLoaded)
	require.True(t, ok)
	assert.Error(t, loaded.Err)
}

func TestView_NavigateAndSelect(t *testing.T) {
	v := loadedView(t, &mockBrdService{summaries: sampleSummaries()})

	v, _ = v.Update(key("down"))
	v, _ = v.Update(key("down"))
	assert.Equal(t, 1, v.SelectedIndex(), "selection stops at the last row")

	_, cmd := v.Update(key("enter"))
	require.NotNil(t, cmd)
	assert.Equal(t, messages.BrdSelected{ID: "brd-2"}, cmd())
}

func TestView_DeleteRequiresConfirmation(t *testing.T) {
	svc := &mockBrdService{summaries: sampleSummaries()}
	v := loadedView(t, svc)

	v, _ = v.Update(key("d"))
	assert.True(t, v.IsConfirmingDelete())
	assert.Contains(t, v.View(), `Delete "Checkout revamp" (brd-1)? [y/N]`)

	v, cmd := v.Update(key("n"))
	assert.False(t, v.IsConfirmingDelete())
	assert.Nil(t, cmd)
	assert.Empty(t, svc.deleted)

	v, _ = v.Update(key("d"))
	v, cmd = v.Update(key("y"))
	require.NotNil(t, cmd)
	msg := cmd()
	assert.Equal(t, messages.BrdDeleted{ID: "brd-1"}, msg)
	assert.Equal(t, []string{"brd-1"}, svc.deleted)

	svc.summaries = svc.summaries[1:]
	v, cmd = v.Update(msg)
	require.NotNil(t, cmd, "a delete reloads the list")
	v, _ = v.Update(cmd())
	assert.Len(t, v.Summaries(), 1)
}

func TestView_Quit(t *testing.T) {
	v := loadedView(t, &mockBrdService{})

	_, cmd := v.Update(key("q"))

	require.NotNil(t, cmd)
	assert.Equal(t, messages.Quit{}, cmd())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a long ...", truncate("a long title here", 10))
}

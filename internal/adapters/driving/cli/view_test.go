package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/brdify/internal/adapters/driving/tui"
	"github.com/custodia-labs/brdify/internal/adapters/driving/tui/messages"
)

func TestViewCmd_Use(t *testing.T) {
	assert.Equal(t, "view [brd-id]", viewCmd.Use)
	assert.Equal(t, "Browse BRDs in an interactive terminal UI", viewCmd.Short)
}

func TestViewCmd_RunsApp(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	var got *tui.App
	orig := runApp
	runApp = func(app *tui.App) error {
		got = app
		return nil
	}
	defer func() { runApp = orig }()

	_, err := execute(t, nil, "view")

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, messages.ViewList, got.CurrentView())
}

func TestViewCmd_AppError(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	orig := runApp
	runApp = func(*tui.App) error { return errors.New("no tty") }
	defer func() { runApp = orig }()

	_, err := execute(t, nil, "view", "brd-1")

	require.Error(t, err)
	assert.Equal(t, "TUI error: no tty", err.Error())
}

func TestViewCmd_RequiresService(t *testing.T) {
	brdService = nil

	err := runView(viewCmd, nil)

	assert.ErrorIs(t, err, tui.ErrMissingBrdService)
}

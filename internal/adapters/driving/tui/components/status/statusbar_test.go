package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/brdify/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/brdify/internal/adapters/driving/tui/styles"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap())

	require.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
}

func TestNewBar_NilStyles(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.NotNil(t, bar.styles)
	assert.NotNil(t, bar.keymap)
}

func TestStatusBar_View(t *testing.T) {
	tests := []struct {
		name  string
		setup func(b *Bar)
		want  []string
	}{
		{"ready", func(_ *Bar) {}, []string{"Ready", "q: quit"}},
		{"loading", func(b *Bar) { b.SetState(StateLoading) }, []string{"Loading..."}},
		{"error", func(b *Bar) {
			b.SetState(StateError)
			b.SetMessage("not found")
		}, []string{"Error: not found"}},
		{"count", func(b *Bar) {
			b.SetCount(3)
			b.SetHints(HintsList)
		}, []string{"3 documents", "enter: open"}},
		{"single", func(b *Bar) { b.SetCount(1) }, []string{"1 document"}},
		{"detail hints", func(b *Bar) { b.SetHints(HintsDetail) }, []string{"tab: next section"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewBar(nil, nil)
			bar.SetWidth(120)
			tt.setup(bar)

			out := bar.View()
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestStatusBar_Clear(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateError)
	bar.SetMessage("boom")
	bar.SetCount(4)

	bar.Clear()

	assert.Equal(t, StateReady, bar.State())
	assert.Empty(t, bar.Message())
	assert.Contains(t, bar.View(), "Ready")
}

package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()

	require.NotNil(t, km)
}

func TestDefaultKeyMap_Bindings(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		name string
		keys []string
		want []string
	}{
		{"quit", km.Quit.Keys(), []string{"q", "ctrl+c"}},
		{"help", km.Help.Keys(), []string{"?"}},
		{"back", km.Back.Keys(), []string{"esc"}},
		{"up", km.Up.Keys(), []string{"up", "k"}},
		{"down", km.Down.Keys(), []string{"down", "j"}},
		{"next field", km.NextField.Keys(), []string{"tab", "down"}},
		{"previous field", km.PrevField.Keys(), []string{"shift+tab", "up"}},
		{"save", km.Save.Keys(), []string{"ctrl+s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range tt.want {
				assert.Contains(t, tt.keys, k)
			}
		})
	}
}

func TestKeyMap_FormHelp(t *testing.T) {
	km := DefaultKeyMap()

	help := km.FormHelp()

	require.Len(t, help, 4)
	assert.Equal(t, "ctrl+s", help[2].Help().Key)
}

func TestKeyMap_FullHelp(t *testing.T) {
	km := DefaultKeyMap()

	assert.Len(t, km.FullHelp(), 3)
	assert.Len(t, km.ShortHelp(), 2)
}

func TestMatches(t *testing.T) {
	km := DefaultKeyMap()

	assert.True(t, Matches("ctrl+s", km.Save))
	assert.True(t, Matches("tab", km.NextField))
	assert.False(t, Matches("x", km.Save))
}

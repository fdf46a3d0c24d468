package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ramener/internal/adapters/driving/tui/styles"
)

func TestNewField(t *testing.T) {
	f := NewField(styles.DefaultStyles(), "Model", "qwen3-omni-flash")

	require.NotNil(t, f)
	assert.Equal(t, "Model", f.Label())
	assert.Empty(t, f.Value())
	assert.False(t, f.Focused())
}

func TestNewField_NilStyles(t *testing.T) {
	f := NewField(nil, "Model", "")

	require.NotNil(t, f)
	assert.NotNil(t, f.styles)
}

func TestField_TypingRequiresFocus(t *testing.T) {
	f := NewField(nil, "Model", "")
	key := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}}

	f.Update(key)
	assert.Empty(t, f.Value())

	f.Focus()
	f.Update(key)
	assert.Equal(t, "a", f.Value())
}

func TestField_View(t *testing.T) {
	f := NewField(nil, "Base URL", "")
	f.SetValue("https://example.test/v1")

	view := f.View()

	assert.Contains(t, view, "Base URL")
	assert.Contains(t, view, "https://example.test/v1")
}

func TestSecretField_HidesValue(t *testing.T) {
	f := NewSecretField(nil, "API key", "")
	f.SetValue("sk-secret-value")

	view := f.View()

	assert.NotContains(t, view, "sk-secret-value")
	assert.Equal(t, "sk-secret-value", f.Value())
}

func TestField_FocusAndBlur(t *testing.T) {
	f := NewField(nil, "Model", "")

	f.Focus()
	assert.True(t, f.Focused())

	f.Blur()
	assert.False(t, f.Focused())
}

func TestField_SetPlaceholderAndReset(t *testing.T) {
	f := NewField(nil, "Model", "")
	f.SetPlaceholder("(unchanged)")
	f.SetValue("x")

	f.Reset()

	assert.Empty(t, f.Value())
	assert.Equal(t, "(unchanged)", f.textinput.Placeholder)
}

func TestField_SetWidth_Minimum(t *testing.T) {
	f := NewField(nil, "Model", "")

	f.SetWidth(10)
	assert.Equal(t, 20, f.textinput.Width)

	f.SetWidth(100)
	assert.Equal(t, 78, f.textinput.Width)
}

// Package settings provides the settings form view for the TUI.
package settings

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/ramener/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/ramener/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/ramener/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/ramener/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ramener/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ramener/internal/core/domain"
	"github.com/custodia-labs/ramener/internal/core/ports/driving"
)

// Form field order.
const (
	FieldServiceName = iota
	FieldAPIKey
	FieldBaseURL
	FieldModel
	FieldOCRModel
	FieldPageLimit
	FieldMaxTextChars
	FieldTimeout
	fieldCount
)

// View is the settings form.
type View struct {
	styles          *styles.Styles
	keymap          *keymap.KeyMap
	settingsService driving.SettingsService

	settings *domain.AppSettings
	err      error

	fields  []*input.Field
	focused int
	dirty   bool
	status  *status.Bar

	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	km := keymap.DefaultKeyMap()

	fields := make([]*input.Field, fieldCount)
	fields[FieldServiceName] = input.NewField(s, "Service name", "optional label")
	fields[FieldAPIKey] = input.NewSecretField(s, "API key", "(not set)")
	fields[FieldBaseURL] = input.NewField(s, "Base URL", domain.DefaultBaseURL)
	fields[FieldModel] = input.NewField(s, "Model", domain.DefaultModel)
	fields[FieldOCRModel] = input.NewField(s, "OCR model", "same as model")
	fields[FieldPageLimit] = input.NewField(s, "Page limit", strconv.Itoa(domain.DefaultPageLimit))
	fields[FieldMaxTextChars] = input.NewField(s, "Max text chars", strconv.Itoa(domain.DefaultMaxTextChars))
	fields[FieldTimeout] = input.NewField(s, "Timeout (s)", formatSeconds(domain.DefaultTimeout))

	return &View{
		styles:          s,
		keymap:          km,
		settingsService: settingsService,
		fields:          fields,
		status:          status.NewBar(s, km),
	}
}

// Init loads settings and focuses the first field.
func (v *View) Init() tea.Cmd {
	v.status.SetState(status.StateLoading)
	return tea.Batch(v.loadSettings(), v.focus(FieldServiceName))
}

func (v *View) loadSettings() tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsLoaded{Err: fmt.Errorf("settings service not available")}
		}
		settings, err := v.settingsService.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		if msg.Err != nil {
			v.setError(msg.Err)
			return v, nil
		}
		v.settings = msg.Settings
		v.err = nil
		v.populate()
		v.status.Clear()
		return v, nil

	case messages.SettingsSaved:
		if msg.Err != nil {
			v.setError(msg.Err)
			return v, nil
		}
		v.err = nil
		v.dirty = false
		v.status.SetState(status.StateSaved)
		v.status.SetMessage(v.settingsService.Path())
		return v, v.loadSettings()

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()
	switch {
	case keymap.Matches(key, v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case keymap.Matches(key, v.keymap.Save):
		return v, v.save()
	case keymap.Matches(key, v.keymap.NextField):
		return v, v.focus(v.focused + 1)
	case keymap.Matches(key, v.keymap.PrevField):
		return v, v.focus(v.focused - 1)
	case key == "enter":
		if v.focused == fieldCount-1 {
			return v, v.save()
		}
		return v, v.focus(v.focused + 1)
	}

	before := v.fields[v.focused].Value()
	var cmd tea.Cmd
	v.fields[v.focused], cmd = v.fields[v.focused].Update(msg)
	if v.fields[v.focused].Value() != before {
		v.dirty = true
		v.status.SetState(status.StateEditing)
	}
	return v, cmd
}

// focus moves focus to field i, wrapping around.
func (v *View) focus(i int) tea.Cmd {
	i = (i + fieldCount) % fieldCount
	v.fields[v.focused].Blur()
	v.focused = i
	return v.fields[i].Focus()
}

// populate copies the loaded settings into the form. The API key is never
// shown; leaving the field blank keeps the stored key.
func (v *View) populate() {
	s := v.settings
	v.fields[FieldServiceName].SetValue(s.ServiceName)
	v.fields[FieldAPIKey].SetValue("")
	if s.APIKey != "" {
		v.fields[FieldAPIKey].SetPlaceholder("unchanged (" + maskKey(s.APIKey) + ")")
	} else {
		v.fields[FieldAPIKey].SetPlaceholder("(not set)")
	}
	v.fields[FieldBaseURL].SetValue(s.BaseURL)
	v.fields[FieldModel].SetValue(s.Model)
	v.fields[FieldOCRModel].SetValue(s.OCRModel)
	v.fields[FieldPageLimit].SetValue(strconv.Itoa(s.PageLimit))
	v.fields[FieldMaxTextChars].SetValue(strconv.Itoa(s.MaxTextChars))
	v.fields[FieldTimeout].SetValue(formatSeconds(s.Timeout))
	v.dirty = false
}

func (v *View) save() tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsSaved{Err: fmt.Errorf("settings service not available")}
		}
		base := v.settingsService.GetDefaults()
		if v.settings != nil {
			base = *v.settings
		}
		updated, err := v.Apply(base)
		if err != nil {
			return messages.SettingsSaved{Err: err}
		}
		return messages.SettingsSaved{Err: v.settingsService.Save(updated)}
	}
}

// Apply overlays the form values on base. Blank numeric fields keep base's value.
func (v *View) Apply(base domain.AppSettings) (*domain.AppSettings, error) {
	out := base
	out.ServiceName = strings.TrimSpace(v.fields[FieldServiceName].Value())
	out.APIKey = strings.TrimSpace(v.fields[FieldAPIKey].Value())
	out.BaseURL = strings.TrimSpace(v.fields[FieldBaseURL].Value())
	out.Model = strings.TrimSpace(v.fields[FieldModel].Value())
	out.OCRModel = strings.TrimSpace(v.fields[FieldOCRModel].Value())

	if out.BaseURL == "" {
		out.BaseURL = domain.DefaultBaseURL
	}
	if out.Model == "" {
		out.Model = domain.DefaultModel
	}

	if raw := strings.TrimSpace(v.fields[FieldPageLimit].Value()); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: page limit must be a whole number", domain.ErrInvalidInput)
		}
		out.PageLimit = n
	}
	if raw := strings.TrimSpace(v.fields[FieldMaxTextChars].Value()); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: max text chars must be a whole number", domain.ErrInvalidInput)
		}
		out.MaxTextChars = n
	}
	if raw := strings.TrimSpace(v.fields[FieldTimeout].Value()); raw != "" {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || f <= 0 {
			return nil, fmt.Errorf("%w: timeout must be a positive number of seconds", domain.ErrInvalidInput)
		}
		out.Timeout = time.Duration(f * float64(time.Second))
	}
	return &out, nil
}

func (v *View) setError(err error) {
	v.err = err
	v.status.SetState(status.StateError)
	v.status.SetMessage(err.Error())
}

// View renders the settings form.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n")
	if v.settingsService != nil {
		b.WriteString(v.styles.Muted.Render(v.settingsService.Path()))
	}
	b.WriteString("\n\n")

	if v.settings == nil && v.err == nil {
		b.WriteString(v.styles.Muted.Render("Loading settings..."))
		return b.String()
	}

	for _, f := range v.fields {
		b.WriteString(f.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("A page limit or max text chars of 0 means no limit."))
	b.WriteString("\n\n")
	b.WriteString(v.status.View())

	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.status.SetWidth(width)
	for _, f := range v.fields {
		f.SetWidth(width)
	}
}

// Reset clears unsaved input and status.
func (v *View) Reset() {
	v.err = nil
	v.dirty = false
	v.status.Clear()
	v.fields[v.focused].Blur()
	v.focused = FieldServiceName
	if v.settings != nil {
		v.populate()
	}
}

// Focused returns the index of the focused field.
func (v *View) Focused() int {
	return v.focused
}

// Dirty reports whether the form has unsaved edits.
func (v *View) Dirty() bool {
	return v.dirty
}

// Err returns the last load or save error.
func (v *View) Err() error {
	return v.err
}

// Field returns the form field at index i.
func (v *View) Field(i int) *input.Field {
	return v.fields[i]
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}

package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/f3rmion/palavra/internal/palavra"
	"github.com/f3rmion/palavra/internal/settings"
)

var (
	settingsLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#a8dadc")).
				Bold(true).
				Width(14)

	settingsPathStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				Italic(true)

	settingsWarnStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#ff6b6b")).
				Foreground(lipgloss.Color("#ff6b6b")).
				Padding(0, 2).
				MarginBottom(1)
)

type settingsSavedMsg struct {
	err error
}

const (
	fieldAPIKey = iota
	fieldModel
	fieldCount
)

// SettingsModel edits the API key and text model.
type SettingsModel struct {
	deps   *Deps
	inputs [fieldCount]textinput.Model
	focus  int

	// notice explains why the view was opened, e.g. a rejected key.
	notice string
	status statusLine

	width  int
	height int
}

// NewSettingsModel creates a settings view filled from the store.
func NewSettingsModel(d *Deps) SettingsModel {
	key := textinput.New()
	key.Placeholder = "Gemini API key"
	key.EchoMode = textinput.EchoPassword
	key.EchoCharacter = '•'
	key.CharLimit = 200

	model := textinput.New()
	model.Placeholder = settings.DefaultTextModel
	model.CharLimit = 100

	m := SettingsModel{
		deps:   d,
		inputs: [fieldCount]textinput.Model{key, model},
		status: statusLine{from: fromSettings},
	}
	m.Reset()
	return m
}

// Reset reloads the fields from the settings store.
func (m *SettingsModel) Reset() {
	cur := m.deps.Settings.Get()
	m.inputs[fieldAPIKey].SetValue(cur.APIKey)
	m.inputs[fieldModel].SetValue(cur.TextModel)
	m.focusField(fieldAPIKey)
}

// Require shows the view with a notice about err.
func (m *SettingsModel) Require(err error) {
	m.Reset()
	m.notice = describeError(err)
}

// SetSize updates the view dimensions.
func (m *SettingsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	for i := range m.inputs {
		m.inputs[i].Width = max(min(width-20, 60), 10)
	}
}

// Typing reports whether keys go to a text input.
func (m SettingsModel) Typing() bool { return true }

func (m *SettingsModel) focusField(i int) tea.Cmd {
	m.focus = i
	var cmd tea.Cmd
	for j := range m.inputs {
		if j == i {
			cmd = m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
	return cmd
}

// Update handles messages.
func (m SettingsModel) Update(msg tea.Msg) (SettingsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "down", "ctrl+j":
			return m, m.focusField((m.focus + 1) % fieldCount)
		case "up", "ctrl+k":
			return m, m.focusField((m.focus + fieldCount - 1) % fieldCount)
		case "enter":
			return m, m.save()
		case "ctrl+r":
			m.Reset()
			return m, nil
		}

	case settingsSavedMsg:
		if msg.err != nil {
			m.status.set("Saving failed: " + msg.err.Error())
			return m, nil
		}
		m.notice = ""
		m.Reset()
		return m, m.status.flash("Settings saved. They apply to the next request.", 3*time.Second)

	case clearStatusMsg:
		m.status.clear(msg)
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m SettingsModel) save() tea.Cmd {
	next := palavra.Settings{
		APIKey:    m.inputs[fieldAPIKey].Value(),
		TextModel: m.inputs[fieldModel].Value(),
	}
	store := m.deps.Settings
	return func() tea.Msg {
		return settingsSavedMsg{err: store.Save(context.Background(), next)}
	}
}

// View renders the settings view.
func (m SettingsModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Settings"))
	b.WriteString("\n")
	b.WriteString(settingsPathStyle.Render("Config: " + m.deps.ConfigDir))
	b.WriteString("\n\n")

	if m.notice != "" {
		b.WriteString(settingsWarnStyle.Render(m.notice))
		b.WriteString("\n")
	}

	b.WriteString(settingsLabelStyle.Render("API key"))
	b.WriteString(m.inputs[fieldAPIKey].View())
	b.WriteString("\n")
	b.WriteString(settingsLabelStyle.Render("Text model"))
	b.WriteString(m.inputs[fieldModel].View())
	b.WriteString("\n\n")

	cfg := m.deps.Config
	rows := [][2]string{
		{"Languages", fmt.Sprintf("%s → %s", cfg.Native().DisplayName, cfg.Target().DisplayName)},
		{"Image model", cfg.Models.Image},
		{"Speech model", cfg.Models.Speech},
		{"Voice", cfg.Voice},
		{"Database", cfg.DatabasePath(m.deps.ConfigDir)},
	}
	if cfg.RequestsPerMinute > 0 {
		rows = append(rows, [2]string{"Rate limit", fmt.Sprintf("%d requests/min", cfg.RequestsPerMinute)})
	}
	for _, r := range rows {
		b.WriteString(settingsLabelStyle.Render(r[0]))
		b.WriteString(mutedStyle.Render(r[1]))
		b.WriteString("\n")
	}
	b.WriteString(divider(m.width))
	b.WriteString("\n")

	if m.status.text != "" {
		b.WriteString(successStyle.Render(m.status.String()))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("↑/↓: field • enter: save • ^r: revert • edit config.yaml for the rest"))
	return b.String()
}

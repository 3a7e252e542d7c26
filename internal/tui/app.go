package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/f3rmion/palavra/internal/tui/views"
)

// ViewType represents the current active view
type ViewType int

const (
	ViewLookup ViewType = iota
	ViewNotebook
	ViewReview
	ViewStory
	ViewChat
	ViewSettings
)

// MenuItem represents a sidebar menu entry
type MenuItem struct {
	Label    string
	View     ViewType
	Shortcut string
}

// ViewSwitchMsg requests a view change
type ViewSwitchMsg struct {
	View ViewType
}

// AppModel is the main TUI model
type AppModel struct {
	deps *views.Deps

	// Layout state
	width        int
	height       int
	sidebarWidth int
	ready        bool

	// Navigation
	currentView   ViewType
	menuItems     []MenuItem
	selectedMenu  int
	sidebarActive bool

	lookupView   views.LookupModel
	notebookView views.NotebookModel
	reviewView   views.ReviewModel
	storyView    views.StoryModel
	chatView     views.ChatModel
	settingsView views.SettingsModel

	showHelp bool
}

// NewApp creates the TUI application.
func NewApp(d *views.Deps) AppModel {
	return AppModel{
		deps:         d,
		sidebarWidth: 18,
		currentView:  ViewLookup,
		menuItems: []MenuItem{
			{Label: "Lookup", View: ViewLookup, Shortcut: "1"},
			{Label: "Notebook", View: ViewNotebook, Shortcut: "2"},
			{Label: "Review", View: ViewReview, Shortcut: "3"},
			{Label: "Story", View: ViewStory, Shortcut: "4"},
			{Label: "Chat", View: ViewChat, Shortcut: "5"},
			{Label: "Settings", View: ViewSettings, Shortcut: "6"},
		},

		lookupView:   views.NewLookupModel(d),
		notebookView: views.NewNotebookModel(d),
		reviewView:   views.NewReviewModel(d),
		storyView:    views.NewStoryModel(d),
		chatView:     views.NewChatModel(d),
		settingsView: views.NewSettingsModel(d),
	}
}

// NewReviewApp creates the application opened on the review view.
func NewReviewApp(d *views.Deps) AppModel {
	app := NewApp(d)
	app.switchTo(ViewReview)
	return app
}

// Init initializes the model
func (m AppModel) Init() tea.Cmd {
	return textinput.Blink
}

// typing reports whether the active view consumes printable keys.
func (m AppModel) typing() bool {
	if m.sidebarActive {
		return false
	}
	switch m.currentView {
	case ViewLookup:
		return m.lookupView.Typing()
	case ViewChat:
		return m.chatView.Typing()
	case ViewSettings:
		return m.settingsView.Typing()
	}
	return false
}

func (m *AppModel) switchTo(v ViewType) {
	if v == ViewReview && m.currentView != ViewReview {
		m.reviewView.Reload()
	}
	m.currentView = v
	m.sidebarActive = false
	for i, item := range m.menuItems {
		if item.View == v {
			m.selectedMenu = i
			break
		}
	}
}

// Update handles messages
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Help overlay - any key closes it
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}

		switch key := msg.String(); key {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.sidebarActive = !m.sidebarActive
			return m, nil
		case "tab":
			m.sidebarActive = !m.sidebarActive
			return m, nil
		case "q", "?", "1", "2", "3", "4", "5", "6":
			if m.typing() {
				break
			}
			switch key {
			case "q":
				return m, tea.Quit
			case "?":
				m.showHelp = true
			default:
				m.switchTo(ViewType(key[0] - '1'))
			}
			return m, nil
		}

		// Sidebar navigation when active
		if m.sidebarActive {
			switch msg.String() {
			case "j", "down":
				if m.selectedMenu < len(m.menuItems)-1 {
					m.selectedMenu++
				}
			case "k", "up":
				if m.selectedMenu > 0 {
					m.selectedMenu--
				}
			case "enter", "l", "right":
				m.switchTo(m.menuItems[m.selectedMenu].View)
			}
			return m, nil
		}

		// Keys go to the active view only.
		return m.updateActive(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		contentWidth := m.width - m.sidebarWidth - 6
		contentHeight := m.height - 4

		m.lookupView.SetSize(contentWidth, contentHeight)
		m.notebookView.SetSize(contentWidth, contentHeight)
		m.reviewView.SetSize(contentWidth, contentHeight)
		m.storyView.SetSize(contentWidth, contentHeight)
		m.chatView.SetSize(contentWidth, contentHeight)
		m.settingsView.SetSize(contentWidth, contentHeight)
		return m, nil

	case ViewSwitchMsg:
		m.switchTo(msg.View)
		return m, nil

	case views.OpenChatMsg:
		cmd := m.chatView.Open(msg.Result)
		m.switchTo(ViewChat)
		return m, cmd

	case views.CredentialMsg:
		m.deps.Log.Warn("credential rejected, opening settings")
		m.settingsView.Require(msg.Err)
		m.switchTo(ViewSettings)
		return m, nil
	}

	// Async results go to every view; each one ignores what it did not start.
	return m.broadcast(msg)
}

func (m AppModel) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentView {
	case ViewLookup:
		m.lookupView, cmd = m.lookupView.Update(msg)
	case ViewNotebook:
		m.notebookView, cmd = m.notebookView.Update(msg)
	case ViewReview:
		m.reviewView, cmd = m.reviewView.Update(msg)
	case ViewStory:
		m.storyView, cmd = m.storyView.Update(msg)
	case ViewChat:
		m.chatView, cmd = m.chatView.Update(msg)
	case ViewSettings:
		m.settingsView, cmd = m.settingsView.Update(msg)
	}
	return m, cmd
}

func (m AppModel) broadcast(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 6)
	m.lookupView, cmds[0] = m.lookupView.Update(msg)
	m.notebookView, cmds[1] = m.notebookView.Update(msg)
	m.reviewView, cmds[2] = m.reviewView.Update(msg)
	m.storyView, cmds[3] = m.storyView.Update(msg)
	m.chatView, cmds[4] = m.chatView.Update(msg)
	m.settingsView, cmds[5] = m.settingsView.Update(msg)
	return m, tea.Batch(cmds...)
}

// View renders the UI
func (m AppModel) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var content string
	switch m.currentView {
	case ViewLookup:
		content = m.lookupView.View()
	case ViewNotebook:
		content = m.notebookView.View()
	case ViewReview:
		content = m.reviewView.View()
	case ViewStory:
		content = m.storyView.View()
	case ViewChat:
		content = m.chatView.View()
	case ViewSettings:
		content = m.settingsView.View()
	}

	mainContent := ContentStyle.
		Width(m.width - m.sidebarWidth - 4).
		Height(m.height - 2).
		Render(content)

	return lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), mainContent)
}

func (m AppModel) renderSidebar() string {
	var items []string

	items = append(items, SidebarTitleStyle.Render(" palavra "))
	target := m.deps.Config.Target()
	items = append(items, SidebarItemStyle.Render(fmt.Sprintf("%s %s", target.Flag, target.Code)))
	items = append(items, "")

	for i, item := range m.menuItems {
		label := item.Shortcut + ". " + item.Label

		var style lipgloss.Style
		if i == m.selectedMenu {
			if m.sidebarActive {
				style = SidebarItemActiveStyle
			} else {
				style = SidebarItemStyle.Bold(true).Foreground(ColorSecondary)
			}
		} else {
			style = SidebarItemStyle
		}
		items = append(items, style.Render(label))
	}

	usedHeight := len(items) + 4
	for i := 0; i < m.height-usedHeight-2; i++ {
		items = append(items, "")
	}
	items = append(items, SidebarHelpStyle.Render("? Help  q Quit"))

	return SidebarStyle.
		Width(m.sidebarWidth).
		Height(m.height - 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, items...))
}

func (m AppModel) renderHelp() string {
	section := func(title string, rows ...[2]string) string {
		s := HelpSectionStyle.Render(title) + "\n"
		for _, r := range rows {
			s += HelpKeyStyle.Render(r[0]) + HelpDescStyle.Render(r[1]) + "\n"
		}
		return s
	}

	text := HelpTitleStyle.Render("palavra - your pocket language tutor") + "\n\n"
	text += section("Global Keys",
		[2]string{"1-6", "Switch views (outside text fields)"},
		[2]string{"tab/esc", "Toggle sidebar focus"},
		[2]string{"?", "Show this help"},
		[2]string{"q, ^c", "Quit"},
	)
	text += section("Lookup",
		[2]string{"enter", "Look up"},
		[2]string{"^n / ^t", "Cycle native / target language"},
		[2]string{"^s ^p ^y", "Save / speak / copy"},
		[2]string{"^o", "Chat about the result"},
	)
	text += section("Notebook",
		[2]string{"j/k", "Move"},
		[2]string{"x x", "Delete"},
		[2]string{"a", "Export to Anki"},
	)
	text += section("Review",
		[2]string{"space", "Flip card"},
		[2]string{"←/→", "Prev/next card"},
		[2]string{"r", "Reset to first card"},
	)

	text += "\n" + lipgloss.NewStyle().
		Foreground(ColorMuted).
		Italic(true).
		Render("Press any key to close")

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, HelpBoxStyle.Render(text))
}

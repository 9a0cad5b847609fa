package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/typekana/internal/config"
	"github.com/f3rmion/typekana/internal/kana"
	"github.com/f3rmion/typekana/internal/quiz"
	"github.com/f3rmion/typekana/internal/tui/bigchar"
	"github.com/f3rmion/typekana/internal/tui/components"
	"github.com/f3rmion/typekana/internal/tui/views"
)

// ViewType represents the current active view
type ViewType int

const (
	ViewQuiz ViewType = iota
	ViewResults
	ViewSettings
)

// MenuItem represents a sidebar menu entry
type MenuItem struct {
	Label    string
	Icon     string
	View     ViewType
	Shortcut string
}

// Deps are the long-lived objects the app reads and writes.
type Deps struct {
	Store    *quiz.Store
	Settings *config.Provider
	Dict     *kana.Dictionary
	Renderer *bigchar.Renderer
	// Storage describes where the session is kept, for the settings view.
	Storage string
}

// AppModel is the main TUI model
type AppModel struct {
	store    *quiz.Store
	settings *config.Provider

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

	// Sub-models (views)
	quizView     views.QuizModel
	resultsView  views.ResultsModel
	settingsView views.SettingsModel

	// Help overlay
	showHelp bool

	// Store notifications, coalesced
	sessionChanges <-chan struct{}
	unsubscribe    func()
}

// sessionUpdatedMsg reports that the store published a new session.
type sessionUpdatedMsg struct{}

// watchSession subscribes to store. Notifications land in a one-slot channel
// so a store operation never waits on the UI loop.
func watchSession(store *quiz.Store) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	unsubscribe := store.Subscribe(func(quiz.Session) {
		select {
		case ch <- struct{}{}:
		default:
		}
	})
	return ch, unsubscribe
}

func waitForSession(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return sessionUpdatedMsg{}
	}
}

// NewApp creates the TUI application. The quiz view is shown first, or the
// results view when the restored session is already finished.
func NewApp(ctx context.Context, deps Deps) AppModel {
	menuItems := []MenuItem{
		{Label: "Quiz", Icon: "あ", View: ViewQuiz, Shortcut: "1"},
		{Label: "Results", Icon: "結", View: ViewResults, Shortcut: "2"},
		{Label: "Settings", Icon: "設", View: ViewSettings, Shortcut: "3"},
	}

	app := AppModel{
		store:        deps.Store,
		settings:     deps.Settings,
		sidebarWidth: 20,
		currentView:  ViewQuiz,
		menuItems:    menuItems,

		quizView:     views.NewQuizModel(ctx, deps.Store, deps.Dict, deps.Renderer),
		resultsView:  views.NewResultsModel(ctx, deps.Store),
		settingsView: views.NewSettingsModel(deps.Settings, deps.Dict, deps.Storage),
	}
	app.sessionChanges, app.unsubscribe = watchSession(deps.Store)

	if deps.Store.Session().Done() {
		app.switchTo(ViewResults)
	}

	return app
}

// Init initializes the model
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForSession(m.sessionChanges))
}

// Close stops listening to the store.
func (m AppModel) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

func (m *AppModel) refresh() {
	m.quizView.Sync()
	m.resultsView.Refresh()
}

func (m *AppModel) switchTo(v ViewType) {
	m.currentView = v
	for i, item := range m.menuItems {
		if item.View == v {
			m.selectedMenu = i
			break
		}
	}
	m.sidebarActive = false

	switch v {
	case ViewQuiz:
		m.quizView.Sync()
		m.quizView.Focus()
	case ViewResults:
		m.resultsView.Refresh()
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

		// Global keys
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			// q is part of the answer while typing
			if m.sidebarActive || m.currentView != ViewQuiz {
				return m, tea.Quit
			}
		case "?":
			m.showHelp = true
			return m, nil
		case "esc":
			if m.sidebarActive {
				return m, tea.Quit
			}
			m.sidebarActive = true
			return m, nil
		case "1":
			m.switchTo(ViewQuiz)
			return m, nil
		case "2":
			m.switchTo(ViewResults)
			return m, nil
		case "3":
			m.switchTo(ViewSettings)
			return m, nil
		case "tab":
			m.sidebarActive = !m.sidebarActive
			return m, nil
		}

		// Sidebar navigation when active
		if m.sidebarActive {
			switch msg.String() {
			case "j", "down":
				if m.selectedMenu < len(m.menuItems)-1 {
					m.selectedMenu++
				}
				return m, nil
			case "k", "up":
				if m.selectedMenu > 0 {
					m.selectedMenu--
				}
				return m, nil
			case "enter", "l", "right":
				m.switchTo(m.menuItems[m.selectedMenu].View)
				return m, nil
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		contentWidth := m.width - m.sidebarWidth - 4
		contentHeight := m.height - 2

		m.quizView.SetSize(contentWidth, contentHeight)
		m.resultsView.SetSize(contentWidth, contentHeight)
		m.settingsView.SetSize(contentWidth, contentHeight)

		return m, nil

	case views.SessionDoneMsg:
		m.switchTo(ViewResults)
		return m, nil

	case views.StartQuizMsg:
		m.switchTo(ViewQuiz)
		return m, nil

	case views.SessionChangedMsg:
		m.refresh()
		return m, nil

	case sessionUpdatedMsg:
		// Changes made outside the views, e.g. a group toggle resetting the round.
		m.refresh()
		return m, waitForSession(m.sessionChanges)
	}

	var cmd tea.Cmd
	switch m.currentView {
	case ViewQuiz:
		m.quizView, cmd = m.quizView.Update(msg)
	case ViewResults:
		m.resultsView, cmd = m.resultsView.Update(msg)
	case ViewSettings:
		m.settingsView, cmd = m.settingsView.Update(msg)
	}

	return m, cmd
}

// View renders the UI
func (m AppModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	sidebar := m.renderSidebar()

	var content string
	switch m.currentView {
	case ViewQuiz:
		content = m.quizView.View()
	case ViewResults:
		content = m.resultsView.View()
	case ViewSettings:
		content = m.settingsView.View()
	}

	contentWidth := m.width - m.sidebarWidth - 4
	mainContent := ContentStyle.
		Width(contentWidth).
		Height(m.height - 2).
		Render(content)

	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, mainContent)
}

// renderSidebar renders the sidebar navigation
func (m AppModel) renderSidebar() string {
	var items []string

	items = append(items, SidebarTitleStyle.Render(" かな typekana "))
	items = append(items, "")

	for i, item := range m.menuItems {
		label := item.Shortcut + ". " + item.Icon + " " + item.Label

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

	// Session status
	session := m.store.Session()
	done, total := session.Progress()
	passed, _ := session.Score()
	items = append(items, "")
	items = append(items, SidebarStatusStyle.Render(components.ProgressBar(done, total, m.sidebarWidth-4)))
	items = append(items, SidebarStatusStyle.Render(fmt.Sprintf("%d%% first try", components.Percent(passed, done))))
	items = append(items, SidebarItemStyle.Render(m.settings.Font().String()))

	usedHeight := len(items) + 4
	if m.height > usedHeight {
		for i := 0; i < m.height-usedHeight-2; i++ {
			items = append(items, "")
		}
	}

	items = append(items, SidebarHelpStyle.Render("? Help  esc Menu"))

	content := lipgloss.JoinVertical(lipgloss.Left, items...)

	return SidebarStyle.
		Width(m.sidebarWidth).
		Height(m.height - 2).
		Render(content)
}

// renderHelp renders the help overlay
func (m AppModel) renderHelp() string {
	line := func(key, desc string) string {
		return HelpKeyStyle.Render(key) + HelpDescStyle.Render(desc) + "\n"
	}

	helpText := HelpTitleStyle.Render("typekana - kana typing drills") + "\n\n"

	helpText += HelpSectionStyle.Render("Global Keys") + "\n"
	helpText += line("1-3", "Switch views")
	helpText += line("tab", "Toggle sidebar focus")
	helpText += line("?", "Show this help")
	helpText += line("q", "Quit (outside the quiz)")
	helpText += line("ctrl+c", "Quit")

	helpText += HelpSectionStyle.Render("Quiz") + "\n"
	helpText += line("enter", "Submit romaji")
	helpText += line("ctrl+r", "Start a new round")

	helpText += HelpSectionStyle.Render("Results") + "\n"
	helpText += line("j/k ↑/↓", "Scroll answers")
	helpText += line("y", "Copy summary")
	helpText += line("m", "Drill missed kana")
	helpText += line("r", "Start a new round")

	helpText += HelpSectionStyle.Render("Settings") + "\n"
	helpText += line("j/k", "Move")
	helpText += line("enter", "Cycle font / toggle group")

	helpText += "\n" + lipgloss.NewStyle().
		Foreground(ColorMuted).
		Italic(true).
		Render("Press any key to close")

	helpBox := HelpBoxStyle.Render(helpText)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, helpBox)
}

package views

import (
	"errors"
	"fmt"
	"log"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/typekana/internal/config"
	"github.com/f3rmion/typekana/internal/kana"
	"github.com/f3rmion/typekana/internal/quiz"
)

// Settings view styles
var (
	settingsPathStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				Italic(true)

	settingsHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#a8dadc"))

	settingsRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#f1faee")).
				Padding(0, 1)

	settingsRowActiveStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#ffe66d")).
				Background(lipgloss.Color("#2d3436")).
				Padding(0, 1)

	settingsValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#4ecdc4"))
)

var errNoGroups = errors.New("at least one kana group must stay selected")

// SettingsModel edits the font preference and the practiced kana groups.
// Row 0 is the font; the remaining rows are kana groups.
type SettingsModel struct {
	provider *config.Provider
	dict     *kana.Dictionary
	storage  string

	cursor int
	err    error

	width  int
	height int
}

// NewSettingsModel creates the settings view. storage describes where the
// session is kept and is shown as-is.
func NewSettingsModel(provider *config.Provider, dict *kana.Dictionary, storage string) SettingsModel {
	return SettingsModel{
		provider: provider,
		dict:     dict,
		storage:  storage,
	}
}

// SetSize updates the view dimensions.
func (m *SettingsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m SettingsModel) rows() int {
	return 1 + len(m.dict.Groups())
}

// Update handles messages.
func (m SettingsModel) Update(msg tea.Msg) (SettingsModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "j", "down":
		if m.cursor < m.rows()-1 {
			m.cursor++
		}
		return m, nil
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "g":
		m.cursor = 0
		return m, nil
	case "enter", " ", "l", "right":
		if m.cursor == 0 {
			m.err = m.provider.Update(cycleFont)
		} else {
			m.err = m.toggle(m.dict.Groups()[m.cursor-1])
		}
		if m.err != nil {
			log.Printf("settings: %v", m.err)
			return m, nil
		}
		return m, send(SessionChangedMsg{})
	}

	return m, nil
}

func cycleFont(s *config.Settings) {
	s.FontFamily = quiz.NextFontPreference(s.FontPreference()).String()
}

func (m SettingsModel) toggle(group string) error {
	if groups := m.provider.Current().Groups; len(groups) == 1 && groups[0] == group {
		return errNoGroups
	}
	return m.provider.Update(func(s *config.Settings) {
		toggleGroup(s, group)
	})
}

func toggleGroup(s *config.Settings, group string) {
	if i := slices.Index(s.Groups, group); i >= 0 {
		s.Groups = slices.Delete(s.Groups, i, i+1)
		return
	}
	s.Groups = append(s.Groups, group)
}

// View renders the settings view.
func (m SettingsModel) View() string {
	s := m.provider.Current()

	var b strings.Builder

	b.WriteString(titleStyle.Render("Settings"))
	b.WriteString("\n")
	b.WriteString(settingsPathStyle.Render("Config: " + m.provider.Path()))
	b.WriteString("\n")
	b.WriteString(settingsPathStyle.Render("Session: " + m.storage))
	b.WriteString("\n\n")

	b.WriteString(settingsHeaderStyle.Render("Font"))
	b.WriteString("\n")
	font := m.provider.Font()
	family := "Family  " + settingsValueStyle.Render(font.String())
	if font.IsRandom() {
		family += mutedStyle.Render("  drawn per kana")
	}
	b.WriteString(m.row(0, family))
	b.WriteString("\n\n")

	b.WriteString(settingsHeaderStyle.Render("Kana groups"))
	b.WriteString("\n")
	for i, group := range m.dict.Groups() {
		mark := "[ ]"
		if slices.Contains(s.Groups, group) {
			mark = "[x]"
		}
		b.WriteString(m.row(i+1, fmt.Sprintf("%s %-20s %s", mark, group, mutedStyle.Render(fmt.Sprintf("%d kana", m.dict.Size(group))))))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("j/k: move • enter: change • changing groups starts a new round"))

	return b.String()
}

func (m SettingsModel) row(i int, text string) string {
	if i == m.cursor {
		return settingsRowActiveStyle.Render("> " + text)
	}
	return settingsRowStyle.Render("  " + text)
}

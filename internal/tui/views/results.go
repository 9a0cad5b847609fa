package views

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/typekana/internal/clipboard"
	"github.com/f3rmion/typekana/internal/quiz"
)

var (
	resultsScoreStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#ffe66d"))

	resultsMissStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FF6B6B"))
)

// ResultsModel lists the answered items of the current session.
type ResultsModel struct {
	ctx   context.Context
	store *quiz.Store
	table table.Model

	copied bool
	err    error

	width  int
	height int
}

// NewResultsModel creates the results view.
func NewResultsModel(ctx context.Context, store *quiz.Store) ResultsModel {
	t := table.New(
		table.WithColumns(resultColumns()),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	t.SetStyles(resultTableStyles())

	m := ResultsModel{ctx: ctx, store: store, table: t}
	m.Refresh()
	return m
}

func resultColumns() []table.Column {
	return []table.Column{
		{Title: "#", Width: 3},
		{Title: "Kana", Width: 6},
		{Title: "Answer", Width: 8},
		{Title: "Misses", Width: 6},
		{Title: "Time", Width: 7},
		{Title: "Font", Width: 14},
	}
}

func resultTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#3d5a80")).
		Foreground(lipgloss.Color("#a8dadc")).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#ffe66d")).
		Background(lipgloss.Color("#2d3436")).
		Bold(true)
	return styles
}

func resultRows(items []quiz.Item) []table.Row {
	rows := make([]table.Row, 0, len(items))
	for i, it := range items {
		answer := it.Answered
		if !it.IsCorrectAnswer {
			answer += " ✗"
		}
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", i+1),
			it.Kana,
			answer,
			fmt.Sprintf("%d", it.IncorrectTimes),
			fmt.Sprintf("%.1fs", it.Duration.Seconds()),
			it.AssignedFont,
		})
	}
	return rows
}

// Refresh reloads the rows from the store.
func (m *ResultsModel) Refresh() {
	m.table.SetRows(resultRows(m.store.Session().Quizzed))
}

// SetSize updates the view dimensions.
func (m *ResultsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetWidth(width)
	m.table.SetHeight(max(height-10, 3))
}

// Update handles messages.
func (m ResultsModel) Update(msg tea.Msg) (ResultsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "y":
			if err := clipboard.Write(Summary(m.store.Session())); err != nil {
				log.Printf("results: copy: %v", err)
				m.err = err
				return m, nil
			}
			m.copied = true
			return m, clearCopiedAfter(2 * time.Second)
		case "m":
			missed := m.store.Session().Missed()
			if len(missed) == 0 {
				return m, nil
			}
			return m.restart(func() error { return m.store.ResetWithKanas(m.ctx, missed) })
		case "r":
			return m.restart(func() error { return m.store.Reset(m.ctx) })
		}

	case clearCopiedMsg:
		m.copied = false
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m ResultsModel) restart(reset func() error) (ResultsModel, tea.Cmd) {
	if err := reset(); err != nil {
		log.Printf("results: new round: %v", err)
		m.err = err
		return m, nil
	}
	m.err = nil
	m.Refresh()
	return m, send(StartQuizMsg{})
}

// View renders the results view.
func (m ResultsModel) View() string {
	session := m.store.Session()
	passed, failed := session.Score()

	var b strings.Builder

	header := titleStyle.Render("Results")
	if m.copied {
		header += "  " + copiedStyle.Render("Copied!")
	}
	b.WriteString(header)
	b.WriteString("\n")

	if len(session.Quizzed) == 0 {
		b.WriteString(mutedStyle.Render("Nothing answered yet."))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("1: back to quiz"))
		return b.String()
	}

	score := resultsScoreStyle.Render(fmt.Sprintf("%d/%d first try", passed, passed+failed))
	if failed > 0 {
		score += "  " + resultsMissStyle.Render("missed: "+strings.Join(session.Missed(), " "))
	}
	b.WriteString(score)
	b.WriteString("\n\n")
	b.WriteString(m.table.View())
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}

	help := "j/k: scroll • y: copy summary • r: new round"
	if failed > 0 {
		help += " • m: drill missed"
	}
	b.WriteString(helpStyle.Render(help))

	return b.String()
}

// Summary formats a session as plain text, one answered item per line.
func Summary(s quiz.Session) string {
	passed, failed := s.Score()

	var b strings.Builder
	fmt.Fprintf(&b, "typekana %s: %d/%d first try\n", s.ID, passed, passed+failed)
	for _, it := range s.Quizzed {
		mark := "✓"
		if !it.IsCorrectAnswer {
			mark = "✗"
		}
		fmt.Fprintf(&b, "%s %s %s (%d missed, %.1fs)\n", mark, it.Kana, it.Answered, it.IncorrectTimes, it.Duration.Seconds())
	}
	return b.String()
}

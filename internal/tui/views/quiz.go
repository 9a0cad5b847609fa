package views

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/typekana/internal/kana"
	"github.com/f3rmion/typekana/internal/quiz"
	"github.com/f3rmion/typekana/internal/tui/bigchar"
	"github.com/f3rmion/typekana/internal/tui/components"
	"github.com/mattn/go-runewidth"
)

// RetryOffset is how many items ahead a missed kana is queued again.
const RetryOffset = 3

// Quiz view styles
var (
	quizCardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3d5a80")).
			Padding(1, 2).
			Align(lipgloss.Center)

	quizKanaStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffe66d")).
			Background(lipgloss.Color("#1a1a2e")).
			Padding(2, 6)

	quizBlockStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffe66d"))

	quizFontStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Italic(true)
)

// QuizModel is the typing view: one kana at a time, answered in romaji.
type QuizModel struct {
	ctx      context.Context
	store    *quiz.Store
	dict     *kana.Dictionary
	renderer *bigchar.Renderer
	input    textinput.Model
	now      func() time.Time

	// Current item attempt
	attempt string
	started time.Time
	misses  int

	// Last answer
	feedback string
	correct  bool
	err      error

	width  int
	height int
}

// NewQuizModel creates the quiz view.
func NewQuizModel(ctx context.Context, store *quiz.Store, dict *kana.Dictionary, renderer *bigchar.Renderer) QuizModel {
	ti := textinput.New()
	ti.Placeholder = "romaji..."
	ti.Focus()
	ti.CharLimit = 12
	ti.Width = 20
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ecdc4"))
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffe66d"))

	return QuizModel{
		ctx:      ctx,
		store:    store,
		dict:     dict,
		renderer: renderer,
		input:    ti,
		now:      time.Now,
		attempt:  attemptKey(store.Session()),
		started:  time.Now(),
	}
}

// attemptKey identifies the item at the front of the queue.
func attemptKey(s quiz.Session) string {
	return fmt.Sprintf("%s/%d/%d", s.ID, len(s.Quizzed), len(s.Unquizzed))
}

// SetSize updates the view dimensions.
func (m *QuizModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Focus restarts the answer timer unless an attempt is in progress.
func (m *QuizModel) Focus() {
	m.input.Focus()
	if m.misses == 0 && m.input.Value() == "" {
		m.started = m.now()
	}
}

// Sync starts a fresh attempt when the session changed underneath the view.
func (m *QuizModel) Sync() {
	key := attemptKey(m.store.Session())
	if key == m.attempt {
		return
	}
	m.attempt = key
	m.misses = 0
	m.feedback = ""
	m.started = m.now()
	m.input.Reset()
}

// Update handles messages.
func (m QuizModel) Update(msg tea.Msg) (QuizModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter":
			return m.submit()
		case "ctrl+r":
			return m.reset()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m QuizModel) submit() (QuizModel, tea.Cmd) {
	cur, ok := m.store.Session().Current()
	if !ok {
		return m, send(SessionDoneMsg{})
	}

	answer := strings.TrimSpace(m.input.Value())
	if answer == "" {
		return m, nil
	}
	m.input.Reset()
	m.err = nil

	if !m.dict.Check(cur.Kana, answer) {
		m.misses++
		m.correct = false
		m.feedback = fmt.Sprintf("✗ %s  →  %s", answer, strings.Join(m.dict.Romaji(cur.Kana), " / "))
		return m, nil
	}

	misses := m.misses
	elapsed := m.now().Sub(m.started)

	err := m.store.Pop(m.ctx, func(it quiz.Item) quiz.Item {
		it.Answered = answer
		it.IncorrectTimes = misses
		it.IsCorrectAnswer = misses == 0
		it.Duration = elapsed
		return it
	})
	if err != nil {
		log.Printf("quiz: pop: %v", err)
		m.err = err
		return m, nil
	}

	if misses > 0 {
		at := retryIndex(m.store.Session().Unquizzed, cur.Kana)
		if err := m.store.Insert(m.ctx, at, quiz.Item{Kana: cur.Kana}); err != nil {
			log.Printf("quiz: requeue %s: %v", cur.Kana, err)
			m.err = err
		}
	}

	m.attempt = attemptKey(m.store.Session())
	m.misses = 0
	m.started = m.now()
	m.correct = misses == 0
	m.feedback = fmt.Sprintf("✓ %s  %.1fs", answer, elapsed.Seconds())
	if misses > 0 {
		m.feedback += "  (queued again)"
	}

	if m.store.Session().Done() {
		return m, send(SessionDoneMsg{})
	}
	return m, send(SessionChangedMsg{})
}

// retryIndex returns where a missed kana goes back into queue: the first
// index from RetryOffset on where neither neighbour is the same kana. If no
// such slot exists it looks closer to the front, then settles for RetryOffset.
func retryIndex(queue []quiz.Item, kana string) int {
	free := func(i int) bool {
		if i > 0 && queue[i-1].Kana == kana {
			return false
		}
		return i == len(queue) || queue[i].Kana != kana
	}

	start := min(RetryOffset, len(queue))
	for i := start; i <= len(queue); i++ {
		if free(i) {
			return i
		}
	}
	for i := start - 1; i > 0; i-- {
		if free(i) {
			return i
		}
	}
	return start
}

func (m QuizModel) reset() (QuizModel, tea.Cmd) {
	if err := m.store.Reset(m.ctx); err != nil {
		log.Printf("quiz: reset: %v", err)
		m.err = err
		return m, nil
	}
	m.attempt = attemptKey(m.store.Session())
	m.misses = 0
	m.started = m.now()
	m.feedback = ""
	m.err = nil
	m.input.Reset()
	return m, send(SessionChangedMsg{})
}

// View renders the quiz view.
func (m QuizModel) View() string {
	session := m.store.Session()
	done, total := session.Progress()

	var b strings.Builder

	b.WriteString(titleStyle.Render("Type the reading"))
	b.WriteString("\n")
	b.WriteString(components.ProgressBar(done, total, min(max(m.width-4, 20), 50)))
	b.WriteString("\n\n")

	cur, ok := session.Current()
	if !ok {
		b.WriteString(successStyle.Render("Session complete!"))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter: see results • ctrl+r: new round"))
		return b.String()
	}

	b.WriteString(m.renderCard(cur))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
	case m.feedback != "" && m.correct:
		b.WriteString(successStyle.Render(m.feedback))
	case m.feedback != "":
		b.WriteString(errorStyle.Render(m.feedback))
	}
	b.WriteString("\n\n")

	b.WriteString(helpStyle.Render("enter: submit • ctrl+r: new round • tab: menu"))

	return b.String()
}

// renderCard draws the kana in its assigned font, or as plain text when no
// font file could be loaded.
func (m QuizModel) renderCard(it quiz.Item) string {
	cols := runewidth.StringWidth(it.Kana) * 10
	rows := 8
	if m.height > 0 && m.height < 24 {
		rows = 5
		cols = runewidth.StringWidth(it.Kana) * 6
	}

	art := ""
	if m.renderer != nil {
		art = m.renderer.Render(it.AssignedFont, it.Kana, cols, rows)
	}

	var body string
	if art != "" {
		body = quizBlockStyle.Render(art)
	} else {
		body = quizKanaStyle.Render(it.Kana)
	}

	caption := quizFontStyle.Render(it.AssignedFont)
	return quizCardStyle.Render(lipgloss.JoinVertical(lipgloss.Center, body, caption))
}

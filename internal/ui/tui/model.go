package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mind-engage/safety-quiz/internal/auth"
	"github.com/mind-engage/safety-quiz/internal/bank"
	"github.com/mind-engage/safety-quiz/internal/pipeline"
	"github.com/mind-engage/safety-quiz/internal/quiz"
)

type phase int

const (
	phaseLogin phase = iota
	phaseSetup
	phaseQuestion
	phaseCompleting
	phaseReview
)

// Options configures the terminal quiz.
type Options struct {
	// Directory enables the login screen; nil runs as LocalGrader.
	Directory    *auth.Directory
	LocalGrader  quiz.Grader
	Bank         *bank.Bank
	Pipeline     *pipeline.Pipeline
	DefaultCount int
	NoColor      bool
	Now          func() time.Time
}

// Model is a single-participant quiz run: login, setup, answering, review.
type Model struct {
	opts    Options
	phase   phase
	grader  quiz.Grader
	inputs  []textinput.Model
	focus   int
	session *quiz.Session
	current int
	cursor  int
	outcome *pipeline.Outcome
	table   table.Model
	err     string
	width   int
}

func NewModel(opts Options) Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.DefaultCount <= 0 {
		opts.DefaultCount = 10
	}
	m := Model{opts: opts}
	if opts.Directory == nil {
		m.grader = opts.LocalGrader
		m.toSetup()
	} else {
		m.toLogin()
	}
	return m
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

// completedMsg carries the result of the completion pipeline.
type completedMsg struct {
	out pipeline.Outcome
	err error
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.table.SetWidth(typed.Width)
		m.table.SetHeight(max(typed.Height-10, 3))
		return m, nil
	case completedMsg:
		return m.completed(typed), nil
	case tea.KeyMsg:
		if typed.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.phase {
		case phaseLogin:
			return m.updateLogin(typed)
		case phaseSetup:
			return m.updateSetup(typed)
		case phaseQuestion:
			return m.updateQuestion(typed)
		case phaseReview:
			return m.updateReview(typed)
		}
	}
	return m, nil
}

func (m Model) View() string {
	switch m.phase {
	case phaseLogin:
		return m.viewLogin()
	case phaseSetup:
		return m.viewSetup()
	case phaseQuestion:
		return m.viewQuestion()
	case phaseCompleting:
		return m.styles().muted.Render("Correzione in corso, generazione report...")
	default:
		return m.viewReview()
	}
}

// Session returns the current session, or nil before setup.
func (m Model) Session() *quiz.Session { return m.session }

// Outcome returns the completion outcome once the quiz is reviewed.
func (m Model) Outcome() *pipeline.Outcome { return m.outcome }

func complete(p *pipeline.Pipeline, s *quiz.Session) tea.Cmd {
	return func() tea.Msg {
		if p == nil {
			res, _ := s.Result()
			return completedMsg{out: pipeline.Outcome{Result: res}}
		}
		out, err := p.Complete(context.Background(), s)
		return completedMsg{out: out, err: err}
	}
}

// newInputs builds focused-first text inputs for the given prompts.
func newInputs(prompts ...string) []textinput.Model {
	out := make([]textinput.Model, len(prompts))
	for i, p := range prompts {
		ti := textinput.New()
		ti.Prompt = p
		ti.CharLimit = 200
		if i == 0 {
			ti.Focus()
		}
		out[i] = ti
	}
	return out
}

// cycleFocus moves focus by delta and reports whether it wrapped past the last input.
func (m *Model) cycleFocus(delta int) bool {
	next := m.focus + delta
	if next >= len(m.inputs) {
		return true
	}
	if next < 0 {
		next = len(m.inputs) - 1
	}
	m.inputs[m.focus].Blur()
	m.focus = next
	m.inputs[m.focus].Focus()
	return false
}

func (m Model) updateFocused(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

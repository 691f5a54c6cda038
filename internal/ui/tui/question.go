package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mind-engage/safety-quiz/internal/quiz"
)

func (m Model) updateQuestion(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	in := m.session.Instance()
	opts := len(in.Items[m.current].Options)
	switch key := k.String(); key {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < opts-1 {
			m.cursor++
		}
	case "a", "b", "c", "d", "A", "B", "C", "D":
		idx, _ := labelIndex(key)
		return m.choose(idx)
	case "enter", " ":
		return m.choose(m.cursor)
	case "backspace", "delete":
		_ = m.session.ClearAnswer(m.current)
	case "right", "tab", "n":
		if m.current < in.Len()-1 {
			m.goTo(m.current + 1)
		}
	case "left", "shift+tab", "p":
		if m.current > 0 {
			m.goTo(m.current - 1)
		}
	case "ctrl+s", "s":
		return m.submit()
	}
	return m, nil
}

func labelIndex(key string) (int, bool) {
	key = strings.ToUpper(key)
	for i, l := range quiz.Labels {
		if l == key {
			return i, true
		}
	}
	return 0, false
}

// choose records the option and moves on; answering the last question submits.
func (m Model) choose(idx int) (tea.Model, tea.Cmd) {
	if err := m.session.AnswerIndex(m.current, idx); err != nil {
		m.err = err.Error()
		return m, nil
	}
	if m.current == m.session.Instance().Len()-1 {
		return m.submit()
	}
	m.goTo(m.current + 1)
	return m, nil
}

func (m *Model) goTo(pos int) {
	m.current = pos
	m.cursor = 0
	a := m.session.Answers()[pos]
	if !a.Selected {
		return
	}
	for i, o := range m.session.Instance().Items[pos].Options {
		if o.Text == a.Text {
			m.cursor = i
		}
	}
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	if _, err := m.session.Correct(); err != nil {
		m.err = err.Error()
		return m, nil
	}
	m.err = ""
	m.phase = phaseCompleting
	return m, complete(m.opts.Pipeline, m.session.Snapshot())
}

func (m Model) viewQuestion() string {
	st := m.styles()
	in := m.session.Instance()
	it := in.Items[m.current]
	answers := m.session.Answers()
	answered := 0
	for _, a := range answers {
		if a.Selected {
			answered++
		}
	}

	var b strings.Builder
	header := fmt.Sprintf("Domanda %d/%d", m.current+1, in.Len())
	if in.Topic != "" {
		header += " - " + in.Topic
	}
	b.WriteString(st.title.Render(header) + "  " + st.muted.Render(fmt.Sprintf("risposte date: %d", answered)) + "\n\n")
	b.WriteString(st.question.Render(it.Record.Text) + "\n\n")
	for i, o := range it.Options {
		pointer := "  "
		if i == m.cursor {
			pointer = "> "
		}
		mark := "( )"
		if answers[m.current].Selected && answers[m.current].Text == o.Text {
			mark = "(x)"
		}
		line := fmt.Sprintf("%s%s %s) %s", pointer, mark, quiz.Labels[i], o.Text)
		if i == m.cursor {
			line = st.selected.Render(line)
		}
		b.WriteString(line + "\n")
	}
	if m.err != "" {
		b.WriteString("\n" + st.bad.Render(m.err) + "\n")
	}
	b.WriteString("\n" + st.muted.Render("↑/↓ scegli  invio o A-D rispondi  ←/→ naviga  canc: cancella  s: correggi"))
	return b.String()
}

package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mind-engage/safety-quiz/internal/quiz"
)

const (
	loginUser = iota
	loginPassword
)

func (m *Model) toLogin() {
	m.phase = phaseLogin
	m.inputs = newInputs("Utente:   ", "Password: ")
	m.inputs[loginPassword].EchoMode = textinput.EchoPassword
	m.inputs[loginPassword].EchoCharacter = '*'
	m.focus = 0
}

func (m Model) updateLogin(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "tab", "down":
		m.cycleFocus(1)
		return m, nil
	case "shift+tab", "up":
		m.cycleFocus(-1)
		return m, nil
	case "enter":
		if !m.cycleFocus(1) {
			return m, nil
		}
		u, err := m.opts.Directory.Authenticate(m.inputs[loginUser].Value(), m.inputs[loginPassword].Value())
		if err != nil {
			m.err = "Credenziali non valide"
			m.inputs[loginPassword].SetValue("")
			return m, nil
		}
		m.grader = quiz.Grader{Username: u.Username, Role: u.Role, Organization: u.Organization}
		m.err = ""
		m.toSetup()
		return m, nil
	}
	return m.updateFocused(k)
}

func (m Model) viewLogin() string {
	st := m.styles()
	var b strings.Builder
	b.WriteString(st.title.Render("Quiz formazione sicurezza - Accesso") + "\n\n")
	for _, in := range m.inputs {
		b.WriteString(in.View() + "\n")
	}
	if m.err != "" {
		b.WriteString("\n" + st.bad.Render(m.err) + "\n")
	}
	b.WriteString("\n" + st.muted.Render("tab: campo successivo  invio: accedi  ctrl+c: esci"))
	return b.String()
}

package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/mind-engage/safety-quiz/internal/quiz"
)

const (
	setupName = iota
	setupEmail
	setupCourse
	setupTopic
	setupSeed
	setupCount
)

func (m *Model) toSetup() {
	m.phase = phaseSetup
	m.inputs = newInputs(
		"Nome partecipante:  ",
		"Email partecipante: ",
		"Corso / modulo:     ",
		"Argomento:          ",
		"Seed (opzionale):   ",
		"Numero domande:     ",
	)
	m.inputs[setupTopic].Placeholder = "* = tutti"
	m.inputs[setupCount].Placeholder = strconv.Itoa(m.opts.DefaultCount)
	m.focus = 0
	m.session, m.outcome = nil, nil
	m.current, m.cursor = 0, 0
}

func (m Model) updateSetup(k tea.KeyMsg) (tea.Model, tea.Cmd) {
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
		if err := m.prepare(); err != nil {
			m.err = err.Error()
			return m, nil
		}
		m.err = ""
		m.phase = phaseQuestion
		return m, nil
	}
	return m.updateFocused(k)
}

func (m *Model) prepare() error {
	if m.opts.Bank == nil {
		return fmt.Errorf("nessuna banca domande caricata")
	}
	count := m.opts.DefaultCount
	if v := strings.TrimSpace(m.inputs[setupCount].Value()); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return fmt.Errorf("numero domande non valido: %q", v)
		}
		count = n
	}
	topic := strings.TrimSpace(m.inputs[setupTopic].Value())
	pool, err := m.opts.Bank.Pool(topic)
	if err != nil {
		return err
	}
	y, mo, d := m.opts.Now().Date()
	p := quiz.Participant{
		Name:     strings.TrimSpace(m.inputs[setupName].Value()),
		Email:    strings.TrimSpace(m.inputs[setupEmail].Value()),
		Course:   strings.TrimSpace(m.inputs[setupCourse].Value()),
		QuizDate: time.Date(y, mo, d, 0, 0, 0, 0, time.UTC),
	}
	s := quiz.NewSession(uuid.NewString(), m.opts.Bank.ID, p, m.grader)
	if err := s.Prepare(pool, quiz.Config{Topic: topic, Count: count, Seed: m.inputs[setupSeed].Value()}); err != nil {
		return err
	}
	m.session = s
	m.current, m.cursor = 0, 0
	return nil
}

func (m Model) viewSetup() string {
	st := m.styles()
	var b strings.Builder
	b.WriteString(st.title.Render("Nuovo quiz") + "  " + st.muted.Render("somministrato da "+m.grader.Username) + "\n\n")
	if m.opts.Bank != nil {
		b.WriteString(st.muted.Render("Argomenti: "+strings.Join(m.opts.Bank.Topics(), ", ")) + "\n\n")
	}
	for _, in := range m.inputs {
		b.WriteString(in.View() + "\n")
	}
	if m.err != "" {
		b.WriteString("\n" + st.bad.Render(m.err) + "\n")
	}
	b.WriteString("\n" + st.muted.Render("tab: campo successivo  invio sull'ultimo campo: genera quiz  ctrl+c: esci"))
	return b.String()
}

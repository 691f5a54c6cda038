package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mind-engage/safety-quiz/internal/quiz"
	"github.com/mind-engage/safety-quiz/internal/report"
)

func reviewColumns() []table.Column {
	return []table.Column{
		{Title: "N.", Width: 4},
		{Title: "Codice", Width: 10},
		{Title: "Esito", Width: 15},
		{Title: "Risposta data", Width: 30},
		{Title: "Risposta corretta", Width: 30},
	}
}

func (m Model) completed(msg completedMsg) Model {
	if msg.err != nil {
		m.err = msg.err.Error()
		res, _ := m.session.Result()
		msg.out.Result = res
	}
	out := msg.out
	m.outcome = &out
	m.phase = phaseReview

	rows := make([]table.Row, 0, len(out.Result.Items))
	for _, it := range out.Result.Items {
		rows = append(rows, table.Row{
			strconv.Itoa(it.Position),
			it.Code,
			report.OutcomeLabel(it.Outcome),
			it.Given,
			it.Correct,
		})
	}
	m.table = table.New(
		table.WithColumns(reviewColumns()),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(min(len(rows)+3, 15)),
	)
	m.table.SetStyles(tableStyles(m.opts.NoColor))
	return m
}

func (m Model) updateReview(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "q", "esc":
		return m, tea.Quit
	case "r":
		m.err = ""
		m.toSetup()
		return m, nil
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(k)
	return m, cmd
}

func (m Model) viewReview() string {
	st := m.styles()
	if m.outcome == nil {
		return ""
	}
	res := m.outcome.Result
	var b strings.Builder
	b.WriteString(st.title.Render("Risultato") + "\n\n")
	b.WriteString(fmt.Sprintf("Risposte corrette: %d / %d   Punteggio: %s%%\n", res.Score, res.Total, report.FormatPercent(res.Percentage)))
	if res.Unscorable > 0 {
		b.WriteString(st.muted.Render(fmt.Sprintf("Domande non valutabili: %d", res.Unscorable)) + "\n")
	}
	threshold := report.FormatPercent(quiz.PassThreshold)
	if res.Passed {
		b.WriteString(st.good.Render("Test SUPERATO (soglia "+threshold+"%)") + "\n\n")
	} else {
		b.WriteString(st.bad.Render("Test NON superato (soglia "+threshold+"%)") + "\n\n")
	}
	b.WriteString(m.table.View() + "\n\n")
	for _, a := range m.outcome.Artifacts {
		line := "Generato " + a.Name
		if a.Key != "" {
			line += " -> " + a.Key
		}
		b.WriteString(st.muted.Render(line) + "\n")
	}
	if m.outcome.Emailed {
		b.WriteString(st.muted.Render("Email inviata") + "\n")
	}
	for _, w := range m.outcome.Warnings {
		b.WriteString(st.bad.Render("Attenzione: "+w) + "\n")
	}
	if m.err != "" {
		b.WriteString(st.bad.Render(m.err) + "\n")
	}
	b.WriteString("\n" + st.muted.Render("r: nuovo quiz  q: esci"))
	return b.String()
}

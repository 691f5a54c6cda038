package notify

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/mind-engage/safety-quiz/internal/config"
	"github.com/mind-engage/safety-quiz/internal/quiz"
	"github.com/mind-engage/safety-quiz/internal/report"
)

var ErrNoRecipients = errors.New("notify: no recipients")

type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

type Message struct {
	Subject     string
	Body        string
	To          []string
	Attachments []Attachment
}

// Mailer delivers a composed message.
type Mailer interface {
	Send(ctx context.Context, m Message) error
}

// New returns an SMTP mailer, or a LogMailer when no SMTP host is configured.
func New(cfg config.Config) Mailer {
	if cfg.SMTPHost == "" {
		return LogMailer{}
	}
	return &SMTPMailer{
		Host:        cfg.SMTPHost,
		Port:        cfg.SMTPPort,
		Username:    cfg.SMTPUsername,
		Password:    cfg.SMTPPassword,
		From:        cfg.SMTPFrom,
		ImplicitTLS: cfg.SMTPTLS,
	}
}

// Compose builds the result email for a scored document. The participant's
// address, when present, is added to recipients.
func Compose(d report.Document, recipients []string, attachments ...Attachment) Message {
	name := d.Participant.Name
	if strings.TrimSpace(name) == "" {
		name = "Partecipante"
	}
	res := d.Result
	pct := report.FormatPercent(res.Percentage)
	threshold := report.FormatPercent(quiz.PassThreshold)

	var b strings.Builder
	b.WriteString("Esito quiz formazione sicurezza.\n\n")
	fmt.Fprintf(&b, "Nome: %s\n", orDash(d.Participant.Name))
	fmt.Fprintf(&b, "Corso / Modulo: %s\n", d.Subject())
	fmt.Fprintf(&b, "Data quiz: %s\n", report.FormatDate(d.Participant.QuizDate))
	fmt.Fprintf(&b, "Punteggio: %d / %d (%s%%)\n", res.Score, res.Total, pct)
	if res.Passed {
		fmt.Fprintf(&b, "Esito: SUPERATO (soglia %s%%)\n", threshold)
	} else {
		fmt.Fprintf(&b, "Esito: NON SUPERATO (soglia %s%%)\n", threshold)
	}
	b.WriteString("\nDettaglio domande:\n-------------------\n")
	for _, it := range res.Items {
		given := it.Given
		if given == "" {
			given = "NON RISPOSTA"
		}
		fmt.Fprintf(&b, "%d. %s\n", it.Position, it.Question)
		fmt.Fprintf(&b, "   Esito: %s\n", report.OutcomeLabel(it.Outcome))
		fmt.Fprintf(&b, "   Risposta data: %s\n\n", given)
	}
	b.WriteString("In allegato il report PDF del test.\n")
	if res.Passed {
		b.WriteString("È allegato anche il badge di superamento in formato PDF.\n")
	}

	return Message{
		Subject:     fmt.Sprintf("%s - %s - Punteggio %s%%", name, d.Subject(), pct),
		Body:        b.String(),
		To:          Recipients(recipients, d.Participant.Email),
		Attachments: attachments,
	}
}

// Recipients merges the configured list with extra addresses, dropping
// blanks and case-insensitive duplicates.
func Recipients(base []string, extra ...string) []string {
	seen := map[string]bool{}
	var out []string
	for _, r := range append(append([]string{}, base...), extra...) {
		r = strings.TrimSpace(r)
		k := strings.ToLower(r)
		if r == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, r)
	}
	return out
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// LogMailer only logs what would have been sent.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, m Message) error {
	names := make([]string, 0, len(m.Attachments))
	for _, a := range m.Attachments {
		names = append(names, a.Filename)
	}
	log.Printf("notify: smtp disabled, not sending %q to %v (attachments: %v)", m.Subject, m.To, names)
	return nil
}

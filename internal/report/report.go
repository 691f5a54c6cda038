package report

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gosimple/slug"

	"github.com/mind-engage/safety-quiz/internal/quiz"
)

// DefaultSubject names the quiz when neither course nor topic is known.
const DefaultSubject = "Quiz Sicurezza"

// Document is everything a report needs about one scored session.
type Document struct {
	Participant quiz.Participant
	Grader      quiz.Grader
	BankID      string
	Instance    *quiz.Instance
	Answers     []quiz.Answer
	Result      quiz.ScoredResult
	GeneratedAt time.Time
}

// NewDocument snapshots a scored session.
func NewDocument(s *quiz.Session, res quiz.ScoredResult, now time.Time) Document {
	return Document{
		Participant: s.Participant,
		Grader:      s.Grader,
		BankID:      s.BankID,
		Instance:    s.Instance(),
		Answers:     s.Answers(),
		Result:      res,
		GeneratedAt: now,
	}
}

// Topic returns the sampled topic, or "" before preparation.
func (d Document) Topic() string {
	if d.Instance == nil {
		return ""
	}
	return d.Instance.Topic
}

// Subject is the course, falling back to the topic and then DefaultSubject.
func (d Document) Subject() string {
	if c := strings.TrimSpace(d.Participant.Course); c != "" {
		return c
	}
	if t := strings.TrimSpace(d.Topic()); t != "" && t != "*" {
		return t
	}
	return DefaultSubject
}

// BaseFilename returns the stem shared by a session's artifacts.
func (d Document) BaseFilename() string {
	course := d.Participant.Course
	if strings.TrimSpace(course) == "" {
		course = d.Topic()
	}
	return BaseFilename(d.Participant.QuizDate, course, d.Participant.Name)
}

// BaseFilename builds YYYYMMDD_<course>_<name> with slugged parts.
func BaseFilename(date time.Time, course, name string) string {
	day := "data"
	if !date.IsZero() {
		day = date.Format("20060102")
	}
	c := slug.Make(course)
	if c == "" {
		c = "quiz"
	}
	n := slug.Make(name)
	if n == "" {
		n = "partecipante"
	}
	return day + "_" + c + "_" + n
}

// QuizFilename and BadgeFilename append the artifact suffixes.
func QuizFilename(base string) string { return base + "_quiz.pdf" }
func BadgeFilename(base string) string { return base + "_badge.pdf" }

// OutcomeLabel is the printed form of an outcome.
func OutcomeLabel(o quiz.Outcome) string {
	switch o {
	case quiz.OutcomeCorrect:
		return "CORRETTA"
	case quiz.OutcomeWrong:
		return "ERRATA"
	case quiz.OutcomeUnanswered:
		return "NON RISPOSTA"
	case quiz.OutcomeUnscorable:
		return "NON VALUTABILE"
	default:
		return string(o)
	}
}

// FormatPercent prints a percentage with one decimal.
func FormatPercent(p float64) string { return strconv.FormatFloat(p, 'f', 1, 64) }

// FormatDate prints d as dd/mm/yyyy, or "-" when unset.
func FormatDate(d time.Time) string {
	if d.IsZero() {
		return "-"
	}
	return d.Format("02/01/2006")
}

// Badge is the content of a pass certificate.
type Badge struct {
	Name       string
	Subject    string
	Date       time.Time
	Percentage float64
	VerifyURL  string
}

// BadgeFor derives the badge of a passed document.
func BadgeFor(d Document, verifyURL string) Badge {
	return Badge{
		Name:       d.Participant.Name,
		Subject:    d.Subject(),
		Date:       d.Participant.QuizDate,
		Percentage: d.Result.Percentage,
		VerifyURL:  verifyURL,
	}
}

// VerificationText is what the badge QR code encodes.
func (b Badge) VerificationText() string {
	date := ""
	if !b.Date.IsZero() {
		date = b.Date.Format("2006-01-02")
	}
	if b.VerifyURL != "" {
		q := url.Values{}
		q.Set("nome", b.Name)
		q.Set("corso", b.Subject)
		q.Set("data", date)
		q.Set("punteggio", FormatPercent(b.Percentage))
		sep := "?"
		if strings.Contains(b.VerifyURL, "?") {
			sep = "&"
		}
		return b.VerifyURL + sep + q.Encode()
	}
	return fmt.Sprintf("Nome: %s | Corso: %s | Data: %s | Punteggio: %s%%",
		b.Name, b.Subject, date, FormatPercent(b.Percentage))
}

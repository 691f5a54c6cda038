package results

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mind-engage/safety-quiz/internal/quiz"
)

// Row is one audit record per completed session.
type Row struct {
	Timestamp        time.Time `json:"timestamp"`
	LoginUser        string    `json:"login_user"`
	Organization     string    `json:"organization"`
	Role             string    `json:"role"`
	ParticipantName  string    `json:"participant_name"`
	ParticipantEmail string    `json:"participant_email"`
	Course           string    `json:"course"`
	Topic            string    `json:"topic"`
	BankID           string    `json:"bank_id"`
	QuizDate         time.Time `json:"quiz_date"`
	Questions        int       `json:"questions"` // administered, unscorable included
	Score            int       `json:"score"`
	Percentage       float64   `json:"percentage"`
	Passed           bool      `json:"passed"`
	Seed             string    `json:"seed"`
}

// Header is the column order of persisted rows. The names match the
// historical log files.
var Header = []string{
	"timestamp", "login_user", "user_ente", "user_role",
	"nome_partecipante", "email_partecipante", "corso", "argomento",
	"banca_domande", "data_quiz", "n_domande", "punteggio",
	"percentuale", "superato", "seed",
}

// Sink is the append-only audit log.
type Sink interface {
	Append(ctx context.Context, r Row) error
	List(ctx context.Context) ([]Row, error)
}

// Open returns a sink for path, chosen by extension (.csv or .xlsx).
func Open(path string) (Sink, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return NewCSVSink(path), nil
	case ".xlsx":
		return NewXLSXSink(path), nil
	default:
		return nil, fmt.Errorf("results: unsupported file type %q", path)
	}
}

// FromSession builds the audit row for a scored session.
func FromSession(s *quiz.Session, res quiz.ScoredResult, now time.Time) Row {
	r := Row{
		Timestamp:        now,
		LoginUser:        s.Grader.Username,
		Organization:     s.Grader.Organization,
		Role:             s.Grader.Role,
		ParticipantName:  s.Participant.Name,
		ParticipantEmail: s.Participant.Email,
		Course:           s.Participant.Course,
		BankID:           s.BankID,
		QuizDate:         s.Participant.QuizDate,
		Questions:        len(res.Items),
		Score:            res.Score,
		Percentage:       res.Percentage,
		Passed:           res.Passed,
	}
	if in := s.Instance(); in != nil {
		r.Topic = in.Topic
		r.Seed = in.Seed
	}
	return r
}

func (r Row) record() []string {
	date := ""
	if !r.QuizDate.IsZero() {
		date = r.QuizDate.Format("2006-01-02")
	}
	return []string{
		r.Timestamp.Format("2006-01-02T15:04:05"),
		r.LoginUser,
		r.Organization,
		r.Role,
		r.ParticipantName,
		r.ParticipantEmail,
		r.Course,
		r.Topic,
		r.BankID,
		date,
		strconv.Itoa(r.Questions),
		strconv.Itoa(r.Score),
		strconv.FormatFloat(r.Percentage, 'f', 1, 64),
		strconv.FormatBool(r.Passed),
		r.Seed,
	}
}

func parseRecord(rec []string) (Row, error) {
	if len(rec) < len(Header) {
		rec = append(rec, make([]string, len(Header)-len(rec))...)
	}
	var (
		r   Row
		err error
	)
	if r.Timestamp, err = time.ParseInLocation("2006-01-02T15:04:05", rec[0], time.Local); err != nil {
		return Row{}, fmt.Errorf("timestamp %q: %w", rec[0], err)
	}
	r.LoginUser, r.Organization, r.Role = rec[1], rec[2], rec[3]
	r.ParticipantName, r.ParticipantEmail, r.Course, r.Topic, r.BankID = rec[4], rec[5], rec[6], rec[7], rec[8]
	if rec[9] != "" {
		if r.QuizDate, err = time.Parse("2006-01-02", rec[9]); err != nil {
			return Row{}, fmt.Errorf("quiz date %q: %w", rec[9], err)
		}
	}
	if r.Questions, err = strconv.Atoi(rec[10]); err != nil {
		return Row{}, fmt.Errorf("question count %q: %w", rec[10], err)
	}
	if r.Score, err = strconv.Atoi(rec[11]); err != nil {
		return Row{}, fmt.Errorf("score %q: %w", rec[11], err)
	}
	if r.Percentage, err = strconv.ParseFloat(rec[12], 64); err != nil {
		return Row{}, fmt.Errorf("percentage %q: %w", rec[12], err)
	}
	if r.Passed, err = strconv.ParseBool(rec[13]); err != nil {
		return Row{}, fmt.Errorf("passed %q: %w", rec[13], err)
	}
	r.Seed = rec[14]
	return r, nil
}

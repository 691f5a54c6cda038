package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/safety-quiz/internal/auth"
	"github.com/mind-engage/safety-quiz/internal/pipeline"
	"github.com/mind-engage/safety-quiz/internal/quiz"
)

type prepareRequest struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
	Seed  string `json:"seed"`
}

type createSessionRequest struct {
	BankID      string `json:"bank_id"`
	Participant struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Course   string `json:"course"`
		QuizDate string `json:"quiz_date"` // YYYY-MM-DD, defaults to today
	} `json:"participant"`
	prepareRequest
}

type questionView struct {
	Position int      `json:"position"` // 1-based
	Code     string   `json:"code"`
	Text     string   `json:"text"`
	Options  []string `json:"options"` // display order, labelled A..D
	Answer   string   `json:"answer,omitempty"`
	Selected bool     `json:"selected"`
}

// sessionView never carries answer keys; the result does once scored.
type sessionView struct {
	ID          string             `json:"id"`
	BankID      string             `json:"bank_id"`
	State       quiz.State         `json:"state"`
	Participant quiz.Participant   `json:"participant"`
	Topic       string             `json:"topic"`
	Seed        string             `json:"seed,omitempty"`
	Seeded      bool               `json:"seeded"`
	Questions   []questionView     `json:"questions"`
	Result      *quiz.ScoredResult `json:"result,omitempty"`
}

func viewOf(s *quiz.Session) sessionView {
	v := sessionView{
		ID:          s.ID,
		BankID:      s.BankID,
		State:       s.State(),
		Participant: s.Participant,
		Questions:   []questionView{},
	}
	if in := s.Instance(); in != nil {
		v.Topic, v.Seed, v.Seeded = in.Topic, in.Seed, in.Seeded
		answers := s.Answers()
		for i, it := range in.Items {
			q := questionView{Position: i + 1, Code: it.Record.Code, Text: it.Record.Text}
			for _, o := range it.Options {
				q.Options = append(q.Options, o.Text)
			}
			if i < len(answers) && answers[i].Selected {
				q.Answer, q.Selected = answers[i].Text, true
			}
			v.Questions = append(v.Questions, q)
		}
	}
	if res, ok := s.Result(); ok {
		v.Result = &res
	}
	return v
}

func prepareSession(banks BankSource, s *quiz.Session, req prepareRequest, defaultCount int) error {
	if req.Count == 0 {
		req.Count = defaultCount
	}
	b, err := banks.Load(s.BankID)
	if err != nil {
		return err
	}
	pool, err := b.Pool(req.Topic)
	if err != nil {
		return err
	}
	return s.Prepare(pool, quiz.Config{Topic: strings.TrimSpace(req.Topic), Count: req.Count, Seed: req.Seed})
}

// POST /sessions
func CreateSessionHandler(store quiz.Store, banks BankSource, defaultCount int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createSessionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.BankID) == "" {
			http.Error(w, "bank_id required", http.StatusBadRequest)
			return
		}
		p := quiz.Participant{
			Name:   strings.TrimSpace(req.Participant.Name),
			Email:  strings.TrimSpace(req.Participant.Email),
			Course: strings.TrimSpace(req.Participant.Course),
		}
		if req.Participant.QuizDate == "" {
			y, m, d := time.Now().Date()
			p.QuizDate = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		} else {
			t, err := time.Parse("2006-01-02", req.Participant.QuizDate)
			if err != nil {
				http.Error(w, "quiz_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			p.QuizDate = t
		}

		g := auth.GraderFromContext(r.Context())
		s := store.Create(req.BankID, p, g)
		var view sessionView
		err := store.Update(s.ID, g.Username, func(s *quiz.Session) error {
			if err := prepareSession(banks, s, req.prepareRequest, defaultCount); err != nil {
				return err
			}
			view = viewOf(s)
			return nil
		})
		if err != nil {
			_ = store.Delete(s.ID, g.Username)
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, view)
	}
}

// POST /sessions/{id}/prepare
func PrepareSessionHandler(store quiz.Store, banks BankSource, defaultCount int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req prepareRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		var view sessionView
		err := store.Update(chi.URLParam(r, "id"), auth.SubjectFromContext(r.Context()), func(s *quiz.Session) error {
			if err := prepareSession(banks, s, req, defaultCount); err != nil {
				return err
			}
			view = viewOf(s)
			return nil
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

// GET /sessions/{id}
func GetSessionHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var view sessionView
		err := store.Update(chi.URLParam(r, "id"), auth.SubjectFromContext(r.Context()), func(s *quiz.Session) error {
			view = viewOf(s)
			return nil
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

// DELETE /sessions/{id}
func DeleteSessionHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.Delete(chi.URLParam(r, "id"), auth.SubjectFromContext(r.Context())); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// PUT /sessions/{id}/answers  { "position": 1, "option": "B" } or { "position": 1, "clear": true }
func AnswerHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Position int    `json:"position"`
			Option   string `json:"option"`
			Clear    bool   `json:"clear"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		var view sessionView
		err := store.Update(chi.URLParam(r, "id"), auth.SubjectFromContext(r.Context()), func(s *quiz.Session) error {
			pos := req.Position - 1
			var err error
			if req.Clear {
				err = s.ClearAnswer(pos)
			} else {
				idx, ok := optionIndex(req.Option)
				if !ok {
					return fmt.Errorf("%w: option must be one of A, B, C, D", quiz.ErrInvalidInput)
				}
				err = s.AnswerIndex(pos, idx)
			}
			if err != nil {
				return err
			}
			view = viewOf(s)
			return nil
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func optionIndex(label string) (int, bool) {
	label = strings.ToUpper(strings.TrimSpace(label))
	for i, l := range quiz.Labels {
		if l == label {
			return i, true
		}
	}
	return 0, false
}

// POST /sessions/{id}/correct
// A scored session is not completed again; GET /sessions/{id} returns its result.
func CorrectHandler(store quiz.Store, p *pipeline.Pipeline) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var snap *quiz.Session
		err := store.Update(chi.URLParam(r, "id"), auth.SubjectFromContext(r.Context()), func(s *quiz.Session) error {
			if s.State() == quiz.StateScored {
				return fmt.Errorf("%w: session %s already scored", quiz.ErrWrongState, s.ID)
			}
			if _, err := s.Correct(); err != nil {
				return err
			}
			snap = s.Snapshot()
			return nil
		})
		if err != nil {
			writeError(w, err)
			return
		}
		out, err := p.Complete(r.Context(), snap)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

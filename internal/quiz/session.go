package quiz

import (
	"errors"
	"fmt"
	"time"
)

type State string

const (
	StateUnconfigured State = "unconfigured"
	StateSampled      State = "sampled"
	StateAnswering    State = "answering"
	StateScored       State = "scored"
)

var ErrWrongState = errors.New("operation not allowed in current state")

// Participant describes who takes the quiz.
type Participant struct {
	Name     string    `json:"name"`
	Email    string    `json:"email,omitempty"`
	Course   string    `json:"course,omitempty"`
	QuizDate time.Time `json:"quiz_date"`
}

// Grader is the authenticated user administering the quiz.
type Grader struct {
	Username     string `json:"username"`
	Role         string `json:"role"`
	Organization string `json:"organization,omitempty"`
}

// Session is the state of one participant's quiz, owned by the host.
// A Session is not safe for concurrent use.
type Session struct {
	ID          string      `json:"id"`
	BankID      string      `json:"bank_id"`
	Participant Participant `json:"participant"`
	Grader      Grader      `json:"grader"`

	state    State
	instance *Instance
	answers  []Answer
	result   *ScoredResult
}

// NewSession returns an unconfigured session.
func NewSession(id, bankID string, p Participant, g Grader) *Session {
	return &Session{ID: id, BankID: bankID, Participant: p, Grader: g, state: StateUnconfigured}
}

func (s *Session) State() State { return s.state }

// Instance returns the current quiz, or nil before the first Prepare.
func (s *Session) Instance() *Instance { return s.instance }

// Answers returns a copy of the current answer set.
func (s *Session) Answers() []Answer {
	out := make([]Answer, len(s.answers))
	copy(out, s.answers)
	return out
}

// Result returns the scored result once the session is scored.
func (s *Session) Result() (ScoredResult, bool) {
	if s.result == nil {
		return ScoredResult{}, false
	}
	return *s.result, true
}

// Prepare samples a fresh quiz, discarding any previous answers and result.
// On error the session is left untouched.
func (s *Session) Prepare(pool []Record, cfg Config) error {
	in, err := Prepare(pool, cfg)
	if err != nil {
		return err
	}
	s.instance = in
	s.answers = make([]Answer, len(in.Items))
	s.result = nil
	s.state = StateSampled
	return nil
}

// Answer records text as the selection for the question at pos (0-based).
func (s *Session) Answer(pos int, text string) error {
	if err := s.checkAnswerable(pos); err != nil {
		return err
	}
	s.answers[pos] = Choose(text)
	s.state = StateAnswering
	return nil
}

// AnswerIndex selects the displayed option idx of the question at pos.
func (s *Session) AnswerIndex(pos, idx int) error {
	if err := s.checkAnswerable(pos); err != nil {
		return err
	}
	opts := s.instance.Items[pos].Options
	if idx < 0 || idx >= len(opts) {
		return fmt.Errorf("%w: option %d out of range", ErrInvalidInput, idx)
	}
	s.answers[pos] = Choose(opts[idx].Text)
	s.state = StateAnswering
	return nil
}

// ClearAnswer removes the selection at pos.
func (s *Session) ClearAnswer(pos int) error {
	if err := s.checkAnswerable(pos); err != nil {
		return err
	}
	s.answers[pos] = Answer{}
	s.state = StateAnswering
	return nil
}

// Correct scores the stored answers. Calling it again on a scored session
// recomputes the same result from the same instance and answers.
func (s *Session) Correct() (ScoredResult, error) {
	switch s.state {
	case StateSampled, StateAnswering, StateScored:
	default:
		return ScoredResult{}, fmt.Errorf("%w: correct in %s", ErrWrongState, s.state)
	}
	res, err := Score(s.instance, s.answers)
	if err != nil {
		return ScoredResult{}, err
	}
	s.result = &res
	s.state = StateScored
	return res, nil
}

// Snapshot returns a copy that later calls on s do not affect.
func (s *Session) Snapshot() *Session {
	c := *s
	c.answers = s.Answers()
	if s.result != nil {
		r := *s.result
		c.result = &r
	}
	return &c
}

func (s *Session) checkAnswerable(pos int) error {
	if s.state != StateSampled && s.state != StateAnswering {
		return fmt.Errorf("%w: answer in %s", ErrWrongState, s.state)
	}
	if pos < 0 || pos >= len(s.answers) {
		return fmt.Errorf("%w: question %d out of range", ErrInvalidInput, pos)
	}
	return nil
}

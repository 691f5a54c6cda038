package quiz

import "fmt"

type Outcome string

const (
	OutcomeCorrect    Outcome = "CORRECT"
	OutcomeWrong      Outcome = "WRONG"
	OutcomeUnanswered Outcome = "UNANSWERED"
	OutcomeUnscorable Outcome = "UNSCORABLE"
)

// ItemResult is the graded view of one question.
type ItemResult struct {
	Position  int     `json:"position"` // 1-based
	Code      string  `json:"code"`
	Question  string  `json:"question"`
	Outcome   Outcome `json:"outcome"`
	Given     string  `json:"given,omitempty"`
	Correct   string  `json:"correct,omitempty"`
	Reference string  `json:"reference,omitempty"`
}

// ScoredResult is derived from an Instance and an answer set and never mutated.
// Total counts scorable questions only.
type ScoredResult struct {
	Score      int          `json:"score"`
	Total      int          `json:"total"`
	Unscorable int          `json:"unscorable"`
	Percentage float64      `json:"percentage"`
	Passed     bool         `json:"passed"`
	Items      []ItemResult `json:"items"`
}

// Errors returns the wrong and unanswered questions, in order.
func (r ScoredResult) Errors() []ItemResult {
	var out []ItemResult
	for _, it := range r.Items {
		if it.Outcome == OutcomeWrong || it.Outcome == OutcomeUnanswered {
			out = append(out, it)
		}
	}
	return out
}

// Percentage rounds correct/total*100 to one decimal, half away from zero.
func Percentage(correct, total int) float64 {
	if total <= 0 {
		return 0.0
	}
	// integer tenths of a percent, halves rounded up
	tenths := (correct*2000 + total) / (2 * total)
	return float64(tenths) / 10
}

// Passed applies the fixed pass threshold.
func Passed(pct float64) bool { return pct >= PassThreshold }

// Score grades answers against in. answers must hold one entry per question.
func Score(in *Instance, answers []Answer) (ScoredResult, error) {
	if in == nil {
		return ScoredResult{}, fmt.Errorf("%w: no quiz instance", ErrInvalidInput)
	}
	if len(answers) != len(in.Items) {
		return ScoredResult{}, fmt.Errorf("%w: %d answers for %d questions", ErrInvalidInput, len(answers), len(in.Items))
	}
	res := ScoredResult{Items: make([]ItemResult, 0, len(in.Items))}
	for i, it := range in.Items {
		ans := answers[i]
		ir := ItemResult{
			Position:  i + 1,
			Code:      it.Record.Code,
			Question:  it.Record.Text,
			Reference: it.Record.Reference,
		}
		if ans.Selected {
			ir.Given = ans.Text
		}
		switch {
		case !it.Scorable():
			ir.Outcome = OutcomeUnscorable
			res.Unscorable++
		case !ans.Selected:
			ir.Outcome = OutcomeUnanswered
			ir.Correct = it.CorrectText()
			res.Total++
		case ans.Text == it.CorrectText():
			ir.Outcome = OutcomeCorrect
			ir.Correct = it.CorrectText()
			res.Score++
			res.Total++
		default:
			ir.Outcome = OutcomeWrong
			ir.Correct = it.CorrectText()
			res.Total++
		}
		res.Items = append(res.Items, ir)
	}
	res.Percentage = Percentage(res.Score, res.Total)
	res.Passed = Passed(res.Percentage)
	return res, nil
}

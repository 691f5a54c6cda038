package quiz

import "strings"

// Labels are the fixed source labels of a question's four options.
var Labels = [4]string{"A", "B", "C", "D"}

// PassThreshold is the minimum percentage needed to pass.
const PassThreshold = 80.0

// Record is one row of a question bank. Records are immutable source data.
type Record struct {
	Topic        string    `json:"topic"`
	Code         string    `json:"code"`
	Text         string    `json:"question_text"`
	Options      [4]string `json:"options"` // texts for A..D
	CorrectLabel string    `json:"correct_label"`
	Reference    string    `json:"reference,omitempty"`
}

// Option is a (label, text) pair in display order.
type Option struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// Item is a sampled question with its shuffled options.
// CorrectIndex is nil when the record's correct label matches none of its options.
type Item struct {
	Record       Record   `json:"record"`
	Options      []Option `json:"options"`
	CorrectIndex *int     `json:"correct_index,omitempty"`
}

// Scorable reports whether the item has a resolved answer key.
func (it Item) Scorable() bool { return it.CorrectIndex != nil }

// CorrectText returns the text of the correct option, or "" when unscorable.
func (it Item) CorrectText() string {
	if it.CorrectIndex == nil {
		return ""
	}
	return it.Options[*it.CorrectIndex].Text
}

// Instance is one prepared quiz: the sampled questions in order.
type Instance struct {
	Topic     string `json:"topic"`
	Seed      string `json:"seed,omitempty"`
	Seeded    bool   `json:"seeded"`
	SeedValue uint32 `json:"seed_value,omitempty"`
	Items     []Item `json:"items"`
}

// Len returns the number of sampled questions.
func (in *Instance) Len() int {
	if in == nil {
		return 0
	}
	return len(in.Items)
}

// Answer is the participant's selection for one question.
// The zero value means no selection.
type Answer struct {
	Text     string `json:"text,omitempty"`
	Selected bool   `json:"selected"`
}

// Choose returns an Answer selecting text.
func Choose(text string) Answer { return Answer{Text: text, Selected: true} }

// normLabel is the comparison form for answer-key labels.
func normLabel(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }

package bank

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mind-engage/safety-quiz/internal/quiz"
)

var (
	ErrMissingColumns = errors.New("missing required columns")
	ErrBankNotFound   = errors.New("question bank not found")
)

// Canonical column names.
const (
	ColTopic        = "topic"
	ColCode         = "code"
	ColQuestion     = "question_text"
	ColOptionA      = "option_a"
	ColOptionB      = "option_b"
	ColOptionC      = "option_c"
	ColOptionD      = "option_d"
	ColCorrectLabel = "correct_label"
	ColReference    = "reference"
)

var required = []string{ColTopic, ColCode, ColQuestion, ColOptionA, ColOptionB, ColOptionC, ColOptionD, ColCorrectLabel}

// aliases maps accepted header spellings to canonical names.
var aliases = map[string]string{
	"argomento":         ColTopic,
	"modulo":            ColTopic,
	"codice":            ColCode,
	"domanda":           ColQuestion,
	"question":          ColQuestion,
	"testo_domanda":     ColQuestion,
	"opzione_a":         ColOptionA,
	"opzione_b":         ColOptionB,
	"opzione_c":         ColOptionC,
	"opzione_d":         ColOptionD,
	"risposta_a":        ColOptionA,
	"risposta_b":        ColOptionB,
	"risposta_c":        ColOptionC,
	"risposta_d":        ColOptionD,
	"a":                 ColOptionA,
	"b":                 ColOptionB,
	"c":                 ColOptionC,
	"d":                 ColOptionD,
	"corretta":          ColCorrectLabel,
	"risposta_corretta": ColCorrectLabel,
	"correct":           ColCorrectLabel,
	"answer":            ColCorrectLabel,
	"riferimento":       ColReference,
}

// Bank is a loaded question table before topic filtering.
type Bank struct {
	ID      string
	Records []quiz.Record
}

// Topics returns the distinct topics in the bank, sorted.
func (b *Bank) Topics() []string {
	seen := map[string]bool{}
	var out []string
	for _, r := range b.Records {
		t := strings.TrimSpace(r.Topic)
		if t == "" || seen[strings.ToLower(t)] {
			continue
		}
		seen[strings.ToLower(t)] = true
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Pool returns the records for topic. An empty pool is reported as quiz.ErrEmptyPool.
func (b *Bank) Pool(topic string) ([]quiz.Record, error) {
	pool := quiz.FilterTopic(b.Records, topic)
	if len(pool) == 0 {
		return nil, fmt.Errorf("bank %s, topic %q: %w", b.ID, topic, quiz.ErrEmptyPool)
	}
	return pool, nil
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	h = strings.Join(strings.Fields(h), "_")
	if c, ok := aliases[h]; ok {
		return c
	}
	return h
}

// fromRows builds a bank from a header row followed by data rows.
func fromRows(id string, rows [][]string) (*Bank, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("bank %s: %w: %s", id, ErrMissingColumns, strings.Join(required, ", "))
	}
	idx := map[string]int{}
	for i, h := range rows[0] {
		if _, dup := idx[normalizeHeader(h)]; !dup {
			idx[normalizeHeader(h)] = i
		}
	}
	var missing []string
	for _, k := range required {
		if _, ok := idx[k]; !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("bank %s: %w: %s", id, ErrMissingColumns, strings.Join(missing, ", "))
	}

	get := func(rec []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	b := &Bank{ID: id}
	for _, rec := range rows[1:] {
		if blank(rec) {
			continue
		}
		b.Records = append(b.Records, quiz.Record{
			Topic: get(rec, ColTopic),
			Code:  get(rec, ColCode),
			Text:  get(rec, ColQuestion),
			Options: [4]string{
				get(rec, ColOptionA),
				get(rec, ColOptionB),
				get(rec, ColOptionC),
				get(rec, ColOptionD),
			},
			CorrectLabel: get(rec, ColCorrectLabel),
			Reference:    get(rec, ColReference),
		})
	}
	return b, nil
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

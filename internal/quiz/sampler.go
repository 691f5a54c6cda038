package quiz

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
)

var (
	ErrEmptyPool    = errors.New("no questions for the selected topic")
	ErrInvalidInput = errors.New("invalid input")
)

// Config is the participant-supplied quiz configuration.
type Config struct {
	Topic string
	Count int
	Seed  string
}

// SeedValue hashes a seed string to a stable 32-bit value: the SHA-256
// digest read as a big-endian integer, reduced modulo 2^32.
func SeedValue(seed string) uint32 {
	sum := sha256.Sum256([]byte(seed))
	return binary.BigEndian.Uint32(sum[len(sum)-4:])
}

// NewRand returns the generator shared by sampling and shuffling for one
// prepare call. An empty seed yields a non-reproducible generator.
func NewRand(seed string) (*rand.Rand, uint32, bool) {
	seed = strings.TrimSpace(seed)
	if seed == "" {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())), 0, false
	}
	v := SeedValue(seed)
	return rand.New(rand.NewPCG(uint64(v), 0)), v, true
}

// Sample draws min(k, len(pool)) distinct records in random order.
func Sample(rng *rand.Rand, pool []Record, k int) []Record {
	if k > len(pool) {
		k = len(pool)
	}
	if k <= 0 {
		return nil
	}
	idx := rng.Perm(len(pool))[:k]
	out := make([]Record, k)
	for i, j := range idx {
		out[i] = pool[j]
	}
	return out
}

// Shuffle builds the display options of rec in source order A..D, permutes
// them with rng and resolves the position of the correct label.
func Shuffle(rng *rand.Rand, rec Record) Item {
	opts := make([]Option, len(Labels))
	for i, l := range Labels {
		opts[i] = Option{Label: l, Text: rec.Options[i]}
	}
	rng.Shuffle(len(opts), func(i, j int) { opts[i], opts[j] = opts[j], opts[i] })

	it := Item{Record: rec, Options: opts}
	want := normLabel(rec.CorrectLabel)
	for i, o := range opts {
		if o.Label == want {
			idx := i
			it.CorrectIndex = &idx
			break
		}
	}
	return it
}

// Prepare samples a quiz from an already topic-filtered pool.
func Prepare(pool []Record, cfg Config) (*Instance, error) {
	if cfg.Count < 1 {
		return nil, fmt.Errorf("%w: question count must be at least 1, got %d", ErrInvalidInput, cfg.Count)
	}
	if len(pool) == 0 {
		return nil, ErrEmptyPool
	}
	rng, v, seeded := NewRand(cfg.Seed)
	recs := Sample(rng, pool, cfg.Count)
	in := &Instance{
		Topic:     cfg.Topic,
		Seed:      strings.TrimSpace(cfg.Seed),
		Seeded:    seeded,
		SeedValue: v,
		Items:     make([]Item, len(recs)),
	}
	for i, rec := range recs {
		in.Items[i] = Shuffle(rng, rec)
	}
	return in, nil
}

// FilterTopic returns the records whose topic matches topic, ignoring case
// and surrounding space. An empty topic or "*" keeps every record.
func FilterTopic(records []Record, topic string) []Record {
	topic = strings.TrimSpace(topic)
	if topic == "" || topic == "*" {
		out := make([]Record, len(records))
		copy(out, records)
		return out
	}
	var out []Record
	for _, r := range records {
		if strings.EqualFold(strings.TrimSpace(r.Topic), topic) {
			out = append(out, r)
		}
	}
	return out
}

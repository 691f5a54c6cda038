package quiz

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
)

func testPool(n int) []Record {
	out := make([]Record, n)
	for i := range out {
		out[i] = Record{
			Topic:        "Antincendio",
			Code:         fmt.Sprintf("Q%02d", i+1),
			Text:         fmt.Sprintf("Question %d?", i+1),
			Options:      [4]string{fmt.Sprintf("a%d", i), fmt.Sprintf("b%d", i), fmt.Sprintf("c%d", i), fmt.Sprintf("d%d", i)},
			CorrectLabel: "B",
		}
	}
	return out
}

func codes(in *Instance) []string {
	out := make([]string, len(in.Items))
	for i, it := range in.Items {
		out[i] = it.Record.Code
	}
	return out
}

func TestSeedValueStable(t *testing.T) {
	if SeedValue("abc") != SeedValue("abc") {
		t.Fatalf("seed hash not stable")
	}
	// sha256("abc") ends in ...f20015ad
	if got := SeedValue("abc"); got != 0xf20015ad {
		t.Fatalf("SeedValue(abc) = %#x, want 0xf20015ad", got)
	}
	if SeedValue("abc") == SeedValue("xyz") {
		t.Fatalf("different seeds hashed to the same value")
	}
}

func TestPrepareSameSeedReproducesQuiz(t *testing.T) {
	pool := testPool(5)
	a, err := Prepare(pool, Config{Count: 5, Seed: "abc"})
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	b, err := Prepare(pool, Config{Count: 5, Seed: "abc"})
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if !reflect.DeepEqual(a.Items, b.Items) {
		t.Fatalf("same seed produced different quizzes:\n%v\n%v", codes(a), codes(b))
	}
	if !a.Seeded || a.SeedValue != SeedValue("abc") {
		t.Fatalf("seed metadata not recorded: %+v", a)
	}

	c, err := Prepare(pool, Config{Count: 5, Seed: "xyz"})
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if reflect.DeepEqual(a.Items, c.Items) {
		t.Fatalf("seeds abc and xyz produced identical quizzes")
	}
}

func TestPrepareSeedIsTrimmed(t *testing.T) {
	pool := testPool(8)
	a, _ := Prepare(pool, Config{Count: 4, Seed: "  corso-2024 "})
	b, _ := Prepare(pool, Config{Count: 4, Seed: "corso-2024"})
	if !reflect.DeepEqual(a.Items, b.Items) {
		t.Fatalf("surrounding spaces changed the quiz")
	}
}

func TestPrepareNoDuplicatesAndClamp(t *testing.T) {
	cases := []struct {
		pool, k, want int
	}{
		{10, 3, 3},
		{10, 10, 10},
		{4, 9, 4},
		{1, 1, 1},
	}
	for _, tc := range cases {
		in, err := Prepare(testPool(tc.pool), Config{Count: tc.k})
		if err != nil {
			t.Fatalf("prepare(%d,%d): %v", tc.pool, tc.k, err)
		}
		if in.Len() != tc.want {
			t.Fatalf("prepare(%d,%d) len = %d, want %d", tc.pool, tc.k, in.Len(), tc.want)
		}
		seen := map[string]bool{}
		for _, c := range codes(in) {
			if seen[c] {
				t.Fatalf("duplicate question %s", c)
			}
			seen[c] = true
		}
		if in.Seeded {
			t.Fatalf("unseeded quiz marked as seeded")
		}
	}
}

func TestPrepareErrors(t *testing.T) {
	if _, err := Prepare(nil, Config{Count: 3}); !errors.Is(err, ErrEmptyPool) {
		t.Fatalf("empty pool: got %v", err)
	}
	if _, err := Prepare(testPool(3), Config{Count: 0}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("zero count: got %v", err)
	}
}

func TestShuffleResolvesCorrectIndex(t *testing.T) {
	rng, _, _ := NewRand("shuffle")
	cases := []struct {
		label    string
		wantText string
		scorable bool
	}{
		{"B", "two", true},
		{" c ", "three", true},
		{"a", "one", true},
		{"E", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		rec := Record{Code: "X", Options: [4]string{"one", "two", "three", "four"}, CorrectLabel: tc.label}
		it := Shuffle(rng, rec)
		if it.Scorable() != tc.scorable {
			t.Fatalf("label %q: scorable = %v, want %v", tc.label, it.Scorable(), tc.scorable)
		}
		if got := it.CorrectText(); got != tc.wantText {
			t.Fatalf("label %q: correct text = %q, want %q", tc.label, got, tc.wantText)
		}
		if len(it.Options) != 4 {
			t.Fatalf("expected 4 options, got %d", len(it.Options))
		}
		for _, o := range it.Options {
			if rec.Options[labelIndex(o.Label)] != o.Text {
				t.Fatalf("option %s lost its text: %q", o.Label, o.Text)
			}
		}
	}
}

func labelIndex(l string) int {
	for i, x := range Labels {
		if x == l {
			return i
		}
	}
	return -1
}

func TestFilterTopic(t *testing.T) {
	recs := []Record{{Topic: "Antincendio"}, {Topic: " primo soccorso "}, {Topic: "ANTINCENDIO"}}
	if got := len(FilterTopic(recs, "antincendio")); got != 2 {
		t.Fatalf("filter antincendio = %d, want 2", got)
	}
	if got := len(FilterTopic(recs, "Primo Soccorso")); got != 1 {
		t.Fatalf("filter primo soccorso = %d, want 1", got)
	}
	if got := len(FilterTopic(recs, "*")); got != 3 {
		t.Fatalf("filter * = %d, want 3", got)
	}
	if got := len(FilterTopic(recs, "rischio elettrico")); got != 0 {
		t.Fatalf("filter unknown = %d, want 0", got)
	}
}

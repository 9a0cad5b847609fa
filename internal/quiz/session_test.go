package quiz

import (
	"errors"
	"math/rand"
	"testing"
)

func kanaOf(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Kana
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sessionOf(kanas ...string) Session {
	s := Session{ID: "test", Quizzed: []Item{}}
	for _, k := range kanas {
		s.Unquizzed = append(s.Unquizzed, Item{Kana: k, AssignedFont: FontSans})
	}
	return s
}

func TestNewSession(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	s, err := NewSession([]string{"あ", "い", "う"}, Fixed(FontSerif), rng)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if s.ID == "" {
		t.Error("session has no ID")
	}
	if len(s.Unquizzed) != SessionSize {
		t.Errorf("len(Unquizzed) = %d, want %d", len(s.Unquizzed), SessionSize)
	}
	if len(s.Quizzed) != 0 {
		t.Errorf("len(Quizzed) = %d, want 0", len(s.Quizzed))
	}
	for i, it := range s.Unquizzed {
		if it.AssignedFont != FontSerif {
			t.Errorf("Unquizzed[%d].AssignedFont = %q, want %q", i, it.AssignedFont, FontSerif)
		}
	}
}

func TestNewSessionEmpty(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	if _, err := NewSession(nil, Random(), rng); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("NewSession(nil) error = %v, want ErrInvalidInput", err)
	}
}

func TestSessionPop(t *testing.T) {
	s := sessionOf("a", "b")
	next, err := s.Pop(func(it Item) Item {
		it.IsCorrectAnswer = true
		return it
	})
	if err != nil {
		t.Fatalf("Pop: %v", err)
	}

	if got := kanaOf(next.Unquizzed); !equalStrings(got, []string{"b"}) {
		t.Errorf("Unquizzed = %v, want [b]", got)
	}
	if len(next.Quizzed) != 1 || next.Quizzed[0].Kana != "a" || !next.Quizzed[0].IsCorrectAnswer {
		t.Errorf("Quizzed = %+v, want [{a correct}]", next.Quizzed)
	}

	// The receiver is untouched.
	if got := kanaOf(s.Unquizzed); !equalStrings(got, []string{"a", "b"}) {
		t.Errorf("original Unquizzed = %v, want [a b]", got)
	}
	if len(s.Quizzed) != 0 {
		t.Errorf("original Quizzed = %v, want empty", s.Quizzed)
	}
}

func TestSessionPopEmpty(t *testing.T) {
	s := sessionOf()
	next, err := s.Pop(func(it Item) Item { return it })
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("Pop on empty error = %v, want ErrInvalidState", err)
	}
	if len(next.Unquizzed) != 0 || len(next.Quizzed) != 0 {
		t.Errorf("Pop on empty changed session: %+v", next)
	}
}

func TestSessionInsert(t *testing.T) {
	tests := []struct {
		name  string
		index int
		want  []string
	}{
		{"front", 0, []string{"x", "a", "b"}},
		{"middle", 1, []string{"a", "x", "b"}},
		{"back", 2, []string{"a", "b", "x"}},
		{"negative clamps to front", -4, []string{"x", "a", "b"}},
		{"past end clamps to back", 9, []string{"a", "b", "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(1))
			s := sessionOf("a", "b")
			next := s.Insert(tt.index, Item{Kana: "x"}, Fixed(FontSerif), rng)
			if got := kanaOf(next.Unquizzed); !equalStrings(got, tt.want) {
				t.Errorf("Unquizzed = %v, want %v", got, tt.want)
			}
			if got := kanaOf(s.Unquizzed); !equalStrings(got, []string{"a", "b"}) {
				t.Errorf("original Unquizzed = %v, want [a b]", got)
			}
		})
	}
}

func TestSessionInsertAssignsFont(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	s := sessionOf("a", "b")

	next := s.Insert(0, Item{Kana: "x"}, Fixed(FontSerif), rng)
	if got := next.Unquizzed[0].AssignedFont; got != FontSerif {
		t.Errorf("inserted font = %q, want %q", got, FontSerif)
	}

	next = s.Insert(0, Item{Kana: "y", AssignedFont: FontSans}, Fixed(FontSerif), rng)
	if got := next.Unquizzed[0].AssignedFont; got != FontSans {
		t.Errorf("inserted font = %q, want existing %q kept", got, FontSans)
	}
}

func TestSessionWithFonts(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	s := sessionOf("a", "b", "c")
	s, _ = s.Pop(func(it Item) Item { return it })

	next := s.WithFonts(Fixed(FontSerif), rng)
	for _, it := range append(next.Unquizzed, next.Quizzed...) {
		if it.AssignedFont != FontSerif {
			t.Errorf("%s font = %q, want %q", it.Kana, it.AssignedFont, FontSerif)
		}
	}
	for _, it := range append(s.Unquizzed, s.Quizzed...) {
		if it.AssignedFont != FontSans {
			t.Errorf("original %s font changed to %q", it.Kana, it.AssignedFont)
		}
	}
}

func TestSessionWithFontsRandomRedraws(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	s, err := NewSession(letters(20), Fixed(FontSans), rng)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	first := s.WithFonts(Random(), rng)
	second := first.WithFonts(Random(), rng)

	same := true
	for i := range first.Unquizzed {
		if first.Unquizzed[i].AssignedFont != second.Unquizzed[i].AssignedFont {
			same = false
		}
	}
	// 20 independent coin flips matching exactly is a 1 in 2^20 event.
	if same {
		t.Error("two random refreshes produced identical font assignments")
	}
}

func TestSessionScoreAndMissed(t *testing.T) {
	s := Session{
		Quizzed: []Item{
			{Kana: "a", IsCorrectAnswer: true},
			{Kana: "i", IncorrectTimes: 2},
			{Kana: "u", IsCorrectAnswer: true},
			{Kana: "i", IncorrectTimes: 1},
			{Kana: "e", IncorrectTimes: 1},
		},
		Unquizzed: []Item{{Kana: "o"}},
	}

	passed, failed := s.Score()
	if passed != 2 || failed != 3 {
		t.Errorf("Score() = %d, %d, want 2, 3", passed, failed)
	}
	if got := s.Missed(); !equalStrings(got, []string{"i", "e"}) {
		t.Errorf("Missed() = %v, want [i e]", got)
	}
	done, total := s.Progress()
	if done != 5 || total != 6 {
		t.Errorf("Progress() = %d/%d, want 5/6", done, total)
	}
	if s.Done() {
		t.Error("Done() = true with an unquizzed item left")
	}
	if cur, ok := s.Current(); !ok || cur.Kana != "o" {
		t.Errorf("Current() = %v, %v, want o, true", cur, ok)
	}
}

// Package quiz holds kana quiz sessions: sequence generation, font
// assignment, and the store that persists the active session.
package quiz

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// Item is one kana to type and the record of how it was answered.
type Item struct {
	Kana            string        `json:"kana"`
	Answered        string        `json:"answered,omitempty"`
	IncorrectTimes  int           `json:"incorrectTimes,omitempty"`
	IsCorrectAnswer bool          `json:"isCorrectAnswer,omitempty"`
	Duration        time.Duration `json:"duration,omitempty"`
	AssignedFont    string        `json:"assignedFont,omitempty"`
}

// Session is one practice round. Unquizzed is in presentation order;
// Quizzed is in completion order.
//
// Methods never modify the receiver; they return the next session.
type Session struct {
	ID        string `json:"id"`
	Unquizzed []Item `json:"unquizzed"`
	Quizzed   []Item `json:"quizzed"`
}

// NewSession generates a session of SessionSize items drawn from kanas.
func NewSession(kanas []string, pref FontPreference, rng *rand.Rand) (Session, error) {
	seq, err := Sequence(kanas, SessionSize, rng)
	if err != nil {
		return Session{}, err
	}

	items := make([]Item, len(seq))
	for i, k := range seq {
		items[i] = Item{Kana: k, AssignedFont: AssignFont(pref, rng)}
	}

	return Session{
		ID:        uuid.NewString(),
		Unquizzed: items,
		Quizzed:   []Item{},
	}, nil
}

// Insert places item at index in Unquizzed (0 is the front). The index is
// clamped to [0, len(Unquizzed)]. An item without a font gets one from pref.
func (s Session) Insert(index int, item Item, pref FontPreference, rng *rand.Rand) Session {
	if index < 0 {
		index = 0
	}
	if index > len(s.Unquizzed) {
		index = len(s.Unquizzed)
	}
	if item.AssignedFont == "" {
		item.AssignedFont = AssignFont(pref, rng)
	}

	unquizzed := make([]Item, 0, len(s.Unquizzed)+1)
	unquizzed = append(unquizzed, s.Unquizzed[:index]...)
	unquizzed = append(unquizzed, item)
	unquizzed = append(unquizzed, s.Unquizzed[index:]...)

	return Session{
		ID:        s.ID,
		Unquizzed: unquizzed,
		Quizzed:   cloneItems(s.Quizzed),
	}
}

// Pop moves the front unquizzed item through fn onto the back of Quizzed.
func (s Session) Pop(fn func(Item) Item) (Session, error) {
	if len(s.Unquizzed) == 0 {
		return s, fmt.Errorf("popping item: %w", ErrInvalidState)
	}

	done := s.Unquizzed[0]
	if fn != nil {
		done = fn(done)
	}

	quizzed := make([]Item, 0, len(s.Quizzed)+1)
	quizzed = append(quizzed, s.Quizzed...)
	quizzed = append(quizzed, done)

	return Session{
		ID:        s.ID,
		Unquizzed: cloneItems(s.Unquizzed[1:]),
		Quizzed:   quizzed,
	}, nil
}

// WithFonts reassigns the font of every item in both queues. With a random
// preference each item is drawn again independently.
func (s Session) WithFonts(pref FontPreference, rng *rand.Rand) Session {
	refresh := func(items []Item) []Item {
		out := make([]Item, len(items))
		for i, it := range items {
			it.AssignedFont = AssignFont(pref, rng)
			out[i] = it
		}
		return out
	}

	return Session{
		ID:        s.ID,
		Unquizzed: refresh(s.Unquizzed),
		Quizzed:   refresh(s.Quizzed),
	}
}

// Current returns the next item to present.
func (s Session) Current() (Item, bool) {
	if len(s.Unquizzed) == 0 {
		return Item{}, false
	}
	return s.Unquizzed[0], true
}

// Done reports whether every item has been quizzed.
func (s Session) Done() bool {
	return len(s.Unquizzed) == 0
}

// Progress returns the number of quizzed items and the session total.
func (s Session) Progress() (done, total int) {
	return len(s.Quizzed), len(s.Quizzed) + len(s.Unquizzed)
}

// Score counts quizzed items answered correctly on the first try and the rest.
func (s Session) Score() (passed, failed int) {
	for _, it := range s.Quizzed {
		if it.IsCorrectAnswer {
			passed++
		} else {
			failed++
		}
	}
	return passed, failed
}

// Missed returns the distinct kana answered incorrectly, in order of first miss.
func (s Session) Missed() []string {
	var missed []string
	seen := make(map[string]bool)
	for _, it := range s.Quizzed {
		if it.IsCorrectAnswer || seen[it.Kana] {
			continue
		}
		seen[it.Kana] = true
		missed = append(missed, it.Kana)
	}
	return missed
}

func cloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

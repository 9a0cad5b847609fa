package quiz

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/f3rmion/typekana/internal/storage"
)

// SlotName is the storage slot holding the active session.
const SlotName = "quiz-session"

// StoreDeps are the live values a Store reads when it builds or refreshes a
// session. Dictionary and Font are called on every operation that needs them,
// so callers may back them with settings that change at runtime.
type StoreDeps struct {
	Dictionary func() []string
	Font       func() FontPreference
	Rand       *rand.Rand
}

// Store owns the active Session. Readers observe it through Subscribe; all
// changes go through the Store's operations, each of which persists the new
// session before subscribers are told about it.
type Store struct {
	slot *storage.Persistent[Session]
	deps StoreDeps
}

// OpenStore loads the session stored under key, generating a fresh one from
// the dictionary if there is none.
func OpenStore(ctx context.Context, backend storage.Backend, key string, deps StoreDeps) (*Store, error) {
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if deps.Font == nil {
		deps.Font = func() FontPreference { return Fixed(DefaultFont) }
	}
	if deps.Dictionary == nil {
		deps.Dictionary = func() []string { return nil }
	}

	s := &Store{deps: deps}
	slot, err := storage.Open(ctx, backend, key, s.generate)
	if err != nil {
		return nil, err
	}
	s.slot = slot

	if slot.Get().ID == "" {
		log.Printf("quiz: stored session at %s has no id, starting a new one", key)
		fresh, err := s.generate()
		if err != nil {
			return nil, err
		}
		if err := slot.Set(ctx, fresh); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Key returns the storage key the session is kept under.
func (s *Store) Key() string {
	return s.slot.Key()
}

func (s *Store) generate() (Session, error) {
	return NewSession(s.deps.Dictionary(), s.deps.Font(), s.deps.Rand)
}

// Session returns the current session.
func (s *Store) Session() Session {
	return s.slot.Get()
}

// Subscribe calls fn with the current session now and after every change.
func (s *Store) Subscribe(fn func(Session)) (unsubscribe func()) {
	return s.slot.Subscribe(fn)
}

// Insert puts item into the unquizzed queue at index (0 is next). Out of
// range indexes are clamped to the ends of the queue.
func (s *Store) Insert(ctx context.Context, index int, item Item) error {
	return s.slot.Update(ctx, func(cur Session) (Session, error) {
		return cur.Insert(index, item, s.deps.Font(), s.deps.Rand), nil
	})
}

// Pop finishes the next item: fn receives it and its result is appended to
// the quizzed queue. It returns ErrInvalidState once the session is done.
func (s *Store) Pop(ctx context.Context, fn func(Item) Item) error {
	return s.slot.Update(ctx, func(cur Session) (Session, error) {
		return cur.Pop(fn)
	})
}

// Reset starts a new session from the current dictionary.
func (s *Store) Reset(ctx context.Context) error {
	return s.ResetWithKanas(ctx, s.deps.Dictionary())
}

// ResetWithKanas starts a new session drawn from kanas only.
func (s *Store) ResetWithKanas(ctx context.Context, kanas []string) error {
	return s.slot.Update(ctx, func(Session) (Session, error) {
		return NewSession(kanas, s.deps.Font(), s.deps.Rand)
	})
}

// UpdateFonts reassigns every item's font from the current preference.
func (s *Store) UpdateFonts(ctx context.Context) error {
	return s.slot.Update(ctx, func(cur Session) (Session, error) {
		return cur.WithFonts(s.deps.Font(), s.deps.Rand), nil
	})
}

// Clear drops the stored session so the next OpenStore starts fresh.
func (s *Store) Clear(ctx context.Context) error {
	return s.slot.Clear(ctx)
}

package storage

import (
	"context"
	"errors"
	"testing"
)

type counter struct {
	N int `json:"n"`
}

func startAt(n int) func() (counter, error) {
	return func() (counter, error) { return counter{N: n}, nil }
}

func TestOpenInitialisesAbsentKey(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()

	p, err := Open(ctx, b, "c", startAt(5))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if p.Get().N != 5 {
		t.Errorf("Get().N = %d, want 5", p.Get().N)
	}
	if _, err := b.Get(ctx, "c"); err != nil {
		t.Errorf("start value not written: %v", err)
	}
}

func TestOpenKeepsStoredValue(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()
	if err := b.Set(ctx, "c", []byte(`{"n":9}`)); err != nil {
		t.Fatalf("Set: %v", err)
	}

	called := false
	p, err := Open(ctx, b, "c", func() (counter, error) {
		called = true
		return counter{}, nil
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if called {
		t.Error("start called although a value was stored")
	}
	if p.Get().N != 9 {
		t.Errorf("Get().N = %d, want 9", p.Get().N)
	}
}

func TestOpenReplacesUndecodableValue(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()
	if err := b.Set(ctx, "c", []byte(`not json`)); err != nil {
		t.Fatalf("Set: %v", err)
	}

	p, err := Open(ctx, b, "c", startAt(3))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if p.Get().N != 3 {
		t.Errorf("Get().N = %d, want 3", p.Get().N)
	}
}

func TestOpenStartError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Open(context.Background(), NewMemoryBackend(), "c", func() (counter, error) {
		return counter{}, boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("Open error = %v, want %v", err, boom)
	}
}

func TestPersistentUpdateAndSubscribe(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()
	p, err := Open(ctx, b, "c", startAt(0))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	var seen []int
	unsubscribe := p.Subscribe(func(c counter) { seen = append(seen, c.N) })

	inc := func(c counter) (counter, error) {
		c.N++
		return c, nil
	}
	if err := p.Update(ctx, inc); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := p.Set(ctx, counter{N: 10}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	unsubscribe()
	if err := p.Update(ctx, inc); err != nil {
		t.Fatalf("Update: %v", err)
	}

	want := []int{0, 1, 10}
	if len(seen) != len(want) {
		t.Fatalf("seen = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("seen = %v, want %v", seen, want)
		}
	}

	reloaded, err := Open(ctx, b, "c", startAt(0))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if reloaded.Get().N != 11 {
		t.Errorf("reloaded N = %d, want 11", reloaded.Get().N)
	}
}

func TestPersistentUpdateErrorKeepsValue(t *testing.T) {
	ctx := context.Background()
	p, err := Open(ctx, NewMemoryBackend(), "c", startAt(4))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	boom := errors.New("boom")
	err = p.Update(ctx, func(c counter) (counter, error) {
		return counter{N: 99}, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Update error = %v, want %v", err, boom)
	}
	if p.Get().N != 4 {
		t.Errorf("Get().N = %d, want 4", p.Get().N)
	}
}

func TestPersistentClear(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()
	p, err := Open(ctx, b, "c", startAt(1))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := p.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := b.Get(ctx, "c"); !errors.Is(err, ErrNotFound) {
		t.Errorf("backend still holds value after Clear: %v", err)
	}
}

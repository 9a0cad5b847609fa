package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
)

// Persistent is a typed value kept in one backend key. Every replacement is
// written through to the backend before subscribers see it.
type Persistent[T any] struct {
	backend Backend
	key     string

	mu     sync.Mutex
	value  T
	subs   []subscriber[T]
	nextID int
}

type subscriber[T any] struct {
	id int
	fn func(T)
}

// Open loads key from backend. When the key is absent, or holds a value that
// no longer decodes, start is called and its result stored.
func Open[T any](ctx context.Context, backend Backend, key string, start func() (T, error)) (*Persistent[T], error) {
	p := &Persistent[T]{backend: backend, key: key}

	data, err := backend.Get(ctx, key)
	switch {
	case err == nil:
		var stored T
		jsonErr := json.Unmarshal(data, &stored)
		if jsonErr == nil {
			p.value = stored
			return p, nil
		}
		log.Printf("storage: discarding undecodable value at %s: %v", key, jsonErr)
	case !errors.Is(err, ErrNotFound):
		return nil, err
	}

	v, err := start()
	if err != nil {
		return nil, err
	}
	if err := p.write(ctx, v); err != nil {
		return nil, err
	}
	p.value = v

	return p, nil
}

// Key returns the backend key of the slot.
func (p *Persistent[T]) Key() string {
	return p.key
}

// Get returns the current value.
func (p *Persistent[T]) Get() T {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value
}

// Set stores v and notifies subscribers.
func (p *Persistent[T]) Set(ctx context.Context, v T) error {
	return p.Update(ctx, func(T) (T, error) { return v, nil })
}

// Update replaces the value with fn applied to the current one. If fn or the
// backend write fails the value is left as it was.
func (p *Persistent[T]) Update(ctx context.Context, fn func(T) (T, error)) error {
	p.mu.Lock()
	next, err := fn(p.value)
	if err == nil {
		err = p.write(ctx, next)
	}
	if err != nil {
		p.mu.Unlock()
		return err
	}
	p.value = next
	subs := append([]subscriber[T](nil), p.subs...)
	p.mu.Unlock()

	for _, s := range subs {
		s.fn(next)
	}
	return nil
}

// Subscribe calls fn with the current value now and after every change.
// The returned function removes the subscription.
func (p *Persistent[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.subs = append(p.subs, subscriber[T]{id: id, fn: fn})
	current := p.value
	p.mu.Unlock()

	fn(current)

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		for i, s := range p.subs {
			if s.id == id {
				p.subs = append(p.subs[:i], p.subs[i+1:]...)
				return
			}
		}
	}
}

// Clear removes the stored value from the backend. The in-memory value is
// kept until the next Set.
func (p *Persistent[T]) Clear(ctx context.Context) error {
	return p.backend.Delete(ctx, p.key)
}

func (p *Persistent[T]) write(ctx context.Context, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", p.key, err)
	}
	return p.backend.Set(ctx, p.key, data)
}

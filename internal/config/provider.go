package config

import (
	"sync"

	"github.com/f3rmion/typekana/internal/quiz"
)

// Provider holds the live settings. Updates are saved to disk (when a path
// is set) and then pushed to subscribers. Close drops every subscriber.
type Provider struct {
	path string

	mu       sync.Mutex
	settings Settings
	font     quiz.FontPreference
	subs     map[int]func(Settings)
	nextID   int
	closed   bool
}

// NewProvider wraps s. An empty path keeps updates in memory only.
func NewProvider(path string, s Settings) *Provider {
	return &Provider{
		path:     path,
		settings: s,
		font:     parseFont(s),
		subs:     make(map[int]func(Settings)),
	}
}

// Current returns a copy of the current settings.
func (p *Provider) Current() Settings {
	p.mu.Lock()
	defer p.mu.Unlock()
	return clone(p.settings)
}

// Font returns the parsed font preference of the current settings.
func (p *Provider) Font() quiz.FontPreference {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.font
}

// Path returns the settings file the provider saves to.
func (p *Provider) Path() string {
	return p.path
}

// Update applies fn to a copy of the settings, saves the result and
// notifies subscribers. A failed save leaves the settings unchanged.
func (p *Provider) Update(fn func(*Settings)) error {
	p.mu.Lock()
	next := clone(p.settings)
	fn(&next)

	if p.path != "" {
		if err := Save(p.path, next); err != nil {
			p.mu.Unlock()
			return err
		}
	}

	if next.FontFamily != p.settings.FontFamily {
		p.font = parseFont(next)
	}
	p.settings = next
	subs := make([]func(Settings), 0, len(p.subs))
	for id := 0; id < p.nextID; id++ {
		if sub, ok := p.subs[id]; ok {
			subs = append(subs, sub)
		}
	}
	p.mu.Unlock()

	for _, sub := range subs {
		sub(clone(next))
	}
	return nil
}

// Subscribe registers fn to be called after every update. It returns a
// function that removes the subscription. Subscribing to a closed provider
// is a no-op.
func (p *Provider) Subscribe(fn func(Settings)) (unsubscribe func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return func() {}
	}

	id := p.nextID
	p.nextID++
	p.subs[id] = fn

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.subs, id)
	}
}

// Close removes all subscribers.
func (p *Provider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.subs = make(map[int]func(Settings))
}

func clone(s Settings) Settings {
	s.Groups = append([]string(nil), s.Groups...)
	if s.Fonts != nil {
		fonts := make(map[string]string, len(s.Fonts))
		for k, v := range s.Fonts {
			fonts[k] = v
		}
		s.Fonts = fonts
	}
	return s
}

package cmd

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"slices"

	"github.com/f3rmion/typekana/internal/config"
	"github.com/f3rmion/typekana/internal/kana"
	"github.com/f3rmion/typekana/internal/quiz"
	"github.com/f3rmion/typekana/internal/storage"
	"github.com/f3rmion/typekana/internal/tui/bigchar"
	"github.com/spf13/viper"
)

// app holds what the TUI and the session commands share.
type app struct {
	settings *config.Provider
	dict     *kana.Dictionary
	backend  storage.Backend
	storage  string
	key      string
	store    *quiz.Store
	unbind   func()
}

// openApp loads settings and the dictionary, opens the configured backend
// and restores (or starts) the session for the current terminal scope.
func openApp(ctx context.Context, configDir string) (*app, error) {
	a, err := openBackendOnly(ctx, configDir)
	if err != nil {
		return nil, err
	}

	store, err := quiz.OpenStore(ctx, a.backend, a.key, quiz.StoreDeps{
		Dictionary: dictionarySource(a.settings, a.dict),
		Font:       func() quiz.FontPreference { return a.settings.Font() },
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("opening session: %w", err)
	}
	a.store = store
	a.unbind = bindSettings(ctx, a.settings, store)

	return a, nil
}

// openBackendOnly does everything openApp does except touching the session.
func openBackendOnly(ctx context.Context, configDir string) (*app, error) {
	settings, err := loadSettings(configDir)
	if err != nil {
		return nil, err
	}

	dict, err := loadDictionary(settings.Current())
	if err != nil {
		return nil, err
	}

	backend, desc, err := openBackend(ctx, settings.Current().Storage, viper.GetString("storage"))
	if err != nil {
		return nil, err
	}

	scope := storage.Scope(viper.GetString("session"))
	log.Printf("session scope %s on %s", scope, desc)

	return &app{
		settings: settings,
		dict:     dict,
		backend:  backend,
		storage:  desc,
		key:      storage.SlotKey(scope, quiz.SlotName),
	}, nil
}

// Close releases the backend and settings subscriptions.
func (a *app) Close() {
	if a.unbind != nil {
		a.unbind()
	}
	a.settings.Close()
	if err := a.backend.Close(); err != nil {
		log.Printf("closing storage: %v", err)
	}
}

func (a *app) renderer() *bigchar.Renderer {
	return bigchar.NewRenderer(a.settings.Current().Fonts)
}

func loadSettings(configDir string) (*config.Provider, error) {
	path := filepath.Join(configDir, config.SettingsFile)
	s, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	return config.NewProvider(path, s), nil
}

func loadDictionary(s config.Settings) (*kana.Dictionary, error) {
	dict := kana.NewDictionary()
	if s.CustomKana != "" {
		if err := dict.LoadFromFile(config.ExpandHome(s.CustomKana)); err != nil {
			return nil, fmt.Errorf("loading custom kana: %w", err)
		}
	}
	return dict, nil
}

// openBackend opens the session storage named by override, or by the
// settings when override is empty. It also returns a short description for
// display.
func openBackend(ctx context.Context, cfg config.StorageConfig, override string) (storage.Backend, string, error) {
	name := cfg.Backend
	if override != "" {
		name = override
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = storage.DefaultTTL
	}

	switch name {
	case config.BackendMemory:
		return storage.NewMemoryBackend(), "memory (lost on exit)", nil

	case config.BackendRedis:
		b, err := storage.OpenRedis(ctx, storage.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: viper.GetString("redis_password"),
			DB:       cfg.RedisDB,
			TTL:      ttl,
		})
		if err != nil {
			return nil, "", err
		}
		return b, "redis " + cfg.RedisAddr, nil

	case "", config.BackendSQLite:
		path := cfg.Path
		if path == "" {
			path = storage.DefaultSQLitePath()
		}
		path = config.ExpandHome(path)
		b, err := storage.OpenSQLite(ctx, path, ttl)
		if err != nil {
			return nil, "", err
		}
		return b, "sqlite " + path, nil
	}

	return nil, "", fmt.Errorf("unknown storage backend %q (want %s, %s or %s)",
		name, config.BackendSQLite, config.BackendRedis, config.BackendMemory)
}

// dictionarySource returns the kana of the currently selected groups,
// falling back to the default groups when the selection is unusable.
func dictionarySource(p *config.Provider, dict *kana.Dictionary) func() []string {
	return func() []string {
		groups := p.Current().Groups
		kanas, err := dict.Kana(groups)
		if err == nil && len(kanas) > 0 {
			return kanas
		}
		log.Printf("groups %v unusable (%v), using %v", groups, err, kana.DefaultGroups)
		kanas, _ = dict.Kana(kana.DefaultGroups)
		return kanas
	}
}

// bindSettings keeps the session in step with settings changes: a new group
// selection starts a new round, a new font preference reassigns fonts.
func bindSettings(ctx context.Context, p *config.Provider, store *quiz.Store) (unbind func()) {
	last := p.Current()
	return p.Subscribe(func(s config.Settings) {
		groupsChanged := !slices.Equal(s.Groups, last.Groups)
		fontChanged := s.FontFamily != last.FontFamily
		last = s

		switch {
		case groupsChanged:
			if err := store.Reset(ctx); err != nil {
				log.Printf("reset after group change: %v", err)
			}
		case fontChanged:
			if err := store.UpdateFonts(ctx); err != nil {
				log.Printf("update fonts: %v", err)
			}
		}
	})
}

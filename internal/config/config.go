// Package config handles loading and saving user settings for typekana.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/f3rmion/typekana/internal/kana"
	"github.com/f3rmion/typekana/internal/quiz"
	"gopkg.in/yaml.v3"
)

// SettingsFile is the settings file name inside the config directory.
const SettingsFile = "settings.yaml"

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Settings holds all user configuration.
type Settings struct {
	FontFamily string            `yaml:"font_family"`           // "Noto Sans JP", "Hina Mincho" or "random"
	Groups     []string          `yaml:"groups"`                // kana groups to practice
	CustomKana string            `yaml:"custom_kana,omitempty"` // JSONL file with extra kana
	Fonts      map[string]string `yaml:"fonts,omitempty"`       // font label → font file
	Storage    StorageConfig     `yaml:"storage"`
}

// StorageConfig selects where the session is kept.
type StorageConfig struct {
	Backend   string        `yaml:"backend"`
	Path      string        `yaml:"path,omitempty"` // sqlite file; empty means the runtime dir
	RedisAddr string        `yaml:"redis_addr,omitempty"`
	RedisDB   int           `yaml:"redis_db,omitempty"`
	TTL       time.Duration `yaml:"ttl,omitempty"`
}

// Default returns the settings used when no file exists.
func Default() Settings {
	return Settings{
		FontFamily: quiz.DefaultFont,
		Groups:     append([]string(nil), kana.DefaultGroups...),
		Storage: StorageConfig{
			Backend:   BackendSQLite,
			RedisAddr: "localhost:6379",
		},
	}
}

// FontPreference parses FontFamily. Unknown values fall back to the default
// font; Provider reports them once per change.
func (s Settings) FontPreference() quiz.FontPreference {
	pref, _ := quiz.ParseFontPreference(s.FontFamily)
	return pref
}

func parseFont(s Settings) quiz.FontPreference {
	pref, err := quiz.ParseFontPreference(s.FontFamily)
	if err != nil {
		log.Printf("config: %v, using %s", err, pref)
	}
	return pref
}

// Load reads settings from path. Missing fields keep their defaults.
func Load(path string) (Settings, error) {
	s := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("reading settings file: %w", err)
	}

	if err := yaml.Unmarshal(data, &s); err != nil {
		return Default(), fmt.Errorf("parsing settings file: %w", err)
	}

	if len(s.Groups) == 0 {
		s.Groups = append([]string(nil), kana.DefaultGroups...)
	}
	if s.Storage.Backend == "" {
		s.Storage.Backend = BackendSQLite
	}

	return s, nil
}

// LoadOrDefault reads settings from path, returning defaults if the file
// does not exist.
func LoadOrDefault(path string) (Settings, error) {
	s, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return s, err
}

// Save writes settings to path as YAML.
func Save(path string, s Settings) error {
	out, err := yaml.Marshal(&s)
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("writing settings file: %w", err)
	}

	return nil
}

// GetConfigDir returns the default configuration directory.
func GetConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "typekana"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "typekana"), nil
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

package cmd

import (
	"bytes"
	"context"
	"math/rand"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/f3rmion/typekana/internal/config"
	"github.com/f3rmion/typekana/internal/kana"
	"github.com/f3rmion/typekana/internal/quiz"
	"github.com/f3rmion/typekana/internal/storage"
)

func TestOpenBackend(t *testing.T) {
	ctx := context.Background()

	b, desc, err := openBackend(ctx, config.StorageConfig{Backend: config.BackendSQLite}, config.BackendMemory)
	if err != nil {
		t.Fatalf("openBackend(memory): %v", err)
	}
	if _, ok := b.(*storage.MemoryBackend); !ok {
		t.Errorf("override gave %T, want *storage.MemoryBackend", b)
	}
	if !strings.HasPrefix(desc, "memory") {
		t.Errorf("desc = %q", desc)
	}

	path := filepath.Join(t.TempDir(), "session.db")
	b, desc, err = openBackend(ctx, config.StorageConfig{Backend: config.BackendSQLite, Path: path, TTL: time.Hour}, "")
	if err != nil {
		t.Fatalf("openBackend(sqlite): %v", err)
	}
	defer b.Close()
	if _, ok := b.(*storage.SQLiteBackend); !ok {
		t.Errorf("sqlite gave %T", b)
	}
	if desc != "sqlite "+path {
		t.Errorf("desc = %q", desc)
	}

	if _, _, err := openBackend(ctx, config.StorageConfig{Backend: "etcd"}, ""); err == nil {
		t.Error("unknown backend accepted")
	}
}

func TestDictionarySourceFallsBack(t *testing.T) {
	dict := kana.NewDictionary()
	s := config.Default()
	s.Groups = []string{"no-such-group"}
	p := config.NewProvider("", s)

	got := dictionarySource(p, dict)()
	want, _ := dict.Kana(kana.DefaultGroups)
	if !slices.Equal(got, want) {
		t.Errorf("fallback returned %d kana, want the %d default ones", len(got), len(want))
	}

	p.Update(func(s *config.Settings) { s.Groups = []string{kana.GroupKatakana} })
	got = dictionarySource(p, dict)()
	if len(got) == 0 || got[0] != "ア" {
		t.Errorf("katakana source starts with %v", got[:min(len(got), 1)])
	}
}

func openBoundStore(t *testing.T) (*config.Provider, *quiz.Store) {
	t.Helper()
	ctx := context.Background()
	p := config.NewProvider("", config.Default())
	dict := kana.NewDictionary()

	store, err := quiz.OpenStore(ctx, storage.NewMemoryBackend(), "test:"+quiz.SlotName, quiz.StoreDeps{
		Dictionary: dictionarySource(p, dict),
		Font:       func() quiz.FontPreference { return p.Current().FontPreference() },
		Rand:       rand.New(rand.NewSource(7)),
	})
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	t.Cleanup(bindSettings(ctx, p, store))
	return p, store
}

func TestBindSettingsFontChange(t *testing.T) {
	p, store := openBoundStore(t)
	before := store.Session()

	if err := p.Update(func(s *config.Settings) { s.FontFamily = quiz.FontSerif }); err != nil {
		t.Fatalf("Update: %v", err)
	}

	after := store.Session()
	if after.ID != before.ID {
		t.Error("font change started a new round")
	}
	for _, it := range after.Unquizzed {
		if it.AssignedFont != quiz.FontSerif {
			t.Fatalf("%s font = %q, want %q", it.Kana, it.AssignedFont, quiz.FontSerif)
		}
	}
}

func TestBindSettingsGroupChange(t *testing.T) {
	p, store := openBoundStore(t)
	before := store.Session().ID

	if err := p.Update(func(s *config.Settings) { s.Groups = []string{kana.GroupKatakana} }); err != nil {
		t.Fatalf("Update: %v", err)
	}

	after := store.Session()
	if after.ID == before {
		t.Fatal("group change kept the old round")
	}
	for _, it := range after.Unquizzed {
		if kana.ToKatakana(it.Kana) != it.Kana {
			t.Fatalf("drew %q after switching to katakana", it.Kana)
		}
	}
}

func TestSplitKana(t *testing.T) {
	got := splitKana("あ,い、う  え")
	want := []string{"あ", "い", "う", "え"}
	if !slices.Equal(got, want) {
		t.Errorf("splitKana = %v, want %v", got, want)
	}
}

func TestPrintSession(t *testing.T) {
	s := quiz.Session{
		ID:        "abc",
		Unquizzed: []quiz.Item{{Kana: "か", AssignedFont: quiz.FontSans}},
		Quizzed: []quiz.Item{
			{Kana: "あ", Answered: "a", IsCorrectAnswer: true, Duration: time.Second},
		},
	}

	var buf bytes.Buffer
	printSession(&buf, "tab:quiz-session", "memory", s)
	out := buf.String()

	for _, want := range []string{"Progress: 1/2", "か", quiz.FontSans, "  ✓ あ a"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func testBackend(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()

	if _, err := b.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(missing) error = %v, want ErrNotFound", err)
	}

	if err := b.Set(ctx, "k", []byte("one")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := b.Set(ctx, "k", []byte("two")); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	got, err := b.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "two" {
		t.Errorf("Get = %q, want %q", got, "two")
	}

	if err := b.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := b.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete error = %v, want ErrNotFound", err)
	}
}

func TestMemoryBackend(t *testing.T) {
	testBackend(t, NewMemoryBackend())
}

func TestMemoryBackendCopiesValues(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()
	v := []byte("abc")
	if err := b.Set(ctx, "k", v); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v[0] = 'x'
	got, _ := b.Get(ctx, "k")
	if string(got) != "abc" {
		t.Errorf("stored value aliased caller slice: %q", got)
	}
}

func openTestSQLite(t *testing.T, path string, ttl time.Duration) *SQLiteBackend {
	t.Helper()
	b, err := OpenSQLite(context.Background(), path, ttl)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { b.Close() })
	return b
}

func TestSQLiteBackend(t *testing.T) {
	b := openTestSQLite(t, filepath.Join(t.TempDir(), "nested", "session.db"), time.Hour)
	testBackend(t, b)
}

func TestSQLiteBackendSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.db")

	b, err := OpenSQLite(ctx, path, time.Hour)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := b.Set(ctx, "k", []byte("kept")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	b.Close()

	reopened := openTestSQLite(t, path, time.Hour)
	got, err := reopened.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if string(got) != "kept" {
		t.Errorf("Get = %q, want %q", got, "kept")
	}
}

func TestSQLiteBackendExpires(t *testing.T) {
	ctx := context.Background()
	b := openTestSQLite(t, filepath.Join(t.TempDir(), "session.db"), time.Hour)

	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return start }
	if err := b.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	b.now = func() time.Time { return start.Add(59 * time.Minute) }
	if _, err := b.Get(ctx, "k"); err != nil {
		t.Fatalf("Get before expiry: %v", err)
	}

	b.now = func() time.Time { return start.Add(61 * time.Minute) }
	if _, err := b.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after expiry error = %v, want ErrNotFound", err)
	}

	if err := b.prune(ctx); err != nil {
		t.Fatalf("prune: %v", err)
	}
	var n int
	if err := b.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM kv").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("rows after prune = %d, want 0", n)
	}
}

func TestOpenRedisUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := OpenRedis(ctx, RedisOptions{Addr: "127.0.0.1:1"}); err == nil {
		t.Error("OpenRedis succeeded against a closed port")
	}
}

func TestRedisKey(t *testing.T) {
	if got := redisKey("tab-1:quiz-session"); got != "typekana:tab-1:quiz-session" {
		t.Errorf("redisKey = %q", got)
	}
}

func openTestRedis(t *testing.T, ttl time.Duration) (*RedisBackend, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	b, err := OpenRedis(context.Background(), RedisOptions{Addr: srv.Addr(), TTL: ttl})
	if err != nil {
		t.Fatalf("OpenRedis: %v", err)
	}
	t.Cleanup(func() { b.Close() })
	return b, srv
}

func TestRedisBackend(t *testing.T) {
	b, _ := openTestRedis(t, time.Hour)
	testBackend(t, b)
}

func TestRedisBackendExpires(t *testing.T) {
	ctx := context.Background()
	b, srv := openTestRedis(t, time.Hour)

	if err := b.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := srv.TTL(redisKey("k")); got != time.Hour {
		t.Errorf("TTL after Set = %v, want %v", got, time.Hour)
	}

	srv.FastForward(30 * time.Minute)
	if err := b.Set(ctx, "k", []byte("w")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := srv.TTL(redisKey("k")); got != time.Hour {
		t.Errorf("TTL after rewrite = %v, want it refreshed to %v", got, time.Hour)
	}

	srv.FastForward(59 * time.Minute)
	if _, err := b.Get(ctx, "k"); err != nil {
		t.Fatalf("Get before expiry: %v", err)
	}

	srv.FastForward(2 * time.Minute)
	if _, err := b.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after expiry error = %v, want ErrNotFound", err)
	}
}

func TestRedisBackendDefaultTTL(t *testing.T) {
	b, srv := openTestRedis(t, 0)
	if err := b.Set(context.Background(), "k", []byte("v")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := srv.TTL(redisKey("k")); got != DefaultTTL {
		t.Errorf("TTL = %v, want DefaultTTL %v", got, DefaultTTL)
	}
}

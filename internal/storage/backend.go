// Package storage keeps small values scoped to one terminal session, so a
// restarted typekana picks up where it left off until the terminal goes away.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Backend.Get when the key holds no value.
var ErrNotFound = errors.New("storage: key not found")

// DefaultTTL bounds how long an untouched value survives in a backend.
const DefaultTTL = 12 * time.Hour

// Backend is a byte-oriented key-value store.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

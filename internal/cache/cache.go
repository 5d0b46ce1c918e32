package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

var (
	// ErrClosed is returned when a cache is used after Close
	ErrClosed = errors.New("cache closed")
	// ErrUnknownBackend is returned by the factory for an unrecognized backend name
	ErrUnknownBackend = errors.New("unknown cache backend")
)

// Backend names accepted by New and NewFromEnv
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendNone   = "none"
)

// Cache stores serialized segmenter responses by key.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value stored under key. The returned slice is owned by the caller.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key, replacing any previous value
	Set(ctx context.Context, key string, value []byte) error

	// Len returns the number of stored entries
	Len(ctx context.Context) (int, error)

	// Close releases any resources held by the cache
	Close() error
}

// Key derives a cache key from the segmenter name, the remote method, the
// input text and its language.
func Key(segmenter, method, text, language string) string {
	h := sha256.Sum256([]byte(strings.Join([]string{segmenter, method, language, text}, "\x00")))
	return hex.EncodeToString(h[:])
}

// Nop is a Cache that stores nothing
type Nop struct{}

// NewNop returns a cache that never hits
func NewNop() Nop { return Nop{} }

func (Nop) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (Nop) Set(context.Context, string, []byte) error         { return nil }
func (Nop) Len(context.Context) (int, error)                  { return 0, nil }
func (Nop) Close() error                                      { return nil }

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

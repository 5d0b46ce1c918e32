package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DefaultSQLiteFile is the database file name used under the user cache directory
const DefaultSQLiteFile = "budou-cache.db"

// Config holds cache configuration
type Config struct {
	Backend string
	Path    string
	Size    int
	TTL     time.Duration
}

// NewFromEnv creates a cache from environment variables:
//
//	BUDOU_CACHE       memory (default), sqlite or none
//	BUDOU_CACHE_PATH  SQLite database path
//	BUDOU_CACHE_SIZE  LRU entry limit
//	BUDOU_CACHE_TTL   SQLite entry lifetime as a Go duration, empty keeps entries forever
func NewFromEnv() (Cache, error) {
	cfg := Config{
		Backend: os.Getenv("BUDOU_CACHE"),
		Path:    os.Getenv("BUDOU_CACHE_PATH"),
	}

	if v := os.Getenv("BUDOU_CACHE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid BUDOU_CACHE_SIZE %q: %w", v, err)
		}
		cfg.Size = n
	}

	if v := os.Getenv("BUDOU_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid BUDOU_CACHE_TTL %q: %w", v, err)
		}
		cfg.TTL = d
	}

	return New(cfg)
}

// New creates a cache with explicit configuration
func New(cfg Config) (Cache, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	switch backend {
	case "", BackendMemory:
		return NewMemory(cfg.Size), nil
	case BackendSQLite:
		path := cfg.Path
		if path == "" {
			p, err := DefaultPath()
			if err != nil {
				return nil, err
			}
			path = p
		}
		return NewSQLite(path, cfg.TTL)
	case BackendNone:
		return NewNop(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, cfg.Backend)
	}
}

// DefaultPath returns the SQLite cache location under the user cache
// directory, creating the parent directory if needed.
func DefaultPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user cache directory: %w", err)
	}
	dir = filepath.Join(dir, "budou")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}
	return filepath.Join(dir, DefaultSQLiteFile), nil
}

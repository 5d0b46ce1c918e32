package cache

import (
	"context"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMemorySize is the entry limit used when none is configured
const DefaultMemorySize = 10000

// Memory is an in-process LRU cache
type Memory struct {
	lru    *lru.Cache[string, []byte]
	closed atomic.Bool
}

// NewMemory creates an LRU cache holding at most maxLen entries
func NewMemory(maxLen int) *Memory {
	if maxLen <= 0 {
		maxLen = DefaultMemorySize
	}
	c, err := lru.New[string, []byte](maxLen)
	if err != nil {
		c, _ = lru.New[string, []byte](DefaultMemorySize)
	}
	return &Memory{lru: c}
}

// Get returns a copy of the stored value so callers cannot mutate the cache
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	if m.closed.Load() {
		return nil, false, ErrClosed
	}
	v, ok := m.lru.Get(key)
	if !ok {
		return nil, false, nil
	}
	return clone(v), true, nil
}

// Set stores a copy of value, evicting the least recently used entry at capacity
func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	if m.closed.Load() {
		return ErrClosed
	}
	m.lru.Add(key, clone(value))
	return nil
}

func (m *Memory) Len(context.Context) (int, error) {
	if m.closed.Load() {
		return 0, ErrClosed
	}
	return m.lru.Len(), nil
}

// Clear empties the cache
func (m *Memory) Clear() {
	m.lru.Purge()
}

func (m *Memory) Close() error {
	if m.closed.Swap(true) {
		return nil
	}
	m.lru.Purge()
	return nil
}

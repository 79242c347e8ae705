package driver

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrKeyNotFound returned by KeyValueDB.Get when key is absent or expired
var ErrKeyNotFound = errors.New("key not found")

// KeyValueDB define a key-value storage interface
type KeyValueDB interface {
	SetEX(ctx context.Context, key string, value string, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Ping(ctx context.Context) error
}

type memoryEntry struct {
	value    string
	expireAt time.Time // zero means no expiration
}

// MemoryKV in-process KeyValueDB, used when no kv server is configured
type MemoryKV struct {
	mu    sync.Mutex
	items map[string]memoryEntry
	now   func() time.Time
}

var _ KeyValueDB = &MemoryKV{}

// NewMemoryKV create an empty MemoryKV
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{items: make(map[string]memoryEntry), now: time.Now}
}

// SetEX implement KeyValueDB, zero expiration keeps the key forever
func (m *MemoryKV) SetEX(ctx context.Context, key string, value string, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := memoryEntry{value: value}
	if expiration > 0 {
		entry.expireAt = m.now().Add(expiration)
	}
	m.items[key] = entry
	return nil
}

// Get implement KeyValueDB
func (m *MemoryKV) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.lookup(key)
	if !ok {
		return "", ErrKeyNotFound
	}
	return entry.value, nil
}

// Del implement KeyValueDB
func (m *MemoryKV) Del(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.items, key)
	return nil
}

// Exists implement KeyValueDB
func (m *MemoryKV) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.lookup(key)
	return ok, nil
}

// Ping implement KeyValueDB
func (m *MemoryKV) Ping(ctx context.Context) error {
	return nil
}

// lookup must be called with mu held
func (m *MemoryKV) lookup(key string) (memoryEntry, bool) {
	entry, ok := m.items[key]
	if !ok {
		return entry, false
	}
	if !entry.expireAt.IsZero() && !m.now().Before(entry.expireAt) {
		delete(m.items, key)
		return entry, false
	}
	return entry, true
}

package kv

import (
	"context"
	"strings"
	"sync"
)

// MemoryRepository keeps everything in process memory. It is used for the
// "memory" backend and in tests.
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string][]byte
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[string][]byte)}
}

func (m *MemoryRepository) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return clone(m.items[key]), nil
}

func (m *MemoryRepository) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = clone(value)
	return nil
}

func (m *MemoryRepository) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

func (m *MemoryRepository) List(_ context.Context, prefix string) (map[string][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string][]byte)
	for k, v := range m.items {
		if strings.HasPrefix(k, prefix) {
			result[k] = clone(v)
		}
	}
	return result, nil
}

func (m *MemoryRepository) Clear(_ context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for k := range m.items {
		if strings.HasPrefix(k, prefix) {
			delete(m.items, k)
		}
	}
	return nil
}

// Atomic holds the write lock for the whole callback and applies the staged
// writes only when fn succeeds.
func (m *MemoryRepository) Atomic(ctx context.Context, fn func(ctx context.Context, tx Repository) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memoryTx{
		base:    m.items,
		writes:  make(map[string][]byte),
		deletes: make(map[string]struct{}),
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}

	for k := range tx.deletes {
		delete(m.items, k)
	}
	for k, v := range tx.writes {
		m.items[k] = v
	}
	return nil
}

func (m *MemoryRepository) Close() error { return nil }

// memoryTx overlays staged writes and deletes on the locked base map.
type memoryTx struct {
	base    map[string][]byte
	writes  map[string][]byte
	deletes map[string]struct{}
}

func (t *memoryTx) Get(_ context.Context, key string) ([]byte, error) {
	if v, ok := t.writes[key]; ok {
		return clone(v), nil
	}
	if _, ok := t.deletes[key]; ok {
		return nil, nil
	}
	return clone(t.base[key]), nil
}

func (t *memoryTx) Set(_ context.Context, key string, value []byte) error {
	delete(t.deletes, key)
	t.writes[key] = clone(value)
	return nil
}

func (t *memoryTx) Delete(_ context.Context, key string) error {
	delete(t.writes, key)
	t.deletes[key] = struct{}{}
	return nil
}

func (t *memoryTx) List(ctx context.Context, prefix string) (map[string][]byte, error) {
	result := make(map[string][]byte)
	for k, v := range t.base {
		if _, gone := t.deletes[k]; !gone && strings.HasPrefix(k, prefix) {
			result[k] = clone(v)
		}
	}
	for k, v := range t.writes {
		if strings.HasPrefix(k, prefix) {
			result[k] = clone(v)
		}
	}
	return result, nil
}

func (t *memoryTx) Clear(ctx context.Context, prefix string) error {
	for k := range t.writes {
		if strings.HasPrefix(k, prefix) {
			delete(t.writes, k)
		}
	}
	for k := range t.base {
		if strings.HasPrefix(k, prefix) {
			t.deletes[k] = struct{}{}
		}
	}
	return nil
}

func (t *memoryTx) Atomic(ctx context.Context, fn func(ctx context.Context, tx Repository) error) error {
	return fn(ctx, t)
}

func (t *memoryTx) Close() error { return nil }

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

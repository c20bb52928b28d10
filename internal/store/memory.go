package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/ulimi/corpus-api/internal/model"
)

// Memory is an in-process document store. It backs tests and the seed
// command's dry-run mode.
type Memory struct {
	mu   sync.RWMutex
	docs map[string][]byte

	// Unavailable makes every Probe fail, simulating storage loss.
	Unavailable bool
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{docs: make(map[string][]byte)}
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.docs[key]
	if !ok {
		return nil, model.ErrNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (m *Memory) Put(ctx context.Context, key string, value []byte) error {
	if m.Unavailable {
		return model.ErrStorageUnavailable
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]byte, len(value))
	copy(stored, value)
	m.docs[key] = stored
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, key)
	return nil
}

func (m *Memory) Keys(ctx context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var keys []string
	for key := range m.docs {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *Memory) Probe(ctx context.Context) error {
	if m.Unavailable {
		return model.ErrStorageUnavailable
	}
	return nil
}

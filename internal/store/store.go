package store

import (
	"context"
	"errors"
	"sync"
)

// ErrNoSnapshot is returned by Load when nothing has been saved under the
// requested namespace yet.
var ErrNoSnapshot = errors.New("no snapshot for namespace")

// Snapshotter persists whole-state snapshots keyed by namespace. The ledger
// treats it as a plain key-value store: one opaque JSON document per key.
type Snapshotter interface {
	Load(ctx context.Context, namespace string) ([]byte, error)
	Save(ctx context.Context, namespace string, data []byte) error
}

// MemoryStore is an in-process Snapshotter used in tests and as a fallback
// when no durable backend is configured.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (m *MemoryStore) Load(_ context.Context, namespace string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.data[namespace]
	if !ok {
		return nil, ErrNoSnapshot
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

func (m *MemoryStore) Save(_ context.Context, namespace string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := make([]byte, len(data))
	copy(cp, data)
	m.data[namespace] = cp
	return nil
}

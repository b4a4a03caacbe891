package ledger

import (
	"context"
	"log/slog"
	"sync"

	"bizledger/internal/store"
)

// Manager hands out one Ledger per owner, loading each from its snapshot
// namespace on first use and caching it for the process lifetime.
type Manager struct {
	mu      sync.Mutex
	snap    store.Snapshotter
	opts    Options
	ledgers map[string]*Ledger
}

func NewManager(snap store.Snapshotter, mode AdjustmentMode, logger *slog.Logger) *Manager {
	return &Manager{
		snap:    snap,
		opts:    Options{Mode: mode, Logger: logger},
		ledgers: make(map[string]*Ledger),
	}
}

// Open returns the cached ledger for ownerID, loading it if needed.
func (m *Manager) Open(ctx context.Context, ownerID string) (*Ledger, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if l, ok := m.ledgers[ownerID]; ok {
		return l, nil
	}
	l, err := Open(ctx, m.snap, ownerID, m.opts)
	if err != nil {
		return nil, err
	}
	m.ledgers[ownerID] = l
	return l, nil
}

// FlushAll writes every open ledger synchronously. Called on shutdown so
// the persisted snapshots catch up with the in-memory state.
func (m *Manager) FlushAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var firstErr error
	for _, l := range m.ledgers {
		if err := l.Flush(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

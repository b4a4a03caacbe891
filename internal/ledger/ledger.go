package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"bizledger/internal/model"
	"bizledger/internal/store"
)

// AdjustmentMode controls how an "adjustment" transaction changes stock.
type AdjustmentMode string

const (
	// AdjustmentAbsolute treats the quantity as the new stock level.
	AdjustmentAbsolute AdjustmentMode = "absolute"
	// AdjustmentRelative treats the quantity as a signed delta.
	AdjustmentRelative AdjustmentMode = "relative"
)

const (
	// DefaultLowStockThreshold is used when a low-stock query passes <= 0.
	DefaultLowStockThreshold = 10

	flushTimeout = 5 * time.Second
)

// Options configures a Ledger at construction time.
type Options struct {
	Mode   AdjustmentMode
	Logger *slog.Logger
}

// Ledger is the in-memory business data store for one owner: products,
// vendors, transactions and the derived stock summaries. All access is
// guarded by one RWMutex; every mutation flushes a whole-state snapshot to
// the configured store asynchronously. The in-memory state is authoritative
// and immediately consistent; the persisted copy lags by at most one flush.
type Ledger struct {
	mu      sync.RWMutex
	ownerID string
	mode    AdjustmentMode
	snap    store.Snapshotter
	logger  *slog.Logger

	seq uint64 // bumped per mutation, guarded by mu

	flushMu    sync.Mutex
	flushedSeq uint64 // guarded by flushMu

	products     []model.Product
	vendors      []model.Vendor
	transactions []model.Transaction
	stock        []model.StockSummary
	costHistory  []model.CostPriceEntry
}

// Open restores the ledger for ownerID from its snapshot namespace, or
// starts empty when no snapshot exists yet.
func Open(ctx context.Context, snap store.Snapshotter, ownerID string, opts Options) (*Ledger, error) {
	if opts.Mode == "" {
		opts.Mode = AdjustmentAbsolute
	}
	if opts.Mode != AdjustmentAbsolute && opts.Mode != AdjustmentRelative {
		return nil, fmt.Errorf("%w: unknown adjustment mode %q", ErrValidation, opts.Mode)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	l := &Ledger{
		ownerID: ownerID,
		mode:    opts.Mode,
		snap:    snap,
		logger:  opts.Logger,
	}

	data, err := snap.Load(ctx, l.namespace())
	if errors.Is(err, store.ErrNoSnapshot) {
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	var s model.Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if s.SchemaVersion > model.SnapshotSchemaVersion {
		return nil, fmt.Errorf("snapshot schema v%d is newer than supported v%d", s.SchemaVersion, model.SnapshotSchemaVersion)
	}

	l.products = s.Products
	l.vendors = s.Vendors
	l.transactions = s.Transactions
	l.stock = s.StockSummary
	l.costHistory = s.CostHistory
	return l, nil
}

func (l *Ledger) namespace() string {
	return "ledger:" + l.ownerID
}

// OwnerID returns the account this ledger belongs to.
func (l *Ledger) OwnerID() string {
	return l.ownerID
}

// Mode returns the configured adjustment semantics.
func (l *Ledger) Mode() AdjustmentMode {
	return l.mode
}

// Counts returns the number of products, vendors and transactions. Used by
// the service layer for tier quota checks.
func (l *Ledger) Counts() (products, vendors, transactions int) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.products), len(l.vendors), len(l.transactions)
}

// Flush writes the current snapshot synchronously. Called on shutdown; the
// per-mutation flushes are asynchronous.
func (l *Ledger) Flush(ctx context.Context) error {
	l.mu.RLock()
	data, err := l.encodeLocked()
	seq := l.seq
	l.mu.RUnlock()
	if err != nil {
		return err
	}

	l.flushMu.Lock()
	defer l.flushMu.Unlock()
	if seq < l.flushedSeq {
		return nil
	}
	if err := l.snap.Save(ctx, l.namespace(), data); err != nil {
		return err
	}
	l.flushedSeq = seq
	return nil
}

// encodeLocked marshals the snapshot; callers must hold at least the read lock.
func (l *Ledger) encodeLocked() ([]byte, error) {
	s := model.Snapshot{
		SchemaVersion: model.SnapshotSchemaVersion,
		OwnerID:       l.ownerID,
		SavedAt:       time.Now().UTC(),
		Products:      l.products,
		Vendors:       l.vendors,
		Transactions:  l.transactions,
		StockSummary:  l.stock,
		CostHistory:   l.costHistory,
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// persistLocked snapshots the state and hands it to a background flush.
// Flush failures are logged, never rolled back: the in-memory state stays
// authoritative (a crash before the flush loses at most this mutation).
// The sequence check under flushMu keeps the persisted copy monotonic even
// when background flushes run out of order.
func (l *Ledger) persistLocked() {
	l.seq++
	seq := l.seq
	data, err := l.encodeLocked()
	if err != nil {
		l.logger.Error("snapshot encode failed", "owner", l.ownerID, "error", err)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
		defer cancel()

		l.flushMu.Lock()
		defer l.flushMu.Unlock()
		if seq <= l.flushedSeq {
			// a newer snapshot already landed
			return
		}
		if err := l.snap.Save(ctx, l.namespace(), data); err != nil {
			l.logger.Error("snapshot flush failed", "owner", l.ownerID, "error", err)
			return
		}
		l.flushedSeq = seq
	}()
}

package ledger

import (
	"context"
	"fmt"
	"time"

	"bizledger/internal/model"

	"github.com/google/uuid"
)

// Stock returns the current stock level for a product. Unknown products
// (including deleted ones) report zero rather than an error; stock is a
// derived quantity, not an entity lookup.
func (l *Ledger) Stock(productID uuid.UUID) int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, s := range l.stock {
		if s.ProductID == productID {
			return s.CurrentStock
		}
	}
	return 0
}

// StockSummaries returns the stock rows for all products.
func (l *Ledger) StockSummaries() []model.StockSummary {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]model.StockSummary, len(l.stock))
	copy(out, l.stock)
	return out
}

// SetStock overwrites a product's stock level, clamped to zero. This is the
// direct counterpart of an absolute adjustment but leaves no transaction
// record; the transaction path is preferred for auditable corrections.
func (l *Ledger) SetStock(_ context.Context, productID uuid.UUID, quantity int) (model.StockSummary, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.productIndexLocked(productID) < 0 {
		return model.StockSummary{}, fmt.Errorf("product %s: %w", productID, ErrNotFound)
	}
	if quantity < 0 {
		quantity = 0
	}

	for i := range l.stock {
		if l.stock[i].ProductID == productID {
			l.stock[i].CurrentStock = quantity
			l.stock[i].LastUpdated = time.Now().UTC()
			l.persistLocked()
			return l.stock[i], nil
		}
	}

	s := model.StockSummary{ProductID: productID, CurrentStock: quantity, LastUpdated: time.Now().UTC()}
	l.stock = append(l.stock, s)
	l.persistLocked()
	return s, nil
}

// LowStockProducts returns products whose stock is at or below the
// threshold. A non-positive threshold falls back to the default of 10.
func (l *Ledger) LowStockProducts(threshold int) []model.Product {
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	levels := make(map[uuid.UUID]int, len(l.stock))
	for _, s := range l.stock {
		levels[s.ProductID] = s.CurrentStock
	}

	var out []model.Product
	for _, p := range l.products {
		if levels[p.ID] <= threshold {
			out = append(out, p)
		}
	}
	return out
}

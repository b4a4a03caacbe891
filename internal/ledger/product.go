package ledger

import (
	"context"
	"fmt"
	"time"

	"bizledger/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductInput carries the caller-supplied fields for a new product.
type ProductInput struct {
	Name         string
	Category     string
	Unit         string
	CurrentPrice decimal.Decimal
	CostPrice    decimal.Decimal
	VendorID     *uuid.UUID
}

// ProductPatch updates a subset of product fields; nil means "leave as is".
type ProductPatch struct {
	Name         *string
	Category     *string
	Unit         *string
	CurrentPrice *decimal.Decimal
	CostPrice    *decimal.Decimal
	VendorID     *uuid.UUID
	ClearVendor  bool
	IsActive     *bool
}

// AddProduct creates a product together with its zero-value stock summary
// and the first cost-price history entry.
func (l *Ledger) AddProduct(_ context.Context, in ProductInput) (model.Product, error) {
	if in.Name == "" {
		return model.Product{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if in.CurrentPrice.IsNegative() || in.CostPrice.IsNegative() {
		return model.Product{}, fmt.Errorf("%w: prices must be non-negative", ErrValidation)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if in.VendorID != nil && l.vendorIndexLocked(*in.VendorID) < 0 {
		return model.Product{}, fmt.Errorf("vendor %s: %w", in.VendorID, ErrNotFound)
	}

	now := time.Now().UTC()
	p := model.Product{
		ID:           uuid.New(),
		Name:         in.Name,
		Category:     in.Category,
		Unit:         in.Unit,
		CurrentPrice: in.CurrentPrice,
		CostPrice:    in.CostPrice,
		VendorID:     in.VendorID,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	l.products = append(l.products, p)
	l.stock = append(l.stock, model.StockSummary{
		ProductID:    p.ID,
		CurrentStock: 0,
		LastUpdated:  now,
	})
	l.costHistory = append(l.costHistory, model.CostPriceEntry{
		ID:          uuid.New(),
		ProductID:   p.ID,
		CostPrice:   in.CostPrice,
		EffectiveAt: now,
	})

	l.persistLocked()
	return p, nil
}

// UpdateProduct merges the patch into the product and refreshes UpdatedAt.
// A cost price change appends a new history entry effective from now, so
// profit already reported against past sales is unaffected.
func (l *Ledger) UpdateProduct(_ context.Context, id uuid.UUID, patch ProductPatch) (model.Product, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.productIndexLocked(id)
	if idx < 0 {
		return model.Product{}, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	p := l.products[idx]

	if patch.Name != nil {
		if *patch.Name == "" {
			return model.Product{}, fmt.Errorf("%w: name cannot be empty", ErrValidation)
		}
		p.Name = *patch.Name
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Unit != nil {
		p.Unit = *patch.Unit
	}
	if patch.CurrentPrice != nil {
		if patch.CurrentPrice.IsNegative() {
			return model.Product{}, fmt.Errorf("%w: current price must be non-negative", ErrValidation)
		}
		p.CurrentPrice = *patch.CurrentPrice
	}
	if patch.ClearVendor {
		p.VendorID = nil
	} else if patch.VendorID != nil {
		if l.vendorIndexLocked(*patch.VendorID) < 0 {
			return model.Product{}, fmt.Errorf("vendor %s: %w", patch.VendorID, ErrNotFound)
		}
		p.VendorID = patch.VendorID
	}
	if patch.IsActive != nil {
		p.IsActive = *patch.IsActive
	}

	now := time.Now().UTC()
	if patch.CostPrice != nil && !patch.CostPrice.Equal(p.CostPrice) {
		if patch.CostPrice.IsNegative() {
			return model.Product{}, fmt.Errorf("%w: cost price must be non-negative", ErrValidation)
		}
		p.CostPrice = *patch.CostPrice
		l.costHistory = append(l.costHistory, model.CostPriceEntry{
			ID:          uuid.New(),
			ProductID:   p.ID,
			CostPrice:   *patch.CostPrice,
			EffectiveAt: now,
		})
	}

	p.UpdatedAt = now
	l.products[idx] = p

	l.persistLocked()
	return p, nil
}

// DeleteProduct removes the product and cascades to its stock summary, its
// transactions and its cost history.
func (l *Ledger) DeleteProduct(_ context.Context, id uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.productIndexLocked(id)
	if idx < 0 {
		return fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	l.products = append(l.products[:idx], l.products[idx+1:]...)

	kept := l.transactions[:0]
	for _, tx := range l.transactions {
		if tx.ProductID != id {
			kept = append(kept, tx)
		}
	}
	l.transactions = kept

	for i, s := range l.stock {
		if s.ProductID == id {
			l.stock = append(l.stock[:i], l.stock[i+1:]...)
			break
		}
	}

	keptHist := l.costHistory[:0]
	for _, e := range l.costHistory {
		if e.ProductID != id {
			keptHist = append(keptHist, e)
		}
	}
	l.costHistory = keptHist

	l.persistLocked()
	return nil
}

// Product returns the product with the given id.
func (l *Ledger) Product(id uuid.UUID) (model.Product, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	idx := l.productIndexLocked(id)
	if idx < 0 {
		return model.Product{}, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	return l.products[idx], nil
}

// Products returns all products in insertion order.
func (l *Ledger) Products() []model.Product {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]model.Product, len(l.products))
	copy(out, l.products)
	return out
}

// ProductsByVendor returns products referencing the vendor.
func (l *Ledger) ProductsByVendor(vendorID uuid.UUID) []model.Product {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []model.Product
	for _, p := range l.products {
		if p.VendorID != nil && *p.VendorID == vendorID {
			out = append(out, p)
		}
	}
	return out
}

// CostHistory returns the cost-price entries for a product, oldest first.
func (l *Ledger) CostHistory(productID uuid.UUID) []model.CostPriceEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []model.CostPriceEntry
	for _, e := range l.costHistory {
		if e.ProductID == productID {
			out = append(out, e)
		}
	}
	return out
}

func (l *Ledger) productIndexLocked(id uuid.UUID) int {
	for i, p := range l.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

package ledger

import (
	"context"
	"fmt"
	"time"

	"bizledger/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionInput carries the caller-supplied fields for a new transaction.
type TransactionInput struct {
	Type      string
	ProductID uuid.UUID
	VendorID  *uuid.UUID
	Quantity  int
	UnitPrice decimal.Decimal
	Notes     string
}

// TransactionPatch updates a subset of transaction fields. Changing the
// quantity or unit price recomputes TotalAmount; stock is NOT re-applied
// (stock effects happen once, at creation).
type TransactionPatch struct {
	Quantity  *int
	UnitPrice *decimal.Decimal
	Notes     *string
}

// AddTransaction records a transaction and applies its stock effect:
//
//	purchase   -> stock + quantity
//	sale       -> stock - quantity
//	adjustment -> quantity (absolute mode) or stock + quantity (relative mode)
//
// The result is clamped to zero; an over-sale is absorbed rather than
// rejected, by policy. TotalAmount is fixed here as quantity * unit price.
func (l *Ledger) AddTransaction(_ context.Context, in TransactionInput) (model.Transaction, error) {
	if !model.ValidTransactionType(in.Type) {
		return model.Transaction{}, fmt.Errorf("%w: unknown transaction type %q", ErrValidation, in.Type)
	}
	if err := l.validateQuantity(in.Type, in.Quantity); err != nil {
		return model.Transaction{}, err
	}
	if in.UnitPrice.IsNegative() {
		return model.Transaction{}, fmt.Errorf("%w: unit price must be non-negative", ErrValidation)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.productIndexLocked(in.ProductID) < 0 {
		return model.Transaction{}, fmt.Errorf("product %s: %w", in.ProductID, ErrNotFound)
	}
	if in.VendorID != nil && l.vendorIndexLocked(*in.VendorID) < 0 {
		return model.Transaction{}, fmt.Errorf("vendor %s: %w", in.VendorID, ErrNotFound)
	}

	now := time.Now().UTC()
	tx := model.Transaction{
		ID:          uuid.New(),
		Type:        in.Type,
		ProductID:   in.ProductID,
		VendorID:    in.VendorID,
		Quantity:    in.Quantity,
		UnitPrice:   in.UnitPrice,
		TotalAmount: in.UnitPrice.Mul(decimal.NewFromInt(int64(in.Quantity))),
		Notes:       in.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	l.transactions = append(l.transactions, tx)
	l.applyStockLocked(tx, now)

	l.persistLocked()
	return tx, nil
}

// validateQuantity enforces quantity > 0, except for adjustments in
// relative mode where the quantity is a signed delta and only zero is
// rejected.
func (l *Ledger) validateQuantity(txType string, qty int) error {
	if txType == model.TxTypeAdjustment && l.mode == AdjustmentRelative {
		if qty == 0 {
			return fmt.Errorf("%w: adjustment delta cannot be zero", ErrValidation)
		}
		return nil
	}
	if qty <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	return nil
}

func (l *Ledger) applyStockLocked(tx model.Transaction, now time.Time) {
	idx := -1
	for i, s := range l.stock {
		if s.ProductID == tx.ProductID {
			idx = i
			break
		}
	}
	if idx < 0 {
		// every product gets a summary at creation; recover if a snapshot
		// predating that rule is loaded
		l.stock = append(l.stock, model.StockSummary{ProductID: tx.ProductID})
		idx = len(l.stock) - 1
	}

	current := l.stock[idx].CurrentStock
	var next int
	switch tx.Type {
	case model.TxTypePurchase:
		next = current + tx.Quantity
	case model.TxTypeSale:
		next = current - tx.Quantity
	case model.TxTypeAdjustment:
		if l.mode == AdjustmentRelative {
			next = current + tx.Quantity
		} else {
			next = tx.Quantity
		}
	}
	if next < 0 {
		next = 0
	}

	l.stock[idx].CurrentStock = next
	l.stock[idx].LastUpdated = now
}

// UpdateTransaction merges the patch and refreshes UpdatedAt. TotalAmount
// is recomputed from the effective quantity and unit price so the stored
// snapshot can never drift from its factors. The original stock effect is
// deliberately left untouched.
func (l *Ledger) UpdateTransaction(_ context.Context, id uuid.UUID, patch TransactionPatch) (model.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := -1
	for i, tx := range l.transactions {
		if tx.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return model.Transaction{}, fmt.Errorf("transaction %s: %w", id, ErrNotFound)
	}
	tx := l.transactions[idx]

	if patch.Quantity != nil {
		if err := l.validateQuantity(tx.Type, *patch.Quantity); err != nil {
			return model.Transaction{}, err
		}
		tx.Quantity = *patch.Quantity
	}
	if patch.UnitPrice != nil {
		if patch.UnitPrice.IsNegative() {
			return model.Transaction{}, fmt.Errorf("%w: unit price must be non-negative", ErrValidation)
		}
		tx.UnitPrice = *patch.UnitPrice
	}
	if patch.Notes != nil {
		tx.Notes = *patch.Notes
	}
	if patch.Quantity != nil || patch.UnitPrice != nil {
		tx.TotalAmount = tx.UnitPrice.Mul(decimal.NewFromInt(int64(tx.Quantity)))
	}
	tx.UpdatedAt = time.Now().UTC()
	l.transactions[idx] = tx

	l.persistLocked()
	return tx, nil
}

// DeleteTransaction removes the record. The stock effect it caused at
// creation is not reversed.
func (l *Ledger) DeleteTransaction(_ context.Context, id uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, tx := range l.transactions {
		if tx.ID == id {
			l.transactions = append(l.transactions[:i], l.transactions[i+1:]...)
			l.persistLocked()
			return nil
		}
	}
	return fmt.Errorf("transaction %s: %w", id, ErrNotFound)
}

// Transaction returns the transaction with the given id.
func (l *Ledger) Transaction(id uuid.UUID) (model.Transaction, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, tx := range l.transactions {
		if tx.ID == id {
			return tx, nil
		}
	}
	return model.Transaction{}, fmt.Errorf("transaction %s: %w", id, ErrNotFound)
}

// Transactions returns all transactions in insertion order.
func (l *Ledger) Transactions() []model.Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]model.Transaction, len(l.transactions))
	copy(out, l.transactions)
	return out
}

// TransactionsByProduct returns the transactions recorded against a product.
func (l *Ledger) TransactionsByProduct(productID uuid.UUID) []model.Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []model.Transaction
	for _, tx := range l.transactions {
		if tx.ProductID == productID {
			out = append(out, tx)
		}
	}
	return out
}

// TransactionsByDateRange returns transactions created within [start, end].
func (l *Ledger) TransactionsByDateRange(start, end time.Time) []model.Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []model.Transaction
	for _, tx := range l.transactions {
		if inRange(tx.CreatedAt, &start, &end) {
			out = append(out, tx)
		}
	}
	return out
}

// inRange checks t against optional inclusive bounds.
func inRange(t time.Time, start, end *time.Time) bool {
	if start != nil && t.Before(*start) {
		return false
	}
	if end != nil && t.After(*end) {
		return false
	}
	return true
}

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType enum constants
const (
	TxTypePurchase   = "purchase"
	TxTypeSale       = "sale"
	TxTypeAdjustment = "adjustment"
)

// Transaction records a stock movement against a product.
// TotalAmount is a snapshot of Quantity * UnitPrice taken when the
// transaction is created; it is recomputed only when an explicit edit
// changes the quantity or the unit price.
type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	Type        string          `json:"type"` // purchase, sale, adjustment
	ProductID   uuid.UUID       `json:"product_id"`
	VendorID    *uuid.UUID      `json:"vendor_id,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Notes       string          `json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ValidTransactionType reports whether t is one of the known transaction types
func ValidTransactionType(t string) bool {
	return t == TxTypePurchase || t == TxTypeSale || t == TxTypeAdjustment
}

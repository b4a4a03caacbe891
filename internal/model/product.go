package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents an item tracked by the ledger
type Product struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Unit         string          `json:"unit"`
	CurrentPrice decimal.Decimal `json:"current_price"` // selling price
	CostPrice    decimal.Decimal `json:"cost_price"`
	VendorID     *uuid.UUID      `json:"vendor_id,omitempty"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// CostPriceEntry is an immutable record of a product's cost price taking
// effect at a point in time. Profit reports resolve the cost that was
// effective when each sale happened, so editing a product's cost later does
// not rewrite historical profit figures.
type CostPriceEntry struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	CostPrice   decimal.Decimal `json:"cost_price"`
	EffectiveAt time.Time       `json:"effective_at"`
}

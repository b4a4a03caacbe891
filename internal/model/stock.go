package model

import (
	"time"

	"github.com/google/uuid"
)

// StockSummary holds the derived quantity-on-hand for a product.
// Exactly one row exists per product for its whole lifetime; it is created
// at zero alongside the product and updated only as a side effect of
// transaction creation (or an explicit stock set). CurrentStock is clamped
// to zero on every update.
type StockSummary struct {
	ProductID    uuid.UUID `json:"product_id"`
	CurrentStock int       `json:"current_stock"`
	LastUpdated  time.Time `json:"last_updated"`
}

package model

import "time"

// SnapshotSchemaVersion is bumped whenever the persisted snapshot layout
// changes in a way that needs migration on load.
const SnapshotSchemaVersion = 1

// Snapshot is the whole-state document persisted to the key-value store
// after every ledger mutation. The in-memory ledger is authoritative; the
// snapshot lags by at most one asynchronous flush.
type Snapshot struct {
	SchemaVersion int              `json:"schema_version"`
	OwnerID       string           `json:"owner_id"`
	SavedAt       time.Time        `json:"saved_at"`
	Products      []Product        `json:"products"`
	Vendors       []Vendor         `json:"vendors"`
	Transactions  []Transaction    `json:"transactions"`
	StockSummary  []StockSummary   `json:"stock_summary"`
	CostHistory   []CostPriceEntry `json:"cost_history"`
}

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductRanking represents a ranked product based on accumulated sale quantities
type ProductRanking struct {
	Product       Product         `json:"product"`
	TotalQuantity int             `json:"total_quantity"`
	TotalValue    decimal.Decimal `json:"total_value"`
}

// VendorBreakdownRow aggregates transaction totals for one vendor
type VendorBreakdownRow struct {
	VendorID         uuid.UUID       `json:"vendor_id"`
	VendorName       string          `json:"vendor_name"`
	PurchaseAmount   decimal.Decimal `json:"purchase_amount"`
	SaleAmount       decimal.Decimal `json:"sale_amount"`
	TransactionCount int             `json:"transaction_count"`
}

// CategoryBreakdownRow aggregates sale totals for one product category
type CategoryBreakdownRow struct {
	Category         string          `json:"category"`
	SaleAmount       decimal.Decimal `json:"sale_amount"`
	QuantitySold     int             `json:"quantity_sold"`
	TransactionCount int             `json:"transaction_count"`
}

// DailyBreakdownRow aggregates purchase/sale totals for one calendar day
type DailyBreakdownRow struct {
	Date           string          `json:"date"` // YYYY-MM-DD
	PurchaseAmount decimal.Decimal `json:"purchase_amount"`
	SaleAmount     decimal.Decimal `json:"sale_amount"`
	Profit         decimal.Decimal `json:"profit"`
}

// FinancialSummary bundles the headline numbers for the report screens
type FinancialSummary struct {
	TotalRevenue       decimal.Decimal `json:"total_revenue"`
	TotalProfit        decimal.Decimal `json:"total_profit"`
	SaleCount          int             `json:"sale_count"`
	PurchaseCount      int             `json:"purchase_count"`
	TimeRangeStartDate *time.Time      `json:"time_range_start_date,omitempty"`
	TimeRangeEndDate   *time.Time      `json:"time_range_end_date,omitempty"`
}

package ledger

import (
	"sort"
	"time"

	"bizledger/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Reporting queries are pure functions of the current state: computed fresh
// from the full in-memory collections on each call, O(n) per query, no
// materialized views. That is acceptable at the hundreds-of-rows scale this
// ledger targets.

// TotalRevenue sums TotalAmount over sale transactions, optionally bounded
// by an inclusive [start, end] range. Nil bounds mean unbounded.
func (l *Ledger) TotalRevenue(start, end *time.Time) decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()

	total := decimal.Zero
	for _, tx := range l.transactions {
		if tx.Type == model.TxTypeSale && inRange(tx.CreatedAt, start, end) {
			total = total.Add(tx.TotalAmount)
		}
	}
	return total
}

// TotalProfit sums, over sale transactions in range, the margin
// (unit price - cost) * quantity. The unit price is the one recorded on the
// transaction, and the cost is the product's cost price that was effective
// when the sale happened, resolved from the cost history. Editing a
// product's cost afterwards therefore never rewrites past profit.
func (l *Ledger) TotalProfit(start, end *time.Time) decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()

	total := decimal.Zero
	for _, tx := range l.transactions {
		if tx.Type != model.TxTypeSale || !inRange(tx.CreatedAt, start, end) {
			continue
		}
		cost := l.costAtLocked(tx.ProductID, tx.CreatedAt)
		margin := tx.UnitPrice.Sub(cost).Mul(decimal.NewFromInt(int64(tx.Quantity)))
		total = total.Add(margin)
	}
	return total
}

// costAtLocked resolves the cost price effective for a product at a point
// in time: the latest history entry not after the given instant, falling
// back to the product's current cost when no entry qualifies.
func (l *Ledger) costAtLocked(productID uuid.UUID, at time.Time) decimal.Decimal {
	var (
		best      decimal.Decimal
		bestAt    time.Time
		haveEntry bool
	)
	for _, e := range l.costHistory {
		if e.ProductID != productID || e.EffectiveAt.After(at) {
			continue
		}
		if !haveEntry || e.EffectiveAt.After(bestAt) {
			best = e.CostPrice
			bestAt = e.EffectiveAt
			haveEntry = true
		}
	}
	if haveEntry {
		return best
	}
	if idx := l.productIndexLocked(productID); idx >= 0 {
		return l.products[idx].CostPrice
	}
	return decimal.Zero
}

// Summary bundles revenue, profit and transaction counts for a range.
func (l *Ledger) Summary(start, end *time.Time) model.FinancialSummary {
	l.mu.RLock()
	defer l.mu.RUnlock()

	s := model.FinancialSummary{
		TotalRevenue:       decimal.Zero,
		TotalProfit:        decimal.Zero,
		TimeRangeStartDate: start,
		TimeRangeEndDate:   end,
	}
	for _, tx := range l.transactions {
		if !inRange(tx.CreatedAt, start, end) {
			continue
		}
		switch tx.Type {
		case model.TxTypeSale:
			s.SaleCount++
			s.TotalRevenue = s.TotalRevenue.Add(tx.TotalAmount)
			cost := l.costAtLocked(tx.ProductID, tx.CreatedAt)
			s.TotalProfit = s.TotalProfit.Add(tx.UnitPrice.Sub(cost).Mul(decimal.NewFromInt(int64(tx.Quantity))))
		case model.TxTypePurchase:
			s.PurchaseCount++
		}
	}
	return s
}

// TopSellingProducts groups sales by product, sums quantities and returns
// the top limit products in descending order. Ties are broken by earlier
// product creation, then by id, so the ranking is a deterministic total
// order.
func (l *Ledger) TopSellingProducts(limit int) []model.ProductRanking {
	if limit <= 0 {
		return nil
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	type acc struct {
		qty   int
		value decimal.Decimal
	}
	sums := make(map[uuid.UUID]*acc)
	for _, tx := range l.transactions {
		if tx.Type != model.TxTypeSale {
			continue
		}
		a, ok := sums[tx.ProductID]
		if !ok {
			a = &acc{value: decimal.Zero}
			sums[tx.ProductID] = a
		}
		a.qty += tx.Quantity
		a.value = a.value.Add(tx.TotalAmount)
	}

	var ranked []model.ProductRanking
	for _, p := range l.products {
		a, ok := sums[p.ID]
		if !ok {
			continue
		}
		ranked = append(ranked, model.ProductRanking{
			Product:       p,
			TotalQuantity: a.qty,
			TotalValue:    a.value,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].TotalQuantity != ranked[j].TotalQuantity {
			return ranked[i].TotalQuantity > ranked[j].TotalQuantity
		}
		if !ranked[i].Product.CreatedAt.Equal(ranked[j].Product.CreatedAt) {
			return ranked[i].Product.CreatedAt.Before(ranked[j].Product.CreatedAt)
		}
		return ranked[i].Product.ID.String() < ranked[j].Product.ID.String()
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// VendorBreakdown aggregates purchase and sale totals per vendor over the
// optional range. Transactions without a vendor are skipped, as are
// adjustments, so the count always matches the two amount columns.
func (l *Ledger) VendorBreakdown(start, end *time.Time) []model.VendorBreakdownRow {
	l.mu.RLock()
	defer l.mu.RUnlock()

	rows := make(map[uuid.UUID]*model.VendorBreakdownRow)
	for _, tx := range l.transactions {
		if tx.VendorID == nil || !inRange(tx.CreatedAt, start, end) {
			continue
		}
		if tx.Type != model.TxTypePurchase && tx.Type != model.TxTypeSale {
			continue
		}
		row, ok := rows[*tx.VendorID]
		if !ok {
			row = &model.VendorBreakdownRow{
				VendorID:       *tx.VendorID,
				PurchaseAmount: decimal.Zero,
				SaleAmount:     decimal.Zero,
			}
			if idx := l.vendorIndexLocked(*tx.VendorID); idx >= 0 {
				row.VendorName = l.vendors[idx].Name
			}
			rows[*tx.VendorID] = row
		}
		switch tx.Type {
		case model.TxTypePurchase:
			row.PurchaseAmount = row.PurchaseAmount.Add(tx.TotalAmount)
		case model.TxTypeSale:
			row.SaleAmount = row.SaleAmount.Add(tx.TotalAmount)
		}
		row.TransactionCount++
	}

	out := make([]model.VendorBreakdownRow, 0, len(rows))
	for _, v := range l.vendors {
		if row, ok := rows[v.ID]; ok {
			out = append(out, *row)
		}
	}
	return out
}

// CategoryBreakdown aggregates sale totals per product category over the
// optional range.
func (l *Ledger) CategoryBreakdown(start, end *time.Time) []model.CategoryBreakdownRow {
	l.mu.RLock()
	defer l.mu.RUnlock()

	categories := make(map[uuid.UUID]string, len(l.products))
	for _, p := range l.products {
		categories[p.ID] = p.Category
	}

	rows := make(map[string]*model.CategoryBreakdownRow)
	var order []string
	for _, tx := range l.transactions {
		if tx.Type != model.TxTypeSale || !inRange(tx.CreatedAt, start, end) {
			continue
		}
		cat, ok := categories[tx.ProductID]
		if !ok {
			continue
		}
		row, ok := rows[cat]
		if !ok {
			row = &model.CategoryBreakdownRow{Category: cat, SaleAmount: decimal.Zero}
			rows[cat] = row
			order = append(order, cat)
		}
		row.SaleAmount = row.SaleAmount.Add(tx.TotalAmount)
		row.QuantitySold += tx.Quantity
		row.TransactionCount++
	}

	out := make([]model.CategoryBreakdownRow, 0, len(order))
	for _, cat := range order {
		out = append(out, *rows[cat])
	}
	return out
}

// DailyBreakdown buckets purchases, sales and profit per calendar day (UTC)
// over the inclusive [start, end] range, returning days in ascending order.
// Days without transactions are omitted.
func (l *Ledger) DailyBreakdown(start, end time.Time) []model.DailyBreakdownRow {
	l.mu.RLock()
	defer l.mu.RUnlock()

	rows := make(map[string]*model.DailyBreakdownRow)
	for _, tx := range l.transactions {
		if !inRange(tx.CreatedAt, &start, &end) {
			continue
		}
		day := tx.CreatedAt.UTC().Format("2006-01-02")
		row, ok := rows[day]
		if !ok {
			row = &model.DailyBreakdownRow{
				Date:           day,
				PurchaseAmount: decimal.Zero,
				SaleAmount:     decimal.Zero,
				Profit:         decimal.Zero,
			}
			rows[day] = row
		}
		switch tx.Type {
		case model.TxTypePurchase:
			row.PurchaseAmount = row.PurchaseAmount.Add(tx.TotalAmount)
		case model.TxTypeSale:
			row.SaleAmount = row.SaleAmount.Add(tx.TotalAmount)
			cost := l.costAtLocked(tx.ProductID, tx.CreatedAt)
			row.Profit = row.Profit.Add(tx.UnitPrice.Sub(cost).Mul(decimal.NewFromInt(int64(tx.Quantity))))
		}
	}

	out := make([]model.DailyBreakdownRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

package ledger

import (
	"context"
	"testing"
	"time"

	"bizledger/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalRevenueCountsSalesOnly(t *testing.T) {
	led, _ := newTestLedger(t, AdjustmentAbsolute)
	p := addTestProduct(t, led, "Widget", 100, 200)

	addTx(t, led, model.TxTypePurchase, p.ID, 10, 100)
	addTx(t, led, model.TxTypeSale, p.ID, 2, 200)
	addTx(t, led, model.TxTypeSale, p.ID, 3, 200)

	assert.True(t, led.TotalRevenue(nil, nil).Equal(decimal.NewFromInt(1000)))
}

func TestRevenueAdditiveOverDisjointRanges(t *testing.T) {
	led, _ := newTestLedger(t, AdjustmentAbsolute)
	p := addTestProduct(t, led, "Widget", 100, 200)

	addTx(t, led, model.TxTypePurchase, p.ID, 100, 100)
	addTx(t, led, model.TxTypeSale, p.ID, 2, 200)
	mid := time.Now()
	time.Sleep(10 * time.Millisecond)
	addTx(t, led, model.TxTypeSale, p.ID, 5, 300)

	start := time.Now().Add(-time.Hour)
	end := time.Now().Add(time.Hour)

	first := led.TotalRevenue(&start, &mid)
	second := led.TotalRevenue(&mid, &end)
	whole := led.TotalRevenue(&start, &end)

	assert.True(t, first.Add(second).Equal(whole), "revenue over split ranges should sum to the whole: %s + %s != %s", first, second, whole)
	assert.True(t, whole.Equal(decimal.NewFromInt(1900)))
}

func TestProfitUsesCostAtSaleTime(t *testing.T) {
	ctx := context.Background()
	led, _ := newTestLedger(t, AdjustmentAbsolute)
	p := addTestProduct(t, led, "Widget", 1000, 1500)

	addTx(t, led, model.TxTypePurchase, p.ID, 10, 1000)
	// Sale while the cost price is still 1000: profit (1500-1000)*2 = 1000.
	addTx(t, led, model.TxTypeSale, p.ID, 2, 1500)

	time.Sleep(10 * time.Millisecond)
	newCost := decimal.NewFromInt(2000)
	_, err := led.UpdateProduct(ctx, p.ID, ProductPatch{CostPrice: &newCost})
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)

	// Sale after the cost change: profit (2500-2000)*1 = 500.
	addTx(t, led, model.TxTypeSale, p.ID, 1, 2500)

	profit := led.TotalProfit(nil, nil)
	assert.True(t, profit.Equal(decimal.NewFromInt(1500)), "got %s", profit)
}

func TestSummary(t *testing.T) {
	led, _ := newTestLedger(t, AdjustmentAbsolute)
	p := addTestProduct(t, led, "Widget", 100, 200)

	addTx(t, led, model.TxTypePurchase, p.ID, 10, 100)
	addTx(t, led, model.TxTypeSale, p.ID, 4, 200)

	s := led.Summary(nil, nil)
	assert.True(t, s.TotalRevenue.Equal(decimal.NewFromInt(800)))
	assert.True(t, s.TotalProfit.Equal(decimal.NewFromInt(400)))
	assert.Equal(t, 1, s.SaleCount)
	assert.Equal(t, 1, s.PurchaseCount)
	assert.Nil(t, s.TimeRangeStartDate)

	start := time.Now().Add(-time.Hour)
	ranged := led.Summary(&start, nil)
	require.NotNil(t, ranged.TimeRangeStartDate)
	assert.Equal(t, start, *ranged.TimeRangeStartDate)
}

func TestTopSellingProducts(t *testing.T) {
	led, _ := newTestLedger(t, AdjustmentAbsolute)

	a := addTestProduct(t, led, "A", 100, 200)
	b := addTestProduct(t, led, "B", 100, 200)
	c := addTestProduct(t, led, "C", 100, 200)

	addTx(t, led, model.TxTypePurchase, a.ID, 50, 100)
	addTx(t, led, model.TxTypePurchase, b.ID, 50, 100)
	addTx(t, led, model.TxTypePurchase, c.ID, 50, 100)

	addTx(t, led, model.TxTypeSale, a.ID, 2, 200)
	addTx(t, led, model.TxTypeSale, a.ID, 3, 200)
	addTx(t, led, model.TxTypeSale, b.ID, 9, 200)
	addTx(t, led, model.TxTypeSale, c.ID, 2, 200)

	top := led.TopSellingProducts(2)
	require.Len(t, top, 2)
	assert.Equal(t, "B", top[0].Product.Name)
	assert.Equal(t, 9, top[0].TotalQuantity)
	assert.Equal(t, "A", top[1].Product.Name)
	assert.Equal(t, 5, top[1].TotalQuantity)
	assert.True(t, top[0].TotalValue.Equal(decimal.NewFromInt(1800)))
}

func TestTopSellingTieBreaksByCreation(t *testing.T) {
	led, _ := newTestLedger(t, AdjustmentAbsolute)

	first := addTestProduct(t, led, "First", 100, 200)
	second := addTestProduct(t, led, "Second", 100, 200)

	addTx(t, led, model.TxTypePurchase, first.ID, 10, 100)
	addTx(t, led, model.TxTypePurchase, second.ID, 10, 100)
	addTx(t, led, model.TxTypeSale, second.ID, 5, 200)
	addTx(t, led, model.TxTypeSale, first.ID, 5, 200)

	top := led.TopSellingProducts(10)
	require.Len(t, top, 2)
	assert.Equal(t, "First", top[0].Product.Name)
	assert.Equal(t, "Second", top[1].Product.Name)
}

func TestVendorBreakdown(t *testing.T) {
	ctx := context.Background()
	led, _ := newTestLedger(t, AdjustmentAbsolute)

	acme, err := led.AddVendor(ctx, VendorInput{Name: "Acme"})
	require.NoError(t, err)
	zenith, err := led.AddVendor(ctx, VendorInput{Name: "Zenith"})
	require.NoError(t, err)

	p := addTestProduct(t, led, "Widget", 100, 200)

	_, err = led.AddTransaction(ctx, TransactionInput{
		Type: model.TxTypePurchase, ProductID: p.ID, VendorID: &acme.ID, Quantity: 10, UnitPrice: decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	_, err = led.AddTransaction(ctx, TransactionInput{
		Type: model.TxTypePurchase, ProductID: p.ID, VendorID: &zenith.ID, Quantity: 5, UnitPrice: decimal.NewFromInt(120),
	})
	require.NoError(t, err)
	// No vendor attached: skipped by the breakdown.
	addTx(t, led, model.TxTypeSale, p.ID, 1, 200)
	// Adjustments do not contribute to either amount column, so they
	// must not bump the count either.
	_, err = led.AddTransaction(ctx, TransactionInput{
		Type: model.TxTypeAdjustment, ProductID: p.ID, VendorID: &acme.ID, Quantity: 8,
	})
	require.NoError(t, err)

	rows := led.VendorBreakdown(nil, nil)
	require.Len(t, rows, 2)
	assert.Equal(t, "Acme", rows[0].VendorName)
	assert.True(t, rows[0].PurchaseAmount.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, 1, rows[0].TransactionCount)
	assert.Equal(t, "Zenith", rows[1].VendorName)
	assert.True(t, rows[1].PurchaseAmount.Equal(decimal.NewFromInt(600)))
}

func TestCategoryBreakdown(t *testing.T) {
	ctx := context.Background()
	led, _ := newTestLedger(t, AdjustmentAbsolute)

	tea, err := led.AddProduct(ctx, ProductInput{Name: "Tea", Category: "beverages"})
	require.NoError(t, err)
	soap, err := led.AddProduct(ctx, ProductInput{Name: "Soap", Category: "household"})
	require.NoError(t, err)

	addTx(t, led, model.TxTypePurchase, tea.ID, 10, 50)
	addTx(t, led, model.TxTypePurchase, soap.ID, 10, 30)
	addTx(t, led, model.TxTypeSale, tea.ID, 4, 100)
	addTx(t, led, model.TxTypeSale, soap.ID, 2, 60)

	rows := led.CategoryBreakdown(nil, nil)
	require.Len(t, rows, 2)
	assert.Equal(t, "beverages", rows[0].Category)
	assert.True(t, rows[0].SaleAmount.Equal(decimal.NewFromInt(400)))
	assert.Equal(t, 4, rows[0].QuantitySold)
	assert.Equal(t, "household", rows[1].Category)
	assert.True(t, rows[1].SaleAmount.Equal(decimal.NewFromInt(120)))
}

func TestDailyBreakdown(t *testing.T) {
	led, _ := newTestLedger(t, AdjustmentAbsolute)
	p := addTestProduct(t, led, "Widget", 100, 200)

	addTx(t, led, model.TxTypePurchase, p.ID, 10, 100)
	addTx(t, led, model.TxTypeSale, p.ID, 3, 200)

	start := time.Now().UTC().Add(-24 * time.Hour)
	end := time.Now().UTC().Add(time.Hour)

	rows := led.DailyBreakdown(start, end)
	require.Len(t, rows, 1)
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), rows[0].Date)
	assert.True(t, rows[0].PurchaseAmount.Equal(decimal.NewFromInt(1000)))
	assert.True(t, rows[0].SaleAmount.Equal(decimal.NewFromInt(600)))
	assert.True(t, rows[0].Profit.Equal(decimal.NewFromInt(300)))
}

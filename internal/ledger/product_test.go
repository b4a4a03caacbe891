package ledger

import (
	"context"
	"testing"
	"time"

	"bizledger/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddProduct(t *testing.T) {
	ctx := context.Background()
	led, _ := newTestLedger(t, AdjustmentAbsolute)

	p, err := led.AddProduct(ctx, ProductInput{
		Name:         "Green Tea",
		Category:     "beverages",
		Unit:         "box",
		CurrentPrice: decimal.NewFromInt(500),
		CostPrice:    decimal.NewFromInt(300),
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.True(t, p.IsActive)
	assert.Equal(t, 0, led.Stock(p.ID))

	history := led.CostHistory(p.ID)
	require.Len(t, history, 1)
	assert.True(t, history[0].CostPrice.Equal(decimal.NewFromInt(300)))
}

func TestAddProductValidation(t *testing.T) {
	ctx := context.Background()
	led, _ := newTestLedger(t, AdjustmentAbsolute)

	_, err := led.AddProduct(ctx, ProductInput{Name: ""})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = led.AddProduct(ctx, ProductInput{
		Name:      "Bad Price",
		CostPrice: decimal.NewFromInt(-1),
	})
	assert.ErrorIs(t, err, ErrValidation)

	unknown := uuid.New()
	_, err = led.AddProduct(ctx, ProductInput{Name: "Orphan", VendorID: &unknown})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateProductCostAppendsHistory(t *testing.T) {
	ctx := context.Background()
	led, _ := newTestLedger(t, AdjustmentAbsolute)
	p := addTestProduct(t, led, "Widget", 1000, 1500)

	newCost := decimal.NewFromInt(2000)
	updated, err := led.UpdateProduct(ctx, p.ID, ProductPatch{CostPrice: &newCost})
	require.NoError(t, err)
	assert.True(t, updated.CostPrice.Equal(newCost))

	history := led.CostHistory(p.ID)
	require.Len(t, history, 2)
	assert.True(t, history[1].CostPrice.Equal(newCost))
	assert.False(t, history[1].EffectiveAt.Before(history[0].EffectiveAt))
}

func TestUpdateProductClearVendor(t *testing.T) {
	ctx := context.Background()
	led, _ := newTestLedger(t, AdjustmentAbsolute)

	v, err := led.AddVendor(ctx, VendorInput{Name: "Acme"})
	require.NoError(t, err)

	p, err := led.AddProduct(ctx, ProductInput{Name: "Widget", VendorID: &v.ID})
	require.NoError(t, err)
	require.NotNil(t, p.VendorID)

	updated, err := led.UpdateProduct(ctx, p.ID, ProductPatch{ClearVendor: true})
	require.NoError(t, err)
	assert.Nil(t, updated.VendorID)
}

func TestDeleteProductCascades(t *testing.T) {
	ctx := context.Background()
	led, _ := newTestLedger(t, AdjustmentAbsolute)
	p := addTestProduct(t, led, "Widget", 100, 200)
	other := addTestProduct(t, led, "Other", 100, 200)

	addTx(t, led, model.TxTypePurchase, p.ID, 10, 100)
	addTx(t, led, model.TxTypeSale, p.ID, 2, 200)
	addTx(t, led, model.TxTypePurchase, other.ID, 3, 100)

	require.NoError(t, led.DeleteProduct(ctx, p.ID))

	_, err := led.Product(p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, led.TransactionsByProduct(p.ID))
	assert.Empty(t, led.CostHistory(p.ID))
	assert.Equal(t, 0, led.Stock(p.ID))

	// Unrelated product survives with its data intact.
	assert.Len(t, led.TransactionsByProduct(other.ID), 1)
	assert.Equal(t, 3, led.Stock(other.ID))
}

func TestVendorLifecycle(t *testing.T) {
	ctx := context.Background()
	led, _ := newTestLedger(t, AdjustmentAbsolute)

	v, err := led.AddVendor(ctx, VendorInput{
		Name:          "Acme Supply",
		ContactPerson: "Dana",
		Phone:         "555-0101",
	})
	require.NoError(t, err)
	assert.True(t, v.IsActive)

	newName := "Acme Wholesale"
	updated, err := led.UpdateVendor(ctx, v.ID, VendorPatch{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Acme Wholesale", updated.Name)

	require.NoError(t, led.DeleteVendor(ctx, v.ID))
	_, err = led.Vendor(v.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteVendorBlockedWhileReferenced(t *testing.T) {
	ctx := context.Background()
	led, _ := newTestLedger(t, AdjustmentAbsolute)

	v, err := led.AddVendor(ctx, VendorInput{Name: "Acme"})
	require.NoError(t, err)

	p, err := led.AddProduct(ctx, ProductInput{Name: "Widget", VendorID: &v.ID})
	require.NoError(t, err)

	err = led.DeleteVendor(ctx, v.ID)
	assert.ErrorIs(t, err, ErrVendorInUse)

	// Once the reference is cleared the vendor can go.
	_, err = led.UpdateProduct(ctx, p.ID, ProductPatch{ClearVendor: true})
	require.NoError(t, err)
	assert.NoError(t, led.DeleteVendor(ctx, v.ID))
}

func TestSetStock(t *testing.T) {
	ctx := context.Background()
	led, _ := newTestLedger(t, AdjustmentAbsolute)
	p := addTestProduct(t, led, "Widget", 100, 200)

	summary, err := led.SetStock(ctx, p.ID, 42)
	require.NoError(t, err)
	assert.Equal(t, 42, summary.CurrentStock)
	assert.WithinDuration(t, time.Now(), summary.LastUpdated, time.Minute)

	// Negative overrides clamp to zero.
	summary, err = led.SetStock(ctx, p.ID, -5)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.CurrentStock)

	_, err = led.SetStock(ctx, uuid.New(), 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLowStockProducts(t *testing.T) {
	ctx := context.Background()
	led, _ := newTestLedger(t, AdjustmentAbsolute)

	low := addTestProduct(t, led, "Low", 100, 200)
	high := addTestProduct(t, led, "High", 100, 200)

	_, err := led.SetStock(ctx, low.ID, 3)
	require.NoError(t, err)
	_, err = led.SetStock(ctx, high.ID, 50)
	require.NoError(t, err)

	names := func(products []model.Product) []string {
		var out []string
		for _, p := range products {
			out = append(out, p.Name)
		}
		return out
	}

	assert.Equal(t, []string{"Low"}, names(led.LowStockProducts(0))) // default threshold
	assert.Equal(t, []string{"Low"}, names(led.LowStockProducts(10)))
	assert.ElementsMatch(t, []string{"Low", "High"}, names(led.LowStockProducts(50)))
}

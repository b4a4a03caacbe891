package ledger

import (
	"context"
	"encoding/json"
	"testing"

	"bizledger/internal/model"
	"bizledger/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLedger(t *testing.T, mode AdjustmentMode) (*Ledger, *store.MemoryStore) {
	t.Helper()
	snap := store.NewMemoryStore()
	led, err := Open(context.Background(), snap, "owner-1", Options{Mode: mode})
	require.NoError(t, err)
	return led, snap
}

func addTestProduct(t *testing.T, led *Ledger, name string, cost, price int64) model.Product {
	t.Helper()
	p, err := led.AddProduct(context.Background(), ProductInput{
		Name:         name,
		Category:     "general",
		Unit:         "piece",
		CurrentPrice: decimal.NewFromInt(price),
		CostPrice:    decimal.NewFromInt(cost),
	})
	require.NoError(t, err)
	return p
}

func TestOpenEmptyLedger(t *testing.T) {
	led, _ := newTestLedger(t, AdjustmentAbsolute)

	products, vendors, transactions := led.Counts()
	assert.Equal(t, 0, products)
	assert.Equal(t, 0, vendors)
	assert.Equal(t, 0, transactions)
}

func TestSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	led, snap := newTestLedger(t, AdjustmentAbsolute)

	v, err := led.AddVendor(ctx, VendorInput{Name: "Acme Supply"})
	require.NoError(t, err)

	p, err := led.AddProduct(ctx, ProductInput{
		Name:         "Coffee Beans",
		Category:     "beverages",
		CurrentPrice: decimal.NewFromInt(1500),
		CostPrice:    decimal.NewFromInt(1000),
		VendorID:     &v.ID,
	})
	require.NoError(t, err)

	_, err = led.AddTransaction(ctx, TransactionInput{
		Type:      model.TxTypePurchase,
		ProductID: p.ID,
		VendorID:  &v.ID,
		Quantity:  20,
		UnitPrice: decimal.NewFromInt(1000),
	})
	require.NoError(t, err)
	require.NoError(t, led.Flush(ctx))

	reopened, err := Open(ctx, snap, "owner-1", Options{Mode: AdjustmentAbsolute})
	require.NoError(t, err)

	products, vendors, transactions := reopened.Counts()
	assert.Equal(t, 1, products)
	assert.Equal(t, 1, vendors)
	assert.Equal(t, 1, transactions)
	assert.Equal(t, 20, reopened.Stock(p.ID))

	history := reopened.CostHistory(p.ID)
	require.Len(t, history, 1)
	assert.True(t, history[0].CostPrice.Equal(decimal.NewFromInt(1000)))
}

func TestOpenRejectsNewerSchema(t *testing.T) {
	ctx := context.Background()
	snap := store.NewMemoryStore()

	data, err := json.Marshal(model.Snapshot{
		SchemaVersion: model.SnapshotSchemaVersion + 1,
		OwnerID:       "owner-1",
	})
	require.NoError(t, err)
	require.NoError(t, snap.Save(ctx, "ledger:owner-1", data))

	_, err = Open(ctx, snap, "owner-1", Options{Mode: AdjustmentAbsolute})
	assert.Error(t, err)
}

func TestLedgersAreIsolatedPerOwner(t *testing.T) {
	ctx := context.Background()
	snap := store.NewMemoryStore()

	first, err := Open(ctx, snap, "owner-1", Options{Mode: AdjustmentAbsolute})
	require.NoError(t, err)
	addTestProduct(t, first, "Widget", 100, 200)
	require.NoError(t, first.Flush(ctx))

	second, err := Open(ctx, snap, "owner-2", Options{Mode: AdjustmentAbsolute})
	require.NoError(t, err)

	products, _, _ := second.Counts()
	assert.Equal(t, 0, products)
}

func TestManagerCachesLedgers(t *testing.T) {
	ctx := context.Background()
	snap := store.NewMemoryStore()
	mgr := NewManager(snap, AdjustmentAbsolute, nil)

	first, err := mgr.Open(ctx, "owner-1")
	require.NoError(t, err)
	second, err := mgr.Open(ctx, "owner-1")
	require.NoError(t, err)
	assert.Same(t, first, second)

	other, err := mgr.Open(ctx, "owner-2")
	require.NoError(t, err)
	assert.NotSame(t, first, other)
}

func TestManagerFlushAll(t *testing.T) {
	ctx := context.Background()
	snap := store.NewMemoryStore()
	mgr := NewManager(snap, AdjustmentAbsolute, nil)

	led, err := mgr.Open(ctx, "owner-1")
	require.NoError(t, err)
	addTestProduct(t, led, "Widget", 100, 200)

	require.NoError(t, mgr.FlushAll(ctx))

	data, err := snap.Load(ctx, "ledger:owner-1")
	require.NoError(t, err)

	var snapshot model.Snapshot
	require.NoError(t, json.Unmarshal(data, &snapshot))
	assert.Equal(t, model.SnapshotSchemaVersion, snapshot.SchemaVersion)
	assert.Len(t, snapshot.Products, 1)
}

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

func addTx(t *testing.T, led *Ledger, txType string, productID uuid.UUID, qty int, price int64) model.Transaction {
	t.Helper()
	tx, err := led.AddTransaction(context.Background(), TransactionInput{
		Type:      txType,
		ProductID: productID,
		Quantity:  qty,
		UnitPrice: decimal.NewFromInt(price),
	})
	require.NoError(t, err)
	return tx
}

func TestPurchaseIncreasesStock(t *testing.T) {
	led, _ := newTestLedger(t, AdjustmentAbsolute)
	p := addTestProduct(t, led, "Widget", 100, 200)

	addTx(t, led, model.TxTypePurchase, p.ID, 10, 100)
	assert.Equal(t, 10, led.Stock(p.ID))

	addTx(t, led, model.TxTypePurchase, p.ID, 5, 100)
	assert.Equal(t, 15, led.Stock(p.ID))
}

func TestSaleDecreasesStock(t *testing.T) {
	led, _ := newTestLedger(t, AdjustmentAbsolute)
	p := addTestProduct(t, led, "Widget", 100, 200)

	addTx(t, led, model.TxTypePurchase, p.ID, 10, 100)
	addTx(t, led, model.TxTypeSale, p.ID, 4, 200)
	assert.Equal(t, 6, led.Stock(p.ID))
}

func TestOverSaleClampsStockAtZero(t *testing.T) {
	led, _ := newTestLedger(t, AdjustmentAbsolute)
	p := addTestProduct(t, led, "Widget", 100, 200)

	addTx(t, led, model.TxTypePurchase, p.ID, 3, 100)
	addTx(t, led, model.TxTypeSale, p.ID, 10, 200)
	assert.Equal(t, 0, led.Stock(p.ID))
}

func TestAbsoluteAdjustmentSetsStock(t *testing.T) {
	led, _ := newTestLedger(t, AdjustmentAbsolute)
	p := addTestProduct(t, led, "Widget", 100, 200)

	addTx(t, led, model.TxTypePurchase, p.ID, 10, 100)
	addTx(t, led, model.TxTypeAdjustment, p.ID, 25, 0)
	assert.Equal(t, 25, led.Stock(p.ID))

	addTx(t, led, model.TxTypeAdjustment, p.ID, 7, 0)
	assert.Equal(t, 7, led.Stock(p.ID))
}

func TestRelativeAdjustmentAppliesDelta(t *testing.T) {
	led, _ := newTestLedger(t, AdjustmentRelative)
	p := addTestProduct(t, led, "Widget", 100, 200)

	addTx(t, led, model.TxTypePurchase, p.ID, 10, 100)
	addTx(t, led, model.TxTypeAdjustment, p.ID, -3, 0)
	assert.Equal(t, 7, led.Stock(p.ID))

	addTx(t, led, model.TxTypeAdjustment, p.ID, 5, 0)
	assert.Equal(t, 12, led.Stock(p.ID))
}

func TestRelativeAdjustmentClampsAtZero(t *testing.T) {
	led, _ := newTestLedger(t, AdjustmentRelative)
	p := addTestProduct(t, led, "Widget", 100, 200)

	addTx(t, led, model.TxTypePurchase, p.ID, 2, 100)
	addTx(t, led, model.TxTypeAdjustment, p.ID, -50, 0)
	assert.Equal(t, 0, led.Stock(p.ID))
}

func TestQuantityValidation(t *testing.T) {
	ctx := context.Background()

	t.Run("purchase rejects non-positive quantity", func(t *testing.T) {
		led, _ := newTestLedger(t, AdjustmentAbsolute)
		p := addTestProduct(t, led, "Widget", 100, 200)

		_, err := led.AddTransaction(ctx, TransactionInput{
			Type: model.TxTypePurchase, ProductID: p.ID, Quantity: 0, UnitPrice: decimal.NewFromInt(100),
		})
		assert.ErrorIs(t, err, ErrValidation)

		_, err = led.AddTransaction(ctx, TransactionInput{
			Type: model.TxTypePurchase, ProductID: p.ID, Quantity: -5, UnitPrice: decimal.NewFromInt(100),
		})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("relative adjustment rejects only zero", func(t *testing.T) {
		led, _ := newTestLedger(t, AdjustmentRelative)
		p := addTestProduct(t, led, "Widget", 100, 200)

		_, err := led.AddTransaction(ctx, TransactionInput{
			Type: model.TxTypeAdjustment, ProductID: p.ID, Quantity: 0,
		})
		assert.ErrorIs(t, err, ErrValidation)

		_, err = led.AddTransaction(ctx, TransactionInput{
			Type: model.TxTypeAdjustment, ProductID: p.ID, Quantity: -1,
		})
		assert.NoError(t, err)
	})

	t.Run("negative unit price rejected", func(t *testing.T) {
		led, _ := newTestLedger(t, AdjustmentAbsolute)
		p := addTestProduct(t, led, "Widget", 100, 200)

		_, err := led.AddTransaction(ctx, TransactionInput{
			Type: model.TxTypeSale, ProductID: p.ID, Quantity: 1, UnitPrice: decimal.NewFromInt(-10),
		})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("unknown type rejected", func(t *testing.T) {
		led, _ := newTestLedger(t, AdjustmentAbsolute)
		p := addTestProduct(t, led, "Widget", 100, 200)

		_, err := led.AddTransaction(ctx, TransactionInput{
			Type: "transfer", ProductID: p.ID, Quantity: 1, UnitPrice: decimal.NewFromInt(10),
		})
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestAddTransactionUnknownProduct(t *testing.T) {
	led, _ := newTestLedger(t, AdjustmentAbsolute)

	_, err := led.AddTransaction(context.Background(), TransactionInput{
		Type: model.TxTypeSale, ProductID: uuid.New(), Quantity: 1, UnitPrice: decimal.NewFromInt(10),
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTotalAmountDerived(t *testing.T) {
	led, _ := newTestLedger(t, AdjustmentAbsolute)
	p := addTestProduct(t, led, "Widget", 100, 200)

	tx := addTx(t, led, model.TxTypePurchase, p.ID, 7, 150)
	assert.True(t, tx.TotalAmount.Equal(decimal.NewFromInt(1050)))
}

func TestUpdateTransactionRecomputesTotalNotStock(t *testing.T) {
	ctx := context.Background()
	led, _ := newTestLedger(t, AdjustmentAbsolute)
	p := addTestProduct(t, led, "Widget", 100, 200)

	tx := addTx(t, led, model.TxTypePurchase, p.ID, 10, 100)
	require.Equal(t, 10, led.Stock(p.ID))

	newQty := 4
	newPrice := decimal.NewFromInt(250)
	updated, err := led.UpdateTransaction(ctx, tx.ID, TransactionPatch{
		Quantity:  &newQty,
		UnitPrice: &newPrice,
	})
	require.NoError(t, err)

	assert.Equal(t, 4, updated.Quantity)
	assert.True(t, updated.TotalAmount.Equal(decimal.NewFromInt(1000)))
	// Stock reflects the original delta; edits do not replay stock effects.
	assert.Equal(t, 10, led.Stock(p.ID))
}

func TestDeleteTransactionKeepsStock(t *testing.T) {
	ctx := context.Background()
	led, _ := newTestLedger(t, AdjustmentAbsolute)
	p := addTestProduct(t, led, "Widget", 100, 200)

	tx := addTx(t, led, model.TxTypePurchase, p.ID, 10, 100)
	require.NoError(t, led.DeleteTransaction(ctx, tx.ID))

	_, err := led.Transaction(tx.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 10, led.Stock(p.ID))
}

func TestTransactionsByDateRange(t *testing.T) {
	led, _ := newTestLedger(t, AdjustmentAbsolute)
	p := addTestProduct(t, led, "Widget", 100, 200)

	before := time.Now().Add(-time.Minute)
	addTx(t, led, model.TxTypePurchase, p.ID, 1, 100)
	addTx(t, led, model.TxTypeSale, p.ID, 1, 200)
	after := time.Now().Add(time.Minute)

	assert.Len(t, led.TransactionsByDateRange(before, after), 2)
	assert.Empty(t, led.TransactionsByDateRange(after, after.Add(time.Hour)))
}

func TestReadsAreIdempotent(t *testing.T) {
	led, _ := newTestLedger(t, AdjustmentAbsolute)
	p := addTestProduct(t, led, "Widget", 100, 200)
	addTx(t, led, model.TxTypePurchase, p.ID, 10, 100)

	for i := 0; i < 3; i++ {
		assert.Equal(t, 10, led.Stock(p.ID))
		_, _, transactions := led.Counts()
		assert.Equal(t, 1, transactions)
	}
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListTransactionsDateFilter(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	txs := NewTransactionService(env.ledgers, NewEntitlements(env.users), nil)

	p, err := env.products.CreateProduct(ctx, env.ownerID, CreateProductRequest{
		Name:         "Widget",
		CurrentPrice: decimal.NewFromInt(200),
	})
	require.NoError(t, err)

	created, err := txs.CreateTransaction(ctx, env.ownerID, CreateTransactionRequest{
		Type:      "purchase",
		ProductID: p.ID,
		Quantity:  3,
		UnitPrice: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	future := time.Now().Add(time.Hour)
	past := time.Now().Add(-time.Hour)

	t.Run("start only excludes earlier transactions", func(t *testing.T) {
		res, err := txs.ListTransactions(ctx, env.ownerID, TransactionFilter{Start: &future})
		require.NoError(t, err)
		assert.Empty(t, res)
	})

	t.Run("end only excludes later transactions", func(t *testing.T) {
		res, err := txs.ListTransactions(ctx, env.ownerID, TransactionFilter{End: &past})
		require.NoError(t, err)
		assert.Empty(t, res)
	})

	t.Run("enclosing bound keeps the transaction", func(t *testing.T) {
		res, err := txs.ListTransactions(ctx, env.ownerID, TransactionFilter{Start: &past, End: &future})
		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.Equal(t, created.ID, res[0].ID)
	})
}

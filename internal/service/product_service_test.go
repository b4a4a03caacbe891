package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListProductsFilters(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	for _, p := range []struct {
		name     string
		category string
	}{
		{"Arabica Coffee", "beverages"},
		{"Robusta Coffee", "beverages"},
		{"Dish Soap", "household"},
	} {
		_, err := env.products.CreateProduct(ctx, env.ownerID, CreateProductRequest{
			Name:     p.name,
			Category: p.category,
		})
		require.NoError(t, err)
	}

	all, err := env.products.ListProducts(ctx, env.ownerID, "", "", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	beverages, err := env.products.ListProducts(ctx, env.ownerID, "", "beverages", "")
	require.NoError(t, err)
	assert.Len(t, beverages, 2)

	coffee, err := env.products.ListProducts(ctx, env.ownerID, "", "", "coffee")
	require.NoError(t, err)
	assert.Len(t, coffee, 2)

	robusta, err := env.products.ListProducts(ctx, env.ownerID, "", "household", "soap")
	require.NoError(t, err)
	require.Len(t, robusta, 1)
	assert.Equal(t, "Dish Soap", robusta[0].Name)
}

func TestGetCostHistoryUnknownProduct(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.products.GetCostHistory(ctx, env.ownerID, "not-a-uuid")
	assert.Error(t, err)
}

package service

import (
	"context"
	"testing"

	"bizledger/internal/model"
	"bizledger/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEntitlements(t *testing.T, tier string) (*Entitlements, model.User) {
	t.Helper()
	ctx := context.Background()
	users, err := store.NewUserStore(ctx, store.NewMemoryStore())
	require.NoError(t, err)

	user, err := users.Create(ctx, model.User{Email: "owner@example.com", Tier: tier})
	require.NoError(t, err)
	return NewEntitlements(users), user
}

func TestTier(t *testing.T) {
	ctx := context.Background()

	ents, user := newTestEntitlements(t, model.TierPremium)
	assert.Equal(t, model.TierPremium, ents.Tier(ctx, user.ID.String()))

	// Unknown or malformed owners fall back to free.
	assert.Equal(t, model.TierFree, ents.Tier(ctx, "not-a-uuid"))
}

func TestCheckQuotaFreeTier(t *testing.T) {
	ctx := context.Background()
	ents, user := newTestEntitlements(t, model.TierFree)
	owner := user.ID.String()

	assert.NoError(t, ents.CheckQuota(ctx, owner, FreeMaxProducts-1, FreeMaxProducts, "product"))
	assert.ErrorIs(t, ents.CheckQuota(ctx, owner, FreeMaxProducts, FreeMaxProducts, "product"), ErrLimitExceeded)
	assert.ErrorIs(t, ents.CheckQuota(ctx, owner, FreeMaxVendors, FreeMaxVendors, "vendor"), ErrLimitExceeded)
	assert.ErrorIs(t, ents.CheckQuota(ctx, owner, FreeMaxTransactions, FreeMaxTransactions, "transaction"), ErrLimitExceeded)
}

func TestCheckQuotaPremiumUnlimited(t *testing.T) {
	ctx := context.Background()
	ents, user := newTestEntitlements(t, model.TierPremium)

	assert.NoError(t, ents.CheckQuota(ctx, user.ID.String(), FreeMaxProducts*100, FreeMaxProducts, "product"))
}

package store

import (
	"context"
	"testing"

	"bizledger/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserStoreCreate(t *testing.T) {
	ctx := context.Background()
	snap := NewMemoryStore()
	s, err := NewUserStore(ctx, snap)
	require.NoError(t, err)

	user, err := s.Create(ctx, model.User{
		Email:        "owner@example.com",
		PasswordHash: "hash",
		BusinessName: "Corner Shop",
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, model.TierFree, user.Tier)
	assert.False(t, user.CreatedAt.IsZero())
}

func TestUserStoreRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	s, err := NewUserStore(ctx, NewMemoryStore())
	require.NoError(t, err)

	_, err = s.Create(ctx, model.User{Email: "owner@example.com"})
	require.NoError(t, err)

	_, err = s.Create(ctx, model.User{Email: "Owner@Example.com"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestUserStoreLookups(t *testing.T) {
	ctx := context.Background()
	s, err := NewUserStore(ctx, NewMemoryStore())
	require.NoError(t, err)

	created, err := s.Create(ctx, model.User{Email: "owner@example.com"})
	require.NoError(t, err)

	byEmail, err := s.GetByEmail(ctx, "OWNER@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	byID, err := s.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Email, byID.Email)

	_, err = s.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserStoreUpdate(t *testing.T) {
	ctx := context.Background()
	s, err := NewUserStore(ctx, NewMemoryStore())
	require.NoError(t, err)

	user, err := s.Create(ctx, model.User{Email: "owner@example.com"})
	require.NoError(t, err)

	user.Tier = model.TierPremium
	updated, err := s.Update(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, model.TierPremium, updated.Tier)
	assert.Equal(t, user.CreatedAt, updated.CreatedAt)

	missing := model.User{ID: uuid.New()}
	_, err = s.Update(ctx, missing)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserStorePersistsAcrossReload(t *testing.T) {
	ctx := context.Background()
	snap := NewMemoryStore()

	first, err := NewUserStore(ctx, snap)
	require.NoError(t, err)
	created, err := first.Create(ctx, model.User{Email: "owner@example.com", Tier: model.TierPremium})
	require.NoError(t, err)

	second, err := NewUserStore(ctx, snap)
	require.NoError(t, err)
	loaded, err := second.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TierPremium, loaded.Tier)
}

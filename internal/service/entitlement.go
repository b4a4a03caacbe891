package service

import (
	"context"
	"errors"
	"fmt"

	"bizledger/internal/model"
	"bizledger/internal/store"

	"github.com/google/uuid"
)

// Free-tier record limits. Premium accounts are unlimited. The limits are
// enforced here, before the ledger mutation, so the ledger itself stays
// tier-agnostic.
const (
	FreeMaxProducts     = 50
	FreeMaxVendors      = 20
	FreeMaxTransactions = 500
)

// ErrLimitExceeded signals that a free-tier record limit was hit.
var ErrLimitExceeded = errors.New("free tier limit reached, upgrade to premium")

// Entitlements answers tier questions for an account. The tier is read from
// the user record; a real in-app-purchase provider sits behind the
// subscription service and flips that field.
type Entitlements struct {
	users *store.UserStore
}

func NewEntitlements(users *store.UserStore) *Entitlements {
	return &Entitlements{users: users}
}

// Tier returns the subscription tier for an account, defaulting to free
// when the account cannot be resolved.
func (e *Entitlements) Tier(ctx context.Context, ownerID string) string {
	uid, err := uuid.Parse(ownerID)
	if err != nil {
		return model.TierFree
	}
	user, err := e.users.GetByID(ctx, uid)
	if err != nil {
		return model.TierFree
	}
	return user.Tier
}

// CheckQuota returns ErrLimitExceeded when a free-tier account already uses
// its allowance of the given resource.
func (e *Entitlements) CheckQuota(ctx context.Context, ownerID string, used, freeLimit int, resource string) error {
	if e.Tier(ctx, ownerID) == model.TierPremium {
		return nil
	}
	if used >= freeLimit {
		return fmt.Errorf("%w: %s limit is %d", ErrLimitExceeded, resource, freeLimit)
	}
	return nil
}

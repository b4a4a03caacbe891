package service

import (
	"context"
	"fmt"

	"bizledger/internal/ledger"
	"bizledger/internal/model"
	"bizledger/internal/store"

	"github.com/google/uuid"
)

// --- DTOs ---

type SubscriptionStatusResponse struct {
	Tier   string                `json:"tier"`
	Limits map[string]QuotaUsage `json:"limits"`
}

type QuotaUsage struct {
	Used  int `json:"used"`
	Limit int `json:"limit"` // -1 means unlimited
}

// --- Interface ---

type SubscriptionService interface {
	GetStatus(ctx context.Context, ownerID string) (SubscriptionStatusResponse, error)
	Upgrade(ctx context.Context, ownerID string) (*UserResponse, error)
}

// subscriptionService models the confirmation side of an external
// entitlement provider: the purchase itself happens out of process, and
// Upgrade records the resulting tier on the account.
type subscriptionService struct {
	users   *store.UserStore
	ledgers *ledger.Manager
}

func NewSubscriptionService(users *store.UserStore, ledgers *ledger.Manager) SubscriptionService {
	return &subscriptionService{users: users, ledgers: ledgers}
}

// --- Implementation ---

func (s *subscriptionService) GetStatus(ctx context.Context, ownerID string) (SubscriptionStatusResponse, error) {
	uid, err := uuid.Parse(ownerID)
	if err != nil {
		return SubscriptionStatusResponse{}, store.ErrUserNotFound
	}
	user, err := s.users.GetByID(ctx, uid)
	if err != nil {
		return SubscriptionStatusResponse{}, err
	}

	led, err := s.ledgers.Open(ctx, ownerID)
	if err != nil {
		return SubscriptionStatusResponse{}, fmt.Errorf("open ledger: %w", err)
	}
	products, vendors, transactions := led.Counts()

	limit := func(free int) int {
		if user.IsPremium() {
			return -1
		}
		return free
	}
	return SubscriptionStatusResponse{
		Tier: user.Tier,
		Limits: map[string]QuotaUsage{
			"products":     {Used: products, Limit: limit(FreeMaxProducts)},
			"vendors":      {Used: vendors, Limit: limit(FreeMaxVendors)},
			"transactions": {Used: transactions, Limit: limit(FreeMaxTransactions)},
		},
	}, nil
}

func (s *subscriptionService) Upgrade(ctx context.Context, ownerID string) (*UserResponse, error) {
	uid, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, store.ErrUserNotFound
	}
	user, err := s.users.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if user.IsPremium() {
		return mapUserResponse(user), nil
	}

	user.Tier = model.TierPremium
	user, err = s.users.Update(ctx, user)
	if err != nil {
		return nil, err
	}
	return mapUserResponse(user), nil
}

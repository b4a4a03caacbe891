package model

import (
	"time"

	"github.com/google/uuid"
)

// Tier enum constants
const (
	TierFree    = "free"
	TierPremium = "premium"
)

// User represents an authenticated account. Each user owns exactly one
// ledger, persisted under its own snapshot namespace. PasswordHash is kept
// in the persisted snapshot but never serialized into API responses (the
// service layer maps users to response DTOs).
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	BusinessName string    `json:"business_name"`
	Tier         string    `json:"tier"` // free, premium
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsPremium reports whether the user is on the premium tier
func (u User) IsPremium() bool {
	return u.Tier == TierPremium
}

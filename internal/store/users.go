package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"bizledger/internal/model"

	"github.com/google/uuid"
)

const usersNamespace = "users"

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

// UserStore keeps the registered accounts in memory and flushes the whole
// set to the key-value store on every change, mirroring how the ledger
// persists its own state.
type UserStore struct {
	mu    sync.RWMutex
	snap  Snapshotter
	users []model.User
}

// NewUserStore loads any previously persisted user set from snap.
func NewUserStore(ctx context.Context, snap Snapshotter) (*UserStore, error) {
	s := &UserStore{snap: snap}

	data, err := snap.Load(ctx, usersNamespace)
	if errors.Is(err, ErrNoSnapshot) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	if err := json.Unmarshal(data, &s.users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return s, nil
}

func (s *UserStore) Create(ctx context.Context, user model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(user.Email)
	for _, u := range s.users {
		if strings.ToLower(u.Email) == email {
			return model.User{}, ErrEmailTaken
		}
	}

	now := time.Now().UTC()
	user.ID = uuid.New()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Tier == "" {
		user.Tier = model.TierFree
	}
	s.users = append(s.users, user)

	if err := s.flushLocked(ctx); err != nil {
		return model.User{}, err
	}
	return user, nil
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	email = strings.ToLower(email)
	for _, u := range s.users {
		if strings.ToLower(u.Email) == email {
			return u, nil
		}
	}
	return model.User{}, ErrUserNotFound
}

func (s *UserStore) GetByID(_ context.Context, id uuid.UUID) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return model.User{}, ErrUserNotFound
}

// Update replaces the stored record matching user.ID.
func (s *UserStore) Update(ctx context.Context, user model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, u := range s.users {
		if u.ID == user.ID {
			user.CreatedAt = u.CreatedAt
			user.UpdatedAt = time.Now().UTC()
			s.users[i] = user
			if err := s.flushLocked(ctx); err != nil {
				return model.User{}, err
			}
			return user, nil
		}
	}
	return model.User{}, ErrUserNotFound
}

func (s *UserStore) flushLocked(ctx context.Context) error {
	data, err := json.Marshal(s.users)
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}
	if err := s.snap.Save(ctx, usersNamespace, data); err != nil {
		return fmt.Errorf("persist users: %w", err)
	}
	return nil
}

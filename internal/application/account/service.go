package account

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-account-verifier/internal/domain"
)

// Manager reads and writes users and their per-property account data.
type Manager interface {
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	GetAccountData(ctx context.Context, u *domain.User) (domain.AccountData, error)
	UpdateAccountData(ctx context.Context, u *domain.User, data domain.AccountData) error
	FederationID(u *domain.User) string
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

type accountStore interface {
	List(ctx context.Context, userID string) (domain.AccountData, error)
	PutAll(ctx context.Context, userID string, data domain.AccountData) error
}

type manager struct {
	users       userStore
	accounts    accountStore
	cloudIDHost string
}

type ManagerDeps struct {
	UserRepo    userStore
	AccountRepo accountStore
	CloudIDHost string
}

func NewManager(deps ManagerDeps) Manager {
	return &manager{
		users:       deps.UserRepo,
		accounts:    deps.AccountRepo,
		cloudIDHost: deps.CloudIDHost,
	}
}

// GetUser returns an error wrapping domain.ErrNotFound when the user is
// unknown or disabled.
func (m *manager) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("empty user id: %w", domain.ErrNotFound)
	}
	return m.users.Get(ctx, userID)
}

func (m *manager) GetAccountData(ctx context.Context, u *domain.User) (domain.AccountData, error) {
	data, err := m.accounts.List(ctx, u.UserID)
	if err != nil {
		return nil, fmt.Errorf("load account data for %s: %w", u.UserID, err)
	}
	return data, nil
}

func (m *manager) UpdateAccountData(ctx context.Context, u *domain.User, data domain.AccountData) error {
	if len(data) == 0 {
		return nil
	}
	if err := m.accounts.PutAll(ctx, u.UserID, data); err != nil {
		return fmt.Errorf("store account data for %s: %w", u.UserID, err)
	}
	return nil
}

// FederationID is the user's cloud id as published on the lookup directory.
func (m *manager) FederationID(u *domain.User) string {
	return u.UserID + "@" + m.cloudIDHost
}

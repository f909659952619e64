package account

import (
	"context"
	"errors"
	"testing"

	"github.com/go-account-verifier/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockAccountStore struct{ mock.Mock }

func (m *mockAccountStore) List(ctx context.Context, userID string) (domain.AccountData, error) {
	args := m.Called(ctx, userID)
	data, _ := args.Get(0).(domain.AccountData)
	return data, args.Error(1)
}
func (m *mockAccountStore) PutAll(ctx context.Context, userID string, data domain.AccountData) error {
	return m.Called(ctx, userID, data).Error(0)
}

func newManager(us *mockUserStore, as *mockAccountStore) Manager {
	return NewManager(ManagerDeps{UserRepo: us, AccountRepo: as, CloudIDHost: "cloud.example.com"})
}

// --- tests ---

func TestGetUser_Found(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, "alice").Return(&domain.User{UserID: "alice"}, nil)

	u, err := newManager(us, nil).GetUser(context.Background(), "alice")

	require.NoError(t, err)
	assert.Equal(t, "alice", u.UserID)
	us.AssertExpectations(t)
}

func TestGetUser_NotFound(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, "ghost").Return(nil, domain.ErrNotFound)

	_, err := newManager(us, nil).GetUser(context.Background(), "ghost")

	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestGetUser_EmptyID(t *testing.T) {
	us := &mockUserStore{}

	_, err := newManager(us, nil).GetUser(context.Background(), "  ")

	assert.True(t, errors.Is(err, domain.ErrNotFound))
	us.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestGetAccountData_WrapsStoreError(t *testing.T) {
	as := &mockAccountStore{}
	boom := errors.New("throttled")
	as.On("List", mock.Anything, "alice").Return(nil, boom)

	_, err := newManager(nil, as).GetAccountData(context.Background(), &domain.User{UserID: "alice"})

	assert.ErrorIs(t, err, boom)
}

func TestUpdateAccountData_Writes(t *testing.T) {
	as := &mockAccountStore{}
	data := domain.AccountData{
		domain.PropertyEmail: {Value: "alice@example.com", Verified: domain.Verified},
	}
	as.On("PutAll", mock.Anything, "alice", data).Return(nil)

	err := newManager(nil, as).UpdateAccountData(context.Background(), &domain.User{UserID: "alice"}, data)

	require.NoError(t, err)
	as.AssertExpectations(t)
}

func TestUpdateAccountData_EmptyIsNoop(t *testing.T) {
	as := &mockAccountStore{}

	err := newManager(nil, as).UpdateAccountData(context.Background(), &domain.User{UserID: "alice"}, domain.AccountData{})

	require.NoError(t, err)
	as.AssertNotCalled(t, "PutAll", mock.Anything, mock.Anything, mock.Anything)
}

func TestFederationID(t *testing.T) {
	m := newManager(nil, nil)
	assert.Equal(t, "alice@cloud.example.com", m.FederationID(&domain.User{UserID: "alice"}))
}

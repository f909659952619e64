package dashboard

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

type mockPreferenceStore struct{ mock.Mock }

func (m *mockPreferenceStore) Get(ctx context.Context, userID, app, key string) (string, error) {
	args := m.Called(ctx, userID, app, key)
	return args.String(0), args.Error(1)
}
func (m *mockPreferenceStore) Set(ctx context.Context, userID, app, key, value string) error {
	return m.Called(ctx, userID, app, key, value).Error(0)
}

func newService(t *testing.T, prefs *mockPreferenceStore) Service {
	r := NewRegistry()
	require.NoError(t, RegisterDefaults(r))
	return NewService(ServiceDeps{PreferenceRepo: prefs, Panels: r})
}

// --- State ---

func TestState_DefaultLayout(t *testing.T) {
	prefs := &mockPreferenceStore{}
	prefs.On("Get", mock.Anything, "alice", "dashboard", "layout").Return("", domain.ErrNotFound)

	st, err := newService(t, prefs).State(context.Background(), "alice")

	require.NoError(t, err)
	assert.Equal(t, []string{"calendar", "recommendations", "spreed", "mail"}, st.Layout)
	assert.Len(t, st.Panels, 4)
}

func TestState_StoredLayout(t *testing.T) {
	prefs := &mockPreferenceStore{}
	prefs.On("Get", mock.Anything, "alice", "dashboard", "layout").Return("mail,calendar", nil)

	st, err := newService(t, prefs).State(context.Background(), "alice")

	require.NoError(t, err)
	assert.Equal(t, []string{"mail", "calendar"}, st.Layout)
}

func TestState_StoreError(t *testing.T) {
	prefs := &mockPreferenceStore{}
	prefs.On("Get", mock.Anything, "alice", "dashboard", "layout").Return("", errors.New("unavailable"))

	_, err := newService(t, prefs).State(context.Background(), "alice")

	assert.Error(t, err)
}

// --- SetLayout ---

func TestSetLayout_PersistsAndEchoes(t *testing.T) {
	prefs := &mockPreferenceStore{}
	prefs.On("Set", mock.Anything, "alice", "dashboard", "layout", "mail,spreed").Return(nil)

	got, err := newService(t, prefs).SetLayout(context.Background(), "alice", "mail,spreed")

	require.NoError(t, err)
	assert.Equal(t, "mail,spreed", got)
	prefs.AssertExpectations(t)
}

func TestSetLayout_TrimsIDs(t *testing.T) {
	prefs := &mockPreferenceStore{}
	prefs.On("Set", mock.Anything, "alice", "dashboard", "layout", "mail,spreed").Return(nil)

	got, err := newService(t, prefs).SetLayout(context.Background(), "alice", " mail , spreed")

	require.NoError(t, err)
	assert.Equal(t, "mail,spreed", got)
}

func TestSetLayout_RoundTripsThroughState(t *testing.T) {
	stored := ""
	prefs := &mockPreferenceStore{}
	prefs.On("Set", mock.Anything, "alice", "dashboard", "layout", mock.Anything).
		Run(func(args mock.Arguments) { stored = args.String(4) }).Return(nil)
	svc := newService(t, prefs)

	_, err := svc.SetLayout(context.Background(), "alice", "spreed,calendar")
	require.NoError(t, err)

	prefs.On("Get", mock.Anything, "alice", "dashboard", "layout").Return(stored, nil)
	st, err := svc.State(context.Background(), "alice")

	require.NoError(t, err)
	assert.Equal(t, []string{"spreed", "calendar"}, st.Layout)
}

func TestSetLayout_Invalid(t *testing.T) {
	for _, layout := range []string{"", "mail,,calendar", "<b>"} {
		t.Run(layout, func(t *testing.T) {
			prefs := &mockPreferenceStore{}

			_, err := newService(t, prefs).SetLayout(context.Background(), "alice", layout)

			assert.True(t, errors.Is(err, domain.ErrBadRequest))
			prefs.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

package dashboard

import (
	"errors"
	"testing"

	"github.com/go-account-verifier/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_KeepsRegistrationOrder(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, RegisterDefaults(r))

	ids := make([]string, 0, 4)
	for _, p := range r.Panels() {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, splitLayout(DefaultLayout), ids)
}

func TestRegistry_DuplicateID(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(domain.Panel{ID: "mail"}))

	err := r.Register(domain.Panel{ID: "mail", Title: "Other"})

	assert.True(t, errors.Is(err, domain.ErrConflict))
	assert.Len(t, r.Panels(), 1)
}

func TestRegistry_EmptyID(t *testing.T) {
	err := NewRegistry().Register(domain.Panel{Title: "nameless"})
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestRegistry_PanelsReturnsCopy(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(domain.Panel{ID: "mail", Title: "Mail"}))

	got := r.Panels()
	got[0].Title = "changed"

	assert.Equal(t, "Mail", r.Panels()[0].Title)
}

package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-account-verifier/internal/domain"
	"github.com/go-account-verifier/internal/pkg/validate"
)

// DefaultLayout is served to users who never stored a layout.
const DefaultLayout = "calendar,recommendations,spreed,mail"

// Preference coordinates of the stored layout.
const (
	prefApp    = "dashboard"
	prefLayout = "layout"
)

type Service interface {
	State(ctx context.Context, userID string) (*domain.DashboardState, error)
	SetLayout(ctx context.Context, userID, layout string) (string, error)
}

type preferenceStore interface {
	Get(ctx context.Context, userID, app, key string) (string, error)
	Set(ctx context.Context, userID, app, key, value string) error
}

type panelSource interface {
	Panels() []domain.Panel
}

type service struct {
	prefs  preferenceStore
	panels panelSource
}

type ServiceDeps struct {
	PreferenceRepo preferenceStore
	Panels         panelSource
}

func NewService(deps ServiceDeps) Service {
	return &service{prefs: deps.PreferenceRepo, panels: deps.Panels}
}

func (s *service) State(ctx context.Context, userID string) (*domain.DashboardState, error) {
	layout, err := s.prefs.Get(ctx, userID, prefApp, prefLayout)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		layout = DefaultLayout
	case err != nil:
		return nil, err
	}
	return &domain.DashboardState{
		Panels: s.panels.Panels(),
		Layout: splitLayout(layout),
	}, nil
}

// SetLayout stores layout for the user and returns the stored value.
func (s *service) SetLayout(ctx context.Context, userID, layout string) (string, error) {
	req := domain.SetLayoutRequest{Layout: layout}
	if err := validate.Struct(req); err != nil {
		return "", fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}
	normalized := strings.Join(splitLayout(layout), ",")
	if err := s.prefs.Set(ctx, userID, prefApp, prefLayout, normalized); err != nil {
		return "", err
	}
	return normalized, nil
}

func splitLayout(layout string) []string {
	parts := strings.Split(layout, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

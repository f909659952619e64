package dashboard

import (
	"fmt"
	"sync"

	"github.com/go-account-verifier/internal/domain"
)

// Registry holds the panels available to the dashboard, in registration order.
type Registry struct {
	mu     sync.RWMutex
	panels []domain.Panel
	ids    map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{ids: map[string]struct{}{}}
}

func (r *Registry) Register(p domain.Panel) error {
	if p.ID == "" {
		return fmt.Errorf("panel id is required: %w", domain.ErrBadRequest)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ids[p.ID]; ok {
		return fmt.Errorf("panel %q already registered: %w", p.ID, domain.ErrConflict)
	}
	r.ids[p.ID] = struct{}{}
	r.panels = append(r.panels, p)
	return nil
}

// Panels returns a copy of the registered panels.
func (r *Registry) Panels() []domain.Panel {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Panel, len(r.panels))
	copy(out, r.panels)
	return out
}

// DefaultPanels are the panels named by DefaultLayout.
func DefaultPanels() []domain.Panel {
	return []domain.Panel{
		{ID: "calendar", Title: "Upcoming events", IconClass: "icon-calendar-dark", URL: "/apps/calendar"},
		{ID: "recommendations", Title: "Recommended files", IconClass: "icon-files-dark", URL: "/apps/files"},
		{ID: "spreed", Title: "Talk mentions", IconClass: "icon-talk", URL: "/apps/spreed"},
		{ID: "mail", Title: "Important mail", IconClass: "icon-mail", URL: "/apps/mail"},
	}
}

// RegisterDefaults registers every panel from DefaultPanels.
func RegisterDefaults(r *Registry) error {
	for _, p := range DefaultPanels() {
		if err := r.Register(p); err != nil {
			return err
		}
	}
	return nil
}

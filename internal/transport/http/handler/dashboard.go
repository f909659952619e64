package handler

import (
	"net/http"

	"github.com/go-account-verifier/internal/application/dashboard"
	"github.com/go-account-verifier/internal/domain"
	"github.com/go-account-verifier/internal/transport/http/middleware"
)

// DashboardHandler serves the caller's dashboard state and layout.
type DashboardHandler struct {
	svc dashboard.Service
}

func NewDashboardHandler(svc dashboard.Service) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

func (h *DashboardHandler) State(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	st, err := h.svc.State(r.Context(), claims.UserID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *DashboardHandler) SetLayout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.SetLayoutRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	layout, err := h.svc.SetLayout(r.Context(), claims.UserID, req.Layout)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, LayoutEnvelope{Layout: layout})
}

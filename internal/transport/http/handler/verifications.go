package handler

import (
	"net/http"

	"github.com/go-account-verifier/internal/application/verification"
	"github.com/go-account-verifier/internal/domain"
	"github.com/go-account-verifier/internal/transport/http/middleware"
)

// VerificationHandler starts property verifications and lists pending ones.
type VerificationHandler struct {
	svc verification.Service
}

func NewVerificationHandler(svc verification.Service) *VerificationHandler {
	return &VerificationHandler{svc: svc}
}

func (h *VerificationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.SubmitVerificationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	vr, err := h.svc.Submit(r.Context(), claims.UserID, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, VerificationEnvelope{Verification: vr})
}

func (h *VerificationHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	reqs, err := h.svc.Pending(r.Context(), claims.UserID)
	if err != nil {
		httpError(w, err)
		return
	}
	if reqs == nil {
		reqs = []domain.VerificationRequest{}
	}
	writeJSON(w, http.StatusOK, VerificationListEnvelope{Data: reqs})
}

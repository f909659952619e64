package http

import (
	"github.com/go-account-verifier/internal/application/dashboard"
	"github.com/go-account-verifier/internal/application/verification"
	"github.com/go-account-verifier/internal/transport/http/middleware"
	"go.uber.org/zap"
)

// Deps holds everything the router needs. TokenVerifier may be nil, in which
// case authenticated routes reject every request.
type Deps struct {
	DashboardService    dashboard.Service
	VerificationService verification.Service
	TokenVerifier       middleware.TokenVerifier
	Logger              *zap.Logger
	// SubmitLimiter throttles verification submissions and layout writes.
	// The caller owns it and closes it on shutdown. Nil disables throttling.
	SubmitLimiter *middleware.RateLimiter
}

package http

import (
	"errors"
	"net/http"

	"github.com/go-account-verifier/internal/config"
	jwtinfra "github.com/go-account-verifier/internal/infrastructure/jwt"
	"github.com/go-account-verifier/internal/transport/http/handler"
	appmiddleware "github.com/go-account-verifier/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

type denyAll struct{}

func (denyAll) Verify(string) (*jwtinfra.Claims, error) {
	return nil, errors.New("no token verifier configured")
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(appmiddleware.RequestLogger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var verifier appmiddleware.TokenVerifier = denyAll{}
	if deps.TokenVerifier != nil {
		verifier = deps.TokenVerifier
	}
	authMw := appmiddleware.Auth(verifier)

	throttle := func(next http.Handler) http.Handler { return next }
	if deps.SubmitLimiter != nil {
		throttle = deps.SubmitLimiter.Limit
	}

	healthH := handler.NewHealthHandler()
	dashboardH := handler.NewDashboardHandler(deps.DashboardService)
	verificationH := handler.NewVerificationHandler(deps.VerificationService)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health-check/{action}", healthH.Ping)

		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/dashboard", dashboardH.State)
			r.With(throttle).Post("/dashboard/layout", dashboardH.SetLayout)

			r.Get("/verifications", verificationH.List)
			r.With(throttle).Post("/verifications", verificationH.Submit)
		})
	})

	return r
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-account-verifier/internal/application/account"
	"github.com/go-account-verifier/internal/application/dashboard"
	"github.com/go-account-verifier/internal/application/verification"
	"github.com/go-account-verifier/internal/config"
	"github.com/go-account-verifier/internal/domain"
	"github.com/go-account-verifier/internal/infrastructure/dynamo"
	jwtinfra "github.com/go-account-verifier/internal/infrastructure/jwt"
	"github.com/go-account-verifier/internal/infrastructure/lookup"
	natsinfra "github.com/go-account-verifier/internal/infrastructure/nats"
	"github.com/go-account-verifier/internal/infrastructure/sns"
	"github.com/go-account-verifier/internal/infrastructure/website"
	"github.com/go-account-verifier/internal/logger"
	"github.com/go-account-verifier/internal/pkg/httpclient"
	"github.com/go-account-verifier/internal/scheduler"
	transporthttp "github.com/go-account-verifier/internal/transport/http"
	"github.com/go-account-verifier/internal/transport/http/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type eventsPublisher interface {
	PublishVerificationCompleted(ctx context.Context, ev domain.VerificationCompleted) error
	Close()
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(cfg.Log.Level, cfg.Log.JSON)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx := context.Background()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient, err := dynamo.NewClient(ctx, cfg)
	if err != nil {
		zl.Fatal("failed to create DynamoDB client", zap.Error(err))
	}
	dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables, zl)

	userRepo := dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users)
	accountRepo := dynamo.NewAccountRepo(dynamoClient, cfg.DynamoTables.AccountData)
	prefRepo := dynamo.NewPreferenceRepo(dynamoClient, cfg.DynamoTables.Preferences)
	jobRepo := dynamo.NewVerificationJobRepo(dynamoClient, cfg.DynamoTables.VerificationJobs)

	accounts := account.NewManager(account.ManagerDeps{
		UserRepo:    userRepo,
		AccountRepo: accountRepo,
		CloudIDHost: cfg.Verification.CloudIDHost,
	})

	events, err := newEventsPublisher(ctx, cfg, zl)
	if err != nil {
		zl.Warn("events publisher not available, verification events are disabled", zap.Error(err))
	}

	outbound := httpclient.New(httpclient.DefaultDialTimeout, httpclient.DefaultTotalTimeout)
	job := verification.NewJob(verification.JobDeps{
		Accounts:  accounts,
		Queue:     jobRepo,
		Prober:    website.NewProber(outbound),
		Directory: lookup.NewClient(cfg.Verification.LookupServerURL, outbound),
		Events:    events,
		Logger:    zl.Named("verification"),
	})

	sched := scheduler.New(scheduler.Deps{
		Queue:    jobRepo,
		Job:      job,
		Interval: cfg.Verification.PollInterval,
		Logger:   zl.Named("scheduler"),
	})
	if err := sched.Start(); err != nil {
		zl.Fatal("failed to start scheduler", zap.Error(err))
	}

	panels := dashboard.NewRegistry()
	if err := dashboard.RegisterDefaults(panels); err != nil {
		zl.Fatal("failed to register dashboard panels", zap.Error(err))
	}

	// Token verifier (optional: authenticated routes reject everything without it).
	var verifier *jwtinfra.Verifier
	if v, err := jwtinfra.LoadVerifier(cfg.JWTPublicKeyPath); err == nil {
		verifier = v
	} else {
		zl.Warn("JWT verifier not available", zap.Error(err))
	}

	// 2 requests/second, burst of 5.
	writeLimiter := middleware.NewRateLimiter(rate.Limit(2), 5)

	deps := &transporthttp.Deps{
		DashboardService: dashboard.NewService(dashboard.ServiceDeps{
			PreferenceRepo: prefRepo,
			Panels:         panels,
		}),
		VerificationService: verification.NewService(verification.ServiceDeps{
			Accounts: accounts,
			Queue:    jobRepo,
			Logger:   zl.Named("verification"),
		}),
		Logger:        zl.Named("http"),
		SubmitLimiter: writeLimiter,
	}
	if verifier != nil {
		deps.TokenVerifier = verifier
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      transporthttp.NewRouter(cfg, deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		zl.Info("server starting", zap.String("port", cfg.AppPort), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zl.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("forced shutdown", zap.Error(err))
	}
	writeLimiter.Close()
	sched.Stop()
	if events != nil {
		events.Close()
	}
	zl.Info("server stopped")
}

// newEventsPublisher returns nil without error when events are disabled.
func newEventsPublisher(ctx context.Context, cfg *config.Config, zl *zap.Logger) (eventsPublisher, error) {
	switch cfg.Events.Backend {
	case "sns":
		p, err := sns.NewPublisher(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return p, nil
	case "nats":
		p, err := natsinfra.NewPublisher(cfg.Events.NATSURL, zl.Named("nats"))
		if err != nil {
			return nil, err
		}
		return p, nil
	}
	return nil, nil
}

package verification

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-account-verifier/internal/domain"
	"github.com/go-account-verifier/internal/infrastructure/lookup"
	"go.uber.org/zap"
)

const (
	// MaxTry is the attempt ceiling. A request whose next attempt would
	// exceed it is dropped.
	MaxTry = 24
	// RetryInterval is the minimum gap between two runs of the same request.
	RetryInterval = time.Hour

	// queueTimeout bounds the queue write that closes a run. It runs detached
	// from the run's context so a cancelled tick cannot half-update the queue.
	queueTimeout = 10 * time.Second
)

// Outcome is the result of one job run.
type Outcome int

const (
	// OutcomeSkipped means the request was not due, or the queue could not
	// be updated, and the request is left as it was.
	OutcomeSkipped Outcome = iota
	// OutcomeTerminal means the request was removed and not re-enqueued.
	OutcomeTerminal
	// OutcomeRescheduled means the request was rewritten in place with the
	// next attempt.
	OutcomeRescheduled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeTerminal:
		return "terminal"
	case OutcomeRescheduled:
		return "rescheduled"
	}
	return "unknown"
}

type accountManager interface {
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	GetAccountData(ctx context.Context, u *domain.User) (domain.AccountData, error)
	UpdateAccountData(ctx context.Context, u *domain.User, data domain.AccountData) error
	FederationID(u *domain.User) string
}

// jobQueue is the part of the queue a run touches. Reschedule must fail with
// domain.ErrNotFound when the job is no longer queued.
type jobQueue interface {
	Reschedule(ctx context.Context, req *domain.VerificationRequest, runAt time.Time) error
	Remove(ctx context.Context, jobID string) error
}

type websiteProber interface {
	FetchCode(ctx context.Context, site string) (int, []byte, error)
}

type directory interface {
	Find(ctx context.Context, cloudID string) (*lookup.Record, error)
}

type eventPublisher interface {
	PublishVerificationCompleted(ctx context.Context, ev domain.VerificationCompleted) error
}

// Job re-checks one pending property verification per run.
type Job struct {
	accounts  accountManager
	queue     jobQueue
	prober    websiteProber
	directory directory
	events    eventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// JobDeps wires a Job. Events and Now are optional.
type JobDeps struct {
	Accounts  accountManager
	Queue     jobQueue
	Prober    websiteProber
	Directory directory
	Events    eventPublisher
	Logger    *zap.Logger
	Now       func() time.Time
}

func NewJob(deps JobDeps) *Job {
	j := &Job{
		accounts:  deps.Accounts,
		queue:     deps.Queue,
		prober:    deps.Prober,
		directory: deps.Directory,
		events:    deps.Events,
		logger:    deps.Logger,
		now:       deps.Now,
	}
	if j.logger == nil {
		j.logger = zap.NewNop()
	}
	if j.now == nil {
		j.now = time.Now
	}
	return j
}

// ShouldRun reports whether more than interval has passed since the
// request last ran. A request that never ran has LastRunAt 0.
func ShouldRun(req *domain.VerificationRequest, now time.Time, interval time.Duration) bool {
	return now.Unix()-req.LastRunAt > int64(interval/time.Second)
}

// Run executes req if it is due and reports what happened.
func (j *Job) Run(ctx context.Context, req *domain.VerificationRequest) Outcome {
	if !ShouldRun(req, j.now(), RetryInterval) {
		return OutcomeSkipped
	}
	outcome, _ := j.Execute(ctx, req)
	return outcome
}

// Execute performs one verification attempt regardless of timing. On
// OutcomeRescheduled the rewritten follow-up request is returned.
//
// The request stays queued while it is checked. A run interrupted by ctx
// leaves it untouched so the next tick retries the same attempt.
func (j *Job) Execute(ctx context.Context, req *domain.VerificationRequest) (Outcome, *domain.VerificationRequest) {
	now := j.now()
	log := j.logger.With(
		zap.String("job_id", req.JobID),
		zap.String("user_id", req.UserID),
		zap.String("type", string(req.PropertyType)),
		zap.Int("attempt", req.Attempt),
	)

	var resolved bool
	switch req.PropertyType {
	case domain.PropertyWebsite:
		resolved = j.verifyWebsite(ctx, log, req)
	case domain.PropertyEmail, domain.PropertyTwitter:
		resolved = j.verifyViaLookupServer(ctx, log, req)
	default:
		log.Error("invalid type for user account data")
		resolved = true
	}

	if err := ctx.Err(); err != nil && !resolved {
		log.Warn("verification interrupted, leaving it pending", zap.Error(err))
		return OutcomeSkipped, nil
	}

	qctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), queueTimeout)
	defer cancel()

	if resolved || req.Attempt+1 > MaxTry {
		if err := j.queue.Remove(qctx, req.JobID); err != nil {
			log.Error("failed to dequeue finished verification", zap.Error(err))
			return OutcomeSkipped, nil
		}
		log.Debug("verification finished", zap.Bool("resolved", resolved))
		return OutcomeTerminal, nil
	}

	next := *req
	next.Attempt = req.Attempt + 1
	next.LastRunAt = now.Unix()
	if err := j.queue.Reschedule(qctx, &next, now.Add(RetryInterval)); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			log.Info("verification was replaced while running, dropping it")
			return OutcomeTerminal, nil
		}
		log.Error("failed to reschedule verification, leaving it pending",
			zap.Int("next_attempt", next.Attempt),
			zap.Error(err),
		)
		return OutcomeSkipped, nil
	}
	return OutcomeRescheduled, &next
}

// verifyWebsite compares the published verification file with the expected
// code. Only a 200 response resolves the request.
func (j *Job) verifyWebsite(ctx context.Context, log *zap.Logger, req *domain.VerificationRequest) bool {
	status, body, err := j.prober.FetchCode(ctx, req.Value)
	if err != nil {
		log.Debug("website probe failed", zap.String("site", req.Value), zap.Error(err))
		return false
	}
	if status != http.StatusOK {
		log.Debug("website probe returned non-200", zap.String("site", req.Value), zap.Int("status", status))
		return false
	}

	u, resolved, ok := j.loadUser(ctx, log, req.UserID)
	if !ok {
		return resolved
	}

	result := domain.NotVerified
	if bytes.Equal(body, []byte(req.VerificationCode)) {
		result = domain.Verified
	}
	return j.storeStatus(ctx, log, u, req, result)
}

// verifyViaLookupServer copies the directory's verdict for the property once
// the directory holds the same value and has finished its own check.
func (j *Job) verifyViaLookupServer(ctx context.Context, log *zap.Logger, req *domain.VerificationRequest) bool {
	u, resolved, ok := j.loadUser(ctx, log, req.UserID)
	if !ok {
		return resolved
	}

	cloudID := j.accounts.FederationID(u)
	rec, err := j.directory.Find(ctx, cloudID)
	if err != nil {
		log.Debug("lookup directory query failed", zap.String("cloud_id", cloudID), zap.Error(err))
		return false
	}
	if rec == nil {
		return false
	}
	prop, found := rec.Properties[req.PropertyType]
	if !found || prop.Value != req.Value {
		return false
	}
	if prop.Verified == domain.VerificationInProgress {
		return false
	}
	return j.storeStatus(ctx, log, u, req, prop.Verified)
}

// loadUser returns ok=false when the caller must stop, with resolved telling
// whether the request is finished. A missing user ends the request; a
// storage failure leaves it for the next attempt.
func (j *Job) loadUser(ctx context.Context, log *zap.Logger, userID string) (u *domain.User, resolved, ok bool) {
	u, err := j.accounts.GetUser(ctx, userID)
	if err == nil {
		return u, false, true
	}
	if errors.Is(err, domain.ErrNotFound) {
		log.Error("user for verification no longer exists")
		return nil, true, false
	}
	log.Warn("failed to load user", zap.Error(err))
	return nil, false, false
}

// storeStatus writes status into the property's account data and reports
// whether the request is finished. A property that now holds a different
// value belongs to a newer submission and is left alone.
func (j *Job) storeStatus(ctx context.Context, log *zap.Logger, u *domain.User, req *domain.VerificationRequest, status domain.VerificationStatus) bool {
	data, err := j.accounts.GetAccountData(ctx, u)
	if err != nil {
		log.Warn("failed to load account data", zap.Error(err))
		return false
	}
	if data == nil {
		data = domain.AccountData{}
	}
	prop, found := data[req.PropertyType]
	if !found {
		prop = domain.AccountProperty{Name: req.PropertyType, Value: req.Value, Scope: domain.ScopeLocal}
	}
	if prop.Value != req.Value {
		log.Info("property value changed since submission, discarding result",
			zap.String("value", req.Value),
			zap.String("current", prop.Value),
		)
		return true
	}
	prop.Verified = status
	data[req.PropertyType] = prop
	if err := j.accounts.UpdateAccountData(ctx, u, data); err != nil {
		log.Warn("failed to store verification status", zap.Error(err))
		return false
	}
	log.Info("verification status stored", zap.Stringer("status", status))

	if j.events != nil {
		ev := domain.VerificationCompleted{
			JobID:        req.JobID,
			UserID:       req.UserID,
			PropertyType: req.PropertyType,
			Value:        req.Value,
			Status:       status,
			Attempt:      req.Attempt,
			CompletedAt:  j.now().Unix(),
		}
		if err := j.events.PublishVerificationCompleted(ctx, ev); err != nil {
			log.Warn("failed to publish verification event", zap.Error(err))
		}
	}
	return true
}

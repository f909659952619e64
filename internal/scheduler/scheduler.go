package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-account-verifier/internal/application/verification"
	"github.com/go-account-verifier/internal/domain"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultTickTimeout bounds a single poll of the verification queue.
const DefaultTickTimeout = 5 * time.Minute

type dueLister interface {
	Due(ctx context.Context, now time.Time) ([]domain.VerificationRequest, error)
}

type jobRunner interface {
	Run(ctx context.Context, req *domain.VerificationRequest) verification.Outcome
}

// Summary counts the outcomes of one poll.
type Summary struct {
	Due         int
	Skipped     int
	Terminal    int
	Rescheduled int
}

// Scheduler polls the verification queue on a fixed interval and runs every
// due request. Polls never overlap.
type Scheduler struct {
	cron        *cron.Cron
	queue       dueLister
	job         jobRunner
	interval    time.Duration
	tickTimeout time.Duration
	logger      *zap.Logger
	now         func() time.Time
	running     sync.Mutex
}

type Deps struct {
	Queue       dueLister
	Job         jobRunner
	Interval    time.Duration
	TickTimeout time.Duration
	Logger      *zap.Logger
	Now         func() time.Time
}

func New(deps Deps) *Scheduler {
	s := &Scheduler{
		cron:        cron.New(cron.WithLocation(time.UTC)),
		queue:       deps.Queue,
		job:         deps.Job,
		interval:    deps.Interval,
		tickTimeout: deps.TickTimeout,
		logger:      deps.Logger,
		now:         deps.Now,
	}
	if s.tickTimeout <= 0 {
		s.tickTimeout = DefaultTickTimeout
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Start registers the poll and starts the cron runner.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		return fmt.Errorf("scheduler interval must be positive, got %s", s.interval)
	}
	if _, err := s.cron.AddFunc("@every "+s.interval.String(), s.tick); err != nil {
		return fmt.Errorf("register verification poll: %w", err)
	}
	s.cron.Start()
	s.logger.Info("verification scheduler started", zap.Duration("interval", s.interval))
	return nil
}

// Stop waits for a running poll to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("verification scheduler stopped")
}

func (s *Scheduler) tick() {
	if !s.running.TryLock() {
		s.logger.Debug("previous verification poll still running, skipping")
		return
	}
	defer s.running.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.tickTimeout)
	defer cancel()
	s.RunOnce(ctx)
}

// RunOnce runs every request that is due now, one after another.
func (s *Scheduler) RunOnce(ctx context.Context) Summary {
	var sum Summary
	reqs, err := s.queue.Due(ctx, s.now())
	if err != nil {
		s.logger.Error("failed to list due verifications", zap.Error(err))
		return sum
	}
	sum.Due = len(reqs)
	for i := range reqs {
		if ctx.Err() != nil {
			s.logger.Warn("verification poll interrupted",
				zap.Int("remaining", len(reqs)-i),
				zap.Error(ctx.Err()),
			)
			break
		}
		switch s.job.Run(ctx, &reqs[i]) {
		case verification.OutcomeSkipped:
			sum.Skipped++
		case verification.OutcomeTerminal:
			sum.Terminal++
		case verification.OutcomeRescheduled:
			sum.Rescheduled++
		}
	}
	if sum.Due > 0 {
		s.logger.Info("verification poll finished",
			zap.Int("due", sum.Due),
			zap.Int("terminal", sum.Terminal),
			zap.Int("rescheduled", sum.Rescheduled),
			zap.Int("skipped", sum.Skipped),
		)
	}
	return sum
}

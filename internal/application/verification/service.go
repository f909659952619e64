package verification

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-account-verifier/internal/domain"
	"github.com/go-account-verifier/internal/pkg/id"
	"github.com/go-account-verifier/internal/pkg/validate"
	"go.uber.org/zap"
)

// Service starts verifications on behalf of a user and lists the pending ones.
type Service interface {
	Submit(ctx context.Context, userID string, req domain.SubmitVerificationRequest) (*domain.VerificationRequest, error)
	Pending(ctx context.Context, userID string) ([]domain.VerificationRequest, error)
}

type pendingQueue interface {
	Add(ctx context.Context, req *domain.VerificationRequest, runAt time.Time) error
	Remove(ctx context.Context, jobID string) error
	ListByUser(ctx context.Context, userID string) ([]domain.VerificationRequest, error)
}

type service struct {
	accounts accountManager
	queue    pendingQueue
	logger   *zap.Logger
	now      func() time.Time
}

type ServiceDeps struct {
	Accounts accountManager
	Queue    pendingQueue
	Logger   *zap.Logger
	Now      func() time.Time
}

func NewService(deps ServiceDeps) Service {
	s := &service{
		accounts: deps.Accounts,
		queue:    deps.Queue,
		logger:   deps.Logger,
		now:      deps.Now,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Submit marks the property as in progress with the asserted value and
// enqueues a first attempt that is immediately due. Pending requests for the
// same property are replaced. When the queue cannot be updated the property
// is put back as it was, or left empty and unverified if it was unset.
func (s *service) Submit(ctx context.Context, userID string, req domain.SubmitVerificationRequest) (*domain.VerificationRequest, error) {
	req.Value = strings.TrimSpace(req.Value)
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}

	u, err := s.accounts.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	data, err := s.accounts.GetAccountData(ctx, u)
	if err != nil {
		return nil, err
	}
	if data == nil {
		data = domain.AccountData{}
	}
	prev, found := data[req.Type]
	if !found {
		prev = domain.AccountProperty{Name: req.Type, Scope: domain.ScopeLocal, Verified: domain.NotVerified}
	}
	prop := prev
	prop.Value = req.Value
	prop.Verified = domain.VerificationInProgress
	data[req.Type] = prop
	if err := s.accounts.UpdateAccountData(ctx, u, data); err != nil {
		return nil, err
	}

	vr, replaced, err := s.enqueue(ctx, u.UserID, req)
	if err != nil {
		data[req.Type] = prev
		if rerr := s.accounts.UpdateAccountData(context.WithoutCancel(ctx), u, data); rerr != nil {
			s.logger.Error("failed to restore property after enqueue failure",
				zap.String("user_id", u.UserID),
				zap.String("type", string(req.Type)),
				zap.Error(rerr),
			)
		}
		return nil, err
	}
	s.logger.Info("verification submitted",
		zap.String("job_id", vr.JobID),
		zap.String("user_id", vr.UserID),
		zap.String("type", string(vr.PropertyType)),
		zap.Int("replaced", replaced),
	)
	return vr, nil
}

// enqueue drops the user's pending requests for the property and adds a
// fresh one that is due now.
func (s *service) enqueue(ctx context.Context, userID string, req domain.SubmitVerificationRequest) (*domain.VerificationRequest, int, error) {
	existing, err := s.queue.ListByUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	replaced := 0
	for _, old := range existing {
		if old.PropertyType != req.Type {
			continue
		}
		if err := s.queue.Remove(ctx, old.JobID); err != nil {
			return nil, replaced, fmt.Errorf("replace pending verification %s: %w", old.JobID, err)
		}
		replaced++
	}

	now := s.now()
	vr := &domain.VerificationRequest{
		JobID:            id.New(now),
		UserID:           userID,
		PropertyType:     req.Type,
		Value:            req.Value,
		VerificationCode: req.Code,
	}
	if err := s.queue.Add(ctx, vr, now); err != nil {
		return nil, replaced, err
	}
	return vr, replaced, nil
}

// Pending returns the user's queued requests ordered by next run time.
func (s *service) Pending(ctx context.Context, userID string) ([]domain.VerificationRequest, error) {
	reqs, err := s.queue.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	sort.Slice(reqs, func(i, k int) bool {
		if reqs[i].RunAt != reqs[k].RunAt {
			return reqs[i].RunAt < reqs[k].RunAt
		}
		return reqs[i].JobID < reqs[k].JobID
	})
	return reqs, nil
}

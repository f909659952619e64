package natsinfra

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-account-verifier/internal/domain"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// conn is the subset of *nats.Conn used here.
type conn interface {
	Publish(subj string, data []byte) error
	Close()
}

// Publisher sends verification events on a NATS subject.
type Publisher struct {
	conn   conn
	logger *zap.Logger
}

func NewPublisher(url string, logger *zap.Logger) (*Publisher, error) {
	c, err := nats.Connect(url, nats.Name("account-verifier"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	logger.Info("connected to NATS", zap.String("url", url))
	return &Publisher{conn: c, logger: logger}, nil
}

func (p *Publisher) PublishVerificationCompleted(_ context.Context, ev domain.VerificationCompleted) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal verification event: %w", err)
	}
	if err := p.conn.Publish(domain.VerificationCompletedSubject, data); err != nil {
		return fmt.Errorf("failed to publish verification event: %w", err)
	}
	p.logger.Debug("verification event published", zap.String("job_id", ev.JobID))
	return nil
}

func (p *Publisher) Close() {
	if p.conn != nil {
		p.conn.Close()
		p.logger.Info("NATS connection closed")
	}
}

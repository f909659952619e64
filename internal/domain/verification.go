package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// PropertyType names an account property that can be verified.
type PropertyType string

const (
	PropertyWebsite PropertyType = "website"
	PropertyEmail   PropertyType = "email"
	PropertyTwitter PropertyType = "twitter"
)

// VerificationStatus is the per-property verification state stored with the account data.
type VerificationStatus int

const (
	NotVerified            VerificationStatus = 0
	VerificationInProgress VerificationStatus = 1
	Verified               VerificationStatus = 2
)

func (s VerificationStatus) String() string {
	switch s {
	case NotVerified:
		return "unverified"
	case VerificationInProgress:
		return "in-progress"
	case Verified:
		return "verified"
	}
	return "unknown(" + strconv.Itoa(int(s)) + ")"
}

// ParseVerificationStatus accepts the numeric form ("0", "1", "2") or the name.
func ParseVerificationStatus(s string) (VerificationStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "0", "unverified", "not-verified":
		return NotVerified, nil
	case "1", "in-progress", "verification-in-progress":
		return VerificationInProgress, nil
	case "2", "verified":
		return Verified, nil
	}
	return 0, fmt.Errorf("unknown verification status %q: %w", s, ErrBadRequest)
}

// UnmarshalJSON accepts a number, a numeric string or a status name.
// The lookup directory has emitted all three over time.
func (s *VerificationStatus) UnmarshalJSON(b []byte) error {
	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		return s.set(n)
	}
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return fmt.Errorf("verification status: %w", err)
	}
	parsed, err := ParseVerificationStatus(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s *VerificationStatus) set(n int) error {
	st := VerificationStatus(n)
	if st < NotVerified || st > Verified {
		return fmt.Errorf("verification status %d out of range: %w", n, ErrBadRequest)
	}
	*s = st
	return nil
}

// VerificationRequest is the scheduler payload for one pending verification.
// PK: job_id. GSI user_id-index on user_id.
type VerificationRequest struct {
	JobID            string       `json:"id" dynamodbav:"job_id"`
	UserID           string       `json:"user_id" dynamodbav:"user_id"`
	PropertyType     PropertyType `json:"type" dynamodbav:"type"`
	Value            string       `json:"value" dynamodbav:"value"`
	VerificationCode string       `json:"-" dynamodbav:"verification_code"`
	Attempt          int          `json:"attempt" dynamodbav:"attempt"`
	LastRunAt        int64        `json:"last_run_at" dynamodbav:"last_run_at"` // Unix seconds, 0 before the first run
	RunAt            int64        `json:"run_at" dynamodbav:"run_at"`           // Unix seconds
}

// SubmitVerificationRequest is the body a user sends to start verifying a property.
type SubmitVerificationRequest struct {
	Type  PropertyType `json:"type" validate:"required,oneof=website email twitter"`
	Value string       `json:"value" validate:"required,max=2048"`
	Code  string       `json:"code" validate:"required,max=512"`
}

// VerificationCompleted is published when a verification reaches a final
// stored status.
type VerificationCompleted struct {
	JobID        string             `json:"job_id"`
	UserID       string             `json:"user_id"`
	PropertyType PropertyType       `json:"type"`
	Value        string             `json:"value"`
	Status       VerificationStatus `json:"status"`
	Attempt      int                `json:"attempt"`
	CompletedAt  int64              `json:"completed_at"`
}

// VerificationCompletedSubject is the event name used on every events backend.
const VerificationCompletedSubject = "verification.completed"

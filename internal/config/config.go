package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	Log LogConfig

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables

	JWTPublicKeyPath string

	Verification VerificationConfig
	Events       EventsConfig

	AllowedOrigins []string // CORS allowed origins
}

type LogConfig struct {
	Level string
	JSON  bool
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users            string
	AccountData      string
	Preferences      string
	VerificationJobs string
}

type VerificationConfig struct {
	LookupServerURL string
	// CloudIDHost is the host part of every local user's federation id (user@host).
	CloudIDHost  string
	PollInterval time.Duration
}

type EventsConfig struct {
	Backend     string // "none" | "sns" | "nats"
	SNSRegion   string
	SNSTopicARN string
	NATSURL     string
}

var defaults = map[string]any{
	"APP_PORT":                       "3000",
	"APP_ENV":                        "development",
	"LOG_LEVEL":                      "info",
	"LOG_JSON":                       false,
	"AWS_REGION":                     "us-east-1",
	"AWS_ENDPOINT_URL":               "",
	"AWS_ACCESS_KEY_ID":              "",
	"AWS_SECRET_ACCESS_KEY":          "",
	"DYNAMO_TABLE_USERS":             "users",
	"DYNAMO_TABLE_ACCOUNT_DATA":      "account_data",
	"DYNAMO_TABLE_PREFERENCES":       "preferences",
	"DYNAMO_TABLE_VERIFICATION_JOBS": "verification_jobs",
	"JWT_PUBLIC_KEY_PATH":            "./public_key.pem",
	"LOOKUP_SERVER_URL":              "https://lookup.nextcloud.com",
	"CLOUD_ID_HOST":                  "localhost",
	"VERIFICATION_POLL_INTERVAL":     "1m",
	"EVENTS_BACKEND":                 "none",
	"SNS_REGION":                     "us-east-1",
	"SNS_TOPIC_ARN":                  "",
	"NATS_URL":                       "nats://localhost:4222",
	"ALLOWED_ORIGINS":                "*",
}

// Load reads all configuration from environment variables, falling back to defaults.
func Load() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	poll, err := time.ParseDuration(v.GetString("VERIFICATION_POLL_INTERVAL"))
	if err != nil {
		return nil, fmt.Errorf("invalid VERIFICATION_POLL_INTERVAL: %w", err)
	}
	if poll <= 0 {
		return nil, fmt.Errorf("VERIFICATION_POLL_INTERVAL must be positive, got %s", poll)
	}

	backend := strings.ToLower(v.GetString("EVENTS_BACKEND"))
	switch backend {
	case "none", "sns", "nats":
	default:
		return nil, fmt.Errorf("invalid EVENTS_BACKEND %q", backend)
	}

	return &Config{
		AppPort: v.GetString("APP_PORT"),
		AppEnv:  v.GetString("APP_ENV"),
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
			JSON:  v.GetBool("LOG_JSON"),
		},
		AWSRegion:      v.GetString("AWS_REGION"),
		AWSEndpointURL: v.GetString("AWS_ENDPOINT_URL"),
		AWSAccessKeyID: v.GetString("AWS_ACCESS_KEY_ID"),
		AWSSecretKey:   v.GetString("AWS_SECRET_ACCESS_KEY"),
		DynamoTables: DynamoTables{
			Users:            v.GetString("DYNAMO_TABLE_USERS"),
			AccountData:      v.GetString("DYNAMO_TABLE_ACCOUNT_DATA"),
			Preferences:      v.GetString("DYNAMO_TABLE_PREFERENCES"),
			VerificationJobs: v.GetString("DYNAMO_TABLE_VERIFICATION_JOBS"),
		},
		JWTPublicKeyPath: v.GetString("JWT_PUBLIC_KEY_PATH"),
		Verification: VerificationConfig{
			LookupServerURL: strings.TrimRight(v.GetString("LOOKUP_SERVER_URL"), "/"),
			CloudIDHost:     v.GetString("CLOUD_ID_HOST"),
			PollInterval:    poll,
		},
		Events: EventsConfig{
			Backend:     backend,
			SNSRegion:   v.GetString("SNS_REGION"),
			SNSTopicARN: v.GetString("SNS_TOPIC_ARN"),
			NATSURL:     v.GetString("NATS_URL"),
		},
		AllowedOrigins: strings.Split(v.GetString("ALLOWED_ORIGINS"), ","),
	}, nil
}

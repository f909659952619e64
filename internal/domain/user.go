package domain

import "time"

// User is the account owner. PK: user_id.
type User struct {
	UserID      string    `json:"id" dynamodbav:"user_id"`
	DisplayName string    `json:"display_name" dynamodbav:"display_name"`
	Email       string    `json:"email" dynamodbav:"email"`
	Enabled     bool      `json:"enabled" dynamodbav:"enabled"`
	CreatedAt   time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt   time.Time `json:"updated" dynamodbav:"updated_at"`
}

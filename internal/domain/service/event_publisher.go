package service

import (
	"context"
)

// Account event types published on lifecycle transitions.
const (
	AccountEventRegistered = "account.registered"
	AccountEventVerified   = "account.verified"
	AccountEventDeleted    = "account.deleted"
)

// AccountEvent represents an account lifecycle event consumed by other
// services in the platform (order history, marketing, fraud).
type AccountEvent struct {
	RequestID string `json:"request_id,omitempty"` // For distributed tracing
	Type      string `json:"type"`
	AccountID string `json:"account_id"`
	Email     string `json:"email,omitempty"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishAccountEvent publishes an account lifecycle event for async processing
	PublishAccountEvent(ctx context.Context, event *AccountEvent) error

	// Close releases any resources held by the publisher
	Close() error
}

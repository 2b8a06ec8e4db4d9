// Package events defines the wallet service's domain event types and
// the Publisher interface (C8): handlers publish each event
// fire-and-forget once the operation it reports has finished (after
// commit, for completed transfers and deposits), so a publish failure
// is logged and never unwinds a recorded transfer.
package events

import (
	"time"

	"github.com/google/uuid"
)

// AccountCreatedEvent is published after an account is provisioned.
type AccountCreatedEvent struct {
	AccountID uuid.UUID `json:"account_id"`
	Currency  string    `json:"currency"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

// TransferCompletedEvent is published after a transfer reaches SUCCESS.
type TransferCompletedEvent struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	FromAccountID uuid.UUID `json:"from_account_id"`
	ToAccountID   uuid.UUID `json:"to_account_id"`
	Amount        string    `json:"amount"`
	Currency      string    `json:"currency"`
	Reference     *string   `json:"reference,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// DepositCompletedEvent is published after a system credit commits.
type DepositCompletedEvent struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	AccountID     uuid.UUID `json:"account_id"`
	Amount        string    `json:"amount"`
	Currency      string    `json:"currency"`
	Timestamp     time.Time `json:"timestamp"`
}

// TransactionFailedEvent is published for audit trail when a transfer
// request fails (never for an idempotent replay). A failed deposit
// does not publish it.
type TransactionFailedEvent struct {
	FromAccountID uuid.UUID `json:"from_account_id,omitempty"`
	ToAccountID   uuid.UUID `json:"to_account_id,omitempty"`
	Amount        string    `json:"amount"`
	Reason        string    `json:"reason"`
	Timestamp     time.Time `json:"timestamp"`
}

// Publisher publishes the wallet service's domain events. Every method
// is fire-and-forget from the caller's perspective: implementations
// must not block the caller on broker availability beyond their own
// internal retry/backoff policy.
type Publisher interface {
	PublishAccountCreated(event AccountCreatedEvent) error
	PublishTransferCompleted(event TransferCompletedEvent) error
	PublishDepositCompleted(event DepositCompletedEvent) error
	PublishTransactionFailed(event TransactionFailedEvent) error
	Close() error
	IsHealthy() bool
}

// NoOpPublisher discards every event. Used when Kafka is disabled
// (KAFKA_ENABLED=false) or in tests.
type NoOpPublisher struct{}

// NewNoOpPublisher constructs a NoOpPublisher.
func NewNoOpPublisher() *NoOpPublisher { return &NoOpPublisher{} }

func (NoOpPublisher) PublishAccountCreated(AccountCreatedEvent) error       { return nil }
func (NoOpPublisher) PublishTransferCompleted(TransferCompletedEvent) error { return nil }
func (NoOpPublisher) PublishDepositCompleted(DepositCompletedEvent) error   { return nil }
func (NoOpPublisher) PublishTransactionFailed(TransactionFailedEvent) error { return nil }
func (NoOpPublisher) Close() error                                         { return nil }
func (NoOpPublisher) IsHealthy() bool                                      { return true }

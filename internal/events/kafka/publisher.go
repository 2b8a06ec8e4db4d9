package kafka

import (
	"wallet-core/internal/events"
)

// Publisher implements events.Publisher backed by a Kafka Producer.
type Publisher struct {
	producer *Producer
}

// NewPublisher wraps producer as an events.Publisher.
func NewPublisher(producer *Producer) *Publisher {
	return &Publisher{producer: producer}
}

func (p *Publisher) PublishAccountCreated(event events.AccountCreatedEvent) error {
	return p.producer.Publish(TopicAccountCreated, event.AccountID.String(), event)
}

func (p *Publisher) PublishTransferCompleted(event events.TransferCompletedEvent) error {
	key := event.FromAccountID.String() + "-" + event.ToAccountID.String()
	return p.producer.Publish(TopicTransferCompleted, key, event)
}

func (p *Publisher) PublishDepositCompleted(event events.DepositCompletedEvent) error {
	return p.producer.Publish(TopicDepositCompleted, event.AccountID.String(), event)
}

func (p *Publisher) PublishTransactionFailed(event events.TransactionFailedEvent) error {
	key := event.FromAccountID.String()
	if key == "" || key == "00000000-0000-0000-0000-000000000000" {
		key = event.ToAccountID.String()
	}
	return p.producer.Publish(TopicTransactionFailed, key, event)
}

func (p *Publisher) Close() error     { return p.producer.Close() }
func (p *Publisher) IsHealthy() bool  { return p.producer.IsHealthy() }

var _ events.Publisher = (*Publisher)(nil)

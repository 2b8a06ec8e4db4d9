package kafka

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/IBM/sarama"

	"wallet-core/internal/logging"
)

// Producer wraps a sarama.SyncProducer for JSON event publishing.
type Producer struct {
	producer sarama.SyncProducer
	config   *Config
	mu       sync.RWMutex
	closed   bool
}

// NewProducer dials brokers and returns a ready Producer.
func NewProducer(cfg *Config) (*Producer, error) {
	saramaCfg, err := cfg.ToSaramaConfig()
	if err != nil {
		return nil, fmt.Errorf("kafka: build sarama config: %w", err)
	}

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaCfg)
	if err != nil {
		return nil, fmt.Errorf("kafka: new sync producer: %w", err)
	}

	logging.Info("kafka producer initialized", map[string]interface{}{
		"brokers":   cfg.Brokers,
		"client_id": cfg.ClientID,
	})

	return &Producer{producer: producer, config: cfg}, nil
}

// Publish marshals event to JSON and sends it to topic keyed by key.
func (p *Producer) Publish(topic, key string, event interface{}) error {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return fmt.Errorf("kafka: producer is closed")
	}
	p.mu.RUnlock()

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka: marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(payload),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		logging.Error("kafka publish failed", err, map[string]interface{}{"topic": topic, "key": key})
		return fmt.Errorf("kafka: send message: %w", err)
	}

	logging.Debug("kafka event published", map[string]interface{}{
		"topic": topic, "partition": partition, "offset": offset, "key": key,
	})
	return nil
}

// Close shuts down the underlying sarama producer.
func (p *Producer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return p.producer.Close()
}

// IsHealthy reports whether the producer is still open (Close has not
// been called).
func (p *Producer) IsHealthy() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return !p.closed
}

package kafka

import (
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"wallet-core/internal/config"
)

// Config holds Kafka producer configuration, derived from the
// process's KafkaConfig rather than reading the environment directly.
type Config struct {
	Brokers           []string
	ClientID          string
	EnableIdempotence bool
	CompressionType   string
	RequiredAcks      string
	MaxRetries        int
	RetryBackoff      time.Duration
}

// FromAppConfig builds a Config from the application's KafkaConfig.
func FromAppConfig(c config.KafkaConfig) *Config {
	return &Config{
		Brokers:           c.Brokers,
		ClientID:          "wallet-core",
		EnableIdempotence: false,
		CompressionType:   "snappy",
		RequiredAcks:      "all",
		MaxRetries:        5,
		RetryBackoff:      100 * time.Millisecond,
	}
}

// ToSaramaConfig converts Config to a sarama.Config ready for
// sarama.NewSyncProducer.
func (c *Config) ToSaramaConfig() (*sarama.Config, error) {
	sc := sarama.NewConfig()

	sc.Producer.Return.Successes = true
	sc.Producer.Return.Errors = true
	sc.Producer.Idempotent = c.EnableIdempotence
	sc.Producer.Retry.Max = c.MaxRetries
	sc.Producer.Retry.Backoff = c.RetryBackoff

	if c.EnableIdempotence {
		sc.Net.MaxOpenRequests = 1
	} else {
		sc.Net.MaxOpenRequests = 5
	}

	switch c.RequiredAcks {
	case "all", "-1":
		sc.Producer.RequiredAcks = sarama.WaitForAll
	case "1":
		sc.Producer.RequiredAcks = sarama.WaitForLocal
	case "0":
		sc.Producer.RequiredAcks = sarama.NoResponse
	default:
		return nil, fmt.Errorf("invalid required acks value: %s", c.RequiredAcks)
	}

	switch c.CompressionType {
	case "none":
		sc.Producer.Compression = sarama.CompressionNone
	case "gzip":
		sc.Producer.Compression = sarama.CompressionGZIP
	case "snappy":
		sc.Producer.Compression = sarama.CompressionSnappy
	case "lz4":
		sc.Producer.Compression = sarama.CompressionLZ4
	case "zstd":
		sc.Producer.Compression = sarama.CompressionZSTD
	default:
		return nil, fmt.Errorf("invalid compression type: %s", c.CompressionType)
	}

	sc.ClientID = c.ClientID
	sc.Version = sarama.V3_0_0_0
	return sc, nil
}

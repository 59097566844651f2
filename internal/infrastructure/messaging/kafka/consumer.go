package kafka

import (
	"context"
	stderrors "errors"
	"io"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/qsim/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/qsim/pkg/errors"
)

var (
	ErrAlreadyRunning = errors.New(errors.ErrCodeConflict, "consumer already running")
	ErrConsumerClosed = errors.New(errors.ErrCodeInternal, "consumer closed")
)

// ConsumerConfig holds configuration for the Consumer.
type ConsumerConfig struct {
	Brokers []string
	Topic   string

	// GroupID enables committed offsets.  Empty reads the topic from
	// StartOffset without a group.
	GroupID string

	// FromBeginning starts at the oldest retained message instead of the
	// newest.
	FromBeginning bool

	MaxWait time.Duration
}

// ReaderInterface abstracts kafka.Reader for testing.
type ReaderInterface interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Handler processes one decoded envelope.  A returned error is logged and
// the consumer moves on.
type Handler func(ctx context.Context, env *EventEnvelope) error

// Consumer reads event envelopes from one topic.
type Consumer struct {
	reader  ReaderInterface
	config  ConsumerConfig
	logger  logging.Logger
	running atomic.Bool
	closed  atomic.Bool

	consumed atomic.Int64
	failed   atomic.Int64
}

// NewConsumer creates a Consumer.
func NewConsumer(cfg ConsumerConfig, logger logging.Logger) (*Consumer, error) {
	if err := ValidateConsumerConfig(cfg); err != nil {
		return nil, err
	}
	if cfg.MaxWait == 0 {
		cfg.MaxWait = time.Second
	}
	start := kafka.LastOffset
	if cfg.FromBeginning {
		start = kafka.FirstOffset
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.Topic,
		GroupID:     cfg.GroupID,
		MinBytes:    1,
		MaxBytes:    10 * 1024 * 1024,
		MaxWait:     cfg.MaxWait,
		StartOffset: start,
	})
	return newConsumerWithReader(reader, cfg, logger), nil
}

func newConsumerWithReader(r ReaderInterface, cfg ConsumerConfig, logger logging.Logger) *Consumer {
	return &Consumer{reader: r, config: cfg, logger: logger}
}

// Run reads until ctx is cancelled or the reader is exhausted.  Malformed
// messages and handler errors are logged and skipped.
func (c *Consumer) Run(ctx context.Context, handle Handler) error {
	if c.closed.Load() {
		return ErrConsumerClosed
	}
	if !c.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer c.running.Store(false)

	c.logger.Info("Kafka consumer started",
		logging.String("topic", c.config.Topic),
		logging.String("group_id", c.config.GroupID),
	)
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || stderrors.Is(err, io.EOF) {
				return nil
			}
			return errors.Wrap(err, errors.ErrCodeExternalService, "failed to read message")
		}
		c.consumed.Add(1)

		env, err := DecodeEnvelope(msg.Value)
		if err != nil {
			c.failed.Add(1)
			c.logger.Warn("Skipping malformed event",
				logging.Int64("offset", msg.Offset),
				logging.Int("partition", msg.Partition),
				logging.Err(err),
			)
			continue
		}
		if err := handle(ctx, env); err != nil {
			c.failed.Add(1)
			c.logger.Warn("Event handler failed",
				logging.String("event_id", env.EventID),
				logging.Err(err),
			)
		}
	}
}

// Consumed returns the number of messages read.
func (c *Consumer) Consumed() int64 { return c.consumed.Load() }

// Failed returns the number of messages that could not be handled.
func (c *Consumer) Failed() int64 { return c.failed.Load() }

// Close closes the reader.  It is idempotent.
func (c *Consumer) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.reader.Close()
}

// ValidateConsumerConfig checks the required fields.
func ValidateConsumerConfig(cfg ConsumerConfig) error {
	if len(cfg.Brokers) == 0 {
		return errors.New(errors.ErrCodeValidation, "brokers required")
	}
	if cfg.Topic == "" {
		return errors.New(errors.ErrCodeValidation, "topic required")
	}
	return nil
}

//Personal.AI order the ending

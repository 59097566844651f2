package app

import (
	"context"
	"errors"
	"fmt"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/turtacn/qsim/internal/application/cache"
)

// Adapters for HealthHandler
type cacheHealthAdapter struct {
	cache cache.ResultCache
}

func (a *cacheHealthAdapter) Name() string {
	return a.cache.Backend()
}

func (a *cacheHealthAdapter) Check(ctx context.Context) error {
	return a.cache.Ping(ctx)
}

type kafkaHealthAdapter struct {
	brokers []string
	dial    func(ctx context.Context, network, address string) (*kafkago.Conn, error)
}

func (a *kafkaHealthAdapter) Name() string {
	return "kafka"
}

// Check succeeds when any broker accepts a connection.
func (a *kafkaHealthAdapter) Check(ctx context.Context) error {
	if len(a.brokers) == 0 {
		return errors.New("no brokers configured")
	}
	dial := a.dial
	if dial == nil {
		dial = kafkago.DialContext
	}
	var lastErr error
	for _, broker := range a.brokers {
		conn, err := dial(ctx, "tcp", broker)
		if err != nil {
			lastErr = err
			continue
		}
		return conn.Close()
	}
	return fmt.Errorf("no kafka broker reachable: %w", lastErr)
}

//Personal.AI order the ending

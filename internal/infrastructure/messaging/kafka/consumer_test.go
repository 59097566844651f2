package kafka

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/qsim/internal/domain/simulation"
	"github.com/turtacn/qsim/internal/testutil"
)

// mockKafkaReader replays msgs and then returns end.
type mockKafkaReader struct {
	msgs   []kafka.Message
	end    error
	closes int
}

func (m *mockKafkaReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if err := ctx.Err(); err != nil {
		return kafka.Message{}, err
	}
	if len(m.msgs) == 0 {
		return kafka.Message{}, m.end
	}
	msg := m.msgs[0]
	m.msgs = m.msgs[1:]
	return msg, nil
}

func (m *mockKafkaReader) Close() error {
	m.closes++
	return nil
}

func envelopeMessage(t *testing.T, evt *simulation.ComputedEvent) kafka.Message {
	t.Helper()
	w := &mockKafkaWriter{}
	var out kafka.Message
	w.writeFunc = func(_ context.Context, msgs ...kafka.Message) error {
		out = msgs[0]
		return nil
	}
	require.NoError(t, newTestProducer(w).PublishComputed(context.Background(), evt))
	return out
}

func TestValidateConsumerConfig(t *testing.T) {
	assert.NoError(t, ValidateConsumerConfig(ConsumerConfig{Brokers: []string{"b"}, Topic: "t"}))
	assert.Error(t, ValidateConsumerConfig(ConsumerConfig{Topic: "t"}))
	assert.Error(t, ValidateConsumerConfig(ConsumerConfig{Brokers: []string{"b"}}))
}

func TestConsumer_Run_DeliversAndSkipsMalformed(t *testing.T) {
	log := testutil.NewMockLogger()
	reader := &mockKafkaReader{
		msgs: []kafka.Message{
			envelopeMessage(t, sampleEvent()),
			{Value: []byte("garbage"), Offset: 7},
			envelopeMessage(t, sampleEvent()),
		},
		end: io.EOF,
	}
	c := newConsumerWithReader(reader, ConsumerConfig{Brokers: []string{"b"}, Topic: TopicSimulationComputed}, log)

	var got []simulation.ComputedEvent
	err := c.Run(context.Background(), func(_ context.Context, env *EventEnvelope) error {
		var evt simulation.ComputedEvent
		if err := env.DecodePayload(&evt); err != nil {
			return err
		}
		got = append(got, evt)
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, int64(3), c.Consumed())
	assert.Equal(t, int64(1), c.Failed())
	assert.True(t, log.HasMessage("warn", "Skipping malformed event"))
}

func TestConsumer_Run_HandlerErrorIsLogged(t *testing.T) {
	log := testutil.NewMockLogger()
	reader := &mockKafkaReader{msgs: []kafka.Message{envelopeMessage(t, sampleEvent())}, end: io.EOF}
	c := newConsumerWithReader(reader, ConsumerConfig{Topic: "t"}, log)

	err := c.Run(context.Background(), func(context.Context, *EventEnvelope) error {
		return errors.New("sink full")
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), c.Failed())
	assert.True(t, log.HasMessage("warn", "Event handler failed"))
}

func TestConsumer_Run_ReadError(t *testing.T) {
	reader := &mockKafkaReader{end: errors.New("broker unreachable")}
	c := newConsumerWithReader(reader, ConsumerConfig{Topic: "t"}, testutil.NewMockLogger())

	err := c.Run(context.Background(), func(context.Context, *EventEnvelope) error { return nil })
	assert.Error(t, err)
}

func TestConsumer_Run_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := newConsumerWithReader(&mockKafkaReader{end: io.EOF}, ConsumerConfig{Topic: "t"}, testutil.NewMockLogger())

	assert.NoError(t, c.Run(ctx, func(context.Context, *EventEnvelope) error { return nil }))
}

func TestConsumer_Close(t *testing.T) {
	reader := &mockKafkaReader{end: io.EOF}
	c := newConsumerWithReader(reader, ConsumerConfig{Topic: "t"}, testutil.NewMockLogger())

	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())
	assert.Equal(t, 1, reader.closes)
	assert.ErrorIs(t, c.Run(context.Background(), nil), ErrConsumerClosed)
}

//Personal.AI order the ending

// Package kafka publishes and consumes QSim domain events over Kafka using
// segmentio/kafka-go.  Events travel in an EventEnvelope whose payload is the
// JSON encoding of the domain event.
package kafka

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/qsim/pkg/errors"
)

// Topic and event type names.
const (
	TopicSimulationComputed     = "simulation.computed"
	EventTypeSimulationComputed = "simulation.computed"

	// SchemaVersion is stamped on every envelope.
	SchemaVersion = "1.0"

	// DefaultSource is the envelope source for events produced by QSim.
	DefaultSource = "qsim"
)

// EventEnvelope standardizes event messages.
type EventEnvelope struct {
	EventID       string            `json:"event_id"`
	EventType     string            `json:"event_type"`
	Source        string            `json:"source"`
	Timestamp     time.Time         `json:"timestamp"`
	SchemaVersion string            `json:"schema_version"`
	Payload       json.RawMessage   `json:"payload"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// NewEventEnvelope marshals payload into a fresh envelope with a random id.
func NewEventEnvelope(eventType, source string, payload interface{}) (*EventEnvelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal event payload")
	}
	return &EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		SchemaVersion: SchemaVersion,
		Payload:       raw,
	}, nil
}

// DecodePayload unmarshals the envelope payload into target.
func (e *EventEnvelope) DecodePayload(target interface{}) error {
	if len(e.Payload) == 0 {
		return errors.New(errors.ErrCodeSerialization, "event has no payload")
	}
	if err := json.Unmarshal(e.Payload, target); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode event payload")
	}
	return nil
}

// DecodeEnvelope parses a message value.
func DecodeEnvelope(value []byte) (*EventEnvelope, error) {
	var env EventEnvelope
	if err := json.Unmarshal(value, &env); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "malformed event envelope")
	}
	if env.EventType == "" {
		return nil, errors.New(errors.ErrCodeSerialization, "event envelope has no type")
	}
	return &env, nil
}

//Personal.AI order the ending

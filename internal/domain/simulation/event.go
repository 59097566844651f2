package simulation

import (
	"context"
	"time"
)

// ComputedEvent announces a freshly calculated result.  It is not emitted for
// cache hits.
type ComputedEvent struct {
	Key          string    `json:"key"`
	MoleculeName string    `json:"molecule_name"`
	AtomCount    int       `json:"atom_count"`
	QubitCount   int       `json:"qubit_count"`
	ExactEnergy  float64   `json:"exact_energy"`
	VQEEnergy    float64   `json:"vqe_energy"`
	DurationMs   int64     `json:"duration_ms"`
	ComputedAt   time.Time `json:"computed_at"`
}

// EventPublisher delivers ComputedEvents.  Delivery is best effort: callers
// log failures and carry on.
type EventPublisher interface {
	PublishComputed(ctx context.Context, evt *ComputedEvent) error
	Close() error
}

//Personal.AI order the ending

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/qsim/internal/domain/simulation"
	"github.com/turtacn/qsim/internal/infrastructure/messaging/kafka"
)

// EventView is one line of `qsim events tail`.
type EventView struct {
	EventID string                    `json:"event_id"`
	Time    time.Time                 `json:"timestamp"`
	Event   *simulation.ComputedEvent `json:"event"`
}

func (v *EventView) String() string {
	e := v.Event
	return fmt.Sprintf("%s  %-12s atoms=%d qubits=%d vqe=%.6f took=%dms key=%s",
		v.Time.Format(time.RFC3339), e.MoleculeName, e.AtomCount, e.QubitCount, e.VQEEnergy, e.DurationMs, e.Key)
}

// eventPrinter returns the consumer handler that prints each computed event.
func eventPrinter(cmd *cobra.Command) kafka.Handler {
	return func(_ context.Context, env *kafka.EventEnvelope) error {
		if env.EventType != kafka.EventTypeSimulationComputed {
			return nil
		}
		var evt simulation.ComputedEvent
		if err := env.DecodePayload(&evt); err != nil {
			return err
		}
		return PrintResult(cmd, &EventView{EventID: env.EventID, Time: env.Timestamp, Event: &evt})
	}
}

// NewEventsCmd groups the result event commands.
func NewEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Follow simulation result events",
	}
	cmd.AddCommand(newEventsTailCmd())
	return cmd
}

func newEventsTailCmd() *cobra.Command {
	var fromBeginning bool

	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Print simulation.computed events as they arrive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			cfg := cliCtx.Config.Kafka

			// No group: tailing must not move the worker's committed offsets.
			consumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
				Brokers:       cfg.Brokers,
				Topic:         cfg.Topic,
				FromBeginning: fromBeginning,
			}, cliCtx.Logger.Named("events"))
			if err != nil {
				return err
			}
			defer consumer.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return consumer.Run(ctx, eventPrinter(cmd))
		},
	}
	cmd.Flags().BoolVar(&fromBeginning, "from-beginning", false, "start at the oldest retained event")
	return cmd
}

//Personal.AI order the ending

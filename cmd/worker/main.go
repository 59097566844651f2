// worker consumes simulation.computed events, keeps per-molecule tallies and
// exports them as Prometheus metrics.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/turtacn/qsim/internal/config"
	"github.com/turtacn/qsim/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/qsim/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/qsim/internal/infrastructure/monitoring/prometheus"
)

const (
	defaultHealthPort = 8081
	shutdownTimeout   = 10 * time.Second
)

func main() {
	configPath := flag.String("config", "", "path to configuration file (QSIM_* variables when empty)")
	healthPort := flag.Int("health-port", defaultHealthPort, "port for /healthz, /readyz, /stats and /metrics")
	fromBeginning := flag.Bool("from-beginning", false, "start at the oldest retained event when the group has no offset")
	tallySize := flag.Int("tally-size", defaultTallySize, "fingerprints kept in the /stats tally, least recently seen evicted first")
	flag.Parse()

	if err := run(*configPath, *healthPort, *tallySize, *fromBeginning); err != nil {
		fmt.Fprintf(os.Stderr, "worker: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, healthPort, tallySize int, fromBeginning bool) error {
	var (
		cfg *config.Config
		err error
	)
	if configPath == "" {
		cfg, err = config.LoadFromEnv()
	} else {
		cfg, err = config.Load(config.WithConfigPath(configPath))
	}
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		OutputPaths: cfg.Log.OutputPaths,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logging.SetDefault(logger)
	logger = logger.Named("worker")

	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            cfg.Metrics.Namespace,
		Subsystem:            "worker",
		EnableProcessMetrics: true,
		EnableGoMetrics:      true,
	}, logger.Named("metrics"))
	if err != nil {
		return err
	}
	recorder, err := newEventRecorder(collector, logger, tallySize)
	if err != nil {
		return err
	}

	consumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers:       cfg.Kafka.Brokers,
		Topic:         cfg.Kafka.Topic,
		GroupID:       cfg.Kafka.GroupID,
		FromBeginning: fromBeginning,
	}, logger.Named("consumer"))
	if err != nil {
		return err
	}
	defer consumer.Close()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", healthPort),
		Handler:           newHealthRouter(recorder, collector.Handler()),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("Health server listening", logging.Int("port", healthPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Health server error", logging.Err(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Worker started",
		logging.Any("brokers", cfg.Kafka.Brokers),
		logging.String("topic", cfg.Kafka.Topic),
		logging.String("group_id", cfg.Kafka.GroupID),
	)
	runErr := consumer.Run(ctx, recorder.Handle)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Health server shutdown error", logging.Err(err))
	}
	logger.Info("Worker stopped",
		logging.Int64("consumed", consumer.Consumed()),
		logging.Int64("failed", consumer.Failed()),
	)
	return runErr
}

//Personal.AI order the ending

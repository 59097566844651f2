// Package app assembles the QSim services from configuration.  It is shared
// by cmd/apiserver and the `qsim serve` command so both run the same graph.
package app

import (
	"context"
	"errors"
	"net/http"

	"github.com/turtacn/qsim/internal/application/cache"
	apppred "github.com/turtacn/qsim/internal/application/prediction"
	appsim "github.com/turtacn/qsim/internal/application/simulation"
	"github.com/turtacn/qsim/internal/config"
	domainPred "github.com/turtacn/qsim/internal/domain/prediction"
	domainSim "github.com/turtacn/qsim/internal/domain/simulation"
	"github.com/turtacn/qsim/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/qsim/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/qsim/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/qsim/internal/infrastructure/render"
	httpserver "github.com/turtacn/qsim/internal/interfaces/http"
	"github.com/turtacn/qsim/internal/interfaces/http/handlers"
	"github.com/turtacn/qsim/internal/interfaces/http/middleware"
)

// ─────────────────────────────────────────────────────────────────────────────
// Services
// ─────────────────────────────────────────────────────────────────────────────

// Services is the transport-independent part of the graph: the result cache,
// both application services and the optional event producer.
type Services struct {
	Cache          cache.ResultCache
	Simulation     appsim.Service
	Prediction     apppred.Service
	Producer       *kafka.Producer
	RendererLoaded bool

	logger logging.Logger
}

// NewServices builds the services described by cfg.  Unreachable cache back
// ends degrade to a disabled cache; a bad kafka section is an error.
func NewServices(ctx context.Context, cfg *config.Config, logger logging.Logger, metrics *prometheus.AppMetrics) (*Services, error) {
	svcs := &Services{logger: logger}

	svcs.Cache = cache.Open(ctx, cfg, logger.Named("cache"), metrics)

	rnd := domainSim.NewLockedSource(cfg.Simulation.Seed)
	simOpts := []appsim.Option{
		appsim.WithMetrics(metrics),
		appsim.WithSingleFlight(cfg.Cache.SingleFlight),
	}
	if cfg.Simulation.Render {
		simOpts = append(simOpts, appsim.WithRenderer(render.NewRenderer()))
		svcs.RendererLoaded = true
	}
	if cfg.Kafka.Enabled {
		producer, err := kafka.NewProducer(kafka.ProducerConfig{
			Brokers:      cfg.Kafka.Brokers,
			Topic:        cfg.Kafka.Topic,
			RequiredAcks: cfg.Kafka.RequiredAcks,
			BatchSize:    cfg.Kafka.BatchSize,
			BatchTimeout: cfg.Kafka.BatchTimeout,
			WriteTimeout: cfg.Kafka.WriteTimeout,
			Source:       kafka.DefaultSource,
		}, logger.Named("kafka"))
		if err != nil {
			svcs.Cache.Close()
			return nil, err
		}
		svcs.Producer = producer
		simOpts = append(simOpts, appsim.WithPublisher(producer))
		logger.Info("Result events enabled",
			logging.String("topic", cfg.Kafka.Topic),
			logging.Int("brokers", len(cfg.Kafka.Brokers)))
	}

	svcs.Simulation = appsim.NewService(domainSim.NewEngine(rnd), svcs.Cache, logger.Named("simulation"), simOpts...)
	svcs.Prediction = apppred.NewService(domainPred.NewEngine(rnd), logger.Named("prediction"), apppred.WithMetrics(metrics))
	return svcs, nil
}

// Close releases the producer and the cache store.
func (s *Services) Close() error {
	var errs []error
	if s.Producer != nil {
		if err := s.Producer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if s.Cache != nil {
		if err := s.Cache.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// HealthCheckers returns the probes reported by /readyz for the connected
// dependencies.  A disabled cache is not probed.  A failing probe only marks
// readiness degraded.
func (s *Services) HealthCheckers(cfg *config.Config) []handlers.HealthChecker {
	var checkers []handlers.HealthChecker
	if s.Cache != nil && s.Cache.Connected() {
		checkers = append(checkers, &cacheHealthAdapter{cache: s.Cache})
	}
	if s.Producer != nil {
		checkers = append(checkers, &kafkaHealthAdapter{brokers: cfg.Kafka.Brokers})
	}
	return checkers
}

// ─────────────────────────────────────────────────────────────────────────────
// App
// ─────────────────────────────────────────────────────────────────────────────

// App is the complete API server: services, metrics, router and listener.
type App struct {
	*Services

	Config  *config.Config
	Logger  logging.Logger
	Metrics *prometheus.AppMetrics

	handler http.Handler
	server  *httpserver.Server
}

// New builds the API server for cfg.  version is reported by /healthz.
func New(ctx context.Context, cfg *config.Config, logger logging.Logger, version string) (*App, error) {
	a := &App{Config: cfg, Logger: logger}

	var collector prometheus.MetricsCollector
	if cfg.Metrics.Enabled {
		c, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			EnableProcessMetrics: true,
			EnableGoMetrics:      true,
		}, logger.Named("metrics"))
		if err != nil {
			return nil, err
		}
		collector = c
		a.Metrics = prometheus.NewAppMetrics(c)
	}

	svcs, err := NewServices(ctx, cfg, logger, a.Metrics)
	if err != nil {
		return nil, err
	}
	a.Services = svcs

	components := handlers.ServiceComponents{
		Cache:      svcs.Cache,
		Prediction: svcs.Prediction,
		Renderer:   svcs.RendererLoaded,
	}
	cors := middleware.DefaultCORSConfig()
	if len(cfg.Server.CORSOrigins) > 0 {
		cors.AllowedOrigins = cfg.Server.CORSOrigins
	}

	var limiter middleware.RateLimiter
	if rl := cfg.Server.RateLimit; rl.Enabled() {
		limiter = middleware.NewKeyedLimiter(rl.RequestsPerSecond, rl.Burst, middleware.DefaultLimiterIdleTTL)
		logger.Info("Rate limiting enabled",
			logging.Float64("requests_per_second", rl.RequestsPerSecond),
			logging.Int("burst", rl.Burst),
		)
	}

	a.handler = httpserver.NewRouter(httpserver.RouterConfig{
		SimulationHandler: handlers.NewSimulationHandler(svcs.Simulation, logger, cfg.Server.MaxBodySize),
		PredictionHandler: handlers.NewPredictionHandler(svcs.Prediction, logger, cfg.Server.MaxBodySize),
		CacheHandler:      handlers.NewCacheHandler(svcs.Cache, logger),
		HealthHandler:     handlers.NewHealthHandler(version, components, svcs.HealthCheckers(cfg)...),
		CORS:              &cors,
		RateLimiter:       limiter,
		Logger:            logger,
		Metrics:           a.Metrics,
		MetricsCollector:  collector,
		MetricsPath:       cfg.Metrics.Path,
	})
	a.server = httpserver.NewServer(cfg.Server, a.handler, logger)
	return a, nil
}

// Handler returns the route tree.
func (a *App) Handler() http.Handler { return a.handler }

// Addr returns the listen address.
func (a *App) Addr() string { return a.server.Addr() }

// Run serves until ctx is cancelled or the listener fails, then drains
// in-flight requests.  Dependencies stay open; call Close afterwards.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- a.server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	if err := a.server.Stop(context.Background()); err != nil {
		a.Logger.Error("HTTP server shutdown error", logging.Err(err))
		return err
	}
	return <-errCh
}

// WatchLogLevel applies log.level edits in configPath to the running logger.
// It is a no-op for loggers that cannot change level.
func WatchLogLevel(configPath string, logger logging.Logger) error {
	setter, ok := logger.(logging.LevelSetter)
	if !ok || configPath == "" {
		return nil
	}
	return config.Watch(configPath, func(cfg *config.Config) {
		setter.SetLevel(cfg.Log.Level)
		logger.Info("Log level reloaded", logging.String("level", cfg.Log.Level))
	}, func(err error) {
		logger.Warn("Ignoring invalid configuration edit", logging.Err(err))
	})
}

//Personal.AI order the ending

// apiserver serves the QSim HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/turtacn/qsim/internal/app"
	"github.com/turtacn/qsim/internal/config"
	"github.com/turtacn/qsim/internal/infrastructure/monitoring/logging"
)

// Build-time variable injected via ldflags.
var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to configuration file (QSIM_* variables when empty)")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	flag.Parse()

	if err := run(*configPath, *port); err != nil {
		fmt.Fprintf(os.Stderr, "apiserver: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, port int) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if port > 0 {
		cfg.Server.Port = port
		if err := cfg.Validate(); err != nil {
			return err
		}
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger, version)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Error("Error releasing dependencies", logging.Err(err))
		}
	}()

	if configPath != "" {
		if err := app.WatchLogLevel(configPath, logger); err != nil {
			logger.Warn("Config watch disabled", logging.Err(err))
		}
	}

	logger.Info("Starting QSim API server",
		logging.String("version", version),
		logging.String("addr", a.Addr()),
		logging.String("cache_backend", a.Cache.Backend()),
		logging.Bool("cache_connected", a.Cache.Connected()),
	)
	return a.Run(ctx)
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.LoadFromEnv()
	}
	return config.Load(config.WithConfigPath(path))
}

//Personal.AI order the ending

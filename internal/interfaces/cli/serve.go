package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/turtacn/qsim/internal/app"
	"github.com/turtacn/qsim/internal/config"
	"github.com/turtacn/qsim/internal/infrastructure/monitoring/logging"
)

type serveOptions struct {
	host    string
	port    int
	backend string
	watch   bool
}

// NewServeCmd runs the HTTP API in the foreground until SIGINT or SIGTERM.
func NewServeCmd() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: "Run the QSim HTTP API with the configured result cache, metrics and\n" +
			"event publisher.  Flags override the corresponding config values.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			applyServeOverrides(cliCtx.Config, cmd, opts)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, cliCtx, opts.watch)
		},
	}

	cmd.Flags().StringVar(&opts.host, "host", "", "listen host (overrides server.host)")
	cmd.Flags().IntVarP(&opts.port, "port", "p", 0, "listen port (overrides server.port)")
	cmd.Flags().StringVar(&opts.backend, "cache", "", "result cache back end: redis, postgres, memory or none")
	cmd.Flags().BoolVar(&opts.watch, "watch-config", false, "reload log.level when the config file changes")
	return cmd
}

func applyServeOverrides(cfg *config.Config, cmd *cobra.Command, opts *serveOptions) {
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = opts.host
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = opts.port
	}
	if cmd.Flags().Changed("cache") {
		cfg.Cache.Backend = opts.backend
	}
}

func runServer(ctx context.Context, cliCtx *CLIContext, watch bool) error {
	cfg := cliCtx.Config
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := cliCtx.Logger

	a, err := app.New(ctx, cfg, logger, Version)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("Error releasing dependencies", logging.Err(err))
		}
	}()

	if watch && cliCtx.ConfigPath != "" {
		if err := app.WatchLogLevel(cliCtx.ConfigPath, logger); err != nil {
			logger.Warn("Config watch not started", logging.Err(err))
		}
	}

	logger.Info("Starting QSim API server",
		logging.String("version", Version),
		logging.String("addr", a.Addr()),
		logging.String("cache_backend", a.Cache.Backend()),
		logging.Bool("cache_connected", a.Cache.Connected()),
	)
	return a.Run(ctx)
}

//Personal.AI order the ending

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"katalog/internal/config"
	"katalog/internal/logger"
	"katalog/internal/models"
	"katalog/internal/server"
	"katalog/pkg/rabbitmq"
)

// flagBindings maps config keys to the command line flags that override them.
var flagBindings = map[string]string{
	"APP_PORT":     "port",
	"DB_DRIVER":    "db-driver",
	"DATABASE_DSN": "dsn",
}

func main() {
	cmd, err := newRootCmd(viper.New())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the katalog command. Flags override the matching
// environment variables through v.
func newRootCmd(v *viper.Viper) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:          "katalog",
		Short:        "Run the product catalog HTTP service",
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return run(v)
		},
	}

	config.SetDefaults(v)
	cmd.Flags().String("port", "", "address to listen on (env APP_PORT)")
	cmd.Flags().String("db-driver", "", "sqlite, postgres or memory (env DB_DRIVER)")
	cmd.Flags().String("dsn", "", "database DSN (env DATABASE_DSN)")
	if err := bindFlags(v, cmd, flagBindings); err != nil {
		return nil, err
	}

	return cmd, nil
}

// bindFlags binds each config key to the named flag of cmd.
func bindFlags(v *viper.Viper, cmd *cobra.Command, bindings map[string]string) error {
	for key, name := range bindings {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return fmt.Errorf("failed to bind flag --%s to %s: %w", name, key, err)
		}
	}
	return nil
}

func run(v *viper.Viper) error {
	// --- Configuration ---
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	appLogger := logger.Configure(cfg.LogLevel, cfg.LogFormat)

	// --- Storage ---
	repo, closeDB, err := server.OpenRepository(cfg, appLogger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeDB(); err != nil {
			appLogger.Error().Err(err).Msg("error closing database")
		}
	}()

	deps := server.Dependencies{
		Repository:  repo,
		Logger:      appLogger,
		LinkBaseURL: cfg.LinkBaseURL,
	}

	// --- RabbitMQ (optional) ---
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, appLogger)
		if err != nil {
			return err
		}
		defer func() {
			if err := mqClient.Close(); err != nil {
				appLogger.Error().Err(err).Msg("error closing RabbitMQ client")
			}
		}()
		deps.Publisher = mqClient

		if cfg.EventsConsume {
			if err := mqClient.ConsumeProductEvents(logProductEvent(appLogger)); err != nil {
				return err
			}
		}
	} else {
		appLogger.Info().Msg("RABBITMQ_URL not set, product events disabled")
	}

	// --- HTTP server ---
	app := server.NewApp(deps)

	serverErr := make(chan error, 1)
	go func() {
		appLogger.Info().Str("addr", cfg.AppPort).Msg("starting server")
		serverErr <- app.Listen(cfg.AppPort)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		appLogger.Info().Str("signal", sig.String()).Msg("shutting down server")
	}

	if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
		appLogger.Error().Err(err).Msg("error during server shutdown")
	}

	appLogger.Info().Msg("server gracefully stopped")
	return nil
}

// logProductEvent returns a consumer handler that logs each product event.
func logProductEvent(log zerolog.Logger) func(models.ProductEvent) error {
	return func(event models.ProductEvent) error {
		log.Info().
			Str("event", event.Event).
			Str("product_id", event.ProductID.String()).
			Str("name", event.Name).
			Str("value", event.Value.String()).
			Time("occurred_at", event.OccurredAt).
			Msg("product event received")
		return nil
	}
}

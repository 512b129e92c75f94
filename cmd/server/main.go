package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/NebulaStudio/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/server"
)

var version = "dev"

const shutdownTimeout = 15 * time.Second

type flags struct {
	port     string
	host     string
	logLevel string
	dev      bool
	envFile  string
}

func newRootCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:           "nebula-server",
		Version:       version,
		Short:         "Nebula Studio backend",
		Long:          "Serves the Nebula Studio workspace, assistant and code generator over HTTP and WebSocket.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, f)
		},
	}

	cmd.Flags().StringVar(&f.port, "port", "", "server port (overrides PORT)")
	cmd.Flags().StringVar(&f.host, "host", "", "server host (overrides HOST)")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "log level (overrides LOG_LEVEL)")
	cmd.Flags().BoolVar(&f.dev, "dev", false, "development mode: console logs, debug level")
	cmd.Flags().StringVar(&f.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	return cmd
}

func run(cmd *cobra.Command, f flags) error {
	// a missing .env is normal outside development
	if err := godotenv.Load(f.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", f.envFile, err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = f.port
	}
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = f.host
	}
	if f.dev {
		cfg.Logging.Development = true
		if os.Getenv("LOG_LEVEL") == "" {
			cfg.Logging.Level = "debug"
		}
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = f.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(logging.FromConfig(cfg.Logging))
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	logger.Info("Nebula Studio backend", zap.String("version", version))

	srv, err := server.NewServer(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

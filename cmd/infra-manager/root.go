package main

import (
	"fmt"

	"github.com/EricMurray-e-m-dev/infra-manager/internal/config"
	"github.com/EricMurray-e-m-dev/infra-manager/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries what PersistentPreRunE prepares for the subcommands.
type app struct {
	cfg    *config.Config
	logger *zap.Logger

	logLevel  string
	logFormat string
}

func newRootCmd() *cobra.Command {
	a := &app{}

	serve := newServeCmd(a)

	root := &cobra.Command{
		Use:   "infra-manager",
		Short: "Status and housekeeping API for the local infrastructure stack",
		Long: `infra-manager reports on the local Postgres, Redis, MinIO, Qdrant,
MongoDB and Docker services and can drop databases and buckets.
Without a subcommand it serves the HTTP API.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: a.teardown,
		RunE:              serve.RunE,
	}

	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides LOG_LEVEL")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "Log format (json, console); overrides LOG_FORMAT")

	root.AddCommand(serve, newReportCmd(a), newContainersCmd(a))
	return root
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.logFormat != "" {
		cfg.LogFormat = a.logFormat
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.EnvFile != "" {
		logger.Debug("Loaded environment file", zap.String("path", cfg.EnvFile))
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) teardown(cmd *cobra.Command, args []string) {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

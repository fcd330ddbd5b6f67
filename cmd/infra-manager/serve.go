package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/EricMurray-e-m-dev/infra-manager/internal/orchestrator"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	a.logger.Info("infra-manager starting",
		zap.String("addr", a.cfg.ListenAddr()),
		zap.String("container_prefix", a.cfg.ContainerPrefix),
		zap.String("postgres", fmt.Sprintf("%s:%d", a.cfg.Postgres.Host, a.cfg.Postgres.Port)),
		zap.String("redis", fmt.Sprintf("%s:%d", a.cfg.Redis.Host, a.cfg.Redis.Port)),
		zap.String("minio", a.cfg.Minio.Endpoint),
		zap.String("qdrant", fmt.Sprintf("%s:%d", a.cfg.Qdrant.Host, a.cfg.Qdrant.GRPCPort)),
		zap.String("mongodb", fmt.Sprintf("%s:%d", a.cfg.MongoDB.Host, a.cfg.MongoDB.Port)),
	)

	// Listen for shutdown signals (Ctrl+C, Docker stop)
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	orch := orchestrator.NewOrchestrator(a.cfg, a.logger)
	if err := orch.Start(ctx); err != nil {
		return fmt.Errorf("failed to start orchestrator: %w", err)
	}
	defer orch.Stop()

	if err := orch.Run(ctx); err != nil {
		a.logger.Error("Server error", zap.Error(err))
		return err
	}

	a.logger.Info("Shutdown complete")
	return nil
}

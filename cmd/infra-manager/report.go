package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/EricMurray-e-m-dev/infra-manager/internal/adapter"
	"github.com/EricMurray-e-m-dev/infra-manager/internal/orchestrator"
	"github.com/spf13/cobra"
)

func newReportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "report [service...]",
		Short: "Print JSON status reports for the named services, or all of them",
		Example: `  infra-manager report
  infra-manager report postgres mongodb`,
		RunE: func(cmd *cobra.Command, args []string) error {
			orch := orchestrator.NewOrchestrator(a.cfg, a.logger)
			if err := orch.Start(cmd.Context()); err != nil {
				return err
			}
			defer orch.Stop()

			return writeReports(cmd.Context(), cmd.OutOrStdout(), orch.Registry(), args)
		},
	}
}

// writeReports fetches each named report in turn and prints them as one JSON
// object keyed by service. A failing service contributes its error report.
func writeReports(ctx context.Context, w io.Writer, registry *adapter.Registry, names []string) error {
	if len(names) == 0 {
		names = registry.Names()
	}

	reporters := make([]adapter.Reporter, 0, len(names))
	for _, name := range names {
		rep, err := registry.Reporter(name)
		if err != nil {
			return fmt.Errorf("%w (known: %v)", err, registry.Names())
		}
		reporters = append(reporters, rep)
	}

	reports := make(map[string]any, len(reporters))
	for _, rep := range reporters {
		report, err := rep.FetchReport(ctx)
		if err != nil {
			reports[rep.Name()] = adapter.Report(err)
			continue
		}
		reports[rep.Name()] = report
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(reports)
}

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/EricMurray-e-m-dev/infra-manager/internal/docker"
	"github.com/EricMurray-e-m-dev/infra-manager/internal/models"
	"github.com/EricMurray-e-m-dev/infra-manager/internal/orchestrator"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
)

func newContainersCmd(a *app) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "containers",
		Short: "List the prefixed containers as a table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := orchestrator.ConnectDocker(cmd.Context())
			if err != nil {
				return fmt.Errorf("%w: %v", docker.ErrUnavailable, err)
			}
			defer session.Close()

			lister := docker.NewAdapter(session, a.cfg.ContainerPrefix, a.logger)
			containers, err := lister.ListContainers(cmd.Context())
			if err != nil {
				return err
			}

			renderContainers(cmd.OutOrStdout(), containers, plain)
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Use plain ASCII output instead of Unicode box-drawing characters")
	return cmd
}

func renderContainers(w io.Writer, containers []models.ContainerSummary, plain bool) {
	table := tablewriter.NewWriter(w)
	// Keep headers as written rather than upper-casing them
	table.Options(tablewriter.WithConfig(tablewriter.Config{
		Header: tw.CellConfig{
			Formatting: tw.CellFormatting{AutoFormat: tw.Off},
		},
	}))
	if plain {
		table.Options(tablewriter.WithSymbols(&tw.SymbolASCII{}))
	}

	table.Header("ID", "NAME", "IMAGE", "STATUS", "HEALTH", "PORTS")
	for _, c := range containers {
		table.Append(c.ID, c.Name, c.Image, c.Status, c.Health, strings.Join(c.Ports, ", "))
	}
	table.Render()

	fmt.Fprintf(w, "\n(%d containers)\n", len(containers))
}

package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewClusterCommand creates the cluster command.
func NewClusterCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cluster",
		Short: "Group models by classification tag",
		Long: `Discover all persisted models and partition them into clusters by
classification tag. Tags that match only one model are reported as
singletons rather than clusters.`,
		Example: `  # Cluster all models
  charkov cluster

  # Cluster as JSON
  charkov cluster --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCluster(cmd)
		},
	}

	return cmd
}

func runCluster(cmd *cobra.Command) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if _, err := cmdCtx.Engine.Discover(); err != nil {
		return err
	}

	report := cmdCtx.Engine.Registry().Cluster()
	out := cmd.OutOrStdout()

	if isJSON(cmdCtx.Cfg) {
		return renderJSON(out, report)
	}

	if len(report.Clusters) == 0 && len(report.Singletons) == 0 {
		fmt.Fprintln(out, "No models to cluster.")
		return nil
	}

	fmt.Fprintf(out, "Clusters (%d):\n", len(report.Clusters))
	for _, g := range report.Clusters {
		fmt.Fprintf(out, "  %s (%d): %s\n", g.Tag, len(g.Members), strings.Join(g.Members, ", "))
	}
	if len(report.Singletons) > 0 {
		fmt.Fprintf(out, "Singletons (%d):\n", len(report.Singletons))
		for _, g := range report.Singletons {
			fmt.Fprintf(out, "  %s: %s\n", g.Tag, strings.Join(g.Members, ", "))
		}
	}
	return nil
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewFixedPointsCommand creates the fixedpoints command.
func NewFixedPointsCommand() *cobra.Command {
	var threshold float64

	cmd := &cobra.Command{
		Use:   "fixedpoints <model>",
		Short: "Find a model's dominant self-loop symbols",
		Long: `List every symbol whose self-transition accounts for more than the
threshold fraction of its outgoing observations. Such symbols are stable
under greedy generation: once reached, the walk stays on them.`,
		Example: `  # Self-loops above the default 0.5 ratio
  charkov fixedpoints corpus

  # Stricter threshold
  charkov fixedpoints corpus --threshold 0.9`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFixedPoints(cmd, args[0], threshold)
		},
	}

	cmd.Flags().Float64Var(&threshold, "threshold", 0, "Self-transition ratio floor (default from config)")

	return cmd
}

func runFixedPoints(cmd *cobra.Command, name string, threshold float64) error {
	cfg := getConfig()
	if threshold > 0 {
		cfg.SelfLoopThreshold = threshold
	}

	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	points, err := cmdCtx.Engine.FixedPoints(name)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if isJSON(cfg) {
		return renderJSON(out, map[string]any{
			"model":        name,
			"threshold":    cfg.SelfLoopThreshold,
			"fixed_points": points,
		})
	}

	if len(points) == 0 {
		fmt.Fprintln(out, "No fixed points.")
		return nil
	}
	for _, s := range points {
		fmt.Fprintln(out, symbolLabel(s))
	}
	return nil
}

package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// NewRankCommand creates the rank command.
func NewRankCommand() *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank models by structural complexity",
		Long: `Discover all persisted models and rank them by a complexity score
combining transition entropy and distinct-transition count. Higher scores
indicate richer transition structure.`,
		Example: `  # Rank all models
  charkov rank

  # Show only the five most complex
  charkov rank --top 5`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRank(cmd, top)
		},
	}

	cmd.Flags().IntVar(&top, "top", 0, "Limit output to the N highest-ranked models (0 = all)")

	return cmd
}

func runRank(cmd *cobra.Command, top int) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if _, err := cmdCtx.Engine.Discover(); err != nil {
		return err
	}

	ranked := cmdCtx.Engine.Registry().RankByComplexity()
	if top > 0 && len(ranked) > top {
		ranked = ranked[:top]
	}

	out := cmd.OutOrStdout()
	if isJSON(cmdCtx.Cfg) {
		return renderJSON(out, ranked)
	}

	if len(ranked) == 0 {
		fmt.Fprintln(out, "No models to rank.")
		return nil
	}

	t := newTable(out)
	t.AppendHeader(table.Row{"#", "Name", "Tag", "Entropy", "Transitions", "Score"})
	for i, r := range ranked {
		t.AppendRow(table.Row{
			i + 1,
			r.Name,
			r.Tag,
			fmt.Sprintf("%.3f", r.Entropy),
			r.Transitions,
			fmt.Sprintf("%.3f", r.Score),
		})
	}
	t.Render()
	return nil
}

package commands

import (
	"fmt"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// NewModelsCommand creates the models command.
func NewModelsCommand() *cobra.Command {
	var (
		inspect string
		topN    int
	)

	cmd := &cobra.Command{
		Use:   "models",
		Short: "List persisted models",
		Long: `Discover every *.bin model in the models directory and list it with
its classification tag, transition count, and entropy. Models that fail to
decode are reported and skipped.`,
		Example: `  # List all models
  charkov models

  # List models as JSON
  charkov models --output json

  # Show the most frequent transitions of one model
  charkov models --inspect corpus --top 10`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if inspect != "" {
				return runInspect(cmd, inspect, topN)
			}
			return runModels(cmd)
		},
	}

	cmd.Flags().StringVar(&inspect, "inspect", "", "Show the top transitions of the named model")
	cmd.Flags().IntVar(&topN, "top", 20, "Number of transitions to show with --inspect")

	return cmd
}

func runModels(cmd *cobra.Command) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	eng := cmdCtx.Engine
	result, err := eng.Discover()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	names := eng.Registry().Names()

	if isJSON(cmdCtx.Cfg) {
		type modelInfo struct {
			Name         string  `json:"name"`
			Tag          string  `json:"tag"`
			Transitions  int     `json:"transitions"`
			Observations uint64  `json:"observations"`
			Entropy      float64 `json:"entropy"`
		}
		infos := make([]modelInfo, 0, len(names))
		for _, name := range names {
			m, _ := eng.Registry().Get(name)
			infos = append(infos, modelInfo{
				Name:         name,
				Tag:          m.Tag,
				Transitions:  m.Table.TransitionCount(),
				Observations: m.Table.Observations(),
				Entropy:      m.Table.Entropy(),
			})
		}
		return renderJSON(out, map[string]any{
			"models": infos,
			"failed": len(result.Errors),
		})
	}

	if len(names) == 0 {
		fmt.Fprintln(out, "No models found.")
		fmt.Fprintln(out, result.Summary())
		return nil
	}

	t := newTable(out)
	t.AppendHeader(table.Row{"Name", "Tag", "Transitions", "Observations", "Entropy"})
	for _, name := range names {
		m, _ := eng.Registry().Get(name)
		t.AppendRow(table.Row{
			name,
			m.Tag,
			m.Table.TransitionCount(),
			m.Table.Observations(),
			fmt.Sprintf("%.3f", m.Table.Entropy()),
		})
	}
	t.Render()
	fmt.Fprintln(out, result.Summary())

	for _, de := range result.Errors {
		fmt.Fprintf(out, "  failed %s: %s\n", de.Path, de.Message)
	}
	return nil
}

func runInspect(cmd *cobra.Command, name string, topN int) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	tbl, err := cmdCtx.Engine.LoadModel(name)
	if err != nil {
		return fmt.Errorf("failed to load model %q: %w", name, err)
	}

	transitions := tbl.Transitions()
	sort.Slice(transitions, func(i, j int) bool {
		if transitions[i].Count != transitions[j].Count {
			return transitions[i].Count > transitions[j].Count
		}
		if transitions[i].From != transitions[j].From {
			return transitions[i].From < transitions[j].From
		}
		return transitions[i].To < transitions[j].To
	})
	if topN > 0 && len(transitions) > topN {
		transitions = transitions[:topN]
	}

	out := cmd.OutOrStdout()
	if isJSON(cmdCtx.Cfg) {
		return renderJSON(out, map[string]any{
			"name":         name,
			"transitions":  transitions,
			"observations": tbl.Observations(),
			"entropy":      tbl.Entropy(),
		})
	}

	fmt.Fprintf(out, "Model %q: %d distinct transitions, %d observations, entropy %.3f\n",
		name, tbl.TransitionCount(), tbl.Observations(), tbl.Entropy())

	t := newTable(out)
	t.AppendHeader(table.Row{"From", "To", "Count", "P(to|from)"})
	for _, tr := range transitions {
		t.AppendRow(table.Row{
			symbolLabel(tr.From),
			symbolLabel(tr.To),
			tr.Count,
			fmt.Sprintf("%.4f", tbl.Probability(tr.From, tr.To)),
		})
	}
	t.Render()
	return nil
}

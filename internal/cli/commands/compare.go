package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// NewCompareCommand creates the compare command.
func NewCompareCommand() *cobra.Command {
	var (
		window      int
		jaccardOnly bool
		maxPatterns int
	)

	cmd := &cobra.Command{
		Use:   "compare <model-a> <model-b>",
		Short: "Compare two transition models",
		Long: `Compare two models by their transition sets.

The primary score is directional: the fraction of model A's transitions
also present in model B. The Jaccard score is its symmetric variant. The
report also lists shared multi-symbol patterns and transitions whose
relative frequency matches across both models.`,
		Example: `  # Compare two persisted models
  charkov compare rustc-model path-model

  # Use a longer shared-pattern window
  charkov compare a b --window 4

  # Report only the symmetric score
  charkov compare a b --jaccard`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, args[0], args[1], window, jaccardOnly, maxPatterns)
		},
	}

	cmd.Flags().IntVar(&window, "window", 0, "Shared-pattern length (default from config)")
	cmd.Flags().BoolVar(&jaccardOnly, "jaccard", false, "Print only the symmetric Jaccard score")
	cmd.Flags().IntVar(&maxPatterns, "max-patterns", 10, "Shared patterns to list (0 = all)")

	return cmd
}

func runCompare(cmd *cobra.Command, nameA, nameB string, window int, jaccardOnly bool, maxPatterns int) error {
	cfg := getConfig()
	if window > 0 {
		cfg.Window = window
	}

	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if _, err := cmdCtx.Engine.Discover(); err != nil {
		return err
	}

	report, err := cmdCtx.Engine.Compare(nameA, nameB)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if jaccardOnly {
		if isJSON(cfg) {
			return renderJSON(out, map[string]any{"jaccard": report.Jaccard})
		}
		fmt.Fprintf(out, "%.4f\n", report.Jaccard)
		return nil
	}

	if isJSON(cfg) {
		return renderJSON(out, report)
	}

	fmt.Fprintf(out, "Comparing %q -> %q\n", nameA, nameB)
	fmt.Fprintf(out, "  similarity: %.4f\n", report.Score)
	fmt.Fprintf(out, "  jaccard:    %.4f\n", report.Jaccard)

	patterns := report.SharedPatterns
	fmt.Fprintf(out, "  shared patterns (%d):\n", len(patterns))
	if maxPatterns > 0 && len(patterns) > maxPatterns {
		patterns = patterns[:maxPatterns]
	}
	for _, p := range patterns {
		fmt.Fprintf(out, "    %q\n", p)
	}

	if len(report.FixedPoints) > 0 {
		fmt.Fprintf(out, "  frequency-stable transitions (%d):\n", len(report.FixedPoints))
		t := newTable(out)
		t.AppendHeader(table.Row{"From", "To", "Freq A", "Freq B"})
		for _, fp := range report.FixedPoints {
			t.AppendRow(table.Row{
				symbolLabel(fp.From),
				symbolLabel(fp.To),
				fmt.Sprintf("%.5f", fp.FreqA),
				fmt.Sprintf("%.5f", fp.FreqB),
			})
		}
		t.Render()
	}
	return nil
}

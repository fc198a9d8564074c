package commands

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/charkov/charkov/pkg/generate"
	"github.com/charkov/charkov/pkg/model"
)

// NewGenerateCommand creates the generate command.
func NewGenerateCommand() *cobra.Command {
	var (
		start    string
		maxLen   int
		patterns bool
		minProb  float64
	)

	cmd := &cobra.Command{
		Use:   "generate <model>",
		Short: "Generate text from a model",
		Long: `Walk the named model greedily from a start symbol, always following
the most frequent outgoing transition. Generation is deterministic: ties are
broken toward the lowest symbol code, and the walk stops at the length limit
or at a symbol with no outgoing transitions.

With --patterns, list the model's dominant three-symbol chains instead of
generating.`,
		Example: `  # Generate up to 64 symbols starting from 'a'
  charkov generate corpus --start a --max-len 64

  # Start from a numeric symbol code
  charkov generate corpus --start 0x66

  # List dominant patterns
  charkov generate corpus --patterns --min-prob 0.9`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if patterns {
				return runDominantPatterns(cmd, args[0], minProb)
			}
			return runGenerate(cmd, args[0], start, maxLen)
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "Start symbol: a single character or a numeric code")
	cmd.Flags().IntVar(&maxLen, "max-len", 64, "Maximum output length, including the start symbol")
	cmd.Flags().BoolVar(&patterns, "patterns", false, "List dominant patterns instead of generating")
	cmd.Flags().Float64Var(&minProb, "min-prob", generate.DefaultDominanceThreshold, "Per-step probability floor for --patterns")

	return cmd
}

// parseStartSymbol accepts a single character or a numeric code
// (decimal or 0x-prefixed hex).
func parseStartSymbol(s string) (model.Symbol, error) {
	if s == "" {
		return 0, fmt.Errorf("a start symbol is required (--start)")
	}
	if utf8.RuneCountInString(s) == 1 {
		r, _ := utf8.DecodeRuneInString(s)
		return model.Symbol(r), nil
	}
	code, err := strconv.ParseInt(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid start symbol %q: must be one character or a numeric code", s)
	}
	return model.Symbol(code), nil
}

func runGenerate(cmd *cobra.Command, name, start string, maxLen int) error {
	startSym, err := parseStartSymbol(start)
	if err != nil {
		return err
	}

	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	text, err := cmdCtx.Engine.Generate(name, startSym, maxLen)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if isJSON(cmdCtx.Cfg) {
		return renderJSON(out, map[string]any{
			"model":  name,
			"start":  start,
			"length": utf8.RuneCountInString(text),
			"text":   text,
		})
	}
	fmt.Fprintln(out, text)
	return nil
}

func runDominantPatterns(cmd *cobra.Command, name string, minProb float64) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	tbl, err := cmdCtx.Engine.LoadModel(name)
	if err != nil {
		return err
	}

	dominant := generate.DominantPatterns(tbl, minProb)
	out := cmd.OutOrStdout()

	if isJSON(cmdCtx.Cfg) {
		return renderJSON(out, map[string]any{
			"model":    name,
			"min_prob": minProb,
			"patterns": dominant,
		})
	}

	if len(dominant) == 0 {
		fmt.Fprintln(out, "No dominant patterns.")
		return nil
	}
	for _, p := range dominant {
		fmt.Fprintf(out, "%q\n", p)
	}
	return nil
}

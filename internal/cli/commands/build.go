package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/charkov/charkov/pkg/codec"
)

// NewBuildCommand creates the build command.
func NewBuildCommand() *cobra.Command {
	var (
		name    string
		outPath string
		reverse bool
	)

	cmd := &cobra.Command{
		Use:   "build [paths...]",
		Short: "Build a transition model from a corpus",
		Long: `Scan the given files and directories (or the configured corpus roots)
and build a character transition-frequency model. The model is saved to the
models directory under the given name.

Sources that cannot be read or exceed the size ceiling are skipped and
reported; they never abort the build.`,
		Example: `  # Build from the configured corpus roots
  charkov build --name corpus

  # Build from explicit paths
  charkov build ./src ./docs --name source-model

  # Build the reverse model alongside the forward one
  charkov build ./src --name source-model --reverse

  # Write the model to an explicit file instead of the models directory
  charkov build ./src --name tmp --out /tmp/model.bin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, args, name, outPath, reverse)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "corpus", "Model name")
	cmd.Flags().StringVar(&outPath, "out", "", "Write the model to this path instead of the models directory")
	cmd.Flags().BoolVar(&reverse, "reverse", false, "Also build and save the reversed model (<name>-reverse)")

	return cmd
}

func runBuild(cmd *cobra.Command, args []string, name, outPath string, reverse bool) error {
	cfg := getConfig()
	if len(args) > 0 {
		cfg.CorpusRoots = args
	}

	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	eng := cmdCtx.Engine
	eng.SetReverse(reverse)

	result, err := eng.BuildCorpus(cmd.Context())
	if err != nil {
		return err
	}

	var path string
	if outPath != "" {
		path = outPath
		if err := codec.Save(result.Table, path); err != nil {
			return err
		}
	} else {
		path, err = eng.SaveModel(name, result.Table)
		if err != nil {
			return err
		}
	}

	var reversePath string
	if reverse && result.Reverse != nil {
		reversePath, err = eng.SaveModel(name+"-reverse", result.Reverse)
		if err != nil {
			return err
		}
	}

	if isJSON(cfg) {
		return renderJSON(cmd.OutOrStdout(), map[string]any{
			"name":         name,
			"path":         path,
			"reverse_path": reversePath,
			"scanned":      result.Scanned,
			"skipped":      len(result.Skipped),
			"symbols":      result.Symbols,
			"transitions":  result.Table.TransitionCount(),
			"observations": result.Table.Observations(),
		})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Model %q saved to %s\n", name, path)
	if reversePath != "" {
		fmt.Fprintf(out, "Reverse model saved to %s\n", reversePath)
	}
	fmt.Fprintf(out, "  sources scanned: %d\n", result.Scanned)
	fmt.Fprintf(out, "  symbols ingested: %d\n", result.Symbols)
	fmt.Fprintf(out, "  distinct transitions: %d\n", result.Table.TransitionCount())
	fmt.Fprintf(out, "  total observations: %d\n", result.Table.Observations())
	for _, skip := range result.Skipped {
		fmt.Fprintf(out, "  skipped %s: %s\n", skip.Name, skip.Reason)
	}
	return nil
}

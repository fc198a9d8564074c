package commands

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// watchDebounce coalesces bursts of filesystem events into one rebuild.
const watchDebounce = 250 * time.Millisecond

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Rebuild the model when the corpus changes",
		Long: `Watch the given paths (or the configured corpus roots) and rebuild
the named model whenever a file changes. Rebuilds are debounced so a burst
of writes triggers a single build. Runs until interrupted.`,
		Example: `  # Watch the configured corpus roots
  charkov watch --name corpus

  # Watch explicit directories
  charkov watch ./src ./docs --name source-model`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args, name)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "corpus", "Model name to rebuild")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string, name string) error {
	cfg := getConfig()
	if len(args) > 0 {
		cfg.CorpusRoots = args
	}
	if len(cfg.CorpusRoots) == 0 {
		return fmt.Errorf("no corpus roots configured")
	}

	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	for _, root := range cfg.CorpusRoots {
		if err := watchPath(watcher, root); err != nil {
			return fmt.Errorf("failed to watch %s: %w", root, err)
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	rebuild := func() {
		result, buildErr := cmdCtx.Engine.BuildCorpus(ctx)
		if buildErr != nil {
			cmdCtx.Logger.Error("rebuild failed", "error", buildErr)
			return
		}
		path, saveErr := cmdCtx.Engine.SaveModel(name, result.Table)
		if saveErr != nil {
			cmdCtx.Logger.Error("save failed", "error", saveErr)
			return
		}
		fmt.Fprintf(out, "rebuilt %s (%d transitions, %d sources, %d skipped)\n",
			path, result.Table.TransitionCount(), result.Scanned, len(result.Skipped))
	}

	// Initial build so the watch loop starts from a current model.
	rebuild()
	fmt.Fprintf(out, "watching %d root(s), press Ctrl+C to stop\n", len(cfg.CorpusRoots))

	var debounceTimer *time.Timer
	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			// New directories must be added to the watch set.
			if event.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
					_ = watchPath(watcher, event.Name)
				}
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			changed := filepath.Base(event.Name)
			debounceTimer = time.AfterFunc(watchDebounce, func() {
				cmdCtx.Logger.Debug("change detected", "file", changed)
				rebuild()
			})
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cmdCtx.Logger.Error("watcher error", "error", watchErr)
		}
	}
}

// watchPath recursively adds a file or directory tree to the watcher,
// skipping hidden directories.
func watchPath(watcher *fsnotify.Watcher, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return watcher.Add(root)
	}
	return filepath.Walk(root, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			if name := fi.Name(); len(name) > 1 && name[0] == '.' {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		}
		return nil
	})
}

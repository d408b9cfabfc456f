package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pilotgen/pilotgen/internal/config"
	"github.com/pilotgen/pilotgen/internal/generator"
	"github.com/pilotgen/pilotgen/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Aliases: []string{"w"},
	Short:   "Regenerate artifacts whenever templates or configuration change",
	Long: `Run an initial generation, then watch the templates directory and the
project configuration for changes and regenerate on every change, until
interrupted.

Examples:
  pilotgen watch
  pilotgen watch --group claude`,
	RunE: runWatch,
}

var watchGroups []string

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().Var(newGroupsValue(&watchGroups), "group",
		"restrict generation to artifact groups (copilot, claude, issue-template)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := newLogger()
	gen := generator.New(cfg, generator.WithLogger(logger))
	ctx := cmd.Context()

	regenerate := func() {
		result, err := gen.Generate(ctx, generator.Request{Groups: watchGroups})
		if err != nil {
			logger.Error(ctx, err, "generation failed")
			return
		}
		written := 0
		for _, a := range result.Artifacts {
			if a.Written {
				written++
			}
		}
		logger.Info(ctx, "generation complete",
			"written", written, "failed", len(result.Failed()),
			"diagnostics", result.DiagnosticCount())
	}

	regenerate()

	fw, err := watcher.NewFileWatcher(cfg.Watch.Debounce, logger)
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fw.Stop()

	fw.AddFilter(watcher.ProjectConfigFilter(cfg.Templates.Suffix))
	fw.AddFilter(watcher.NoTempFilter)
	fw.AddFilter(watcher.NoGitFilter)
	fw.AddHandler(func(events []watcher.ChangeEvent) error {
		for _, event := range events {
			logger.Info(ctx, "change detected", "path", event.Path, "type", event.Type.String())
		}
		if err := gen.LoadTemplates(ctx); err != nil {
			logger.Warn(ctx, err, "template reload failed")
		}
		regenerate()
		return nil
	})

	paths := cfg.Watch.Paths
	if len(paths) == 0 {
		paths = []string{cfg.Templates.Dir, cfg.Project.ConfigFile}
	}
	watching := 0
	for _, path := range paths {
		if err := fw.AddRecursive(path); err != nil {
			logger.Warn(ctx, err, "failed to watch path", "path", path)
			continue
		}
		watching++
	}
	if watching == 0 {
		return fmt.Errorf("nothing to watch: none of %v could be watched", paths)
	}

	if err := fw.Start(ctx); err != nil {
		return err
	}

	fmt.Println("Watching for changes (Ctrl+C to stop)...")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-ctx.Done():
	case <-sigCh:
	}
	fmt.Println("Stopped.")
	return nil
}

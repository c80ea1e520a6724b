package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/maxstack-dev/maxstack/internal/cli/ui"
	"github.com/maxstack-dev/maxstack/internal/reconcile"
	"github.com/maxstack-dev/maxstack/internal/watch"
)

// NewGenCommand creates the gen command
func NewGenCommand(opts *globalOptions) *cobra.Command {
	var (
		dryRun   bool
		watching bool
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate route handlers for new pages",
		Long: `Generate a route handler for every page in maxstack.tsx that the routing
manifest does not declare yet, then rewrite the manifest.

With --watch the manifest is always merged, whatever preserve_routes says.

Existing handler files are overwritten only for pages missing from the
manifest. Running gen again without configuration changes does nothing.

Examples:
  # Reconcile the project in the current directory
  maxstack gen

  # Show what would change without writing
  maxstack gen --dry-run

  # Regenerate whenever maxstack.tsx or app/routes.ts changes
  maxstack gen --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(opts)
			if err != nil {
				return err
			}
			defer s.close()

			out := cmd.OutOrStdout()

			if !watching {
				result, err := s.reconciler(dryRun).Reconcile(cmd.Context(), s.dir)
				if err != nil {
					return err
				}
				return printResult(out, s, result, asJSON)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			r := s.watchReconciler(dryRun)

			// Failures are reported and watching continues
			run := func() error {
				result, err := r.Reconcile(ctx, s.dir)
				if err != nil {
					fmt.Fprint(cmd.ErrOrStderr(), ui.PipelineError(err, s.noColor))
					return nil
				}
				return printResult(out, s, result, asJSON)
			}
			if err := run(); err != nil {
				return err
			}

			files := []string{s.path(s.cfg.ConfigFile), s.path(s.cfg.ManifestFile)}
			watcher, err := watch.NewFileWatcher(files, func(changed []string) error {
				s.logger.Info("change detected, regenerating", zap.Strings("files", changed))
				return run()
			}, s.logger.Named("watch"))
			if err != nil {
				return err
			}

			if !asJSON {
				color.New(color.FgYellow).Fprintln(out, "Watching for changes. Press Ctrl+C to stop.")
			}
			return watcher.Run(ctx)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Compute changes without writing files")
	cmd.Flags().BoolVarP(&watching, "watch", "w", false, "Regenerate when the configuration or manifest changes")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")

	return cmd
}

func printResult(w io.Writer, s *session, result *reconcile.Result, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	if result.UpToDate() {
		ui.WriteSuccess(w, "Routes are up to date", s.noColor)
		return nil
	}

	heading := "Created route handlers:"
	if result.DryRun {
		heading = "Would create route handlers:"
	}
	cyan := color.New(color.FgCyan)
	if s.noColor {
		cyan.DisableColor()
	}
	cyan.Fprintln(w, heading)

	list := ui.NewList(w, ui.ListOptions{NoColor: s.noColor})
	for _, file := range result.Created {
		list.AddItem(file)
	}
	list.Render()
	fmt.Fprintln(w)

	if result.DryRun {
		cyan.Fprintf(w, "Would write %s:\n", s.cfg.ManifestFile)
		fmt.Fprintln(w, result.Manifest)
		return nil
	}

	ui.WriteSuccess(w, fmt.Sprintf("Updated %s (%d new routes)", s.cfg.ManifestFile, len(result.Created)), s.noColor)
	return nil
}

package commands

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/maxstack-dev/maxstack/internal/cli/ui"
	"github.com/maxstack-dev/maxstack/internal/features"
)

// NewFeaturesCommand creates the features command
func NewFeaturesCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "features",
		Short: "Manage standard features",
		Long: `Standard features are prebuilt bundles of database schema, relations and
pages that can be added to a generated project.

Examples:
  maxstack features list
  maxstack features add blog saas-marketing`,
	}

	cmd.AddCommand(newFeaturesListCommand(opts))
	cmd.AddCommand(newFeaturesAddCommand(opts))

	return cmd
}

func newFeaturesListCommand(opts *globalOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the available standard features",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			list := features.List()

			switch format {
			case "json":
				return writeJSON(out, list)
			case "yaml":
				return writeYAML(out, list)
			case "table":
			default:
				return fmt.Errorf("unsupported format %q, expected table, json or yaml", format)
			}

			table := ui.NewTable(out, []string{"NAME", "PAGES", "DESCRIPTION"}, &ui.TableOptions{NoColor: opts.noColor})
			for _, f := range list {
				table.AddRow(string(f.Name), strconv.Itoa(len(f.Pages)), f.Description)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table, json or yaml")

	return cmd
}

func newFeaturesAddCommand(opts *globalOptions) *cobra.Command {
	var skipGen bool

	cmd := &cobra.Command{
		Use:   "add <feature>...",
		Short: "Add standard features to the project",
		Long: `Install the schema fragments of each feature under the database directory,
register them in the schema barrel and relations module, add the feature pages
to an empty page list in maxstack.tsx and generate their route handlers.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(opts)
			if err != nil {
				return err
			}
			defer s.close()

			out := cmd.OutOrStdout()
			result, err := s.installer().Install(cmd.Context(), s.dir, args)
			if err != nil {
				return err
			}

			list := ui.NewList(out, ui.ListOptions{NoColor: s.noColor})
			for _, path := range result.Written {
				rel, err := filepath.Rel(s.dir, path)
				if err != nil {
					rel = path
				}
				list.AddItem(rel)
			}
			list.Render()

			for _, name := range result.Installed {
				ui.WriteSuccess(out, fmt.Sprintf("Installed %s", name), s.noColor)
			}
			if !result.PagesInjected && len(result.Pages) > 0 {
				fmt.Fprint(out, ui.Warning(fmt.Sprintf(
					"%s already declares pages; add the feature pages yourself (maxstack features list --format yaml)",
					s.cfg.ConfigFile), s.noColor))
			}

			if skipGen {
				return nil
			}

			color.New(color.FgCyan).Fprintln(out, "\nGenerating routes...")
			gen, err := s.reconciler(false).Reconcile(cmd.Context(), s.dir)
			if err != nil {
				return err
			}
			return printResult(out, s, gen, false)
		},
	}

	cmd.Flags().BoolVar(&skipGen, "no-gen", false, "Do not generate route handlers afterwards")

	return cmd
}

func featureNames() []string {
	list := features.List()
	names := make([]string, 0, len(list))
	for _, f := range list {
		names = append(names, string(f.Name))
	}
	return names
}

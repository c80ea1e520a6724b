package commands

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/maxstack-dev/maxstack/internal/cli/ui"
	"github.com/maxstack-dev/maxstack/internal/compiler/errors"
	"github.com/maxstack-dev/maxstack/internal/routes"
	"github.com/maxstack-dev/maxstack/internal/utils"
)

// NewRoutesCommand creates the routes command
func NewRoutesCommand(opts *globalOptions) *cobra.Command {
	var (
		format  string
		orphans bool
	)

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List the routes declared in the routing manifest",
		Long: `Parse the routing manifest and list its routes with their handler module
and layout, in declaration order.

Examples:
  maxstack routes
  maxstack routes --format json
  maxstack routes --orphans`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "table" && format != "json" && format != "yaml" {
				return fmt.Errorf("unsupported format %q, expected table, json or yaml", format)
			}

			s, err := newSession(opts)
			if err != nil {
				return err
			}
			defer s.close()

			manifest := s.path(s.cfg.ManifestFile)
			src, err := afero.ReadFile(s.fs, manifest)
			if err != nil {
				if stderrors.Is(err, fs.ErrNotExist) {
					return &errors.MissingManifestError{Path: manifest}
				}
				return err
			}

			parse := routes.Parse
			if s.cfg.StrictManifest {
				parse = routes.ParseStrict
			}
			parsed, err := parse(string(src))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !orphans {
				return writeRoutes(out, format, parsed, s.noColor)
			}

			modules, err := utils.FindRouteModules(s.fs, s.path(s.cfg.RoutesDir))
			if err != nil {
				return fmt.Errorf("failed to list route modules: %w", err)
			}
			for i, module := range modules {
				modules[i] = filepath.ToSlash(filepath.Join(s.cfg.RoutesDir, module))
			}

			return writeOrphans(out, format, routes.Orphans(parsed, filepath.Dir(s.cfg.ManifestFile), modules), s.noColor)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table, json or yaml")
	cmd.Flags().BoolVar(&orphans, "orphans", false, "List route modules the manifest does not reference")

	return cmd
}

func writeRoutes(w io.Writer, format string, parsed []routes.ParsedRoute, noColor bool) error {
	switch format {
	case "json":
		return writeJSON(w, parsed)
	case "yaml":
		return writeYAML(w, parsed)
	}

	if len(parsed) == 0 {
		fmt.Fprint(w, ui.Warning("The manifest declares no routes.", noColor))
		return nil
	}

	table := ui.NewTable(w, []string{"ROUTE", "FILE", "LAYOUT"}, &ui.TableOptions{NoColor: noColor})
	for _, r := range parsed {
		table.AddRow(r.Route, r.FilePath, r.Layout)
	}
	table.Render()
	return nil
}

func writeOrphans(w io.Writer, format string, orphans []string, noColor bool) error {
	switch format {
	case "json":
		return writeJSON(w, orphans)
	case "yaml":
		return writeYAML(w, orphans)
	}

	if len(orphans) == 0 {
		ui.WriteSuccess(w, "Every route module is referenced by the manifest", noColor)
		return nil
	}

	list := ui.NewList(w, ui.ListOptions{NoColor: noColor})
	for _, orphan := range orphans {
		list.AddItem(orphan)
	}
	list.Render()
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

package commands

import (
	stderrors "errors"
	"fmt"
	"io"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/maxstack-dev/maxstack/internal/cli/ui"
	"github.com/maxstack-dev/maxstack/internal/compiler/errors"
	"github.com/maxstack-dev/maxstack/internal/features"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "maxstack",
		Short: "Scaffold React Router applications from a page configuration",
		Long: color.CyanString(`maxstack - full stack scaffolding from maxstack.tsx

maxstack reads the pages declared in maxstack.tsx and keeps the application in
sync with them:
  • Generates a route handler for every new page
  • Keeps app/routes.ts declaring every page
  • Installs standard features such as a blog`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				color.NoColor = true
			}
		},
	}

	addGlobalFlags(rootCmd, opts)

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(NewGenCommand(opts))
	rootCmd.AddCommand(NewRoutesCommand(opts))
	rootCmd.AddCommand(NewFeaturesCommand(opts))

	return rootCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display the maxstack version, Git commit, build date, and Go version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			goVer := GoVersion
			if goVer == "unknown" {
				goVer = runtime.Version()
			}

			out := cmd.OutOrStdout()
			table := ui.NewKeyValueTable(out, color.NoColor)
			table.AddRow("maxstack version", Version)
			table.AddRow("Git commit", GitCommit)
			table.AddRow("Build date", BuildDate)
			table.AddRow("Go version", goVer)
			table.Render()
		},
	}
}

// Execute runs the root command
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		writeError(rootCmd.ErrOrStderr(), err)
		return err
	}
	return nil
}

// writeError reports err the way the pipeline error formatter knows best
func writeError(w io.Writer, err error) {
	var unknown *features.UnknownFeatureError
	switch {
	case stderrors.As(err, &unknown):
		fmt.Fprint(w, ui.UnknownFeatureError(unknown.Name, featureNames(), color.NoColor))
	case errors.CodeOf(err) != "":
		fmt.Fprint(w, ui.PipelineError(err, color.NoColor))
	default:
		errorColor := color.New(color.FgRed, color.Bold)
		errorColor.Fprintf(w, "Error: %v\n", err)
	}
}

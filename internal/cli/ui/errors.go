package ui

import (
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"go.uber.org/multierr"

	"github.com/maxstack-dev/maxstack/internal/compiler/errors"
)

// ErrorLevel represents the severity of an error message
type ErrorLevel int

const (
	ErrorLevelError ErrorLevel = iota
	ErrorLevelWarning
	ErrorLevelInfo
)

// ErrorOptions configures the error message formatting
type ErrorOptions struct {
	Level        ErrorLevel
	Context      string
	Problem      string
	Details      []string
	Consequence  string
	Suggestions  []string
	HelpCommands []string
	NoColor      bool
}

// FormatError creates a standardized error message with details, suggestions
// and help commands
//
// Example output:
//
//	❌ INVALID CONFIGURATION: maxstack.tsx does not match the schema
//	   maxstack.tsx does not match the schema
//
//	   • pages[0].name: required
//
//	   → Get help: maxstack gen --help
func FormatError(opts ErrorOptions) string {
	var b strings.Builder

	var headerColor, bodyColor *color.Color
	var symbol string

	switch opts.Level {
	case ErrorLevelWarning:
		headerColor = color.New(color.FgYellow, color.Bold)
		bodyColor = color.New(color.FgYellow)
		symbol = "⚠️"
	case ErrorLevelInfo:
		headerColor = color.New(color.FgCyan, color.Bold)
		bodyColor = color.New(color.FgCyan)
		symbol = "ℹ️"
	default:
		headerColor = color.New(color.FgRed, color.Bold)
		bodyColor = color.New(color.FgRed)
		symbol = "❌"
	}

	if opts.NoColor {
		headerColor.DisableColor()
		bodyColor.DisableColor()
	}

	if opts.Context != "" {
		headerColor.Fprintf(&b, "%s %s: %s\n", symbol, strings.ToUpper(opts.Context), opts.Problem)
		bodyColor.Fprintf(&b, "   %s\n", opts.Problem)
	} else {
		headerColor.Fprintf(&b, "%s %s\n", symbol, opts.Problem)
	}

	if len(opts.Details) > 0 {
		b.WriteString("\n")
		for _, detail := range opts.Details {
			bodyColor.Fprintf(&b, "   • %s\n", detail)
		}
	}

	if opts.Consequence != "" {
		b.WriteString("\n")
		bodyColor.Fprintf(&b, "   %s\n", opts.Consequence)
	}

	if len(opts.Suggestions) > 0 {
		b.WriteString("\n")
		yellow := color.New(color.FgYellow)
		if opts.NoColor {
			yellow.DisableColor()
		}
		yellow.Fprintf(&b, "   Did you mean: %s?\n", strings.Join(opts.Suggestions, ", "))
	}

	if len(opts.HelpCommands) > 0 {
		b.WriteString("\n")
		cyan := color.New(color.FgCyan)
		if opts.NoColor {
			cyan.DisableColor()
		}
		for _, cmd := range opts.HelpCommands {
			cyan.Fprintf(&b, "   → %s\n", cmd)
		}
	}

	return b.String()
}

// WriteError writes a formatted error message to the writer
func WriteError(w io.Writer, opts ErrorOptions) {
	fmt.Fprint(w, FormatError(opts))
}

// FormatSuccess creates a success message
func FormatSuccess(message string, noColor bool) string {
	green := color.New(color.FgGreen, color.Bold)
	if noColor {
		green.DisableColor()
	}
	return green.Sprintf("✓ %s", message)
}

// WriteSuccess writes a success message to the writer
func WriteSuccess(w io.Writer, message string, noColor bool) {
	fmt.Fprintln(w, FormatSuccess(message, noColor))
}

// PipelineError formats an error returned by reconciliation or feature
// installation, choosing the context and help from its error code.
func PipelineError(err error, noColor bool) string {
	opts := ErrorOptions{
		Level:   ErrorLevelError,
		Problem: err.Error(),
		NoColor: noColor,
	}

	switch errors.CodeOf(err) {
	case errors.CodeConfigParse:
		opts.Context = "CONFIG PARSE FAILED"
		opts.HelpCommands = []string{"Fix the syntax error, then run: maxstack gen"}
	case errors.CodeConfigEval:
		opts.Context = "CONFIG EVALUATION FAILED"
		opts.Consequence = "maxstack.tsx must export its configuration as the default export without side effects."
	case errors.CodeConfigValidation:
		var validation *errors.ConfigValidationError
		if stderrors.As(err, &validation) {
			opts.Problem = fmt.Sprintf("%s does not match the configuration schema", validation.File)
			for _, issue := range validation.Issues {
				opts.Details = append(opts.Details, issue.String())
			}
		}
		opts.Context = "INVALID CONFIGURATION"
	case errors.CodeMissingManifest:
		opts.Context = "MANIFEST NOT FOUND"
		opts.HelpCommands = []string{"Set manifest_file in maxstack.yml if the manifest lives elsewhere"}
	case errors.CodeManifestSyntax:
		opts.Context = "MANIFEST SYNTAX ERROR"
	case errors.CodeNoRouteExport:
		opts.Context = "NO ROUTE TABLE"
		opts.Consequence = "The manifest must export its routes with export default [...]."
		opts.HelpCommands = []string{"Parse leniently: MAXSTACK_STRICT_MANIFEST=false maxstack gen"}
	case errors.CodeWrite:
		opts.Context = "WRITE FAILED"
		for _, e := range multierr.Errors(err) {
			opts.Details = append(opts.Details, e.Error())
		}
		if len(opts.Details) > 1 {
			opts.Problem = fmt.Sprintf("%d files could not be written", len(opts.Details))
		} else {
			opts.Details = nil
		}
		var writeErr *errors.WriteError
		if stderrors.As(err, &writeErr) && writeErr.Manifest {
			opts.Consequence = "Route handlers were written but the routing manifest may be incomplete."
			opts.HelpCommands = []string{"Retry once the manifest is writable: maxstack gen"}
		} else {
			opts.Consequence = "The routing manifest was left unchanged."
		}
	}

	return FormatError(opts)
}

// UnknownFeatureError creates a standardized unknown standard feature error
func UnknownFeatureError(name string, known []string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:        ErrorLevelError,
		Context:      "FEATURE NOT FOUND",
		Problem:      fmt.Sprintf("Cannot find standard feature '%s'.", name),
		Suggestions:  FindSimilar(name, known),
		HelpCommands: []string{"See all features: maxstack features list"},
		NoColor:      noColor,
	})
}

// Warning creates a standardized warning message
func Warning(message string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:   ErrorLevelWarning,
		Problem: message,
		NoColor: noColor,
	})
}

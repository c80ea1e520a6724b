// Package errors provides structured error handling for the maxstack pipeline.
// Every failure the reconciliation pipeline can surface carries an error code
// so the CLI can render it consistently and tests can match on kind.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorCode represents a unique error code in the pipeline
type ErrorCode string

const (
	// CodeConfigParse marks a configuration source that fails to compile
	CodeConfigParse ErrorCode = "CFG001"
	// CodeConfigEval marks a configuration module that throws or exports nothing usable
	CodeConfigEval ErrorCode = "CFG002"
	// CodeConfigValidation marks a configuration value that does not match the schema
	CodeConfigValidation ErrorCode = "CFG003"
	// CodeMissingManifest marks an absent routing manifest
	CodeMissingManifest ErrorCode = "MAN001"
	// CodeManifestSyntax marks a manifest that cannot be tokenized
	CodeManifestSyntax ErrorCode = "MAN002"
	// CodeNoRouteExport marks a manifest without a recognizable route array export
	CodeNoRouteExport ErrorCode = "MAN003"
	// CodeWrite marks an I/O failure while writing output
	CodeWrite ErrorCode = "OUT001"
)

// Coded is implemented by every error in this package
type Coded interface {
	error
	Code() ErrorCode
}

// CodeOf returns the code of the first Coded error in err's chain, or "" if none.
func CodeOf(err error) ErrorCode {
	var coded Coded
	if stderrors.As(err, &coded) {
		return coded.Code()
	}
	return ""
}

// SourceLocation tracks a position in a source file
type SourceLocation struct {
	Line   int // Line number (1-indexed)
	Column int // Column number (1-indexed)
}

// String renders the location as line:column
func (l SourceLocation) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// ConfigParseError is returned when the configuration source fails to compile
type ConfigParseError struct {
	File     string
	Location SourceLocation
	Message  string
	LineText string
}

func (e *ConfigParseError) Error() string {
	return fmt.Sprintf("failed to compile %s:%s: %s", e.File, e.Location, e.Message)
}

// Code implements Coded
func (e *ConfigParseError) Code() ErrorCode { return CodeConfigParse }

// ConfigEvalError is returned when the compiled configuration module throws
// during evaluation or does not yield a usable default export.
type ConfigEvalError struct {
	File    string
	Message string
	Err     error
}

func (e *ConfigEvalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to evaluate %s: %s: %v", e.File, e.Message, e.Err)
	}
	return fmt.Sprintf("failed to evaluate %s: %s", e.File, e.Message)
}

// Code implements Coded
func (e *ConfigEvalError) Code() ErrorCode { return CodeConfigEval }

func (e *ConfigEvalError) Unwrap() error { return e.Err }

// Issue is a single schema violation
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// ConfigValidationError is returned when the evaluated configuration does not
// strictly conform to the schema.
type ConfigValidationError struct {
	File   string
	Issues []Issue
}

func (e *ConfigValidationError) Error() string {
	var b strings.Builder
	if e.File != "" {
		fmt.Fprintf(&b, "invalid configuration in %s", e.File)
	} else {
		b.WriteString("invalid configuration")
	}
	for _, issue := range e.Issues {
		b.WriteString("\n  - ")
		b.WriteString(issue.String())
	}
	return b.String()
}

// Code implements Coded
func (e *ConfigValidationError) Code() ErrorCode { return CodeConfigValidation }

// MissingManifestError is returned when the routing manifest does not exist
type MissingManifestError struct {
	Path string
}

func (e *MissingManifestError) Error() string {
	return fmt.Sprintf("routing manifest not found: %s", e.Path)
}

// Code implements Coded
func (e *MissingManifestError) Code() ErrorCode { return CodeMissingManifest }

// ManifestSyntaxError is returned when the manifest source cannot be tokenized
type ManifestSyntaxError struct {
	Location SourceLocation
	Message  string
}

func (e *ManifestSyntaxError) Error() string {
	return fmt.Sprintf("manifest syntax error at %s: %s", e.Location, e.Message)
}

// Code implements Coded
func (e *ManifestSyntaxError) Code() ErrorCode { return CodeManifestSyntax }

type codedError struct {
	code    ErrorCode
	message string
}

func (e *codedError) Error() string    { return e.message }
func (e *codedError) Code() ErrorCode { return e.code }

// ErrNoRouteExport is returned by strict manifest parsing when no export
// resolves to a route array.
var ErrNoRouteExport error = &codedError{
	code:    CodeNoRouteExport,
	message: "manifest has no default export resolving to a route array",
}

// WriteError is returned when an output file cannot be written. Manifest is
// set when the file is the routing manifest.
type WriteError struct {
	Path     string
	Manifest bool
	Err      error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
}

// Code implements Coded
func (e *WriteError) Code() ErrorCode { return CodeWrite }

func (e *WriteError) Unwrap() error { return e.Err }

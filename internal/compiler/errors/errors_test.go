package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"parse", &ConfigParseError{File: "maxstack.tsx"}, CodeConfigParse},
		{"eval", &ConfigEvalError{File: "maxstack.tsx"}, CodeConfigEval},
		{"validation", &ConfigValidationError{}, CodeConfigValidation},
		{"missing manifest", &MissingManifestError{Path: "app/routes.ts"}, CodeMissingManifest},
		{"syntax", &ManifestSyntaxError{}, CodeManifestSyntax},
		{"no export", ErrNoRouteExport, CodeNoRouteExport},
		{"write", &WriteError{Path: "a", Err: fs.ErrPermission}, CodeWrite},
		{"wrapped", fmt.Errorf("reconcile: %w", &MissingManifestError{}), CodeMissingManifest},
		{"plain", stderrors.New("boom"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CodeOf(tt.err))
		})
	}
}

func TestWriteErrorUnwrap(t *testing.T) {
	err := &WriteError{Path: "app/routes/about.tsx", Err: fs.ErrPermission}
	assert.True(t, stderrors.Is(err, fs.ErrPermission))
	assert.Contains(t, err.Error(), "app/routes/about.tsx")
}

func TestConfigValidationErrorMessage(t *testing.T) {
	err := &ConfigValidationError{
		File: "maxstack.tsx",
		Issues: []Issue{
			{Path: "pages[0].name", Message: "required"},
			{Path: "", Message: "expected object"},
		},
	}

	msg := err.Error()
	assert.Contains(t, msg, "invalid configuration in maxstack.tsx")
	assert.Contains(t, msg, "pages[0].name: required")
	assert.Contains(t, msg, "- expected object")
}

func TestConfigEvalErrorUnwrap(t *testing.T) {
	cause := stderrors.New("ReferenceError: foo is not defined")
	err := &ConfigEvalError{File: "maxstack.tsx", Message: "module threw", Err: cause}

	var evalErr *ConfigEvalError
	require.True(t, stderrors.As(fmt.Errorf("wrap: %w", err), &evalErr))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "module threw")
}

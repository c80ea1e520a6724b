package project

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/maxstack-dev/maxstack/internal/compiler/errors"
)

// DefaultEvalTimeout bounds how long a configuration module may run
const DefaultEvalTimeout = 5 * time.Second

// Extractor loads the project configuration from a TSX module: the source is
// transpiled in memory, evaluated in a sandbox and its default export is
// validated.
type Extractor struct {
	fs      afero.Fs
	timeout time.Duration
	logger  *zap.Logger
}

// NewExtractor creates an extractor reading through fs. A non-positive
// timeout selects DefaultEvalTimeout; a nil logger discards output.
func NewExtractor(fs afero.Fs, timeout time.Duration, logger *zap.Logger) *Extractor {
	if timeout <= 0 {
		timeout = DefaultEvalTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{fs: fs, timeout: timeout, logger: logger}
}

// Extract reads, compiles and evaluates the configuration at path.
//
// Errors:
//   - *errors.ConfigParseError when the source does not compile
//   - *errors.ConfigEvalError when evaluation throws, times out or exports nothing usable
//   - *errors.ConfigValidationError when the export does not match the schema
func (e *Extractor) Extract(ctx context.Context, path string) (*Config, error) {
	src, err := afero.ReadFile(e.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return e.ExtractSource(ctx, path, src)
}

// ExtractSource compiles and evaluates src as the configuration at path,
// without reading the filesystem. It fails like Extract.
func (e *Extractor) ExtractSource(ctx context.Context, path string, src []byte) (*Config, error) {
	start := time.Now()
	code, err := Transpile(path, src)
	if err != nil {
		return nil, err
	}

	value, err := e.evaluate(ctx, path, code)
	if err != nil {
		return nil, err
	}

	cfg, err := Decode(value)
	if err != nil {
		var validationErr *errors.ConfigValidationError
		if stderrors.As(err, &validationErr) {
			validationErr.File = path
		}
		return nil, err
	}

	e.logger.Debug("configuration extracted",
		zap.String("file", path),
		zap.Int("pages", len(cfg.Pages)),
		zap.Duration("duration", time.Since(start)),
	)
	return cfg, nil
}

func (e *Extractor) evaluate(ctx context.Context, path, code string) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	sb, err := newSandbox(path, e.logger)
	if err != nil {
		return nil, &errors.ConfigEvalError{File: path, Message: "failed to create sandbox", Err: err}
	}
	return sb.run(ctx, code)
}

// Transpile strips types and JSX from a TSX module and converts it to
// CommonJS. Nothing is written to disk.
func Transpile(path string, src []byte) (string, error) {
	result := api.Transform(string(src), api.TransformOptions{
		Loader:     api.LoaderTSX,
		Format:     api.FormatCommonJS,
		Target:     api.ES2017,
		JSX:        api.JSXAutomatic,
		Platform:   api.PlatformNeutral,
		Sourcefile: path,
		LogLevel:   api.LogLevelSilent,
	})

	if len(result.Errors) > 0 {
		first := result.Errors[0]
		parseErr := &errors.ConfigParseError{File: path, Message: first.Text}
		if first.Location != nil {
			parseErr.Location = errors.SourceLocation{
				Line:   first.Location.Line,
				Column: first.Location.Column + 1,
			}
			parseErr.LineText = first.Location.LineText
		}
		return "", parseErr
	}

	return string(result.Code), nil
}

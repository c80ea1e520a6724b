// Package reconcile brings a project's route handlers and routing manifest in
// line with the pages declared in its configuration.
package reconcile

import (
	"context"
	stderrors "errors"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/maxstack-dev/maxstack/internal/compiler/codegen"
	"github.com/maxstack-dev/maxstack/internal/compiler/errors"
	"github.com/maxstack-dev/maxstack/internal/project"
	"github.com/maxstack-dev/maxstack/internal/routes"
)

// ConfigLoader loads the project configuration
type ConfigLoader interface {
	Extract(ctx context.Context, path string) (*project.Config, error)
}

// Settings locate the project files and tune a run. Paths are relative to
// the project directory.
type Settings struct {
	ConfigFile     string
	ManifestFile   string
	RoutesDir      string
	StrictManifest bool
	PreserveRoutes bool
	DryRun         bool
}

// DefaultSettings returns the conventional project layout
func DefaultSettings() Settings {
	return Settings{
		ConfigFile:     "maxstack.tsx",
		ManifestFile:   "app/routes.ts",
		RoutesDir:      "app/routes",
		PreserveRoutes: true,
	}
}

// Result describes a reconciliation run
type Result struct {
	RunID           string         `json:"runId"`
	Missing         []project.Page `json:"missing"`
	Created         []string       `json:"created"`
	Manifest        string         `json:"manifest,omitempty"`
	ManifestWritten bool           `json:"manifestWritten"`
	DryRun          bool           `json:"dryRun"`
}

// UpToDate reports whether every configured page already had a route
func (r *Result) UpToDate() bool {
	return len(r.Missing) == 0
}

// Reconciler runs the configuration to routes pipeline
type Reconciler struct {
	fs       afero.Fs
	loader   ConfigLoader
	settings Settings
	logger   *zap.Logger
}

// New creates a reconciler. A nil logger discards output.
func New(fs afero.Fs, loader ConfigLoader, settings Settings, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{fs: fs, loader: loader, settings: settings, logger: logger}
}

// Reconcile extracts the configuration of the project in dir, finds the pages
// the manifest does not route to, writes a handler module for each of them
// and rewrites the manifest.
//
// Handler write failures do not stop the run; they are combined into the
// returned error and the manifest is then left untouched so it never points
// at a missing module.
func (r *Reconciler) Reconcile(ctx context.Context, dir string) (*Result, error) {
	start := time.Now()
	result := &Result{
		RunID:   uuid.NewString(),
		Missing: []project.Page{},
		Created: []string{},
		DryRun:  r.settings.DryRun,
	}
	log := r.logger.With(zap.String("run_id", result.RunID), zap.String("dir", dir))

	cfg, err := r.loader.Extract(ctx, filepath.Join(dir, r.settings.ConfigFile))
	if err != nil {
		log.Error("configuration extraction failed", zap.Error(err))
		return nil, err
	}

	table, err := r.readManifest(dir)
	if err != nil {
		log.Error("manifest parsing failed", zap.Error(err))
		return nil, err
	}
	existing := routes.Flatten(table)

	result.Missing = routes.MissingPages(cfg.Pages, existing)
	log.Debug("routes compared",
		zap.Int("pages", len(cfg.Pages)),
		zap.Int("routes", len(existing)),
		zap.Int("missing", len(result.Missing)),
	)

	if result.UpToDate() {
		log.Info("routes are up to date", zap.Duration("duration", time.Since(start)))
		return result, nil
	}

	var writeErrs error
	for _, page := range result.Missing {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		file, err := codegen.GenerateRoute(page)
		if err != nil {
			return result, err
		}

		rel := filepath.Join(r.settings.RoutesDir, file.FileName)
		if !r.settings.DryRun {
			if err := r.write(filepath.Join(dir, rel), file.FileString); err != nil {
				log.Warn("failed to write route handler", zap.String("path", rel), zap.Error(err))
				writeErrs = multierr.Append(writeErrs, err)
				continue
			}
		}
		result.Created = append(result.Created, rel)
	}

	if writeErrs != nil {
		log.Error("route handlers not written, manifest left unchanged",
			zap.Int("failed", len(multierr.Errors(writeErrs))))
		return result, writeErrs
	}

	if r.settings.PreserveRoutes {
		result.Manifest = codegen.MergeManifest(table, result.Missing)
	} else {
		result.Manifest = codegen.RewriteManifest(result.Missing)
	}

	if !r.settings.DryRun {
		if err := r.write(filepath.Join(dir, r.settings.ManifestFile), result.Manifest); err != nil {
			log.Error("failed to write manifest", zap.Error(err))
			var writeErr *errors.WriteError
			if stderrors.As(err, &writeErr) {
				writeErr.Manifest = true
			}
			return result, err
		}
		result.ManifestWritten = true
	}

	log.Info("routes reconciled",
		zap.Int("created", len(result.Created)),
		zap.Bool("dry_run", r.settings.DryRun),
		zap.Duration("duration", time.Since(start)),
	)
	return result, nil
}

func (r *Reconciler) readManifest(dir string) ([]*routes.Entry, error) {
	path := filepath.Join(dir, r.settings.ManifestFile)

	src, err := afero.ReadFile(r.fs, path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, &errors.MissingManifestError{Path: path}
		}
		return nil, err
	}

	if r.settings.StrictManifest {
		return routes.ParseTableStrict(string(src))
	}
	return routes.ParseTable(string(src))
}

func (r *Reconciler) write(path, content string) error {
	if err := r.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &errors.WriteError{Path: path, Err: err}
	}
	if err := afero.WriteFile(r.fs, path, []byte(content), 0o644); err != nil {
		return &errors.WriteError{Path: path, Err: err}
	}
	return nil
}

package commands

import (
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/maxstack-dev/maxstack/internal/cache"
	"github.com/maxstack-dev/maxstack/internal/cli/config"
	"github.com/maxstack-dev/maxstack/internal/features"
	"github.com/maxstack-dev/maxstack/internal/logging"
	"github.com/maxstack-dev/maxstack/internal/project"
	"github.com/maxstack-dev/maxstack/internal/reconcile"
)

// newFs is the filesystem commands operate on
var newFs = afero.NewOsFs

// globalOptions are the persistent root flags
type globalOptions struct {
	dir       string
	logLevel  string
	logFormat string
	noColor   bool
}

// session is the per-invocation state shared by commands
type session struct {
	dir     string
	fs      afero.Fs
	cfg     *config.Config
	logger  *zap.Logger
	noColor bool
}

func newSession(opts *globalOptions) (*session, error) {
	dir := opts.dir
	if dir == "" {
		root, err := config.GetProjectRoot(".")
		if err != nil {
			return nil, err
		}
		dir = root
	}

	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if opts.logFormat != "" {
		cfg.LogFormat = opts.logFormat
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	logger.Debug("settings loaded", zap.String("dir", dir), zap.String("source", cfg.Source))

	return &session{
		dir:     dir,
		fs:      newFs(),
		cfg:     cfg,
		logger:  logger,
		noColor: opts.noColor,
	}, nil
}

func (s *session) extractor() *project.Extractor {
	return project.NewExtractor(s.fs, s.cfg.EvalTimeout, s.logger.Named("extract"))
}

func (s *session) reconciler(dryRun bool) *reconcile.Reconciler {
	return s.reconcilerFor(s.extractor(), dryRun)
}

// watchReconciler only evaluates the configuration again when its source
// changed. It always merges into the manifest: a rewrite only declares the
// pages missing from the previous table, so repeated runs never settle.
func (s *session) watchReconciler(dryRun bool) *reconcile.Reconciler {
	settings := s.cfg.ReconcileSettings(dryRun)
	if !settings.PreserveRoutes {
		s.logger.Warn("preserve_routes is false, watch mode merges into the manifest instead")
		settings.PreserveRoutes = true
	}
	loader := cache.NewLoader(s.fs, s.extractor(), s.logger.Named("cache"))
	return reconcile.New(s.fs, loader, settings, s.logger.Named("reconcile"))
}

func (s *session) reconcilerFor(loader reconcile.ConfigLoader, dryRun bool) *reconcile.Reconciler {
	return reconcile.New(s.fs, loader, s.cfg.ReconcileSettings(dryRun), s.logger.Named("reconcile"))
}

func (s *session) installer() *features.Installer {
	return features.NewInstaller(s.fs, s.cfg.FeatureOptions(), s.logger.Named("features"))
}

func (s *session) path(rel string) string {
	return filepath.Join(s.dir, rel)
}

func (s *session) close() {
	_ = s.logger.Sync()
}

func addGlobalFlags(cmd *cobra.Command, opts *globalOptions) {
	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.dir, "dir", "C", "", "Project directory (default: nearest directory containing maxstack.tsx)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&opts.logFormat, "log-format", "", "Log format: console or json")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
}

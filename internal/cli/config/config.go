package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/maxstack-dev/maxstack/internal/features"
	"github.com/maxstack-dev/maxstack/internal/project"
	"github.com/maxstack-dev/maxstack/internal/reconcile"
)

// EnvPrefix prefixes every environment override (MAXSTACK_ROUTES_DIR, ...)
const EnvPrefix = "MAXSTACK"

// Config represents the maxstack tool settings
type Config struct {
	ConfigFile     string        `mapstructure:"config_file"`
	ManifestFile   string        `mapstructure:"manifest_file"`
	RoutesDir      string        `mapstructure:"routes_dir"`
	DatabaseDir    string        `mapstructure:"database_dir"`
	EvalTimeout    time.Duration `mapstructure:"eval_timeout"`
	StrictManifest bool          `mapstructure:"strict_manifest"`
	PreserveRoutes bool          `mapstructure:"preserve_routes"`
	LogLevel       string        `mapstructure:"log_level"`
	LogFormat      string        `mapstructure:"log_format"`

	// Source is the settings file that was read, empty when only defaults
	// and the environment apply.
	Source string `mapstructure:"-"`
}

// Load loads the settings of the project in dir from maxstack.yml or
// maxstack.yaml, then applies MAXSTACK_* environment overrides.
func Load(dir string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("config_file", "maxstack.tsx")
	v.SetDefault("manifest_file", "app/routes.ts")
	v.SetDefault("routes_dir", "app/routes")
	v.SetDefault("database_dir", "database")
	v.SetDefault("eval_timeout", project.DefaultEvalTimeout)
	v.SetDefault("strict_manifest", false)
	v.SetDefault("preserve_routes", true)
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_format", "console")

	v.SetConfigName("maxstack")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read settings file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	config.Source = v.ConfigFileUsed()

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// ReconcileSettings returns the reconciliation settings
func (c *Config) ReconcileSettings(dryRun bool) reconcile.Settings {
	return reconcile.Settings{
		ConfigFile:     c.ConfigFile,
		ManifestFile:   c.ManifestFile,
		RoutesDir:      c.RoutesDir,
		StrictManifest: c.StrictManifest,
		PreserveRoutes: c.PreserveRoutes,
		DryRun:         dryRun,
	}
}

// FeatureOptions returns the standard feature installer options
func (c *Config) FeatureOptions() features.Options {
	opts := features.DefaultOptions()
	opts.DatabaseDir = c.DatabaseDir
	opts.ConfigFile = c.ConfigFile
	return opts
}

// InProject checks if dir holds a maxstack project
func InProject(dir string) bool {
	for _, marker := range projectMarkers {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return true
		}
	}
	return false
}

var projectMarkers = []string{"maxstack.yml", "maxstack.yaml", "maxstack.tsx"}

// GetProjectRoot walks up from start looking for a maxstack project
func GetProjectRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}

	for {
		if InProject(dir) {
			return dir, nil
		}

		// Move up one directory
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a maxstack project (no maxstack.tsx found)")
		}
		dir = parent
	}
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	paths := []struct {
		key   string
		value string
	}{
		{"config_file", cfg.ConfigFile},
		{"manifest_file", cfg.ManifestFile},
		{"routes_dir", cfg.RoutesDir},
		{"database_dir", cfg.DatabaseDir},
	}
	for _, p := range paths {
		if strings.TrimSpace(p.value) == "" {
			return fmt.Errorf("%s must not be empty", p.key)
		}
		if filepath.IsAbs(p.value) {
			return fmt.Errorf("%s must be relative to the project directory, got: %s", p.key, p.value)
		}
	}

	if cfg.EvalTimeout <= 0 {
		return fmt.Errorf("eval_timeout must be positive, got: %s", cfg.EvalTimeout)
	}
	return nil
}

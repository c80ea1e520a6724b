package features

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/maxstack-dev/maxstack/internal/compiler/errors"
	"github.com/maxstack-dev/maxstack/internal/project"
)

// ErrUnknownFeature matches every *UnknownFeatureError
var ErrUnknownFeature = stderrors.New("unknown standard feature")

// UnknownFeatureError names a feature outside the catalog
type UnknownFeatureError struct {
	Name string
}

func (e *UnknownFeatureError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnknownFeature, e.Name)
}

func (e *UnknownFeatureError) Is(target error) bool { return target == ErrUnknownFeature }

const (
	schemaBarrel  = "_schema.ts"
	relationsFile = "relations.ts"
	emptyPages    = "pages: []"
	relationsEnd  = "}))"
)

// Options locate the files an installation touches. Paths are relative to
// the project directory.
type Options struct {
	DatabaseDir string
	ConfigFile  string
	// BaseSchema is the import path, relative to a feature directory, of the
	// module declaring the user table.
	BaseSchema string
}

// DefaultOptions returns the conventional project layout
func DefaultOptions() Options {
	return Options{
		DatabaseDir: "database",
		ConfigFile:  "maxstack.tsx",
		BaseSchema:  "../schema",
	}
}

// Result describes an installation
type Result struct {
	Installed     []project.StandardFeature `json:"installed"`
	Written       []string                  `json:"written"`
	Pages         []project.Page            `json:"pages"`
	PagesInjected bool                      `json:"pagesInjected"`
}

// fragmentData is passed to every fragment template
type fragmentData struct {
	Feature    string
	BaseSchema string
}

// Installer writes standard feature bundles into a project
type Installer struct {
	fs     afero.Fs
	opts   Options
	logger *zap.Logger
}

// NewInstaller creates an installer writing through fs. A nil logger
// discards output.
func NewInstaller(fs afero.Fs, opts Options, logger *zap.Logger) *Installer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Installer{fs: fs, opts: opts, logger: logger}
}

// Install adds the named features to the project in dir. Every step can be
// repeated: schema fragments are overwritten while the barrel export and the
// relations block are only added once. The features' pages replace an empty
// page list in the configuration; a configuration that already declares
// pages is left alone and PagesInjected reports false.
func (i *Installer) Install(ctx context.Context, dir string, names []string) (*Result, error) {
	selected, err := resolve(names)
	if err != nil {
		return nil, err
	}

	dbDir, err := safeJoin(dir, i.opts.DatabaseDir)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Installed: []project.StandardFeature{},
		Written:   []string{},
		Pages:     []project.Page{},
	}

	for _, feature := range selected {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		log := i.logger.With(zap.String("feature", string(feature.Name)))
		data := fragmentData{Feature: string(feature.Name), BaseSchema: i.opts.BaseSchema}

		schema, err := i.render(feature.schemaTemplate(), data)
		if err != nil {
			return result, err
		}
		relations, err := i.render(feature.relationsTemplate(), data)
		if err != nil {
			return result, err
		}

		featureDir := filepath.Join(dbDir, string(feature.Name))
		files := []struct{ name, content string }{
			{"schema.ts", schema},
			{relationsFile, relations},
		}
		for _, f := range files {
			target := filepath.Join(featureDir, f.name)
			if err := i.write(target, f.content); err != nil {
				return result, err
			}
			result.Written = append(result.Written, target)
		}

		changed, err := i.exportSchema(dbDir, feature)
		if err != nil {
			return result, err
		}
		if changed {
			result.Written = append(result.Written, filepath.Join(dbDir, schemaBarrel))
		}

		changed, err = i.mergeRelations(dbDir, feature, relations)
		if err != nil {
			return result, err
		}
		if changed {
			result.Written = append(result.Written, filepath.Join(dbDir, relationsFile))
		}

		log.Info("standard feature installed")
		result.Installed = append(result.Installed, feature.Name)
		result.Pages = append(result.Pages, feature.Pages...)
	}

	injected, err := i.injectPages(dir, result.Pages)
	if err != nil {
		return result, err
	}
	result.PagesInjected = injected

	return result, nil
}

// resolve maps names to catalog features, dropping duplicates
func resolve(names []string) ([]Feature, error) {
	seen := make(map[string]bool, len(names))
	selected := make([]Feature, 0, len(names))

	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		feature, ok := Lookup(name)
		if !ok {
			return nil, &UnknownFeatureError{Name: name}
		}
		selected = append(selected, feature)
	}
	return selected, nil
}

func (i *Installer) render(name string, data fragmentData) (string, error) {
	src, err := fragments.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("failed to load fragment %s: %w", name, err)
	}

	tmpl, err := template.New(filepath.Base(name)).Option("missingkey=error").Parse(string(src))
	if err != nil {
		return "", fmt.Errorf("failed to parse fragment %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render fragment %s: %w", name, err)
	}
	return buf.String(), nil
}

// exportSchema re-exports the feature schema from the barrel module
func (i *Installer) exportSchema(dbDir string, feature Feature) (bool, error) {
	barrel := filepath.Join(dbDir, schemaBarrel)
	line := fmt.Sprintf("export * from './%s/schema'", feature.Name)

	content, err := i.readOptional(barrel)
	if err != nil {
		return false, err
	}
	for _, existing := range strings.Split(content, "\n") {
		if strings.TrimSpace(existing) == line {
			return false, nil
		}
	}

	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return true, i.write(barrel, content+line+"\n")
}

// mergeRelations inserts the feature's relations before the closing of the
// defineRelations call. A marker comment keeps the merge from repeating.
func (i *Installer) mergeRelations(dbDir string, feature Feature, relations string) (bool, error) {
	target := filepath.Join(dbDir, relationsFile)
	marker := fmt.Sprintf("// feature: %s", feature.Name)

	content, err := i.readOptional(target)
	if err != nil {
		return false, err
	}
	if content == "" {
		i.logger.Warn("relations module not found, skipping relations merge", zap.String("path", target))
		return false, nil
	}
	if strings.Contains(content, marker) {
		return false, nil
	}

	end := strings.LastIndex(content, relationsEnd)
	if end < 0 {
		return false, fmt.Errorf("%s has no relations block to extend", target)
	}

	merged := content[:end] + "\t" + marker + "\n" + relations + content[end:]
	return true, i.write(target, merged)
}

// injectPages replaces an empty page list in the configuration module
func (i *Installer) injectPages(dir string, pages []project.Page) (bool, error) {
	if len(pages) == 0 {
		return false, nil
	}

	configPath, err := safeJoin(dir, i.opts.ConfigFile)
	if err != nil {
		return false, err
	}
	content, err := i.readOptional(configPath)
	if err != nil {
		return false, err
	}
	if !strings.Contains(content, emptyPages) {
		i.logger.Warn("configuration already declares pages, leaving them unchanged",
			zap.String("path", configPath))
		return false, nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("\t", "\t")
	if err := enc.Encode(pages); err != nil {
		return false, fmt.Errorf("failed to encode pages: %w", err)
	}

	list := strings.TrimSuffix(buf.String(), "\n")
	updated := strings.Replace(content, emptyPages, "pages: "+list, 1)
	return true, i.write(configPath, updated)
}

func (i *Installer) readOptional(path string) (string, error) {
	data, err := afero.ReadFile(i.fs, path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return string(data), nil
}

func (i *Installer) write(path, content string) error {
	if err := i.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &errors.WriteError{Path: path, Err: err}
	}
	if err := afero.WriteFile(i.fs, path, []byte(content), 0o644); err != nil {
		return &errors.WriteError{Path: path, Err: err}
	}
	return nil
}

// safeJoin resolves rel inside dir, rejecting absolute paths and paths that
// escape dir.
func safeJoin(dir, rel string) (string, error) {
	clean := filepath.Clean(rel)
	if filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid path: %s attempts to write outside project directory", rel)
	}

	full := filepath.Join(dir, clean)
	root := filepath.Clean(dir) + string(filepath.Separator)
	if !strings.HasPrefix(full+string(filepath.Separator), root) {
		return "", fmt.Errorf("invalid path: %s attempts to write outside project directory", rel)
	}
	return full, nil
}

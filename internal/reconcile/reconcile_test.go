package reconcile

import (
	"context"
	stderrors "errors"
	"os"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/maxstack-dev/maxstack/internal/compiler/codegen"
	"github.com/maxstack-dev/maxstack/internal/compiler/errors"
	"github.com/maxstack-dev/maxstack/internal/project"
)

const starterManifest = `import { index, route, type RouteConfig } from '@react-router/dev/routes'

export default [
	index('routes/home.tsx'),
	route('*', './catchall.tsx')
] satisfies RouteConfig
`

type stubLoader struct {
	cfg   *project.Config
	err   error
	paths []string
}

func (l *stubLoader) Extract(_ context.Context, path string) (*project.Config, error) {
	l.paths = append(l.paths, path)
	return l.cfg, l.err
}

func strPtr(s string) *string { return &s }

func samplePages() []project.Page {
	return []project.Page{
		{Name: "Home", RoutePath: strPtr("/")},
		{Name: "About", RoutePath: strPtr("/about"), Description: "Who we are"},
		{Name: "Contact Us", RoutePath: strPtr("contact")},
	}
}

func newProject(t *testing.T, manifest string) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()
	if manifest != "" {
		require.NoError(t, afero.WriteFile(fs, "/app/app/routes.ts", []byte(manifest), 0o644))
	}
	return fs
}

func readFile(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()

	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	return string(data)
}

func TestReconcileWritesMissingRoutes(t *testing.T) {
	fs := newProject(t, starterManifest)
	loader := &stubLoader{cfg: &project.Config{Pages: samplePages()}}
	settings := DefaultSettings()
	settings.PreserveRoutes = false

	result, err := New(fs, loader, settings, nil).Reconcile(context.Background(), "/app")
	require.NoError(t, err)

	assert.Equal(t, []string{"/app/maxstack.tsx"}, loader.paths)
	assert.NotEmpty(t, result.RunID)
	require.Len(t, result.Missing, 2)
	assert.Equal(t, "About", result.Missing[0].Name)
	assert.Equal(t, "Contact Us", result.Missing[1].Name)
	assert.Equal(t, []string{"app/routes/about.tsx", "app/routes/contact-us.tsx"}, result.Created)
	assert.True(t, result.ManifestWritten)

	about, err := codegen.GenerateRoute(result.Missing[0])
	require.NoError(t, err)
	assert.Equal(t, about.FileString, readFile(t, fs, "/app/app/routes/about.tsx"))
	assert.Contains(t, readFile(t, fs, "/app/app/routes/contact-us.tsx"), "export default function ContactUsPage(")

	assert.Equal(t, codegen.RewriteManifest(result.Missing), readFile(t, fs, "/app/app/routes.ts"))
	assert.Equal(t, result.Manifest, readFile(t, fs, "/app/app/routes.ts"))
}

func TestReconcilePreservesExistingRoutes(t *testing.T) {
	fs := newProject(t, starterManifest)
	loader := &stubLoader{cfg: &project.Config{Pages: samplePages()}}

	_, err := New(fs, loader, DefaultSettings(), nil).Reconcile(context.Background(), "/app")
	require.NoError(t, err)

	assert.Equal(t, `import { index, route, type RouteConfig } from '@react-router/dev/routes'

export default [
	index('routes/home.tsx'),
	route('/about', 'routes/about.tsx'),
	route('/contact', 'routes/contact-us.tsx'),
	route('/healthcheck', 'routes/healthcheck.tsx'),
	route('*', './catchall.tsx')
] satisfies RouteConfig
`, readFile(t, fs, "/app/app/routes.ts"))
}

func TestReconcileIsIdempotent(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		preserve bool
	}{
		{"merge", starterManifest, true},
		{"rewrite from empty table", "export default []\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := newProject(t, tt.manifest)
			loader := &stubLoader{cfg: &project.Config{Pages: samplePages()}}
			settings := DefaultSettings()
			settings.PreserveRoutes = tt.preserve
			r := New(fs, loader, settings, nil)

			first, err := r.Reconcile(context.Background(), "/app")
			require.NoError(t, err)
			require.NotEmpty(t, first.Created)
			manifest := readFile(t, fs, "/app/app/routes.ts")

			second, err := r.Reconcile(context.Background(), "/app")
			require.NoError(t, err)

			assert.True(t, second.UpToDate())
			assert.Empty(t, second.Created)
			assert.False(t, second.ManifestWritten)
			assert.Equal(t, manifest, readFile(t, fs, "/app/app/routes.ts"))
		})
	}
}

func TestReconcileUpToDate(t *testing.T) {
	fs := newProject(t, starterManifest)
	loader := &stubLoader{cfg: &project.Config{Pages: []project.Page{{Name: "Home", RoutePath: strPtr("/")}}}}

	result, err := New(fs, loader, DefaultSettings(), nil).Reconcile(context.Background(), "/app")
	require.NoError(t, err)

	assert.True(t, result.UpToDate())
	assert.Empty(t, result.Manifest)
	assert.Equal(t, starterManifest, readFile(t, fs, "/app/app/routes.ts"))

	exists, err := afero.DirExists(fs, "/app/app/routes")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestReconcileDryRun(t *testing.T) {
	fs := newProject(t, starterManifest)
	loader := &stubLoader{cfg: &project.Config{Pages: samplePages()}}
	settings := DefaultSettings()
	settings.DryRun = true

	result, err := New(fs, loader, settings, nil).Reconcile(context.Background(), "/app")
	require.NoError(t, err)

	assert.True(t, result.DryRun)
	assert.Equal(t, []string{"app/routes/about.tsx", "app/routes/contact-us.tsx"}, result.Created)
	assert.Contains(t, result.Manifest, "route('/about', 'routes/about.tsx')")
	assert.False(t, result.ManifestWritten)

	assert.Equal(t, starterManifest, readFile(t, fs, "/app/app/routes.ts"))
	exists, err := afero.Exists(fs, "/app/app/routes/about.tsx")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestReconcileMissingManifest(t *testing.T) {
	fs := newProject(t, "")
	loader := &stubLoader{cfg: &project.Config{Pages: samplePages()}}

	result, err := New(fs, loader, DefaultSettings(), nil).Reconcile(context.Background(), "/app")
	assert.Nil(t, result)

	var missing *errors.MissingManifestError
	require.True(t, stderrors.As(err, &missing))
	assert.Equal(t, "/app/app/routes.ts", missing.Path)
	assert.Equal(t, errors.CodeMissingManifest, errors.CodeOf(err))
}

func TestReconcileLoaderError(t *testing.T) {
	fs := newProject(t, starterManifest)
	loadErr := &errors.ConfigEvalError{File: "/app/maxstack.tsx", Message: "boom"}
	loader := &stubLoader{err: loadErr}

	_, err := New(fs, loader, DefaultSettings(), nil).Reconcile(context.Background(), "/app")
	assert.Equal(t, loadErr, err)
	assert.Equal(t, starterManifest, readFile(t, fs, "/app/app/routes.ts"))
}

func TestReconcileStrictManifest(t *testing.T) {
	fs := newProject(t, "const routes = [route('/a', 'routes/a.tsx')]\n")
	loader := &stubLoader{cfg: &project.Config{Pages: samplePages()}}

	lenient, err := New(fs, loader, DefaultSettings(), nil).Reconcile(context.Background(), "/app")
	require.NoError(t, err)
	assert.Len(t, lenient.Missing, 3)

	fs = newProject(t, "const routes = [route('/a', 'routes/a.tsx')]\n")
	settings := DefaultSettings()
	settings.StrictManifest = true

	_, err = New(fs, loader, settings, nil).Reconcile(context.Background(), "/app")
	assert.True(t, stderrors.Is(err, errors.ErrNoRouteExport))
}

func TestReconcileWriteFailureLeavesManifest(t *testing.T) {
	fs := afero.NewReadOnlyFs(newProject(t, starterManifest))
	loader := &stubLoader{cfg: &project.Config{Pages: samplePages()}}

	result, err := New(fs, loader, DefaultSettings(), nil).Reconcile(context.Background(), "/app")
	require.Error(t, err)
	require.NotNil(t, result)

	errs := multierr.Errors(err)
	require.Len(t, errs, 2)
	for _, e := range errs {
		var writeErr *errors.WriteError
		require.True(t, stderrors.As(e, &writeErr))
		assert.Equal(t, errors.CodeWrite, writeErr.Code())
	}

	assert.Empty(t, result.Created)
	assert.False(t, result.ManifestWritten)
	assert.Equal(t, starterManifest, readFile(t, fs, "/app/app/routes.ts"))
}

func TestReconcileCancelled(t *testing.T) {
	fs := newProject(t, starterManifest)
	loader := &stubLoader{cfg: &project.Config{Pages: samplePages()}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(fs, loader, DefaultSettings(), nil).Reconcile(ctx, "/app")
	assert.True(t, stderrors.Is(err, context.Canceled))
	assert.Equal(t, starterManifest, readFile(t, fs, "/app/app/routes.ts"))
}

func TestReconcileWithExtractor(t *testing.T) {
	fs := newProject(t, starterManifest)
	require.NoError(t, afero.WriteFile(fs, "/app/maxstack.tsx", []byte(`import type { MAXConfig } from '.maxstack/types'

export default {
	name: 'shop',
	description: 'A small shop',
	standardFeatures: ['blog'],
	pages: [
		{ name: 'Home', routePath: '/' },
		{ name: 'Pricing Plans', routePath: '/pricing', templateComponents: ['pricing'], authRequired: false },
	],
} as const satisfies MAXConfig
`), 0o644))

	r := New(fs, project.NewExtractor(fs, 0, nil), DefaultSettings(), nil)
	result, err := r.Reconcile(context.Background(), "/app")
	require.NoError(t, err)

	assert.Equal(t, []string{"app/routes/pricing-plans.tsx"}, result.Created)
	handler := readFile(t, fs, "/app/app/routes/pricing-plans.tsx")
	assert.Contains(t, handler, "// auth required: no\n")
	assert.Contains(t, handler, `<Template componentName="pricing" />`)
	assert.Contains(t, readFile(t, fs, "/app/app/routes.ts"), "route('/pricing', 'routes/pricing-plans.tsx')")
}

func TestReconcileRewriteOnlyDeclaresMissingPages(t *testing.T) {
	fs := newProject(t, starterManifest)
	loader := &stubLoader{cfg: &project.Config{Pages: samplePages()}}
	settings := DefaultSettings()
	settings.PreserveRoutes = false
	r := New(fs, loader, settings, nil)

	first, err := r.Reconcile(context.Background(), "/app")
	require.NoError(t, err)
	require.Len(t, first.Missing, 2)
	assert.NotContains(t, readFile(t, fs, "/app/app/routes.ts"), "routes/home.tsx")

	second, err := r.Reconcile(context.Background(), "/app")
	require.NoError(t, err)
	require.Len(t, second.Missing, 1)
	assert.Equal(t, "Home", second.Missing[0].Name)
}

func TestReconcileMergeKeepsNestedRoutes(t *testing.T) {
	manifest := `import { index, layout, route, type RouteConfig } from '@react-router/dev/routes'

export default [
	index('routes/home.tsx'),
	layout('routes/shell.tsx', [
		route('about', 'routes/about.tsx', [
			route('team', 'routes/team.tsx'),
		]),
	]),
	route('*', './catchall.tsx')
] satisfies RouteConfig
`
	fs := newProject(t, manifest)
	loader := &stubLoader{cfg: &project.Config{Pages: samplePages()}}
	r := New(fs, loader, DefaultSettings(), nil)

	first, err := r.Reconcile(context.Background(), "/app")
	require.NoError(t, err)
	require.Len(t, first.Missing, 1)
	assert.Equal(t, "Contact Us", first.Missing[0].Name)

	written := readFile(t, fs, "/app/app/routes.ts")
	assert.Contains(t, written, `	layout('routes/shell.tsx', [
		route('about', 'routes/about.tsx', [
			route('team', 'routes/team.tsx'),
		]),
	]),
	route('/contact', 'routes/contact-us.tsx'),
`)

	second, err := r.Reconcile(context.Background(), "/app")
	require.NoError(t, err)
	assert.True(t, second.UpToDate())
	assert.Equal(t, written, readFile(t, fs, "/app/app/routes.ts"))
}

// lockedFs refuses writes to one path
type lockedFs struct {
	afero.Fs
	path string
}

func (f *lockedFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if name == f.path && flag&(os.O_WRONLY|os.O_RDWR) != 0 {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrPermission}
	}
	return f.Fs.OpenFile(name, flag, perm)
}

func TestReconcileManifestWriteFailure(t *testing.T) {
	fs := &lockedFs{Fs: newProject(t, starterManifest), path: "/app/app/routes.ts"}
	loader := &stubLoader{cfg: &project.Config{Pages: samplePages()}}

	result, err := New(fs, loader, DefaultSettings(), nil).Reconcile(context.Background(), "/app")
	require.Error(t, err)

	var writeErr *errors.WriteError
	require.True(t, stderrors.As(err, &writeErr))
	assert.True(t, writeErr.Manifest)
	assert.Equal(t, "/app/app/routes.ts", writeErr.Path)
	assert.True(t, stderrors.Is(err, os.ErrPermission))

	assert.Equal(t, []string{"app/routes/about.tsx", "app/routes/contact-us.tsx"}, result.Created)
	assert.False(t, result.ManifestWritten)
	assert.Contains(t, readFile(t, fs, "/app/app/routes/about.tsx"), "AboutPage")
	assert.Equal(t, starterManifest, readFile(t, fs, "/app/app/routes.ts"))
}

func TestReconcileHandlerWriteErrorsAreNotManifestErrors(t *testing.T) {
	fs := &lockedFs{Fs: newProject(t, starterManifest), path: "/app/app/routes/about.tsx"}
	loader := &stubLoader{cfg: &project.Config{Pages: samplePages()}}

	_, err := New(fs, loader, DefaultSettings(), nil).Reconcile(context.Background(), "/app")
	require.Error(t, err)

	var writeErr *errors.WriteError
	require.True(t, stderrors.As(err, &writeErr))
	assert.False(t, writeErr.Manifest)
	assert.Equal(t, starterManifest, readFile(t, fs, "/app/app/routes.ts"))
}

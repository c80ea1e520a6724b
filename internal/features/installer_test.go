package features

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxstack-dev/maxstack/internal/compiler/codegen"
	"github.com/maxstack-dev/maxstack/internal/project"
)

const starterConfig = `import type { MAXConfig } from '.maxstack/types'

export default {
	name: 'demo',
	description: '',
	standardFeatures: ['blog', 'saas-marketing'],
	pages: [],
} as const satisfies MAXConfig
`

const starterRelations = `import { defineRelations } from "drizzle-orm";
import * as schema from "./schema";

export const relations = defineRelations(schema, (r) => ({
	user: {
		session: r.many.session({
			from: r.user.id,
			to: r.session.userId,
		}),
	},
}));
`

func newProject(t *testing.T) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/app/maxstack.tsx", []byte(starterConfig), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/app/database/_schema.ts", []byte("export * from './schema'"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/app/database/relations.ts", []byte(starterRelations), 0o644))
	return fs
}

func readFile(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()

	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	return string(data)
}

func TestInstallBlog(t *testing.T) {
	fs := newProject(t)

	result, err := NewInstaller(fs, DefaultOptions(), nil).Install(context.Background(), "/app", []string{"blog"})
	require.NoError(t, err)

	assert.Equal(t, []project.StandardFeature{project.FeatureBlog}, result.Installed)
	assert.Equal(t, []string{
		"/app/database/blog/schema.ts",
		"/app/database/blog/relations.ts",
		"/app/database/_schema.ts",
		"/app/database/relations.ts",
	}, result.Written)
	assert.Len(t, result.Pages, 4)
	assert.True(t, result.PagesInjected)

	schema := readFile(t, fs, "/app/database/blog/schema.ts")
	assert.True(t, strings.HasPrefix(schema, "// Schema for the blog standard feature\n"))
	assert.Contains(t, schema, "import { user } from '../schema'")
	assert.Contains(t, schema, "export const post = sqliteTable('post', {")

	assert.Equal(t, "export * from './schema'\nexport * from './blog/schema'\n",
		readFile(t, fs, "/app/database/_schema.ts"))

	relations := readFile(t, fs, "/app/database/relations.ts")
	assert.Contains(t, relations, "\t},\n\t// feature: blog\n\tpost: {\n")
	assert.True(t, strings.HasSuffix(relations, "\t},\n}));\n"))
}

func TestInstallIsRepeatable(t *testing.T) {
	fs := newProject(t)
	installer := NewInstaller(fs, DefaultOptions(), nil)

	_, err := installer.Install(context.Background(), "/app", []string{"blog", "saas-marketing"})
	require.NoError(t, err)
	barrel := readFile(t, fs, "/app/database/_schema.ts")
	relations := readFile(t, fs, "/app/database/relations.ts")
	config := readFile(t, fs, "/app/maxstack.tsx")

	second, err := installer.Install(context.Background(), "/app", []string{"blog", "saas-marketing", "blog"})
	require.NoError(t, err)

	assert.Equal(t, barrel, readFile(t, fs, "/app/database/_schema.ts"))
	assert.Equal(t, relations, readFile(t, fs, "/app/database/relations.ts"))
	assert.Equal(t, config, readFile(t, fs, "/app/maxstack.tsx"))
	assert.Equal(t, 1, strings.Count(relations, "// feature: blog"))
	assert.Equal(t, 1, strings.Count(relations, "// feature: saas-marketing"))
	assert.False(t, second.PagesInjected)
	assert.Len(t, second.Installed, 2)
}

func TestInstalledConfigStillEvaluates(t *testing.T) {
	fs := newProject(t)

	_, err := NewInstaller(fs, DefaultOptions(), nil).Install(context.Background(), "/app", []string{"blog", "saas-marketing"})
	require.NoError(t, err)

	config := readFile(t, fs, "/app/maxstack.tsx")
	assert.NotContains(t, config, "pages: []")
	assert.Contains(t, config, "\"templateComponents\": [\n\t\t\t\t\"blogLanding\"\n\t\t\t]")

	cfg, err := project.NewExtractor(fs, 0, nil).Extract(context.Background(), "/app/maxstack.tsx")
	require.NoError(t, err)
	require.Len(t, cfg.Pages, 8)
	assert.Equal(t, "Blog Landing", cfg.Pages[0].Name)
	assert.Equal(t, "/blog/edit/:id", *cfg.Pages[3].RoutePath)
	require.NotNil(t, cfg.Pages[3].AuthRequired)
	assert.True(t, *cfg.Pages[3].AuthRequired)
	assert.Equal(t, "Contact", cfg.Pages[7].Name)
}

func TestInstallUnknownFeature(t *testing.T) {
	fs := newProject(t)

	_, err := NewInstaller(fs, DefaultOptions(), nil).Install(context.Background(), "/app", []string{"blog", "forum"})
	assert.True(t, stderrors.Is(err, ErrUnknownFeature))
	assert.Contains(t, err.Error(), "forum")

	exists, err := afero.DirExists(fs, "/app/database/blog")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestInstallWithoutRelationsModule(t *testing.T) {
	fs := newProject(t)
	require.NoError(t, fs.Remove("/app/database/relations.ts"))

	result, err := NewInstaller(fs, DefaultOptions(), nil).Install(context.Background(), "/app", []string{"saas-marketing"})
	require.NoError(t, err)

	assert.NotContains(t, result.Written, "/app/database/relations.ts")
	exists, err := afero.Exists(fs, "/app/database/relations.ts")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestInstallRejectsRelationsWithoutBlock(t *testing.T) {
	fs := newProject(t)
	require.NoError(t, afero.WriteFile(fs, "/app/database/relations.ts", []byte("export const relations = {}\n"), 0o644))

	_, err := NewInstaller(fs, DefaultOptions(), nil).Install(context.Background(), "/app", []string{"blog"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no relations block")
}

func TestInstallRejectsEscapingPaths(t *testing.T) {
	for _, dir := range []string{"../outside", "/etc"} {
		opts := DefaultOptions()
		opts.DatabaseDir = dir

		_, err := NewInstaller(newProject(t), opts, nil).Install(context.Background(), "/app", []string{"blog"})
		require.Error(t, err, dir)
		assert.Contains(t, err.Error(), "outside project directory")
	}
}

func TestSafeJoin(t *testing.T) {
	tests := []struct {
		rel     string
		want    string
		wantErr bool
	}{
		{"database", "/app/database", false},
		{"./db/../database", "/app/database", false},
		{".", "/app", false},
		{"../database", "", true},
		{"/database", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			got, err := safeJoin("/app", tt.rel)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCatalog(t *testing.T) {
	list := List()
	require.Len(t, list, 2)
	assert.Equal(t, project.FeatureBlog, list[0].Name)
	assert.Equal(t, project.FeatureSaaSMarketing, list[1].Name)

	for _, feature := range list {
		for _, page := range feature.Pages {
			_, err := codegen.GenerateRoute(page)
			require.NoError(t, err, page.Name)
			for _, component := range page.TemplateComponents {
				assert.True(t, component.Valid(), "%s: %s", page.Name, component)
			}
		}
	}

	_, ok := Lookup("forum")
	assert.False(t, ok)
}

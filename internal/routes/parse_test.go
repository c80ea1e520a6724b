package routes

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxstack-dev/maxstack/internal/compiler/errors"
)

const sampleManifest = `import { index, route, type RouteConfig, } from '@react-router/dev/routes'

export default [
	index('routes/home.tsx'),
	route('*', './catchall.tsx'),
	route('/reset-password', 'routes/reset-password.tsx'),
] satisfies RouteConfig
`

const complexManifest = `import {
  type RouteConfig,
  route,
  layout,
  index,
  prefix,
} from "@react-router/dev/routes";

export default [
  layout("./marketing/layout.tsx", [
    index("./marketing/home.tsx"),
    route("contact", "./marketing/contact.tsx"),
  ]),
  ...prefix("projects", [
    index("./projects/home.tsx"),
    layout("./projects/project-layout.tsx", [
      route(":pid", "./projects/project.tsx"),
      route(":pid/edit", "./projects/edit-project.tsx"),
    ]),
  ]),
] satisfies RouteConfig;
`

func TestParseSample(t *testing.T) {
	routes, err := Parse(sampleManifest)
	require.NoError(t, err)

	assert.Equal(t, []ParsedRoute{
		{Route: "/", FilePath: "routes/home.tsx"},
		{Route: "*", FilePath: "./catchall.tsx"},
		{Route: "/reset-password", FilePath: "routes/reset-password.tsx"},
	}, routes)
}

func TestParseLayoutsAndPrefixes(t *testing.T) {
	routes, err := Parse(complexManifest)
	require.NoError(t, err)

	assert.Equal(t, []ParsedRoute{
		{Route: "/", FilePath: "./marketing/home.tsx", Layout: "./marketing/layout.tsx"},
		{Route: "/contact", FilePath: "./marketing/contact.tsx", Layout: "./marketing/layout.tsx"},
		{Route: "/projects", FilePath: "./projects/home.tsx"},
		{Route: "/projects/:pid", FilePath: "./projects/project.tsx", Layout: "./projects/project-layout.tsx"},
		{Route: "/projects/:pid/edit", FilePath: "./projects/edit-project.tsx", Layout: "./projects/project-layout.tsx"},
	}, routes)
}

func TestParseNestedPrefixes(t *testing.T) {
	routes, err := Parse(`export default [
	...prefix('api', [
		...prefix('/v1/', [
			index('api/v1/index.ts'),
			route('/users', 'api/v1/users.ts'),
		]),
		route('health', 'api/health.ts'),
	]),
	...prefix('', [route('flat', 'flat.tsx')]),
]`)
	require.NoError(t, err)

	assert.Equal(t, []ParsedRoute{
		{Route: "/api/v1", FilePath: "api/v1/index.ts"},
		{Route: "/api/v1/users", FilePath: "api/v1/users.ts"},
		{Route: "/api/health", FilePath: "api/health.ts"},
		{Route: "/flat", FilePath: "flat.tsx"},
	}, routes)
}

func TestParseLayoutInsidePrefixKeepsPrefix(t *testing.T) {
	routes, err := Parse(`export default [
	layout('outer.tsx', [
		...prefix('docs', [
			route(':slug', 'doc.tsx'),
			layout('inner.tsx', [index('docs-home.tsx')]),
		]),
	]),
]`)
	require.NoError(t, err)

	assert.Equal(t, []ParsedRoute{
		{Route: "/docs/:slug", FilePath: "doc.tsx", Layout: "outer.tsx"},
		{Route: "/docs", FilePath: "docs-home.tsx", Layout: "inner.tsx"},
	}, routes)
}

func TestParseRouteWithChildren(t *testing.T) {
	routes, err := Parse(`export default [
	route('dashboard', 'dashboard.tsx', [
		index('dashboard-home.tsx'),
		route('settings', 'settings.tsx'),
	]),
]`)
	require.NoError(t, err)

	assert.Equal(t, []ParsedRoute{
		{Route: "/dashboard", FilePath: "dashboard.tsx"},
		{Route: "/dashboard", FilePath: "dashboard-home.tsx", Layout: "dashboard.tsx"},
		{Route: "/dashboard/settings", FilePath: "settings.tsx", Layout: "dashboard.tsx"},
	}, routes)
}

func TestParseTableKeepsDeclaredNesting(t *testing.T) {
	table, err := ParseTableStrict(`export default [
	layout('outer.tsx', [
		layout('inner.tsx', [route('x', 'x.tsx')]),
	]),
	route('parent', 'parent.tsx', [route('child', 'child.tsx')]),
	route('leaf', 'leaf.tsx', 'not-children'),
	...prefix('docs', [index('docs.tsx')]),
	layout('broken.tsx', 'not-children'),
]`)
	require.NoError(t, err)

	assert.Equal(t, []*Entry{
		{Kind: EntryLayout, File: "outer.tsx", Children: []*Entry{
			{Kind: EntryLayout, File: "inner.tsx", Children: []*Entry{
				{Kind: EntryRoute, Path: "x", File: "x.tsx"},
			}},
		}},
		{Kind: EntryRoute, Path: "parent", File: "parent.tsx", Children: []*Entry{
			{Kind: EntryRoute, Path: "child", File: "child.tsx"},
		}},
		{Kind: EntryRoute, Path: "leaf", File: "leaf.tsx"},
		{Kind: EntryPrefix, Path: "docs", Spread: true, Children: []*Entry{
			{Kind: EntryIndex, File: "docs.tsx"},
		}},
	}, table)

	assert.Equal(t, []ParsedRoute{
		{Route: "/x", FilePath: "x.tsx", Layout: "inner.tsx"},
		{Route: "/parent", FilePath: "parent.tsx"},
		{Route: "/parent/child", FilePath: "child.tsx", Layout: "parent.tsx"},
		{Route: "/leaf", FilePath: "leaf.tsx"},
		{Route: "/docs", FilePath: "docs.tsx"},
	}, Flatten(table))
}

func TestParseTableStrictWithoutRouteExport(t *testing.T) {
	_, err := ParseTableStrict("export const nothing = 1\n")
	assert.ErrorIs(t, err, errors.ErrNoRouteExport)

	table, err := ParseTable("export const nothing = 1\n")
	require.NoError(t, err)
	assert.Empty(t, table)
}

func TestParseExportForms(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"as", `export default [index('home.tsx')] as RouteConfig`},
		{"angle bracket", `export default <RouteConfig>[index('home.tsx')]`},
		{"parenthesized", `export default ([index('home.tsx')]);`},
		{"export equals", `export = [index('home.tsx')]`},
		{"identifier", "const routes = [index('home.tsx')] satisfies RouteConfig\nexport default routes"},
		{"identifier chain", "const a = [index('home.tsx')]\nconst b = a\nexport default b satisfies RouteConfig"},
		{"template literal", "export default [index(`home.tsx`)]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			routes, err := ParseStrict(tt.source)
			require.NoError(t, err)
			assert.Equal(t, []ParsedRoute{{Route: "/", FilePath: "home.tsx"}}, routes)
		})
	}
}

func TestParseFirstArrayExportWins(t *testing.T) {
	routes, err := Parse(`export default buildRoutes()
export default [route('/a', 'a.tsx')]
export = [route('/b', 'b.tsx')]`)
	require.NoError(t, err)

	assert.Equal(t, []ParsedRoute{{Route: "/a", FilePath: "a.tsx"}}, routes)
}

func TestParseSkipsUnsupportedArguments(t *testing.T) {
	routes, err := Parse("const base = '/x'\n" + `export default [
	route(base, 'x.tsx'),
	route('/y'),
	index(),
	layout('l.tsx', children),
	route('/tpl', ` + "`${dir}/tpl.tsx`" + `),
	other('/z', 'z.tsx'),
	dsl.route('/m', 'm.tsx'),
	route('/ok', 'ok.tsx'),
]`)
	require.NoError(t, err)

	assert.Equal(t, []ParsedRoute{{Route: "/ok", FilePath: "ok.tsx"}}, routes)
}

func TestParseWithoutRouteExport(t *testing.T) {
	sources := []string{
		``,
		`export const routes = [index('home.tsx')]`,
		`export default function routes() { return [] }`,
		`export default defineRoutes()`,
		`export default missing`,
	}

	for _, src := range sources {
		routes, err := Parse(src)
		require.NoError(t, err)
		assert.Empty(t, routes)

		_, err = ParseStrict(src)
		assert.ErrorIs(t, err, errors.ErrNoRouteExport)
		assert.Equal(t, errors.CodeNoRouteExport, errors.CodeOf(err))
	}
}

func TestParseEmptyArrayIsFound(t *testing.T) {
	routes, err := ParseStrict(`export default [] satisfies RouteConfig`)
	require.NoError(t, err)
	assert.Empty(t, routes)
}

func TestParseLexicalError(t *testing.T) {
	_, err := Parse("export default [\n\tindex('routes/home.tsx),\n]")
	require.Error(t, err)

	var syntaxErr *errors.ManifestSyntaxError
	require.True(t, stderrors.As(err, &syntaxErr))
	assert.Equal(t, 2, syntaxErr.Location.Line)
	assert.Equal(t, errors.CodeManifestSyntax, errors.CodeOf(err))
}

func TestParseRecoversFromSyntaxErrors(t *testing.T) {
	routes, err := Parse(`export default [
	index('home.tsx')
	route('/a', 'a.tsx'),
]`)
	require.NoError(t, err)
	assert.Contains(t, routes, ParsedRoute{Route: "/", FilePath: "home.tsx"})
}

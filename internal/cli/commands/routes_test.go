package commands

import (
	"encoding/json"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/maxstack-dev/maxstack/internal/compiler/errors"
	"github.com/maxstack-dev/maxstack/internal/routes"
)

func TestRoutesCommandTable(t *testing.T) {
	defaultProject(t)

	stdout, _, err := execute(t, "routes", "--dir", "/app")
	require.NoError(t, err)

	assert.Contains(t, stdout, "ROUTE  FILE             LAYOUT\n")
	assert.Contains(t, stdout, "/      routes/home.tsx\n")
	assert.Contains(t, stdout, "*      ./catchall.tsx\n")
}

func TestRoutesCommandFormats(t *testing.T) {
	expected := []routes.ParsedRoute{
		{Route: "/", FilePath: "routes/home.tsx"},
		{Route: "*", FilePath: "./catchall.tsx"},
	}

	t.Run("json", func(t *testing.T) {
		defaultProject(t)

		stdout, _, err := execute(t, "routes", "--dir", "/app", "--format", "json")
		require.NoError(t, err)

		var parsed []routes.ParsedRoute
		require.NoError(t, json.Unmarshal([]byte(stdout), &parsed))
		assert.Equal(t, expected, parsed)
	})

	t.Run("yaml", func(t *testing.T) {
		defaultProject(t)

		stdout, _, err := execute(t, "routes", "--dir", "/app", "-f", "yaml")
		require.NoError(t, err)

		var parsed []routes.ParsedRoute
		require.NoError(t, yaml.Unmarshal([]byte(stdout), &parsed))
		assert.Equal(t, expected, parsed)
	})
}

func TestRoutesCommandEmptyManifest(t *testing.T) {
	useProject(t, map[string]string{
		"/app/maxstack.tsx":  projectConfig,
		"/app/app/routes.ts": "export const nothing = 1\n",
	})

	stdout, _, err := execute(t, "routes", "--dir", "/app")
	require.NoError(t, err)
	assert.Contains(t, stdout, "The manifest declares no routes.")

	t.Setenv("MAXSTACK_STRICT_MANIFEST", "true")
	_, _, err = execute(t, "routes", "--dir", "/app")
	assert.ErrorIs(t, err, errors.ErrNoRouteExport)
}

func TestRoutesCommandMissingManifest(t *testing.T) {
	useProject(t, map[string]string{"/app/maxstack.tsx": projectConfig})

	_, _, err := execute(t, "routes", "--dir", "/app")

	var missing *errors.MissingManifestError
	require.True(t, stderrors.As(err, &missing), "expected a missing manifest error, got %v", err)
	assert.Equal(t, "/app/app/routes.ts", missing.Path)
}

func TestRoutesCommandOrphans(t *testing.T) {
	useProject(t, map[string]string{
		"/app/maxstack.tsx":              projectConfig,
		"/app/app/routes.ts":             starterManifest,
		"/app/app/routes/home.tsx":       "export default function HomePage() {}\n",
		"/app/app/routes/legacy.tsx":     "export default function LegacyPage() {}\n",
		"/app/app/routes/+types/home.ts": "export type Route = {}\n",
	})

	stdout, _, err := execute(t, "routes", "--dir", "/app", "--orphans")
	require.NoError(t, err)
	assert.Equal(t, "• app/routes/legacy.tsx\n", stdout)

	stdout, _, err = execute(t, "routes", "--dir", "/app", "--orphans", "--format", "json")
	require.NoError(t, err)

	var orphans []string
	require.NoError(t, json.Unmarshal([]byte(stdout), &orphans))
	assert.Equal(t, []string{"app/routes/legacy.tsx"}, orphans)
}

func TestRoutesCommandNoOrphans(t *testing.T) {
	useProject(t, map[string]string{
		"/app/maxstack.tsx":        projectConfig,
		"/app/app/routes.ts":       starterManifest,
		"/app/app/routes/home.tsx": "export default function HomePage() {}\n",
	})

	stdout, _, err := execute(t, "routes", "--dir", "/app", "--orphans")
	require.NoError(t, err)
	assert.Equal(t, "✓ Every route module is referenced by the manifest\n", stdout)
}

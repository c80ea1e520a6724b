package utils

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindRouteModules(t *testing.T) {
	fs := afero.NewMemMapFs()
	for _, path := range []string{
		"/app/app/routes/home.tsx",
		"/app/app/routes/about.tsx",
		"/app/app/routes/blog/post.ts",
		"/app/app/routes/+types/home.ts",
		"/app/app/routes/README.md",
		"/app/app/routes/styles.css",
	} {
		require.NoError(t, afero.WriteFile(fs, path, []byte("x"), 0o644))
	}

	files, err := FindRouteModules(fs, "/app/app/routes")
	require.NoError(t, err)
	assert.Equal(t, []string{"about.tsx", "blog/post.ts", "home.tsx"}, files)
}

func TestFindRouteModulesMissingDir(t *testing.T) {
	files, err := FindRouteModules(afero.NewMemMapFs(), "/app/app/routes")
	require.NoError(t, err)
	assert.Empty(t, files)
}

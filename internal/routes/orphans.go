package routes

import (
	"path"
	"path/filepath"
	"strings"
)

// Orphans returns the route modules no parsed route or layout refers to.
// Manifest file paths are relative to manifestDir; modules and the result are
// project-relative. Module order is preserved.
func Orphans(parsed []ParsedRoute, manifestDir string, modules []string) []string {
	referenced := make(map[string]bool, len(parsed)*2)
	for _, r := range parsed {
		for _, file := range []string{r.FilePath, r.Layout} {
			if file != "" {
				referenced[projectPath(manifestDir, file)] = true
			}
		}
	}

	orphans := make([]string, 0)
	for _, module := range modules {
		if !referenced[path.Clean(filepath.ToSlash(module))] {
			orphans = append(orphans, module)
		}
	}
	return orphans
}

// projectPath resolves a manifest file reference against the manifest's
// directory. References starting with "~/" are taken relative to it too.
func projectPath(manifestDir, file string) string {
	file = strings.TrimPrefix(file, "~/")
	return path.Clean(path.Join(filepath.ToSlash(manifestDir), file))
}

package routes

import (
	"strings"

	"github.com/maxstack-dev/maxstack/internal/project"
)

// NormalizePath maps a page route path to the form routes are compared in.
// An absent, empty or "/" path is the index route "/"; any other path gains a
// leading slash when it lacks one.
func NormalizePath(path *string) string {
	if path == nil {
		return "/"
	}
	return normalize(*path)
}

func normalize(path string) string {
	if path == "" || path == "/" {
		return "/"
	}
	if strings.HasPrefix(path, "/") {
		return path
	}
	return "/" + path
}

// MissingPages returns the pages whose normalized route path is not declared
// by any parsed route, preserving page order.
func MissingPages(pages []project.Page, parsed []ParsedRoute) []project.Page {
	existing := make(map[string]bool, len(parsed))
	for _, route := range parsed {
		existing[normalize(route.Route)] = true
	}

	missing := make([]project.Page, 0)
	for _, page := range pages {
		if !existing[NormalizePath(page.RoutePath)] {
			missing = append(missing, page)
		}
	}
	return missing
}

package codegen

import (
	"strings"

	"github.com/maxstack-dev/maxstack/internal/project"
	"github.com/maxstack-dev/maxstack/internal/routes"
)

const (
	// HomeHandler is the index route declared when no page is missing
	HomeHandler = "routes/home.tsx"

	routesModule = "@react-router/dev/routes"
)

// TrailingRoutes always close the route table, in this order
var TrailingRoutes = []routes.ParsedRoute{
	{Route: "/healthcheck", FilePath: "routes/healthcheck.tsx"},
	{Route: routes.CatchAll, FilePath: "./catchall.tsx"},
}

// ManifestFilePath returns the manifest entry for a page's handler module
func ManifestFilePath(page project.Page) string {
	return "routes/" + HandlerName(page) + ".tsx"
}

// RewriteManifest renders a complete manifest declaring the missing pages
// followed by the trailing routes. With no missing pages only the home index
// route is declared.
func RewriteManifest(missing []project.Page) string {
	entries := make([]string, 0, len(missing)+len(TrailingRoutes))

	if len(missing) == 0 {
		entries = append(entries, indexEntry(HomeHandler))
	}
	entries = append(entries, pageEntries(missing)...)
	for _, r := range TrailingRoutes {
		entries = append(entries, routeEntry(r))
	}

	g := NewGenerator()
	g.generateManifest(entries)
	return g.String()
}

// MergeManifest renders a manifest that keeps every existing table entry as
// declared, with its layout, prefix and parent route nesting, and adds the
// missing pages before the trailing routes. Trailing routes already declared
// at the top level keep their handler module.
func MergeManifest(existing []*routes.Entry, missing []project.Page) string {
	trailing := make([]*routes.Entry, len(TrailingRoutes))
	for i, t := range TrailingRoutes {
		trailing[i] = &routes.Entry{Kind: routes.EntryRoute, Path: t.Route, File: t.FilePath}
	}

	kept := make([]*routes.Entry, 0, len(existing))
	for _, e := range existing {
		if i := trailingIndex(e); i >= 0 {
			trailing[i] = e
			continue
		}
		kept = append(kept, e)
	}

	if len(kept) == 0 && len(missing) == 0 {
		kept = append(kept, &routes.Entry{Kind: routes.EntryIndex, File: HomeHandler})
	}

	entries := make([]string, 0, len(kept)+len(missing)+len(trailing))
	for _, e := range kept {
		entries = append(entries, tableEntry(e, 1))
	}
	entries = append(entries, pageEntries(missing)...)
	for _, e := range trailing {
		entries = append(entries, tableEntry(e, 1))
	}

	g := NewGenerator()
	g.generateManifest(entries, helpersUsed(kept)...)
	return g.String()
}

// generateManifest writes the manifest module. index and route are always
// imported, extra names the other helpers the entries call.
func (g *Generator) generateManifest(entries []string, extra ...string) {
	g.reset()

	names := append([]string{"index"}, extra...)
	names = append(names, "route", "type RouteConfig")
	g.writeLine("import { %s } from '%s'", strings.Join(names, ", "), routesModule)
	g.writeLine("")
	g.writeLine("export default [")
	g.indent++
	for i, entry := range entries {
		if i < len(entries)-1 {
			entry += ","
		}
		g.writeLine("%s", entry)
	}
	g.indent--
	g.writeLine("] satisfies RouteConfig")
}

// helpersUsed returns layout and prefix, in that order, when any entry
// declares them at any depth.
func helpersUsed(entries []*routes.Entry) []string {
	var layout, prefix bool
	var walk func([]*routes.Entry)
	walk = func(entries []*routes.Entry) {
		for _, e := range entries {
			switch e.Kind {
			case routes.EntryLayout:
				layout = true
			case routes.EntryPrefix:
				prefix = true
			}
			walk(e.Children)
		}
	}
	walk(entries)

	var names []string
	if layout {
		names = append(names, "layout")
	}
	if prefix {
		names = append(names, "prefix")
	}
	return names
}

// trailingIndex returns the position of e in TrailingRoutes when e is a
// top-level route without children matching its path, or -1.
func trailingIndex(e *routes.Entry) int {
	if e.Kind != routes.EntryRoute || e.Children != nil {
		return -1
	}
	for i, t := range TrailingRoutes {
		if strings.Trim(e.Path, "/") == strings.Trim(t.Route, "/") {
			return i
		}
	}
	return -1
}

// tableEntry renders e with its children. depth is the indentation of the
// line e starts on.
func tableEntry(e *routes.Entry, depth int) string {
	spread := ""
	if e.Spread {
		spread = "..."
	}

	switch e.Kind {
	case routes.EntryIndex:
		return spread + indexEntry(e.File)
	case routes.EntryLayout:
		return spread + "layout(" + quote(e.File) + ", " + childList(e.Children, depth) + ")"
	case routes.EntryPrefix:
		return spread + "prefix(" + quote(e.Path) + ", " + childList(e.Children, depth) + ")"
	default:
		call := "route(" + quote(e.Path) + ", " + quote(e.File)
		if e.Children == nil {
			return spread + call + ")"
		}
		return spread + call + ", " + childList(e.Children, depth) + ")"
	}
}

func childList(children []*routes.Entry, depth int) string {
	if len(children) == 0 {
		return "[]"
	}

	pad := strings.Repeat("\t", depth+1)
	lines := make([]string, 0, len(children))
	for _, c := range children {
		lines = append(lines, pad+tableEntry(c, depth+1))
	}
	return "[\n" + strings.Join(lines, ",\n") + ",\n" + strings.Repeat("\t", depth) + "]"
}

func pageEntries(pages []project.Page) []string {
	entries := make([]string, 0, len(pages))
	for _, page := range pages {
		file := ManifestFilePath(page)
		path := routes.NormalizePath(page.RoutePath)
		if path == "/" {
			entries = append(entries, indexEntry(file))
		} else {
			entries = append(entries, routeEntry(routes.ParsedRoute{Route: path, FilePath: file}))
		}
	}
	return entries
}

func indexEntry(file string) string {
	return "index(" + quote(file) + ")"
}

func routeEntry(r routes.ParsedRoute) string {
	return "route(" + quote(r.Route) + ", " + quote(r.FilePath) + ")"
}

// Package features installs standard features into a generated project:
// database schema fragments, their relations and the pages they contribute
// to maxstack.tsx.
package features

import (
	"embed"
	"sort"

	"github.com/maxstack-dev/maxstack/internal/project"
	"github.com/maxstack-dev/maxstack/internal/templates"
)

//go:embed fragments
var fragments embed.FS

// Feature is a standard feature bundle
type Feature struct {
	Name        project.StandardFeature `json:"name" yaml:"name"`
	Description string                  `json:"description" yaml:"description"`
	Pages       []project.Page          `json:"pages" yaml:"pages"`
}

func (f Feature) schemaTemplate() string {
	return "fragments/" + string(f.Name) + "/schema.ts.tmpl"
}

func (f Feature) relationsTemplate() string {
	return "fragments/" + string(f.Name) + "/relations.ts.tmpl"
}

func routePath(p string) *string { return &p }

func flag(b bool) *bool { return &b }

var catalog = map[project.StandardFeature]Feature{
	project.FeatureBlog: {
		Name:        project.FeatureBlog,
		Description: "A complete blogging system with posts, categories, and tags",
		Pages: []project.Page{
			{
				Name:               "Blog Landing",
				Description:        "Landing page for the blog section",
				RoutePath:          routePath("/blog"),
				TemplateComponents: []templates.Component{templates.BlogLanding},
			},
			{
				Name:               "Blog Post",
				Description:        "Individual blog post page",
				RoutePath:          routePath("/blog/:slug"),
				TemplateComponents: []templates.Component{templates.BlogPost},
			},
			{
				Name:               "Create Post",
				Description:        "Create new blog post (requires authentication)",
				RoutePath:          routePath("/blog/create"),
				AuthRequired:       flag(true),
				TemplateComponents: []templates.Component{templates.BlogCreate},
			},
			{
				Name:               "Edit Post",
				Description:        "Edit existing blog post (requires authentication)",
				RoutePath:          routePath("/blog/edit/:id"),
				AuthRequired:       flag(true),
				TemplateComponents: []templates.Component{templates.BlogEdit},
			},
		},
	},
	project.FeatureSaaSMarketing: {
		Name:        project.FeatureSaaSMarketing,
		Description: "Marketing pages and user preference system for SaaS applications",
		Pages: []project.Page{
			{
				Name:               "About",
				Description:        "Learn more about our company and mission",
				RoutePath:          routePath("/about"),
				AuthRequired:       flag(false),
				TemplateComponents: []templates.Component{templates.About},
			},
			{
				Name:               "Features",
				Description:        "Discover powerful features",
				RoutePath:          routePath("/features"),
				AuthRequired:       flag(false),
				TemplateComponents: []templates.Component{templates.Features},
			},
			{
				Name:               "Pricing",
				Description:        "View pricing plans and options",
				RoutePath:          routePath("/pricing"),
				AuthRequired:       flag(false),
				TemplateComponents: []templates.Component{templates.Pricing},
			},
			{
				Name:               "Contact",
				Description:        "Get in touch with our team",
				RoutePath:          routePath("/contact"),
				AuthRequired:       flag(false),
				TemplateComponents: []templates.Component{templates.Contact},
			},
		},
	},
}

// Lookup returns the named feature
func Lookup(name string) (Feature, bool) {
	f, ok := catalog[project.StandardFeature(name)]
	return f, ok
}

// List returns every standard feature sorted by name
func List() []Feature {
	list := make([]Feature, 0, len(catalog))
	for _, f := range catalog {
		list = append(list, f)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

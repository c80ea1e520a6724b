package codegen

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/maxstack-dev/maxstack/internal/project"
	casing "github.com/maxstack-dev/maxstack/internal/util/strings"
)

// ErrEmptyPageName is returned when a page name yields no identifier
var ErrEmptyPageName = errors.New("page name is required")

// RouteFile is a generated route handler module
type RouteFile struct {
	FileName   string `json:"fileName"`
	FileString string `json:"-"`
}

// HandlerName returns the kebab-case base name shared by a page's handler
// file and its manifest entry ("Contact Us" -> "contact-us").
func HandlerName(page project.Page) string {
	return casing.ToKebabCase(page.Name)
}

// GenerateRoute renders the route handler module for page. The output only
// depends on page, so identical pages produce identical files. The default
// export is named <PascalCase(page.Name)>Page.
func GenerateRoute(page project.Page) (RouteFile, error) {
	base := HandlerName(page)
	if base == "" {
		if strings.TrimSpace(page.Name) == "" {
			return RouteFile{}, ErrEmptyPageName
		}
		return RouteFile{}, fmt.Errorf("%w: %q has no letters or digits", ErrEmptyPageName, page.Name)
	}

	g := NewGenerator()
	g.generateRoute(page, base)

	return RouteFile{
		FileName:   base + ".tsx",
		FileString: strings.TrimSuffix(g.String(), "\n"),
	}, nil
}

func (g *Generator) generateRoute(page project.Page, base string) {
	g.reset()

	g.writeLine("import Template, { registry } from '~/components/templates/template'")
	g.writeLine("import type { Route } from './+types/%s'", base)
	g.writeLine("")

	for _, comment := range routeComments(page) {
		g.writeLine("%s", comment)
	}

	g.writeLine("export default function %sPage({}: Route.ComponentProps ) {", componentName(page.Name))
	g.indent++
	g.writeLine("return (")
	g.indent++
	g.writeLine("<>")
	g.indent++

	tags := make([]string, 0, len(page.TemplateComponents))
	for _, component := range page.TemplateComponents {
		tags = append(tags, component.Tag())
	}
	g.writeLine("%s", strings.Join(tags, "\n"))

	g.indent--
	g.writeLine("</>")
	g.indent--
	g.writeLine(")")
	g.indent--
	g.writeLine("}")
}

// routeComments summarizes the populated page fields, in a fixed order
func routeComments(page project.Page) []string {
	comments := make([]string, 0, 5)

	if page.Description != "" {
		comments = append(comments, "// description: "+page.Description)
	}
	if len(page.Components) > 0 {
		comments = append(comments, "// components used in the page: "+strings.Join(page.Components, ","))
	}
	if len(page.InfoOnPage) > 0 {
		comments = append(comments, "// data to show user: "+strings.Join(page.InfoOnPage, ","))
	}
	if len(page.UserActions) > 0 {
		comments = append(comments, "// user actions: "+strings.Join(page.UserActions, ","))
	}
	if page.AuthRequired != nil {
		answer := "no"
		if *page.AuthRequired {
			answer = "yes"
		}
		comments = append(comments, "// auth required: "+answer)
	}

	return comments
}

// componentName returns the handler function name without its Page suffix.
// It is always PascalCase, whatever the casing of name, so the default export
// reads as a React component ("user profile" -> "UserProfile"). Names starting
// with a digit are prefixed so the result stays a valid identifier.
func componentName(name string) string {
	ident := casing.ToPascalCase(name)
	if ident != "" && unicode.IsDigit([]rune(ident)[0]) {
		return "_" + ident
	}
	return ident
}

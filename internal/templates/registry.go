// Package templates is the registry of prebuilt page template components a
// page may reference through templateComponents.
package templates

import (
	"fmt"

	"github.com/maxstack-dev/maxstack/internal/util/strings"
)

// Component identifies a template component
type Component string

// Template components shipped with generated projects
const (
	Landing          Component = "landing"
	Pricing          Component = "pricing"
	About            Component = "about"
	Features         Component = "features"
	Contact          Component = "contact"
	NewsletterSignup Component = "newsletterSignup"
	BlogLanding      Component = "blogLanding"
	BlogPost         Component = "blogPost"
	BlogCreate       Component = "blogCreate"
	BlogEdit         Component = "blogEdit"
	TermsOfService   Component = "termsOfService"
	PrivacyPolicy    Component = "privacyPolicy"
	MarketingFooter  Component = "marketingFooter"
	MarketingNav     Component = "marketingNav"
	FAQ              Component = "faq"
	MaxstackWelcome  Component = "maxstackWelcome"
)

// Template describes a registered component
type Template struct {
	Component       Component `json:"name" yaml:"name"`
	Route           string    `json:"route,omitempty" yaml:"route,omitempty"`
	MetaDescription string    `json:"metaDescription,omitempty" yaml:"metaDescription,omitempty"`
}

// registry is kept in display order
var registry = []Template{
	{Component: Landing, Route: "/", MetaDescription: "Welcome"},
	{Component: Pricing, Route: "/pricing", MetaDescription: "View pricing plans and options"},
	{Component: About, Route: "/about", MetaDescription: "Learn more about our company and mission"},
	{Component: Features, Route: "/features", MetaDescription: "Discover powerful features that help you manage tasks"},
	{Component: Contact, Route: "/contact", MetaDescription: "Get in touch with our team"},
	{Component: NewsletterSignup, MetaDescription: "Subscribe to our newsletter for updates"},
	{Component: BlogLanding, Route: "/blog", MetaDescription: "Read our latest insights and updates"},
	{Component: BlogPost, Route: "/blog/:slug", MetaDescription: "Read our blog post"},
	{Component: BlogCreate, Route: "/blog/create", MetaDescription: "Write a new blog post"},
	{Component: BlogEdit, Route: "/blog/edit/:id", MetaDescription: "Edit a blog post"},
	{Component: TermsOfService, Route: "/terms-of-service", MetaDescription: "Read our terms of service"},
	{Component: PrivacyPolicy, Route: "/privacy-policy", MetaDescription: "Read our privacy policy"},
	{Component: MarketingFooter},
	{Component: MarketingNav},
	{Component: FAQ, MetaDescription: "Frequently Asked Questions"},
	{Component: MaxstackWelcome},
}

var byName = func() map[Component]Template {
	m := make(map[Component]Template, len(registry))
	for _, t := range registry {
		m[t.Component] = t
	}
	return m
}()

// All returns every registered template in display order
func All() []Template {
	out := make([]Template, len(registry))
	copy(out, registry)
	return out
}

// Names returns every registered component identifier
func Names() []string {
	out := make([]string, 0, len(registry))
	for _, t := range registry {
		out = append(out, string(t.Component))
	}
	return out
}

// Lookup returns the template registered under name
func Lookup(name string) (Template, bool) {
	t, ok := byName[Component(name)]
	return t, ok
}

// Valid reports whether c is a registered component
func (c Component) Valid() bool {
	_, ok := byName[c]
	return ok
}

// Tag renders the JSX element referencing the component in a route handler
func (c Component) Tag() string {
	return fmt.Sprintf(`<Template componentName="%s" />`, strings.ToKebabCase(string(c)))
}

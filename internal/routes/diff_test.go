package routes

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/maxstack-dev/maxstack/internal/project"
)

func ptr(s string) *string { return &s }

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		name string
		in   *string
		want string
	}{
		{"absent", nil, "/"},
		{"empty", ptr(""), "/"},
		{"root", ptr("/"), "/"},
		{"relative", ptr("contact"), "/contact"},
		{"absolute", ptr("/contact"), "/contact"},
		{"nested", ptr("blog/:slug"), "/blog/:slug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePath(tt.in))
		})
	}
}

func TestMissingPages(t *testing.T) {
	parsed := []ParsedRoute{
		{Route: "/", FilePath: "routes/home.tsx"},
		{Route: "*", FilePath: "./catchall.tsx"},
		{Route: "/about", FilePath: "routes/about.tsx"},
	}
	pages := []project.Page{
		{Name: "Home"},
		{Name: "About", RoutePath: ptr("about")},
		{Name: "Contact Us", RoutePath: ptr("/contact")},
		{Name: "Pricing", RoutePath: ptr("pricing")},
	}

	missing := MissingPages(pages, parsed)

	assert.Equal(t, []project.Page{
		{Name: "Contact Us", RoutePath: ptr("/contact")},
		{Name: "Pricing", RoutePath: ptr("pricing")},
	}, missing)
}

func TestMissingPagesEmpty(t *testing.T) {
	assert.Empty(t, MissingPages(nil, nil))
	assert.Equal(t, []project.Page{{Name: "Home"}}, MissingPages([]project.Page{{Name: "Home"}}, nil))
}

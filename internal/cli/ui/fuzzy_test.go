package ui

import (
	"reflect"
	"testing"
)

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		s1       string
		s2       string
		expected int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"abc", "abc", 0},
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},
		{"blog", "blgo", 2},
		{"saas-marketing", "saas-marketin", 1},
		{"café", "cafe", 1},
	}

	for _, tt := range tests {
		t.Run(tt.s1+"_"+tt.s2, func(t *testing.T) {
			result := LevenshteinDistance(tt.s1, tt.s2)
			if result != tt.expected {
				t.Errorf("LevenshteinDistance(%q, %q) = %d; want %d", tt.s1, tt.s2, result, tt.expected)
			}
		})
	}
}

func TestFindSimilar(t *testing.T) {
	features := []string{"blog", "saas-marketing"}
	models := []string{"Post", "User", "Product", "Comment", "Category"}

	tests := []struct {
		name       string
		target     string
		candidates []string
		expected   []string
	}{
		{
			name:       "transposed letters",
			target:     "blgo",
			candidates: features,
			expected:   []string{"blog"},
		},
		{
			name:       "case insensitive",
			target:     "BLOG",
			candidates: features,
			expected:   []string{"blog"},
		},
		{
			name:       "truncated name",
			target:     "saas-marketin",
			candidates: features,
			expected:   []string{"saas-marketing"},
		},
		{
			name:       "no match too far",
			target:     "ecommerce",
			candidates: features,
			expected:   []string{},
		},
		{
			name:       "closest first",
			target:     "Pst",
			candidates: models,
			expected:   []string{"Post", "User"},
		},
		{
			name:       "ties keep candidate order",
			target:     "Prod",
			candidates: models,
			expected:   []string{"Post", "Product"},
		},
		{
			name:       "max suggestions limit",
			target:     "ab",
			candidates: []string{"a", "b", "abc", "abd", "abe"},
			expected:   []string{"a", "b", "abc"},
		},
		{
			name:       "empty candidates",
			target:     "blog",
			candidates: []string{},
			expected:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FindSimilar(tt.target, tt.candidates)

			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("FindSimilar(%q) = %v; want %v", tt.target, result, tt.expected)
			}
		})
	}
}

func TestMinOf(t *testing.T) {
	tests := []struct {
		a, b, c  int
		expected int
	}{
		{1, 2, 3, 1},
		{3, 2, 1, 1},
		{2, 1, 3, 1},
		{5, 5, 5, 5},
		{0, 1, 2, 0},
	}

	for _, tt := range tests {
		result := minOf(tt.a, tt.b, tt.c)
		if result != tt.expected {
			t.Errorf("minOf(%d, %d, %d) = %d; want %d", tt.a, tt.b, tt.c, result, tt.expected)
		}
	}
}

package strings

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Words splits s into its case-aware words.
// Handles acronyms properly (HTTPServer -> HTTP, Server) and treats digit
// runs as separate words. Anything that is not a letter or digit separates words.
func Words(s string) []string {
	runes := []rune(s)
	words := make([]string, 0)

	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsUpper(r):
			j := i
			for j < len(runes) && unicode.IsUpper(runes[j]) {
				j++
			}
			if j < len(runes) && unicode.IsLower(runes[j]) {
				// The last capital starts the next word unless it is the only one
				if j-i > 1 {
					words = append(words, string(runes[i:j-1]))
					i = j - 1
					continue
				}
				for j < len(runes) && unicode.IsLower(runes[j]) {
					j++
				}
			}
			words = append(words, string(runes[i:j]))
			i = j
		case unicode.IsLower(r):
			j := i
			for j < len(runes) && unicode.IsLower(runes[j]) {
				j++
			}
			words = append(words, string(runes[i:j]))
			i = j
		case unicode.IsDigit(r):
			j := i
			for j < len(runes) && unicode.IsDigit(runes[j]) {
				j++
			}
			words = append(words, string(runes[i:j]))
			i = j
		case unicode.IsLetter(r):
			// Caseless scripts
			j := i
			for j < len(runes) && unicode.IsLetter(runes[j]) && !unicode.IsUpper(runes[j]) && !unicode.IsLower(runes[j]) {
				j++
			}
			words = append(words, string(runes[i:j]))
			i = j
		default:
			i++
		}
	}

	return words
}

// ToKebabCase converts s to kebab-case ("Contact Us" -> "contact-us")
func ToKebabCase(s string) string {
	lower := cases.Lower(language.Und)
	words := Words(s)
	for i, w := range words {
		words[i] = lower.String(w)
	}
	return strings.Join(words, "-")
}

// ToCamelCase converts s to camelCase ("Contact Us" -> "contactUs")
func ToCamelCase(s string) string {
	words := Words(s)
	if len(words) == 0 {
		return ""
	}

	lower := cases.Lower(language.Und)
	title := cases.Title(language.Und)

	var b strings.Builder
	b.WriteString(lower.String(words[0]))
	for _, w := range words[1:] {
		b.WriteString(title.String(w))
	}
	return b.String()
}

// ToPascalCase converts s to PascalCase ("Contact Us" -> "ContactUs")
func ToPascalCase(s string) string {
	title := cases.Title(language.Und)

	var b strings.Builder
	for _, w := range Words(s) {
		b.WriteString(title.String(w))
	}
	return b.String()
}

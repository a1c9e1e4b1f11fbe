package generator

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/aymerick/raymond"
	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// defaultHelpers returns the helpers every template can use.
func defaultHelpers() map[string]any {
	return map[string]any{
		// Case conversion
		"camelCase":    safe(CamelCase),    // user name → userName
		"pascalCase":   safe(PascalCase),   // user name → UserName
		"properCase":   safe(PascalCase),   // alias kept for plopfile compatibility
		"snakeCase":    safe(SnakeCase),    // UserName → user_name
		"kebabCase":    safe(KebabCase),    // UserName → user-name
		"dashCase":     safe(KebabCase),    // alias of kebabCase
		"dotCase":      safe(DotCase),      // UserName → user.name
		"pathCase":     safe(PathCase),     // UserName → user/name
		"constantCase": safe(ConstantCase), // userName → USER_NAME
		"sentenceCase": safe(SentenceCase), // userName → User name
		"titleCase":    safe(TitleCase),    // user_name → User Name
		"lowerCase":    safe(strings.ToLower),
		"upperCase":    safe(strings.ToUpper),

		// String manipulation
		"plural": safe(Pluralize), // user → users
		"quote":  safe(Quote),     // test → "test"
		"trim":   safe(strings.TrimSpace),

		// Utilities
		"uuid": func() raymond.SafeString { return raymond.SafeString(uuid.NewString()) },
	}
}

// safe wraps a string helper so its output is not HTML-escaped.
func safe(fn func(string) string) func(string) raymond.SafeString {
	return func(s string) raymond.SafeString {
		return raymond.SafeString(fn(s))
	}
}

// words splits s into words on separators, lower→upper transitions and
// the end of acronyms: "HTTPServer_id" → [HTTP Server id].
func words(s string) []string {
	runes := []rune(s)
	var out []string
	var cur []rune

	flush := func() {
		if len(cur) > 0 {
			out = append(out, string(cur))
			cur = cur[:0]
		}
	}

	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if unicode.IsUpper(r) && len(cur) > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()

	return out
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(w string) string {
	if w == "" {
		return ""
	}
	r := []rune(strings.ToLower(w))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func joinLower(s, sep string) string {
	ws := words(s)
	for i, w := range ws {
		ws[i] = strings.ToLower(w)
	}
	return strings.Join(ws, sep)
}

// CamelCase converts any casing to camelCase
// Examples: user_name → userName, UserName → userName, HTTPServer → httpServer
func CamelCase(s string) string {
	ws := words(s)
	for i, w := range ws {
		if i == 0 {
			ws[i] = strings.ToLower(w)
		} else {
			ws[i] = capitalize(w)
		}
	}
	return strings.Join(ws, "")
}

// PascalCase converts any casing to PascalCase
// Examples: user_name → UserName, userName → UserName
func PascalCase(s string) string {
	ws := words(s)
	for i, w := range ws {
		ws[i] = capitalize(w)
	}
	return strings.Join(ws, "")
}

// SnakeCase converts any casing to snake_case
// Examples: UserName → user_name, HTTPServer → http_server
func SnakeCase(s string) string { return joinLower(s, "_") }

// KebabCase converts any casing to kebab-case.
func KebabCase(s string) string { return joinLower(s, "-") }

// DotCase converts any casing to dot.case.
func DotCase(s string) string { return joinLower(s, ".") }

// PathCase converts any casing to path/case.
func PathCase(s string) string { return joinLower(s, "/") }

// ConstantCase converts any casing to CONSTANT_CASE.
func ConstantCase(s string) string { return strings.ToUpper(joinLower(s, "_")) }

// SentenceCase converts any casing to "Sentence case".
func SentenceCase(s string) string {
	return capitalize(joinLower(s, " "))
}

// TitleCase converts any casing to "Title Case".
func TitleCase(s string) string {
	// A Caser is stateful, so each call gets its own.
	return cases.Title(language.English).String(joinLower(s, " "))
}

// Quote wraps a string in double quotes
func Quote(s string) string {
	return fmt.Sprintf("%q", s)
}

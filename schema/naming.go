// Package schema derives database names from Go types.
package schema

import (
	"reflect"
	"strings"
	"unicode"

	pluralizer "github.com/gertd/go-pluralize"
)

// pluralizeClient is a singleton instance for consistent pluralization behavior.
var pluralizeClient = pluralizer.NewClient()

// TableNamer lets a model name its own table.
type TableNamer interface {
	TableName() string
}

// TableName returns the table for model: its TableName method when it has
// one, otherwise the pluralized snake_case of its type name (Group becomes
// groups, UserGroup becomes user_groups). Pointers and slices are
// unwrapped. A string is taken as the table name itself.
func TableName(model any) string {
	switch m := model.(type) {
	case nil:
		return ""
	case string:
		return m
	case TableNamer:
		return m.TableName()
	}

	t := reflect.TypeOf(model)
	for t.Kind() == reflect.Ptr || t.Kind() == reflect.Slice || t.Kind() == reflect.Array {
		t = t.Elem()
	}
	if tn, ok := reflect.New(t).Interface().(TableNamer); ok {
		return tn.TableName()
	}
	return pluralize(toSnakeCase(t.Name()))
}

// toSnakeCase converts any naming convention to snake_case.
// Handles acronyms and numbers: HTTPServer -> http_server, a1B -> a1_b.
func toSnakeCase(name string) string {
	if name == "" {
		return ""
	}

	// If already snake_case (contains underscores and no uppercase), return as-is
	if strings.Contains(name, "_") && !hasUpperCase(name) {
		return name
	}

	var result strings.Builder
	result.Grow(len(name) + 10) // Pre-allocate with some extra space for underscores

	runes := []rune(name)
	for i, r := range runes {
		needsUnderscore := false

		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]

			// 1. Previous char is lowercase or digit: aB -> a_b, a1B -> a1_b
			// 2. Previous char is uppercase, but next char is lowercase: ABc -> a_bc
			if unicode.IsLower(prev) || unicode.IsDigit(prev) {
				needsUnderscore = true
			} else if unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
				needsUnderscore = true
			}
			if prev == '_' {
				needsUnderscore = false
			}
		}

		if needsUnderscore {
			result.WriteByte('_')
		}
		result.WriteRune(unicode.ToLower(r))
	}

	return result.String()
}

// pluralize converts the last word of a snake_case name to its plural form.
func pluralize(name string) string {
	if name == "" {
		return ""
	}

	head, last := "", name
	if i := strings.LastIndexByte(name, '_'); i >= 0 {
		head, last = name[:i+1], name[i+1:]
	}

	// Handle common irregular plurals
	switch last {
	case "person":
		return head + "people"
	case "child":
		return head + "children"
	case "datum":
		return head + "data"
	case "medium":
		return head + "media"
	case "criterion":
		return head + "criteria"
	}

	return head + strings.ToLower(pluralizeClient.Pluralize(last, 2, false))
}

// hasUpperCase returns true if the string contains any uppercase letters.
func hasUpperCase(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

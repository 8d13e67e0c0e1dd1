// Package naming derives SQL identifiers from Go struct fields.
package naming

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"
)

var identifierPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// ResolveColumnName determines the column name for a struct field.
// It returns the column name and a bool indicating whether the field should be
// skipped.
func ResolveColumnName(field reflect.StructField) (string, bool) {
	tag := field.Tag.Get("db")
	if tag == "-" {
		return "", true
	}

	if col := columnFromTag(tag); col != "" {
		return col, false
	}

	return DefaultColumnName(field.Name), false
}

// DefaultColumnName converts a Go struct field name to the preferred
// snake_case column name. Runs of capitals are treated as one word, so
// "UserID" becomes "user_id" and "HTTPStatus" becomes "http_status".
func DefaultColumnName(name string) string {
	if name == "" {
		return ""
	}

	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			startsWord := i > 0 && (!unicode.IsUpper(runes[i-1]) ||
				(i+1 < len(runes) && !unicode.IsUpper(runes[i+1])))
			if startsWord {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ValidateIdentifier enforces lowercase snake_case for derived SQL
// identifiers.
func ValidateIdentifier(name string) error {
	if name == "" {
		return fmt.Errorf("identifier cannot be empty")
	}

	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("identifier must be snake_case (got %q)", name)
	}
	return nil
}

// columnFromTag extracts an explicit column name from a db tag. The tag
// format is "column[,option...]"; options are handled by the registry.
func columnFromTag(tag string) string {
	if tag == "" {
		return ""
	}

	parts := strings.Split(tag, ",")
	name := strings.TrimSpace(parts[0])
	if name == "" {
		return ""
	}
	return name
}

// TagOptions returns the options following the column name in a db tag.
func TagOptions(tag string) []string {
	parts := strings.Split(tag, ",")
	if len(parts) <= 1 {
		return nil
	}
	options := make([]string, 0, len(parts)-1)
	for _, part := range parts[1:] {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			options = append(options, trimmed)
		}
	}
	return options
}

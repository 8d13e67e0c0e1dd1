// Package validation guards identifiers and expressions before SQL
// generation. Malformed condition strings are the downstream translator's
// problem; these checks only reject input that could never be a valid
// identifier.
package validation

import (
	"fmt"
	"regexp"

	"github.com/querycraft/criteria/pkg/errors"
)

// MaxExpressionLength bounds condition and having expressions fed to the SQL
// builder.
const MaxExpressionLength = 4096

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Identifier validates a bare SQL identifier such as a join alias.
func Identifier(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty identifier", errors.ErrInvalidIdentifier)
	}
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("%w: %q", errors.ErrInvalidIdentifier, name)
	}
	return nil
}

// Expression validates the length of a free-form expression.
func Expression(expression string) error {
	if len(expression) > MaxExpressionLength {
		return fmt.Errorf("%w: expression exceeds %d bytes",
			errors.ErrInvalidIdentifier, MaxExpressionLength)
	}
	return nil
}

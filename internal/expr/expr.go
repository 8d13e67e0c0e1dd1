// Package expr generates bind-parameter placeholders and assembles condition
// expressions for the criteria builder.
package expr

import (
	"fmt"
	"strings"
)

// placeholderPrefix is the literal prefix of auto-generated bind names. The
// full marker embedded in conditions is colon-delimited, e.g. ":ACP0:", and is
// an external contract with the downstream SQL translator.
const placeholderPrefix = "ACP"

// Allocator produces unique, incrementing bind-parameter names scoped to one
// builder instance. Names are never reused within an instance's lifetime.
type Allocator struct {
	next int
}

// Next returns the current counter formatted as "ACP<n>" and advances the
// counter by one.
func (a *Allocator) Next() string {
	name := fmt.Sprintf("%s%d", placeholderPrefix, a.next)
	a.next++
	return name
}

// Marker renders a bind name as the colon-delimited placeholder embedded in
// condition strings.
func Marker(name string) string {
	return ":" + name + ":"
}

// Conjoin combines two condition expressions with a boolean operator,
// parenthesizing both sides: "(left) AND (right)".
func Conjoin(operator, left, right string) string {
	return fmt.Sprintf("(%s) %s (%s)", left, operator, right)
}

// Between renders a BETWEEN condition over two allocated bind names.
func Between(subject, minimum, maximum string, negate bool) string {
	op := "BETWEEN"
	if negate {
		op = "NOT BETWEEN"
	}
	return fmt.Sprintf("%s %s %s AND %s", subject, op, Marker(minimum), Marker(maximum))
}

// In renders an IN condition over a list of allocated bind names.
func In(subject string, names []string, negate bool) string {
	op := "IN"
	if negate {
		op = "NOT IN"
	}
	markers := make([]string, len(names))
	for i, name := range names {
		markers[i] = Marker(name)
	}
	return fmt.Sprintf("%s %s (%s)", subject, op, strings.Join(markers, ", "))
}

// NeverMatch renders the always-false guard used for IN over an empty value
// set, guaranteeing a query that matches nothing instead of invalid SQL.
func NeverMatch(subject string) string {
	return fmt.Sprintf("%s != %s", subject, subject)
}

package builder

import (
	"fmt"
	"regexp"

	"github.com/querycraft/criteria/pkg/errors"
)

// markerPattern matches the colon-delimited bind markers embedded in
// condition strings, e.g. ":ACP0:" or ":name:".
var markerPattern = regexp.MustCompile(`:([A-Za-z_][A-Za-z0-9_]*):`)

// translateMarkers rewrites every ":name:" marker in expression to a
// positional "?" placeholder and returns the argument values in occurrence
// order, resolved from bind. A marker without a bound value is an error; the
// builder is the first place a dangling placeholder can be detected.
func translateMarkers(expression string, bind map[string]any) (string, []any, error) {
	var args []any
	var missing error

	translated := markerPattern.ReplaceAllStringFunc(expression, func(marker string) string {
		if missing != nil {
			return marker
		}
		name := marker[1 : len(marker)-1]
		value, ok := bind[name]
		if !ok {
			missing = fmt.Errorf("%w: %s", errors.ErrMissingBindParameter, name)
			return marker
		}
		args = append(args, value)
		return "?"
	})

	if missing != nil {
		return "", nil, missing
	}
	return translated, args, nil
}

package pattern

import (
	"errors"
	"fmt"
	"regexp/syntax"
	"strings"
)

const pointerPrefix = "Regex: "

// readable wording for the engine's terser parse errors
var reasons = map[string]string{
	"unterminated [] set":                     "unterminated character set",
	"missing closing )":                       "missing ), unterminated subpattern",
	"unexpected )":                            "unbalanced parenthesis",
	"missing argument to repetition operator": "nothing to repeat",
}

// PatternError reports a pattern that failed to compile.
type PatternError struct {
	// Pattern is the pattern after whitespace expansion.
	Pattern string
	Reason  string
	// Offset is the rune offset of the failure within Pattern.
	Offset int
	Err    error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid regex: %s", e.Reason)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

// Display returns the pattern with newlines and tabs escaped.
func (e *PatternError) Display() string {
	return strings.NewReplacer("\n", `\n`, "\t", `\t`).Replace(e.Pattern)
}

// Pointer renders the pattern line followed by a caret under the offset.
func (e *PatternError) Pointer() string {
	return pointerPrefix + e.Display() + "\n" +
		strings.Repeat(" ", len(pointerPrefix)+e.displayOffset()) + "^"
}

// displayOffset accounts for the extra rune of every escaped character
// before the offset.
func (e *PatternError) displayOffset() int {
	runes := []rune(e.Pattern)
	off := e.Offset
	if off > len(runes) {
		off = len(runes)
	}
	extra := 0
	for _, r := range runes[:off] {
		if r == '\n' || r == '\t' {
			extra++
		}
	}
	return off + extra
}

func newPatternError(expanded string, err error) *PatternError {
	return &PatternError{
		Pattern: expanded,
		Reason:  reason(err),
		Offset:  locate(expanded),
		Err:     err,
	}
}

// reason strips the "error parsing regexp: ... in `expr`" framing.
func reason(err error) string {
	msg := strings.TrimPrefix(err.Error(), "error parsing regexp: ")
	if i := strings.LastIndex(msg, " in `"); i >= 0 {
		msg = msg[:i]
	}
	for raw, readable := range reasons {
		if strings.HasPrefix(msg, raw) {
			return readable
		}
	}
	return msg
}

// locate finds where parsing fails. regexp2 does not report a position, so
// the pattern is re-parsed with regexp/syntax, whose errors carry the
// offending fragment. Constructs only regexp2 understands fall back to 0.
func locate(expanded string) int {
	_, err := syntax.Parse(expanded, syntax.Perl)
	var serr *syntax.Error
	if !errors.As(err, &serr) || serr.Expr == "" {
		return 0
	}
	i := strings.LastIndex(expanded, serr.Expr)
	if i < 0 {
		return 0
	}
	return len([]rune(expanded[:i]))
}

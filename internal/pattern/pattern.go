// Package pattern compiles the regular expressions used by rule files.
//
// Rule authors write patterns that tolerate incidental formatting: a literal
// space stands for one or more whitespace characters and a tilde stands for
// zero or more. Patterns are compiled in multi-line mode so that ^ and $
// match at line boundaries. Backreferences and lookaround are supported,
// which is why the engine is regexp2 rather than the standard library.
package pattern

import (
	"strings"

	"github.com/dlclark/regexp2"
)

const (
	oneOrMoreSpace  = `\s+`
	zeroOrMoreSpace = `\s*`
)

var expander = strings.NewReplacer(" ", oneOrMoreSpace, "~", zeroOrMoreSpace)

// Regex is a compiled rule pattern.
type Regex struct {
	re      *regexp2.Regexp
	source  string
	// numbers maps group positions, counted by opening parenthesis and
	// named or not, to regexp2 group numbers. regexp2 numbers named groups
	// after every unnamed one.
	numbers []int
}

// Match is one occurrence of a Regex in a text.
// Start and End are rune offsets into the searched text.
type Match struct {
	Text   string
	Start  int
	End    int
	Groups []Group
}

// Group is the value of one capture group. Matched is false when the group
// did not participate in the match.
type Group struct {
	Text    string
	Matched bool
}

// Expand applies the whitespace shorthands to a pattern source.
func Expand(src string) string {
	return expander.Replace(src)
}

// Compile expands the whitespace shorthands in src and compiles the result.
// Both (?<name>...) and (?P<name>...) declare named groups.
func Compile(src string) (*Regex, error) {
	expanded := Expand(src)
	re, err := regexp2.Compile(expanded, regexp2.Multiline|regexp2.RE2)
	if err != nil {
		return nil, newPatternError(expanded, err)
	}
	return &Regex{re: re, source: src, numbers: groupOrder(expanded, re)}, nil
}

// CompileGroup compiles src wrapped in a single capture group.
func CompileGroup(src string) (*Regex, error) {
	return Compile("(" + src + ")")
}

// MustCompile is like Compile but panics on error.
func MustCompile(src string) *Regex {
	r, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return r
}

// NumGroups returns the number of capture groups.
func (r *Regex) NumGroups() int {
	return len(r.numbers)
}

// String returns the expanded pattern text.
func (r *Regex) String() string {
	return r.re.String()
}

// Source returns the pattern before whitespace expansion.
func (r *Regex) Source() string {
	return r.source
}

// MatchString reports whether the pattern occurs anywhere in text.
func (r *Regex) MatchString(text string) (bool, error) {
	return r.re.MatchString(text)
}

// Find returns the leftmost occurrence in text, or nil.
func (r *Regex) Find(text string) (*Match, error) {
	m, err := r.re.FindStringMatch(text)
	if err != nil || m == nil {
		return nil, err
	}
	out := r.convert(m)
	return &out, nil
}

// FindAll returns every non-overlapping occurrence in text, left to right.
// After an empty match the scan resumes one position further on.
func (r *Regex) FindAll(text string) ([]Match, error) {
	var matches []Match
	m, err := r.re.FindStringMatch(text)
	for m != nil && err == nil {
		matches = append(matches, r.convert(m))
		m, err = r.re.FindNextMatch(m)
	}
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// ReplaceAll substitutes every occurrence of the pattern in text with the
// expansion of repl.
func (r *Regex) ReplaceAll(text string, repl *Replacement) (string, error) {
	return r.re.ReplaceFunc(text, func(m regexp2.Match) string {
		return repl.expand(&m, r.numbers)
	}, -1, -1)
}

func (r *Regex) convert(m *regexp2.Match) Match {
	groups := make([]Group, len(r.numbers))
	for i, n := range r.numbers {
		g := m.GroupByNumber(n)
		if g == nil || len(g.Captures) == 0 {
			continue
		}
		groups[i] = Group{Text: g.String(), Matched: true}
	}
	return Match{
		Text:   m.String(),
		Start:  m.Index,
		End:    m.Index + m.Length,
		Groups: groups,
	}
}

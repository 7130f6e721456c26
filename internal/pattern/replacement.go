package pattern

import (
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"
)

// Replacement is a parsed substitution template.
//
// Group references are written \1 or \g<1> by number and \g<name> by name.
// \n, \t and \\ are the usual escapes; any other backslash sequence is kept
// literally. References to groups that did not participate expand to "".
type Replacement struct {
	segments []segment
}

type segment struct {
	literal string
	number  int
	name    string
	isRef   bool
}

// ParseReplacement parses a substitution template.
func ParseReplacement(s string) *Replacement {
	var (
		segs []segment
		lit  strings.Builder
	)
	flush := func() {
		if lit.Len() > 0 {
			segs = append(segs, segment{literal: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			lit.WriteByte(c)
			continue
		}
		next := s[i+1]
		switch {
		case next >= '0' && next <= '9':
			j := i + 1
			for j < len(s) && j < i+3 && s[j] >= '0' && s[j] <= '9' {
				j++
			}
			n, _ := strconv.Atoi(s[i+1 : j])
			flush()
			segs = append(segs, segment{number: n, isRef: true})
			i = j - 1
		case next == 'g' && i+2 < len(s) && s[i+2] == '<':
			end := strings.IndexByte(s[i+3:], '>')
			if end < 0 {
				lit.WriteString(s[i : i+2])
				i++
				continue
			}
			ref := s[i+3 : i+3+end]
			flush()
			if n, err := strconv.Atoi(ref); err == nil {
				segs = append(segs, segment{number: n, isRef: true})
			} else {
				segs = append(segs, segment{name: ref, isRef: true})
			}
			i += 3 + end
		case next == 'n':
			lit.WriteByte('\n')
			i++
		case next == 't':
			lit.WriteByte('\t')
			i++
		case next == '\\':
			lit.WriteByte('\\')
			i++
		default:
			lit.WriteByte(c)
		}
	}
	flush()
	return &Replacement{segments: segs}
}

// Literal reports whether the template contains no group references.
func (r *Replacement) Literal() bool {
	for _, s := range r.segments {
		if s.isRef {
			return false
		}
	}
	return true
}

// expand renders the template for m. numbers maps a group's position in
// the pattern to its regexp2 group number.
func (r *Replacement) expand(m *regexp2.Match, numbers []int) string {
	var sb strings.Builder
	for _, s := range r.segments {
		if !s.isRef {
			sb.WriteString(s.literal)
			continue
		}
		var g *regexp2.Group
		if s.name != "" {
			g = m.GroupByName(s.name)
		} else if s.number == 0 {
			g = m.GroupByNumber(0)
		} else if s.number <= len(numbers) {
			g = m.GroupByNumber(numbers[s.number-1])
		}
		if g != nil && len(g.Captures) > 0 {
			sb.WriteString(g.String())
		}
	}
	return sb.String()
}

package pattern

import (
	"strings"

	"github.com/dlclark/regexp2"
)

// groupOrder lists the regexp2 number of every capture group of src in the
// order their opening parentheses appear.
func groupOrder(src string, re *regexp2.Regexp) []int {
	engine := re.GetGroupNumbers()[1:]

	var (
		numbers []int
		seen    = make(map[int]bool)
		unnamed int
	)
	add := func(n int) {
		if n > 0 && !seen[n] {
			seen[n] = true
			numbers = append(numbers, n)
		}
	}

	inClass := false
	for i := 0; i < len(src); i++ {
		c := src[i]
		switch {
		case c == '\\':
			i++
		case inClass:
			if c == ']' {
				inClass = false
			}
		case c == '[':
			inClass = true
			// a leading ] (after an optional ^) is a literal member
			if i+1 < len(src) && src[i+1] == '^' {
				i++
			}
			if i+1 < len(src) && src[i+1] == ']' {
				i++
			}
		case c == '(':
			rest := src[i+1:]
			if !strings.HasPrefix(rest, "?") {
				unnamed++
				add(unnamed)
				continue
			}
			if strings.HasPrefix(rest, "?#") {
				if end := strings.IndexByte(rest, ')'); end >= 0 {
					i += end + 1
				}
				continue
			}
			if name, ok := groupName(rest); ok {
				add(re.GroupNumberFromName(name))
			}
		}
	}

	if len(numbers) != len(engine) {
		return engine
	}
	return numbers
}

// groupName returns the name declared by (?<name>, (?P<name> or (?'name'.
// rest starts right after the opening parenthesis.
func groupName(rest string) (string, bool) {
	var open, term string
	switch {
	case strings.HasPrefix(rest, "?P<"):
		open, term = "?P<", ">"
	case strings.HasPrefix(rest, "?<") && !strings.HasPrefix(rest, "?<=") && !strings.HasPrefix(rest, "?<!"):
		open, term = "?<", ">"
	case strings.HasPrefix(rest, "?'"):
		open, term = "?'", "'"
	default:
		return "", false
	}
	end := strings.Index(rest[len(open):], term)
	if end <= 0 {
		return "", false
	}
	return rest[len(open) : len(open)+end], true
}

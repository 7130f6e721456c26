package types

import (
	"strings"
	"unicode/utf8"
)

// Diagnostic represents a diagnostic rule that matched the input being
// converted.
type Diagnostic struct {
	// Part is the part whose occurrence triggered the diagnostic, or the
	// part an outside diagnostic was declared under. It may be empty.
	Part    string
	Name    string
	Message string
	// Match is the text matched by the diagnostic pattern.
	Match string
	// Line is the 1-based line number where the triggering text starts.
	Line int
	// LineText is that line with leading whitespace removed.
	LineText string
	// Column is the rune offset of Match within LineText, -1 when the
	// match does not appear on that line.
	Column int
}

// NewDiagnostic locates matched within text and returns the diagnostic
// pointing at it. ok is false when matched cannot be found.
func NewDiagnostic(part, name, message, match, text, matched string) (*Diagnostic, bool) {
	line, lines, ok := Locate(text, matched)
	if !ok {
		return nil, false
	}
	lineText := strings.TrimLeft(lines[0], " \t")
	column := -1
	first, _, _ := strings.Cut(match, "\n")
	if i := strings.Index(lineText, first); i >= 0 {
		column = utf8.RuneCountInString(lineText[:i])
	}
	return &Diagnostic{
		Part:     part,
		Name:     name,
		Message:  message,
		Match:    match,
		Line:     line + 1,
		LineText: lineText,
		Column:   column,
	}, true
}

// Locate finds the first run of consecutive lines of text in which every
// line contains the corresponding line of matched. It returns the 0-based
// index of the first line of the run and the run itself.
func Locate(text, matched string) (int, []string, bool) {
	lines := SplitLines(text)
	sub := SplitLines(matched)
	if len(sub) == 0 {
		sub = []string{""}
	}
	for pos := 0; pos+len(sub) <= len(lines); pos++ {
		if runMatches(lines[pos:pos+len(sub)], sub) {
			return pos, lines[pos : pos+len(sub)], true
		}
	}
	return 0, nil, false
}

func runMatches(lines, sub []string) bool {
	for i, s := range sub {
		if !strings.Contains(lines[i], s) {
			return false
		}
	}
	return true
}

// SplitLines splits text at line boundaries. A trailing line break does not
// start a new line and carriage returns before a newline are dropped.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

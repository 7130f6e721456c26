// Package vars holds ordered name/value tables and the <name> placeholder
// substitution used for rule variables and rendered token values.
package vars

import (
	"regexp"
	"strings"
)

// Entry is one name/value pair.
type Entry struct {
	Name  string
	Value string
}

// Table is an insertion-ordered mapping of names to values.
// The zero value is an empty table ready to use.
type Table struct {
	Entries []Entry
}

// New returns a table holding the given entries in order.
func New(entries ...Entry) *Table {
	t := &Table{}
	for _, e := range entries {
		t.Set(e.Name, e.Value)
	}
	return t
}

// FromPairs builds a table from alternating names and values.
func FromPairs(kv ...string) *Table {
	t := &Table{}
	for i := 0; i+1 < len(kv); i += 2 {
		t.Set(kv[i], kv[i+1])
	}
	return t
}

// Set stores value under name. An existing name keeps its position.
func (t *Table) Set(name, value string) {
	for i := range t.Entries {
		if t.Entries[i].Name == name {
			t.Entries[i].Value = value
			return
		}
	}
	t.Entries = append(t.Entries, Entry{Name: name, Value: value})
}

// Get returns the value stored under name.
func (t *Table) Get(name string) (string, bool) {
	if t == nil {
		return "", false
	}
	for _, e := range t.Entries {
		if e.Name == name {
			return e.Value, true
		}
	}
	return "", false
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Entries)
}

// Names returns the names in insertion order.
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}
	names := make([]string, len(t.Entries))
	for i, e := range t.Entries {
		names[i] = e.Name
	}
	return names
}

// Merge sets every entry of other into t, in other's order.
func (t *Table) Merge(other *Table) {
	if other == nil {
		return
	}
	for _, e := range other.Entries {
		t.Set(e.Name, e.Value)
	}
}

// Clone returns an independent copy of t.
func (t *Table) Clone() *Table {
	c := &Table{}
	if t != nil {
		c.Entries = append([]Entry(nil), t.Entries...)
	}
	return c
}

// Substitute replaces every <name> in text with its value.
//
// Entries are applied one at a time in reverse insertion order, each as a
// single literal pass, so a value introduced by a later-declared entry can
// still be rewritten by an earlier-declared one. Values are never expanded
// recursively beyond that.
func Substitute(t *Table, text string) string {
	if t == nil {
		return text
	}
	for i := len(t.Entries) - 1; i >= 0; i-- {
		e := t.Entries[i]
		text = strings.ReplaceAll(text, "<"+e.Name+">", e.Value)
	}
	return text
}

// Placeholder matches a <name> reference.
var Placeholder = regexp.MustCompile(`<\w+>`)

// Unresolved returns the <name> references left in a pattern, skipping the
// named-group forms (?<name>, (?P<name> and \k<name>.
func Unresolved(pattern string) []string {
	var out []string
	for _, loc := range Placeholder.FindAllStringIndex(pattern, -1) {
		before := pattern[:loc[0]]
		if strings.HasSuffix(before, "?") || strings.HasSuffix(before, "?P") || strings.HasSuffix(before, `\k`) {
			continue
		}
		out = append(out, pattern[loc[0]:loc[1]])
	}
	return out
}

package rules

import (
	"github.com/gnoswap-labs/langtrans/internal/pattern"
)

// Model is a compiled rule specification. It is immutable once built and
// may be shared by any number of conversions.
type Model struct {
	parts []*Part
	index map[string]*Part

	// Outside diagnostics are checked once against the whole input of a
	// top-level conversion.
	Outside []*Diagnostic
	// Warnings collects non-fatal findings from the build.
	Warnings []string
}

// Parts returns the parts in declaration order.
func (m *Model) Parts() []*Part {
	return m.parts
}

// Part looks up a part by name.
func (m *Model) Part(name string) (*Part, bool) {
	p, ok := m.index[name]
	return p, ok
}

// Part is one compiled rewriting rule.
type Part struct {
	Name     string
	Pattern  *pattern.Regex
	Tokens   []string
	Global   bool
	Once     bool
	Template string
	Doc      string

	// Unmatch discards occurrences whose matched text matches any pattern.
	Unmatch []*pattern.Regex
	// Diagnostics are checked against the matched text of every occurrence.
	Diagnostics []*Diagnostic
	// Options holds the options of each token, in application order.
	Options map[string][]TokenOption
	// Next lists the parts the rendered template is converted against.
	Next []string
}

// Default returns the value used for token when its group did not match.
func (p *Part) Default(token string) string {
	for _, o := range p.Options[token] {
		if d, ok := o.(*Default); ok {
			return d.Value
		}
	}
	return ""
}

// TokenUnmatch returns the exclusion patterns configured for token.
func (p *Part) TokenUnmatch(token string) []*pattern.Regex {
	for _, o := range p.Options[token] {
		if u, ok := o.(*Unmatch); ok {
			return u.Patterns
		}
	}
	return nil
}

// Diagnostic is a named error definition: when Pattern matches, the input
// being converted is rejected with Message.
type Diagnostic struct {
	// Part is the part the diagnostic was declared under, if any.
	Part    string
	Name    string
	Pattern *pattern.Regex
	Message string
}

// OptionKind enumerates token options. Transforming kinds are applied in
// ascending order.
type OptionKind int

const (
	KindReplace OptionKind = iota
	KindCall
	KindEachLine
	KindDefault
	KindUnmatch
)

var kindNames = [...]string{
	KindReplace:  "replace",
	KindCall:     "call",
	KindEachLine: "eachline",
	KindDefault:  "default",
	KindUnmatch:  "unmatch",
}

func (k OptionKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// TokenOption is one of *Replace, *Call, *EachLine, *Default or *Unmatch.
type TokenOption interface {
	Kind() OptionKind
	tokenOption()
}

// Replace rewrites the token value with each rule in turn.
type Replace struct {
	Rules []ReplaceRule
}

// ReplaceRule substitutes every match of Pattern.
type ReplaceRule struct {
	Pattern     *pattern.Regex
	Replacement *pattern.Replacement
}

// Call converts the token value against exactly the listed parts.
type Call struct {
	Parts []string
}

// EachLine renders Template for every non-blank line of the token value,
// with <line> standing for the line.
type EachLine struct {
	Template string
}

// Default is the token value used when its group did not participate.
type Default struct {
	Value string
}

// Unmatch discards occurrences whose token value matches any pattern.
type Unmatch struct {
	Patterns []*pattern.Regex
}

func (*Replace) Kind() OptionKind  { return KindReplace }
func (*Call) Kind() OptionKind     { return KindCall }
func (*EachLine) Kind() OptionKind { return KindEachLine }
func (*Default) Kind() OptionKind  { return KindDefault }
func (*Unmatch) Kind() OptionKind  { return KindUnmatch }

func (*Replace) tokenOption()  {}
func (*Call) tokenOption()     {}
func (*EachLine) tokenOption() {}
func (*Default) tokenOption()  {}
func (*Unmatch) tokenOption()  {}

package rules

// Spec is a rule specification as read from rule files, before compilation.
type Spec struct {
	// Parts in declaration order.
	Parts []PartSpec
	// Templates maps a part name to its target template.
	Templates map[string]string
	// Diagnostics groups error definitions by part name.
	Diagnostics []DiagnosticGroup
}

// PartSpec declares one part.
type PartSpec struct {
	Name string

	Regex    string
	HasRegex bool

	Tokens    []string
	HasTokens bool

	// Global defaults to true when nil.
	Global *bool
	Once   bool

	Unmatch []string
	Next    []string
	Doc     string

	// Options holds token options keyed by token name. A name may join
	// several tokens with commas.
	Options []TokenSpec
}

// IsGlobal reports whether the part takes part in top-level scans.
func (p PartSpec) IsGlobal() bool {
	return p.Global == nil || *p.Global
}

// TokenSpec declares the options of one token (or of several, comma-joined).
type TokenSpec struct {
	Name string

	// Replace holds (pattern, replacement) pairs. A pair with a single
	// element replaces with "".
	Replace  [][]string
	Call     []string
	EachLine *string
	Default  *string
	Unmatch  []string
}

// DiagnosticGroup holds the diagnostics declared under one part name.
// Part is empty for diagnostics not tied to any part.
type DiagnosticGroup struct {
	Part    string
	Inside  []DiagnosticSpec
	Outside []DiagnosticSpec
}

// DiagnosticSpec is one named error definition.
type DiagnosticSpec struct {
	Name    string
	Regex   string
	Message string
}

// Collections maps a collection name to its part names. A nil list is a
// collection with no items.
type Collections map[string][]string

package rewrite

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gnoswap-labs/langtrans/internal/types"
)

var (
	// ErrRecursionLimit is returned when call and next options nest deeper
	// than MaxDepth.
	ErrRecursionLimit = errors.New("recursion limit exceeded")
	// ErrUnknownPart is returned when a restricted run names a part the
	// model does not declare.
	ErrUnknownPart = errors.New("unknown part")
)

// DiagnosticError reports a diagnostic rule that matched the input.
type DiagnosticError struct {
	Diagnostic *types.Diagnostic
}

func (e *DiagnosticError) Error() string {
	d := e.Diagnostic
	name := strings.ReplaceAll(d.Name, "_", " ")
	if d.Part != "" {
		return fmt.Sprintf("%s: line %d: %s: %s", d.Part, d.Line, name, d.Message)
	}
	return fmt.Sprintf("line %d: %s: %s", d.Line, name, d.Message)
}

// PendingPart is a part that still matched when a run gave up.
type PendingPart struct {
	Part    string
	Matches []string
}

// NonConvergenceError reports a run that did not reach a fixed point
// within MaxPasses passes.
type NonConvergenceError struct {
	Passes  int
	Pending []PendingPart
}

func (e *NonConvergenceError) Error() string {
	names := make([]string, len(e.Pending))
	for i, p := range e.Pending {
		names[i] = p.Part
	}
	return fmt.Sprintf("loop limit exceeded after %d passes, still matching: %s",
		e.Passes, strings.Join(names, ", "))
}

// LocateError reports matched text that could not be found again in the
// input while building a diagnostic.
type LocateError struct {
	Part    string
	Name    string
	Matched string
}

func (e *LocateError) Error() string {
	return fmt.Sprintf("cannot locate text matched by diagnostic %q of part %q: %q", e.Name, e.Part, e.Matched)
}

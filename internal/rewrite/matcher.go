package rewrite

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gnoswap-labs/langtrans/internal/pattern"
	"github.com/gnoswap-labs/langtrans/internal/rules"
	"github.com/gnoswap-labs/langtrans/internal/types"
	"github.com/gnoswap-labs/langtrans/internal/vars"
)

// Occurrence is one kept match of a part.
type Occurrence struct {
	Text string
	// Start and End are rune offsets into the scanned text.
	Start int
	End   int
	// Tokens holds one value per token name of the part, defaults applied.
	Tokens []string
}

// PartMatches groups the kept occurrences of one part, left to right.
type PartMatches struct {
	Part        *rules.Part
	Occurrences []Occurrence
}

// Matcher finds the occurrences of a model's parts in a text.
type Matcher struct {
	model *rules.Model
}

func NewMatcher(model *rules.Model) *Matcher {
	return &Matcher{model: model}
}

// MatchAll scans text with every part in scope. Parts without a kept
// occurrence are omitted. A diagnostic that matches an occurrence stops the
// scan with a *DiagnosticError.
func (m *Matcher) MatchAll(text string, scope Scope) ([]PartMatches, error) {
	parts, err := m.partsInScope(scope)
	if err != nil {
		return nil, err
	}

	var result []PartMatches
	for _, p := range parts {
		if !scope.IsRestricted() && p.Once && scope.done.Done(p.Name) {
			continue
		}
		occs, err := m.matchPart(text, p)
		if err != nil {
			return nil, err
		}
		if len(occs) == 0 {
			continue
		}
		if !scope.IsRestricted() && p.Once {
			occs = occs[:1]
		}
		result = append(result, PartMatches{Part: p, Occurrences: occs})
	}
	return result, nil
}

func (m *Matcher) partsInScope(scope Scope) ([]*rules.Part, error) {
	if !scope.IsRestricted() {
		var parts []*rules.Part
		for _, p := range m.model.Parts() {
			if p.Global {
				parts = append(parts, p)
			}
		}
		return parts, nil
	}

	wanted := make(map[string]bool, len(scope.parts))
	for _, name := range scope.parts {
		if _, ok := m.model.Part(name); !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPart, name)
		}
		wanted[name] = true
	}
	var parts []*rules.Part
	for _, p := range m.model.Parts() {
		if wanted[p.Name] {
			parts = append(parts, p)
		}
	}
	return parts, nil
}

func (m *Matcher) matchPart(text string, p *rules.Part) ([]Occurrence, error) {
	matches, err := p.Pattern.FindAll(text)
	if err != nil {
		return nil, fmt.Errorf("part %s: %w", p.Name, err)
	}

	var occs []Occurrence
	for _, match := range matches {
		excluded, err := anyMatch(p.Unmatch, match.Text)
		if err != nil {
			return nil, fmt.Errorf("part %s: %w", p.Name, err)
		}
		if excluded {
			continue
		}

		tokens := make([]string, len(p.Tokens))
		for i, name := range p.Tokens {
			if i < len(match.Groups) && match.Groups[i].Matched {
				tokens[i] = match.Groups[i].Text
			} else {
				tokens[i] = p.Default(name)
			}
		}

		if err := checkDiagnostics(p, match.Text, tokens, text); err != nil {
			return nil, err
		}

		if excluded, err = tokenExcluded(p, tokens); err != nil {
			return nil, err
		}
		if excluded {
			continue
		}
		occs = append(occs, Occurrence{
			Text:   match.Text,
			Start:  match.Start,
			End:    match.End,
			Tokens: tokens,
		})
	}
	return occs, nil
}

func tokenExcluded(p *rules.Part, tokens []string) (bool, error) {
	for i, name := range p.Tokens {
		excluded, err := anyMatch(p.TokenUnmatch(name), tokens[i])
		if err != nil {
			return false, fmt.Errorf("part %s: token %s: %w", p.Name, name, err)
		}
		if excluded {
			return true, nil
		}
	}
	return false, nil
}

func anyMatch(patterns []*pattern.Regex, s string) (bool, error) {
	for _, re := range patterns {
		ok, err := re.MatchString(s)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// checkDiagnostics runs the part's diagnostics against the matched text of
// one occurrence.
func checkDiagnostics(p *rules.Part, matched string, tokens []string, text string) error {
	if len(p.Diagnostics) == 0 {
		return nil
	}
	table := &vars.Table{}
	for i, name := range p.Tokens {
		table.Set(name, tokens[i])
	}
	for _, d := range p.Diagnostics {
		hit, err := d.Pattern.Find(matched)
		if err != nil {
			return fmt.Errorf("part %s: diagnostic %s: %w", p.Name, d.Name, err)
		}
		if hit != nil {
			return diagnosticError(p.Name, d, hit, table, text, matched)
		}
	}
	return nil
}

// checkOutside runs the model's outside diagnostics against a whole input.
func checkOutside(model *rules.Model, text string) error {
	for _, d := range model.Outside {
		hit, err := d.Pattern.Find(text)
		if err != nil {
			return fmt.Errorf("diagnostic %s: %w", d.Name, err)
		}
		if hit != nil {
			return diagnosticError(d.Part, d, hit, nil, text, hit.Text)
		}
	}
	return nil
}

func diagnosticError(part string, d *rules.Diagnostic, hit *pattern.Match, tokens *vars.Table, text, matched string) error {
	msg := diagnosticMessage(d.Message, tokens, hit.Groups)
	diag, ok := types.NewDiagnostic(part, d.Name, msg, hit.Text, text, matched)
	if !ok {
		return &LocateError{Part: part, Name: d.Name, Matched: matched}
	}
	return &DiagnosticError{Diagnostic: diag}
}

// diagnosticMessage substitutes token values written <name>, then the
// diagnostic's own groups written <$n> or $n. Higher group numbers go first
// so that $1 does not consume the prefix of $10.
func diagnosticMessage(msg string, tokens *vars.Table, groups []pattern.Group) string {
	msg = vars.Substitute(tokens, msg)
	for _, form := range []string{"<$%d>", "$%d"} {
		for n := len(groups); n >= 1; n-- {
			msg = strings.ReplaceAll(msg, strings.Replace(form, "%d", strconv.Itoa(n), 1), groups[n-1].Text)
		}
	}
	return msg
}

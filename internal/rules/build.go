package rules

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gnoswap-labs/langtrans/internal/pattern"
	"github.com/gnoswap-labs/langtrans/internal/vars"
)

// Build compiles spec into a Model. Variables are substituted into every
// pattern (part regex, replace patterns, unmatch patterns and diagnostics)
// before it is compiled; collections expand $name entries of call and next
// lists.
func Build(spec Spec, collections Collections, variables *vars.Table) (*Model, error) {
	b := &builder{
		spec:        spec,
		collections: collections,
		variables:   variables,
		declared:    make(map[string]bool, len(spec.Parts)),
		model:       &Model{index: make(map[string]*Part, len(spec.Parts))},
	}
	for _, ps := range spec.Parts {
		if b.declared[ps.Name] {
			return nil, specError(ps.Name, "", errors.New("part declared twice"))
		}
		b.declared[ps.Name] = true
	}

	inside, err := b.diagnostics()
	if err != nil {
		return nil, err
	}

	for _, ps := range spec.Parts {
		p, err := b.part(ps)
		if err != nil {
			return nil, err
		}
		p.Diagnostics = inside[ps.Name]
		b.model.parts = append(b.model.parts, p)
		b.model.index[p.Name] = p
	}

	if err := b.checkReferences(); err != nil {
		return nil, err
	}
	return b.model, nil
}

type builder struct {
	spec        Spec
	collections Collections
	variables   *vars.Table
	declared    map[string]bool
	model       *Model
}

func (b *builder) compile(src string) (*pattern.Regex, error) {
	return pattern.Compile(vars.Substitute(b.variables, src))
}

func (b *builder) part(ps PartSpec) (*Part, error) {
	if !ps.HasRegex {
		return nil, specError(ps.Name, "", errMissingRegex)
	}
	if !ps.HasTokens {
		return nil, specError(ps.Name, "", errMissingTokens)
	}

	src := vars.Substitute(b.variables, ps.Regex)
	re, err := pattern.Compile(src)
	if err != nil {
		return nil, specError(ps.Name, "regex", err)
	}
	if re.NumGroups() != len(ps.Tokens) {
		if re.NumGroups() != 0 || len(ps.Tokens) > 1 {
			return nil, specError(ps.Name, "", fmt.Errorf("%w: %d token names, %d capture groups",
				errGroupCount, len(ps.Tokens), re.NumGroups()))
		}
		if re, err = pattern.CompileGroup(src); err != nil {
			return nil, specError(ps.Name, "regex", err)
		}
	}
	for _, ref := range vars.Unresolved(re.String()) {
		b.model.Warnings = append(b.model.Warnings, fmt.Sprintf("part %s: %s not found", ps.Name, ref))
	}

	template, ok := b.spec.Templates[ps.Name]
	if !ok && len(ps.Tokens) > 0 {
		return nil, specError(ps.Name, "", errMissingTemplate)
	}

	p := &Part{
		Name:     ps.Name,
		Pattern:  re,
		Tokens:   append([]string(nil), ps.Tokens...),
		Global:   ps.IsGlobal(),
		Once:     ps.Once,
		Template: template,
		Doc:      ps.Doc,
		Options:  make(map[string][]TokenOption),
	}

	for _, src := range ps.Unmatch {
		re, err := b.compile(src)
		if err != nil {
			return nil, specError(ps.Name, "unmatch", err)
		}
		p.Unmatch = append(p.Unmatch, re)
	}

	if p.Next, err = CheckCollections(ps.Next, b.collections); err != nil {
		return nil, specError(ps.Name, "next", err)
	}

	for _, ts := range ps.Options {
		opts, err := b.tokenOptions(ps.Name, ts)
		if err != nil {
			return nil, err
		}
		for _, name := range splitTokenNames(ts.Name) {
			if !contains(p.Tokens, name) {
				return nil, specError(ps.Name, "token "+name, errUnknownToken)
			}
			p.Options[name] = opts
		}
	}
	return p, nil
}

// tokenOptions resolves the options of one token in application order.
func (b *builder) tokenOptions(part string, ts TokenSpec) ([]TokenOption, error) {
	var opts []TokenOption
	if ts.Replace != nil {
		r := &Replace{}
		for _, pair := range ts.Replace {
			if len(pair) == 0 || len(pair) > 2 {
				return nil, specError(part, replaceLocation(ts.Name),
					fmt.Errorf("replace entry must be [pattern] or [pattern, replacement], got %d items", len(pair)))
			}
			re, err := b.compile(pair[0])
			if err != nil {
				return nil, specError(part, replaceLocation(ts.Name), err)
			}
			repl := ""
			if len(pair) == 2 {
				repl = pair[1]
			}
			r.Rules = append(r.Rules, ReplaceRule{Pattern: re, Replacement: pattern.ParseReplacement(repl)})
		}
		opts = append(opts, r)
	}
	if ts.Call != nil {
		calls, err := CheckCollections(ts.Call, b.collections)
		if err != nil {
			return nil, specError(part, fmt.Sprintf("call option for token(%s)", ts.Name), err)
		}
		opts = append(opts, &Call{Parts: calls})
	}
	if ts.EachLine != nil {
		opts = append(opts, &EachLine{Template: *ts.EachLine})
	}
	if ts.Default != nil {
		opts = append(opts, &Default{Value: *ts.Default})
	}
	if ts.Unmatch != nil {
		u := &Unmatch{}
		for _, src := range ts.Unmatch {
			re, err := b.compile(src)
			if err != nil {
				return nil, specError(part, fmt.Sprintf("unmatch for token(%s)", ts.Name), err)
			}
			u.Patterns = append(u.Patterns, re)
		}
		opts = append(opts, u)
	}
	return opts, nil
}

// diagnostics compiles every diagnostic group. Outside diagnostics go to the
// model; the rest are returned keyed by part.
func (b *builder) diagnostics() (map[string][]*Diagnostic, error) {
	inside := make(map[string][]*Diagnostic)
	for _, g := range b.spec.Diagnostics {
		if len(g.Inside) > 0 && !b.declared[g.Part] {
			return nil, specError(g.Part, "diagnostics", errUnknownPart)
		}
		for _, ds := range g.Inside {
			d, err := b.diagnostic(g.Part, ds)
			if err != nil {
				return nil, err
			}
			inside[g.Part] = append(inside[g.Part], d)
		}
		for _, ds := range g.Outside {
			d, err := b.diagnostic(g.Part, ds)
			if err != nil {
				return nil, err
			}
			b.model.Outside = append(b.model.Outside, d)
		}
	}
	return inside, nil
}

func (b *builder) diagnostic(part string, ds DiagnosticSpec) (*Diagnostic, error) {
	location := "diagnostic " + ds.Name
	if ds.Regex == "" {
		return nil, specError(part, location, errMissingRegex)
	}
	re, err := b.compile(ds.Regex)
	if err != nil {
		return nil, specError(part, location, err)
	}
	return &Diagnostic{Part: part, Name: ds.Name, Pattern: re, Message: ds.Message}, nil
}

// checkReferences verifies that call and next lists only name declared parts.
func (b *builder) checkReferences() error {
	for _, p := range b.model.parts {
		for _, name := range p.Next {
			if !b.declared[name] {
				return specError(p.Name, "next", fmt.Errorf("%w %s", errUnknownPart, name))
			}
		}
		for token, opts := range p.Options {
			for _, o := range opts {
				call, ok := o.(*Call)
				if !ok {
					continue
				}
				for _, name := range call.Parts {
					if !b.declared[name] {
						return specError(p.Name, fmt.Sprintf("call option for token(%s)", token),
							fmt.Errorf("%w %s", errUnknownPart, name))
					}
				}
			}
		}
	}
	return nil
}

func replaceLocation(token string) string {
	return fmt.Sprintf("replace option for token(%s)", token)
}

func splitTokenNames(name string) []string {
	if !strings.Contains(name, ",") {
		return []string{name}
	}
	parts := strings.Split(name, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

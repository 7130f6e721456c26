// Package rewrite drives the fixed-point conversion of a text against a
// compiled rule model.
package rewrite

import (
	"errors"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/gnoswap-labs/langtrans/internal/rules"
	"github.com/gnoswap-labs/langtrans/internal/types"
	"github.com/gnoswap-labs/langtrans/internal/vars"
)

const (
	// MaxPasses bounds the passes of one run. A run that still matches
	// after MaxPasses passes fails with *NonConvergenceError.
	MaxPasses = 100
	// MaxDepth bounds the nesting of call and next sub-runs.
	MaxDepth = 512
)

// Converter rewrites texts with a rule model. It holds no per-run state and
// is safe for concurrent use.
type Converter struct {
	model   *rules.Model
	matcher *Matcher
	logger  *zap.Logger
	report  func(*types.Diagnostic)
}

type Option func(*Converter)

func WithLogger(logger *zap.Logger) Option {
	return func(c *Converter) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithReporter registers fn to receive the diagnostic that aborts a run,
// before the *DiagnosticError is returned.
func WithReporter(fn func(*types.Diagnostic)) Option {
	return func(c *Converter) {
		c.report = fn
	}
}

func NewConverter(model *rules.Model, opts ...Option) *Converter {
	c := &Converter{
		model:   model,
		matcher: NewMatcher(model),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert rewrites text until no part matches. Outside diagnostics are
// checked once against text before the first pass.
func (c *Converter) Convert(text string) (string, error) {
	if err := checkOutside(c.model, text); err != nil {
		return "", c.fail(err)
	}
	s := &session{c: c, once: OnceSet{}}
	out, err := s.run(text, TopLevel(s.once), 0)
	if err != nil {
		return "", c.fail(err)
	}
	return out, nil
}

// ConvertScoped rewrites text with exactly the named parts, as a call
// option does.
func (c *Converter) ConvertScoped(text string, parts ...string) (string, error) {
	s := &session{c: c, once: OnceSet{}}
	out, err := s.run(text, Restricted(parts...), 0)
	if err != nil {
		return "", c.fail(err)
	}
	return out, nil
}

func (c *Converter) fail(err error) error {
	var derr *DiagnosticError
	if c.report != nil && errors.As(err, &derr) {
		c.report(derr.Diagnostic)
	}
	return err
}

// session is the state of one top-level run.
type session struct {
	c    *Converter
	once OnceSet
}

type edit struct {
	start, end int
	text       string
}

func (s *session) run(text string, scope Scope, depth int) (string, error) {
	if depth > MaxDepth {
		return "", ErrRecursionLimit
	}
	for pass := 0; ; pass++ {
		matches, err := s.c.matcher.MatchAll(text, scope)
		if err != nil {
			return "", err
		}
		if len(matches) == 0 {
			if pass > 0 {
				s.c.logger.Debug("fixed point reached", zap.Int("depth", depth), zap.Int("passes", pass))
			}
			return text, nil
		}
		if pass == MaxPasses {
			return "", nonConvergence(pass, matches)
		}

		edits, deferred, err := s.pass(matches, scope, depth)
		if err != nil {
			return "", err
		}
		if deferred > 0 {
			s.c.logger.Debug("overlapping occurrences deferred",
				zap.Int("depth", depth), zap.Int("pass", pass), zap.Int("count", deferred))
		}
		text = splice(text, edits)
	}
}

// pass renders every accepted occurrence. An occurrence overlapping one
// already accepted in this pass is left for the next pass, and a deferred
// once part stays pending.
func (s *session) pass(matches []PartMatches, scope Scope, depth int) ([]edit, int, error) {
	var (
		edits    []edit
		deferred int
	)
	for _, pm := range matches {
		for _, occ := range pm.Occurrences {
			if overlaps(edits, occ.Start, occ.End) {
				deferred++
				continue
			}
			out, err := s.render(pm.Part, occ, depth)
			if err != nil {
				return nil, 0, err
			}
			edits = append(edits, edit{start: occ.Start, end: occ.End, text: out})
			scope.applied(pm.Part.Name, pm.Part.Once)
		}
	}
	return edits, deferred, nil
}

func overlaps(edits []edit, start, end int) bool {
	for _, e := range edits {
		if start < e.end && e.start < end {
			return true
		}
	}
	return false
}

// splice rebuilds text with every edit applied. Offsets are in runes and
// refer to text as it was before the pass.
func splice(text string, edits []edit) string {
	if len(edits) == 0 {
		return text
	}
	sort.SliceStable(edits, func(i, j int) bool { return edits[i].start < edits[j].start })

	runes := []rune(text)
	var sb strings.Builder
	sb.Grow(len(text))
	last := 0
	for _, e := range edits {
		sb.WriteString(string(runes[last:e.start]))
		sb.WriteString(e.text)
		last = e.end
	}
	sb.WriteString(string(runes[last:]))
	return sb.String()
}

// render produces the replacement text of one occurrence.
func (s *session) render(p *rules.Part, occ Occurrence, depth int) (string, error) {
	tokens := &vars.Table{}
	for i, name := range p.Tokens {
		value, err := s.transform(p, name, occ.Tokens[i], depth)
		if err != nil {
			return "", err
		}
		tokens.Set(name, value)
	}

	// Token values may themselves name other tokens.
	out := vars.Substitute(tokens, vars.Substitute(tokens, p.Template))

	if len(p.Next) > 0 {
		s.c.logger.Debug("next", zap.String("part", p.Name), zap.Strings("parts", p.Next), zap.Int("depth", depth+1))
		return s.run(out, Restricted(p.Next...), depth+1)
	}
	return out, nil
}

// transform applies the token's options in order.
func (s *session) transform(p *rules.Part, token, value string, depth int) (string, error) {
	var err error
	for _, opt := range p.Options[token] {
		switch o := opt.(type) {
		case *rules.Replace:
			for _, r := range o.Rules {
				if value, err = r.Pattern.ReplaceAll(value, r.Replacement); err != nil {
					return "", err
				}
			}
		case *rules.Call:
			s.c.logger.Debug("call", zap.String("part", p.Name), zap.String("token", token),
				zap.Strings("parts", o.Parts), zap.Int("depth", depth+1))
			if value, err = s.run(value, Restricted(o.Parts...), depth+1); err != nil {
				return "", err
			}
		case *rules.EachLine:
			value = eachLine(o.Template, value)
		case *rules.Default, *rules.Unmatch:
			// applied by the matcher
		}
	}
	return value, nil
}

// eachLine renders template once per non-blank line of value.
func eachLine(template, value string) string {
	var lines []string
	for _, l := range strings.Split(value, "\n") {
		if strings.TrimSpace(l) == "" {
			continue
		}
		lines = append(lines, strings.ReplaceAll(template, "<line>", l))
	}
	return strings.Join(lines, "\n")
}

func nonConvergence(passes int, matches []PartMatches) error {
	pending := make([]PendingPart, len(matches))
	for i, pm := range matches {
		texts := make([]string, len(pm.Occurrences))
		for j, o := range pm.Occurrences {
			texts[j] = o.Text
		}
		pending[i] = PendingPart{Part: pm.Part.Name, Matches: texts}
	}
	return &NonConvergenceError{Passes: passes, Pending: pending}
}

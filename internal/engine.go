package internal

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/gnoswap-labs/langtrans/internal/rewrite"
	"github.com/gnoswap-labs/langtrans/internal/rules"
	"github.com/gnoswap-labs/langtrans/internal/ruleset"
	"github.com/gnoswap-labs/langtrans/internal/types"
)

// Engine manages the conversion process for one rule set.
type Engine struct {
	rs        *ruleset.RuleSet
	model     *rules.Model
	converter *rewrite.Converter
	logger    *zap.Logger
}

// NewEngine builds the model of rs. Unresolved placeholders are not fatal
// and are logged as warnings.
func NewEngine(rs *ruleset.RuleSet, logger *zap.Logger) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	model, err := rs.Build()
	if err != nil {
		return nil, err
	}
	for _, w := range model.Warnings {
		logger.Warn("unresolved placeholder", zap.String("warning", w))
	}

	e := &Engine{rs: rs, model: model, logger: logger}
	e.converter = rewrite.NewConverter(model,
		rewrite.WithLogger(logger),
		rewrite.WithReporter(e.reportDiagnostic),
	)
	return e, nil
}

// RuleSet returns the rule set the engine was built from.
func (e *Engine) RuleSet() *ruleset.RuleSet {
	return e.rs
}

// Warnings returns the warnings collected while building the model.
func (e *Engine) Warnings() []string {
	return e.model.Warnings
}

// Convert rewrites source with the engine's rules.
func (e *Engine) Convert(source string) (string, error) {
	return e.converter.Convert(source)
}

// ConvertFile converts the file in and writes the result to out. Nothing is
// written when the conversion fails.
func (e *Engine) ConvertFile(in, out string) error {
	content, err := os.ReadFile(in)
	if err != nil {
		return fmt.Errorf("error reading input file: %w", err)
	}

	converted, err := e.Convert(string(content))
	if err != nil {
		return fmt.Errorf("convert %s: %w", in, err)
	}

	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("error creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(out, []byte(converted), 0o644); err != nil {
		return fmt.Errorf("error writing output file: %w", err)
	}
	e.logger.Debug("converted", zap.String("input", in), zap.String("output", out))
	return nil
}

func (e *Engine) reportDiagnostic(d *types.Diagnostic) {
	e.logger.Debug("diagnostic matched",
		zap.String("part", d.Part),
		zap.String("name", d.Name),
		zap.Int("line", d.Line),
	)
}

package ruleset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnoswap-labs/langtrans/internal/pattern"
	"github.com/gnoswap-labs/langtrans/internal/vars"
)

func TestBuiltinVariables(t *testing.T) {
	t.Parallel()
	builtin, err := Builtin()
	require.NoError(t, err)

	tests := []struct {
		name     string
		match    []string
		mismatch []string
	}{
		{name: "ident", match: []string{"_a1", "x"}, mismatch: []string{"1a", "a-b"}},
		{name: "number", match: []string{"42", "3.14"}, mismatch: []string{"3.", ".5"}},
		{name: "string", match: []string{`"a\"b"`, `'c'`, `""`}, mismatch: []string{`"abc`, "\"a\nb\""}},
		{name: "space", match: []string{"", " \t "}, mismatch: []string{"\n", " x"}},
		{name: "eol", match: []string{"  \n", "\t", ""}, mismatch: []string{"\n\n", " ; \n"}},
		{name: "args", match: []string{"a, f(b), c", ""}, mismatch: []string{"a)", "f((b))"}},
		{name: "block", match: []string{"\n  x\n\ty", "\n\n  z"}, mismatch: []string{"\nx", "  x"}},
	}

	assert.Len(t, tests, builtin.Len(), "every builtin is covered")

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			src, ok := builtin.Get(tt.name)
			require.True(t, ok)

			re, err := pattern.Compile(vars.Substitute(builtin, `\A(?:<`+tt.name+`>)\z`))
			require.NoError(t, err)
			assert.NotContains(t, re.String(), `\s+`, "builtin %s must not hold a literal space", src)

			for _, s := range tt.match {
				ok, err := re.MatchString(s)
				require.NoError(t, err)
				assert.True(t, ok, "%q should match", s)
			}
			for _, s := range tt.mismatch {
				ok, err := re.MatchString(s)
				require.NoError(t, err)
				assert.False(t, ok, "%q should not match", s)
			}
		})
	}
}

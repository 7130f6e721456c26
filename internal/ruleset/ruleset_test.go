package ruleset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnoswap-labs/langtrans/internal/rewrite"
	"github.com/gnoswap-labs/langtrans/internal/rules"
)

const sourceRules = `
settings:
  lang: minipy
  author: langtrans
  varfile: vars
  errfile: errors.yaml
  variables:
    name: '\w+'
  collections:
    exprs: [quote]
    empty:
  after:
    linux: [gofmt -w $target, go run $target]
    windows: go run $target

quote:
  regex: '''(<name>)'''
  tokens: [s]
  global: false

print:
  regex: 'print\((.*?)\)'
  tokens: [args]
  doc: prints its arguments
  args:
    call: [$exprs]
    default: '""'

_1print:
  regex: 'echo\((.*?)\)'

assign:
  regex: '(<name>) = (<name>)'
  tokens: [left, right]
  unmatch: '^_'
  left,right:
    replace:
      - [old, new]
      - [tmp]
`

const targetRules = `
quote: '"<s>"'
print: fmt.Println(<args>)
assign: <left> := <right>
`

const varFile = `
name: '[a-z]+'
digit: '\d'
`

const errFile = `
print:
  empty_print:
    regex: 'print\(\)'
    msg: print needs arguments
  outside:
    semicolon:
      regex: ';$'
      msg: remove the semicolon
outside:
  tab:
    regex: '\t'
    msg: tabs are not allowed
`

func testReader() MapReader {
	return MapReader{
		filepath.Join("rules", "py.yaml"):     []byte(sourceRules),
		filepath.Join("rules", "go.yaml"):     []byte(targetRules),
		filepath.Join("rules", "vars.yaml"):   []byte(varFile),
		filepath.Join("rules", "errors.yaml"): []byte(errFile),
	}
}

func TestLoadFrom(t *testing.T) {
	t.Parallel()
	rs, err := LoadFrom(testReader(), filepath.Join("rules", "py"), filepath.Join("rules", "go"))
	require.NoError(t, err)

	s := rs.Settings
	assert.Equal(t, "minipy", s.Lang)
	assert.Equal(t, "langtrans", s.Author)
	assert.Equal(t, rules.Collections{"exprs": {"quote"}, "empty": nil}, rs.Collections)

	cmd, err := s.After.Command("linux")
	require.NoError(t, err)
	assert.Equal(t, "gofmt -w $target && go run $target", cmd)
	cmd, err = s.After.Command("windows")
	require.NoError(t, err)
	assert.Equal(t, "go run $target", cmd)
	_, err = s.After.Command("plan9")
	assert.Error(t, err)

	// settings.variables override the varfile, which overrides builtins.
	name, _ := rs.Variables.Get("name")
	assert.Equal(t, `\w+`, name)
	digit, _ := rs.Variables.Get("digit")
	assert.Equal(t, `\d`, digit)
	_, ok := rs.Variables.Get("ident")
	assert.True(t, ok, "builtin variables are loaded first")

	var names []string
	for _, p := range rs.Spec.Parts {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"quote", "print", "_1print", "assign"}, names, "declaration order is kept")

	alias := rs.Spec.Parts[2]
	assert.Equal(t, []string{"args"}, alias.Tokens)
	assert.True(t, alias.HasTokens)
	assert.Equal(t, "fmt.Println(<args>)", rs.Spec.Templates["_1print"])

	quote := rs.Spec.Parts[0]
	require.NotNil(t, quote.Global)
	assert.False(t, *quote.Global)

	assign := rs.Spec.Parts[3]
	assert.Equal(t, []string{"^_"}, assign.Unmatch)
	require.Len(t, assign.Options, 1)
	assert.Equal(t, "left,right", assign.Options[0].Name)
	assert.Equal(t, [][]string{{"old", "new"}, {"tmp"}}, assign.Options[0].Replace)

	pr := rs.Spec.Parts[1]
	assert.Equal(t, "prints its arguments", pr.Doc)
	require.Len(t, pr.Options, 1)
	assert.Equal(t, []string{"$exprs"}, pr.Options[0].Call)
	require.NotNil(t, pr.Options[0].Default)
	assert.Equal(t, `""`, *pr.Options[0].Default)

	require.Len(t, rs.Spec.Diagnostics, 2)
	assert.Equal(t, "print", rs.Spec.Diagnostics[0].Part)
	assert.Equal(t, []rules.DiagnosticSpec{{Name: "empty_print", Regex: `print\(\)`, Message: "print needs arguments"}},
		rs.Spec.Diagnostics[0].Inside)
	assert.Len(t, rs.Spec.Diagnostics[0].Outside, 1)
	assert.Equal(t, "", rs.Spec.Diagnostics[1].Part)
	assert.Equal(t, "tab", rs.Spec.Diagnostics[1].Outside[0].Name)

	var roles []Role
	for _, f := range rs.Files {
		roles = append(roles, f.Role)
	}
	assert.Equal(t, []Role{RoleSource, RoleVarFile, RoleErrFile, RoleTarget}, roles)
}

func TestLoadAndConvert(t *testing.T) {
	t.Parallel()
	rs, err := LoadFrom(testReader(), filepath.Join("rules", "py"), filepath.Join("rules", "go"))
	require.NoError(t, err)

	m, err := rs.Build()
	require.NoError(t, err)
	assert.Empty(t, m.Warnings)

	c := rewrite.NewConverter(m)
	got, err := c.Convert("print('hi', 'there')\necho('x')\nold = tmpval\n_a = b")
	require.NoError(t, err)
	// the alias shares tokens and template, not token options
	assert.Equal(t, "fmt.Println(\"hi\", \"there\")\nfmt.Println('x')\nnew := val\n_a = b", got)

	_, err = c.Convert("print()")
	var derr *rewrite.DiagnosticError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, "empty_print", derr.Diagnostic.Name)
}

func TestLoadFromErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		source  string
		target  string
		wantErr string
	}{
		{
			name:    "unknown option",
			source:  "p:\n  regex: '(a)'\n  tokens: [a]\n  a:\n    upper: true\n",
			target:  "p: <a>",
			wantErr: `src.yaml: part p: a: line 5: unknown option "upper"`,
		},
		{
			name:    "unknown key",
			source:  "p:\n  regex: '(a)'\n  tokens: [a]\n  colour: red\n",
			target:  "p: <a>",
			wantErr: `src.yaml: part p: line 4: unknown key "colour"`,
		},
		{
			name:    "alias without base",
			source:  "_xq:\n  regex: '(a)'\n",
			target:  "p: <a>",
			wantErr: "src.yaml: q for _xq not found",
		},
		{
			name:    "part is not a mapping",
			source:  "p: [a]\n",
			target:  "p: <a>",
			wantErr: "src.yaml: part p: line 1: expected a mapping",
		},
		{
			name:    "template is not a string",
			source:  "p:\n  regex: '(a)'\n  tokens: [a]\n",
			target:  "p: [a]",
			wantErr: "tgt.yaml: template p: line 1: expected a string",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := MapReader{"src.yaml": []byte(tt.source), "tgt.yaml": []byte(tt.target)}
			_, err := LoadFrom(r, "src", "tgt")
			assert.EqualError(t, err, tt.wantErr)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := LoadFrom(MapReader{}, "src", "tgt")
		require.Error(t, err)
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})
}

func TestLoadFromDisk(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src.yaml"), []byte("settings:\n  varfile: v\nn:\n  regex: '\\b(?<!#)<d>'\n  tokens: [n]\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "v.yaml"), []byte("d: '\\d+'\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tgt.yaml"), []byte("n: '#<n>'\n"), 0o644))

	rs, err := Load(filepath.Join(dir, "src"), filepath.Join(dir, "tgt.yaml"))
	require.NoError(t, err)
	m, err := rs.Build()
	require.NoError(t, err)

	got, err := rewrite.NewConverter(m).Convert("a 12 b")
	require.NoError(t, err)
	assert.Equal(t, "a #12 b", got)
}

func TestReadDoc(t *testing.T) {
	t.Parallel()
	doc, err := ReadDoc(testReader(), filepath.Join("rules", "py"))
	require.NoError(t, err)
	assert.Equal(t, "minipy", doc.Lang)
	assert.Equal(t, "langtrans", doc.Author)
	require.Len(t, doc.Parts, 4)
	assert.Equal(t, DocPart{Name: "print", Tokens: []string{"args"}, Doc: "prints its arguments"}, doc.Parts[1])
}

func TestPath(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "rules.yaml", Path("rules"))
	assert.Equal(t, "rules.yml", Path("rules.yml"))
	assert.Equal(t, filepath.Join("a", "b.yaml"), resolve("a", "b"))
}

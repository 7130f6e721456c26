package internal

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/gnoswap-labs/langtrans/internal/rewrite"
	"github.com/gnoswap-labs/langtrans/internal/ruleset"
)

const (
	sourceRules = `
settings:
  lang: calc
  errfile: errors
number:
  regex: '\b(?<!#)<number>'
  tokens: [n]
`
	targetRules = "number: '#<n>'\n"
	errRules    = `
number:
  negative:
    regex: '-'
    msg: negative numbers are not supported
`
)

// createTempDir creates a temporary directory and returns its path.
// It also registers a cleanup function to remove the directory after the test.
func createTempDir(t testing.TB, prefix string) string {
	tempDir, err := os.MkdirTemp("", prefix)
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tempDir) })
	return tempDir
}

// assertFileExists checks if a file exists and has the expected content.
func assertFileExists(t *testing.T, path string, expectedContent string) {
	content, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, expectedContent, string(content))
}

// writeRules writes the rule files used by the tests into dir.
func writeRules(t *testing.T, dir string) (source, target string) {
	t.Helper()
	source = filepath.Join(dir, "calc.yaml")
	target = filepath.Join(dir, "hash.yaml")
	require.NoError(t, os.WriteFile(source, []byte(sourceRules), 0o644))
	require.NoError(t, os.WriteFile(target, []byte(targetRules), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "errors.yaml"), []byte(errRules), 0o644))
	return source, target
}

func testEngine(t *testing.T, dir string) *Engine {
	t.Helper()
	source, target := writeRules(t, dir)
	rs, err := ruleset.Load(source, target)
	require.NoError(t, err)
	engine, err := NewEngine(rs, zaptest.NewLogger(t))
	require.NoError(t, err)
	return engine
}

func TestNewEngine(t *testing.T) {
	t.Parallel()

	tempDir := createTempDir(t, "engine_test")
	engine := testEngine(t, tempDir)
	assert.NotNil(t, engine.RuleSet())
	assert.Empty(t, engine.Warnings())
}

func TestNewEngineLogsWarnings(t *testing.T) {
	t.Parallel()

	r := ruleset.MapReader{
		"src.yaml": []byte("number:\n  regex: '<digits>'\n  tokens: [n]\n"),
		"tgt.yaml": []byte("number: '#<n>'\n"),
	}
	rs, err := ruleset.LoadFrom(r, "src", "tgt")
	require.NoError(t, err)

	core, logs := observer.New(zapcore.WarnLevel)
	_, err = NewEngine(rs, zap.New(core))
	require.NoError(t, err)

	entries := logs.FilterMessage("unresolved placeholder").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "part number: <digits> not found", entries[0].ContextMap()["warning"])
}

func TestNewEngineBuildError(t *testing.T) {
	t.Parallel()

	r := ruleset.MapReader{
		"src.yaml": []byte("p:\n  regex: '(a)(b)'\n  tokens: [a]\n"),
		"tgt.yaml": []byte("p: <a>\n"),
	}
	rs, err := ruleset.LoadFrom(r, "src", "tgt")
	require.NoError(t, err)

	_, err = NewEngine(rs, nil)
	assert.Error(t, err)
}

func TestEngineConvertFile(t *testing.T) {
	t.Parallel()

	tempDir := createTempDir(t, "engine_convert_test")
	r := ruleset.MapReader{
		"src.yaml": []byte("number:\n  regex: '\\b(?<!#)<number>'\n  tokens: [n]\n"),
		"tgt.yaml": []byte("number: '#<n>'\n"),
	}
	rs, err := ruleset.LoadFrom(r, "src", "tgt")
	require.NoError(t, err)
	engine, err := NewEngine(rs, zaptest.NewLogger(t))
	require.NoError(t, err)

	got, err := engine.Convert("1 + 22")
	require.NoError(t, err)
	assert.Equal(t, "#1 + #22", got)

	in := filepath.Join(tempDir, "in.calc")
	out := filepath.Join(tempDir, "nested", "out.calc")
	require.NoError(t, os.WriteFile(in, []byte("x = 3\n"), 0o644))

	require.NoError(t, engine.ConvertFile(in, out))
	assertFileExists(t, out, "x = #3\n")

	err = engine.ConvertFile(filepath.Join(tempDir, "missing.calc"), out)
	assert.Error(t, err)
}

func TestEngineConvertFileDiagnostic(t *testing.T) {
	t.Parallel()

	tempDir := createTempDir(t, "engine_diag_test")
	r := ruleset.MapReader{
		filepath.Join("rules", "src.yaml"):    []byte("settings:\n  errfile: errors\nnumber:\n  regex: '-?\\d+'\n  tokens: [n]\n"),
		filepath.Join("rules", "tgt.yaml"):    []byte("number: '#<n>'\n"),
		filepath.Join("rules", "errors.yaml"): []byte(errRules),
	}
	rs, err := ruleset.LoadFrom(r, filepath.Join("rules", "src"), filepath.Join("rules", "tgt"))
	require.NoError(t, err)
	engine, err := NewEngine(rs, nil)
	require.NoError(t, err)

	in := filepath.Join(tempDir, "in.calc")
	out := filepath.Join(tempDir, "out.calc")
	require.NoError(t, os.WriteFile(in, []byte("a = 1\nb = -2\n"), 0o644))

	err = engine.ConvertFile(in, out)
	var derr *rewrite.DiagnosticError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, "negative", derr.Diagnostic.Name)
	assert.Equal(t, 2, derr.Diagnostic.Line)

	_, err = os.Stat(out)
	assert.True(t, os.IsNotExist(err), "no output is written on failure")
}

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocate(t *testing.T) {
	t.Parallel()
	text := "first line\n  let x = 1;\n  let y = 2;\nlast line\n"

	tests := []struct {
		name      string
		matched   string
		wantLine  int
		wantLines []string
		wantOK    bool
	}{
		{
			name:      "single line",
			matched:   "let y",
			wantLine:  2,
			wantLines: []string{"  let y = 2;"},
			wantOK:    true,
		},
		{
			name:      "multi line run",
			matched:   "x = 1;\n  let y",
			wantLine:  1,
			wantLines: []string{"  let x = 1;", "  let y = 2;"},
			wantOK:    true,
		},
		{
			name:      "run reaching the last line",
			matched:   "2;\nlast",
			wantLine:  2,
			wantLines: []string{"  let y = 2;", "last line"},
			wantOK:    true,
		},
		{
			name:      "first line only is not enough",
			matched:   "let x\nmissing",
			wantOK:    false,
			wantLines: nil,
		},
		{
			name:    "not present",
			matched: "nothing here",
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			line, lines, ok := Locate(text, tt.matched)
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.Equal(t, tt.wantLine, line)
			assert.Equal(t, tt.wantLines, lines)
		})
	}
}

func TestNewDiagnostic(t *testing.T) {
	t.Parallel()
	text := "a = 1\n\tif (a = 2) {\n}\n"

	d, ok := NewDiagnostic("if", "assignment_in_condition", "use ==", "a = 2", text, "if (a = 2) {")
	require.True(t, ok)
	assert.Equal(t, 2, d.Line)
	assert.Equal(t, "if (a = 2) {", d.LineText)
	assert.Equal(t, 4, d.Column)
	assert.Equal(t, "if", d.Part)
	assert.Equal(t, "use ==", d.Message)

	_, ok = NewDiagnostic("", "x", "", "zzz", text, "zzz")
	assert.False(t, ok)
}

func TestSplitLines(t *testing.T) {
	t.Parallel()
	assert.Nil(t, SplitLines(""))
	assert.Equal(t, []string{"a", "b"}, SplitLines("a\r\nb\n"))
	assert.Equal(t, []string{"a", "", "b"}, SplitLines("a\n\nb"))
}

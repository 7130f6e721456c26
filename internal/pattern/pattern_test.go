package pattern

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileExpandsWhitespace(t *testing.T) {
	t.Parallel()
	re, err := Compile(`\((\s*\w+\s*(?:,\s*\w+\s*)*)\) => ~{`)
	require.NoError(t, err)

	assert.NotContains(t, re.String(), " ")
	assert.NotContains(t, re.String(), "~")
	assert.Equal(t, 1, re.NumGroups())

	ok, err := re.MatchString("(a, b)   => {")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = re.MatchString("(a, b)=> {")
	require.NoError(t, err)
	assert.False(t, ok, "a space requires at least one whitespace character")
}

func TestCompileMultiline(t *testing.T) {
	t.Parallel()
	re, err := Compile(`^start(.|\n)+end`)
	require.NoError(t, err)

	m, err := re.Find("\nstart of line\nsome content here\nend of line\n")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "start of line\nsome content here\nend", m.Text)
}

func TestCompileBackreference(t *testing.T) {
	t.Parallel()
	re, err := Compile(`(\w+)-\1`)
	require.NoError(t, err)

	ok, err := re.MatchString("abc-abc")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = re.MatchString("abc-abd")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCompileInvalid(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		pattern    string
		wantReason string
		wantOffset int
	}{
		{
			name:       "unterminated set",
			pattern:    "[a-z",
			wantReason: "unterminated character set",
			wantOffset: 0,
		},
		{
			name:       "unbalanced group",
			pattern:    "ab(c",
			wantOffset: 0,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Compile(tt.pattern)
			require.Error(t, err)

			var perr *PatternError
			require.True(t, errors.As(err, &perr))
			if tt.wantReason != "" {
				assert.Contains(t, perr.Error(), tt.wantReason)
			}
			assert.Equal(t, tt.wantOffset, perr.Offset)
			assert.Equal(t, tt.pattern, perr.Pattern)
		})
	}
}

func TestPatternErrorPointer(t *testing.T) {
	t.Parallel()
	_, err := Compile("[a-z")
	var perr *PatternError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "Regex: [a-z\n       ^", perr.Pointer())

	_, err = Compile("a\tb [x")
	require.True(t, errors.As(err, &perr))
	lines := strings.Split(perr.Pointer(), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `Regex: a\tb\s+[x`, lines[0])
	assert.Equal(t, strings.Index(lines[0], "["), strings.Index(lines[1], "^"))
}

func TestFindAll(t *testing.T) {
	t.Parallel()
	re := MustCompile(`(\d+)`)

	matches, err := re.FindAll("123 456 789")
	require.NoError(t, err)
	require.Len(t, matches, 3)

	want := []struct {
		text       string
		start, end int
	}{
		{"123", 0, 3},
		{"456", 4, 7},
		{"789", 8, 11},
	}
	for i, w := range want {
		assert.Equal(t, w.text, matches[i].Text)
		assert.Equal(t, w.start, matches[i].Start)
		assert.Equal(t, w.end, matches[i].End)
		assert.Equal(t, []Group{{Text: w.text, Matched: true}}, matches[i].Groups)
	}
}

func TestFindAllRuneOffsets(t *testing.T) {
	t.Parallel()
	re := MustCompile(`b+`)
	matches, err := re.FindAll("äbb ébb")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, 1, matches[0].Start)
	assert.Equal(t, 5, matches[1].Start)
	assert.Equal(t, 7, matches[1].End)
}

func TestFindAllOptionalGroup(t *testing.T) {
	t.Parallel()
	re := MustCompile(`(\w+)(?:=(\w+))?;`)
	matches, err := re.FindAll("a=1; b;")
	require.NoError(t, err)
	require.Len(t, matches, 2)

	assert.True(t, matches[0].Groups[1].Matched)
	assert.Equal(t, "1", matches[0].Groups[1].Text)
	assert.False(t, matches[1].Groups[1].Matched)
	assert.Equal(t, "", matches[1].Groups[1].Text)
}

func TestCompileGroup(t *testing.T) {
	t.Parallel()
	re, err := CompileGroup(`\d+`)
	require.NoError(t, err)
	assert.Equal(t, 1, re.NumGroups())
	assert.Equal(t, `(\d+)`, re.Source())
}

func TestGroupsFollowTextualOrder(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		pattern string
		input   string
		want    []string
	}{
		{
			name:    "named before unnamed",
			pattern: `(?<kw>let) (\w+)`,
			input:   "let x",
			want:    []string{"let", "x"},
		},
		{
			name:    "python style name",
			pattern: `(?P<kw>let) (\w+)`,
			input:   "let x",
			want:    []string{"let", "x"},
		},
		{
			name:    "nested named group",
			pattern: `(?<outer>a(b))(c)`,
			input:   "abc",
			want:    []string{"ab", "b", "c"},
		},
		{
			name:    "parens inside class and escapes",
			pattern: `[()](?<x>\()(y)`,
			input:   ")(y",
			want:    []string{"(", "y"},
		},
		{
			name:    "lookbehind is not a group",
			pattern: `(?<=\$)(?<name>\w+)(!)`,
			input:   "$v!",
			want:    []string{"v", "!"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			re, err := Compile(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, len(tt.want), re.NumGroups())

			m, err := re.Find(tt.input)
			require.NoError(t, err)
			require.NotNil(t, m)
			got := make([]string, len(m.Groups))
			for i, g := range m.Groups {
				got[i] = g.Text
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

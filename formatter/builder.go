package formatter

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/fatih/color"

	"github.com/gnoswap-labs/langtrans/internal/pattern"
	"github.com/gnoswap-labs/langtrans/internal/rewrite"
	"github.com/gnoswap-labs/langtrans/internal/rules"
	"github.com/gnoswap-labs/langtrans/internal/types"
)

const tabWidth = 8

var (
	errorStyle   = color.New(color.FgRed, color.Bold)
	partStyle    = color.New(color.FgMagenta)
	lineStyle    = color.New(color.FgCyan)
	matchStyle   = color.New(color.FgRed)
	nameStyle    = color.New(color.FgRed)
	messageStyle = color.New(color.FgYellow)
	noteStyle    = color.New(color.FgGreen, color.Bold)
)

// reportFormatter is implemented by each kind of failure report.
type reportFormatter interface {
	ReportTemplate() string
}

var funcMap = template.FuncMap{
	"header":  header,
	"snippet": snippet,
	"name":    diagnosticName,
	"message": message,
	"error":   errorLine,
	"pointer": pointer,
	"pending": pending,
	"note":    note,
}

func render(f reportFormatter, data any) string {
	tmpl := template.Must(template.New("report").Funcs(funcMap).Parse(f.ReportTemplate()))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Sprintf("Error formatting report: %v", err)
	}
	return buf.String()
}

// FormatError renders err as the report shown to the user. Errors without
// a dedicated report are rendered as a single error line.
func FormatError(err error) string {
	var (
		derr *rewrite.DiagnosticError
		nerr *rewrite.NonConvergenceError
		lerr *rewrite.LocateError
		perr *pattern.PatternError
		serr *rules.SpecError
	)
	switch {
	case errors.As(err, &derr):
		return FormatDiagnostic(derr.Diagnostic)
	case errors.As(err, &nerr):
		return FormatNonConvergence(nerr)
	case errors.As(err, &lerr):
		return errorLine("internal error: "+lerr.Error()) + "\n"
	case errors.As(err, &serr) && errors.As(err, &perr):
		return FormatPatternError(serr.Part, perr)
	case errors.As(err, &perr):
		return FormatPatternError("", perr)
	case errors.As(err, &serr):
		return FormatSpecError(serr)
	default:
		return errorLine(err.Error()) + "\n"
	}
}

// utils functions used in the text templates

func header(part string) string {
	if part == "" {
		return ""
	}
	return "[" + partStyle.Sprint(part) + "]\n"
}

func lineNumber(line int) string {
	return fmt.Sprintf("%d |", line)
}

// snippet prints the numbered line with the first line of match
// highlighted at column. text is tab-expanded and column counts runes of it.
func snippet(line int, text, match string, column int) string {
	out := lineStyle.Sprint(lineNumber(line)) + " "
	first, _, _ := strings.Cut(match, "\n")
	first = expandTabs(first)

	runes := []rune(text)
	end := column + len([]rune(first))
	if column < 0 || first == "" || end > len(runes) || string(runes[column:end]) != first {
		return out + text + "\n"
	}
	return out + string(runes[:column]) + matchStyle.Sprint(first) + string(runes[end:]) + "\n"
}

// diagnosticName aligns the diagnostic name under the highlighted match.
func diagnosticName(name string, line, column int) string {
	indent := len(lineNumber(line)) + 1
	if column > 0 {
		indent += column
	}
	return strings.Repeat(" ", indent) + nameStyle.Sprint(strings.ReplaceAll(name, "_", " ")) + "\n"
}

func message(msg string) string {
	if msg == "" {
		return ""
	}
	return messageStyle.Sprint(msg) + "\n"
}

func errorLine(msg string) string {
	return errorStyle.Sprint("error: ") + msg
}

func note(msg string) string {
	return noteStyle.Sprint("note: ") + msg + "\n"
}

// expandTabs replaces tabs with spaces up to the next tab stop.
func expandTabs(line string) string {
	var sb strings.Builder
	col := 0
	for _, r := range line {
		if r == '\t' {
			spaces := tabWidth - col%tabWidth
			sb.WriteString(strings.Repeat(" ", spaces))
			col += spaces
			continue
		}
		sb.WriteRune(r)
		col++
	}
	return sb.String()
}

// expandedColumn maps a rune column of line to its column once tabs are
// expanded.
func expandedColumn(line string, column int) int {
	col := 0
	for i, r := range []rune(line) {
		if i == column {
			break
		}
		if r == '\t' {
			col += tabWidth - col%tabWidth
		} else {
			col++
		}
	}
	return col
}

// DiagnosticData is the template data of a diagnostic report. Text is
// tab-expanded and Column counts its runes.
type DiagnosticData struct {
	Part    string
	Name    string
	Line    int
	Text    string
	Match   string
	Column  int
	Message string
}

// FormatDiagnostic renders the report of a diagnostic that matched the
// input.
func FormatDiagnostic(d *types.Diagnostic) string {
	column := d.Column
	if column >= 0 {
		column = expandedColumn(d.LineText, column)
	}
	return render(&DiagnosticFormatter{}, DiagnosticData{
		Part:    d.Part,
		Name:    d.Name,
		Line:    d.Line,
		Text:    expandTabs(d.LineText),
		Match:   d.Match,
		Column:  column,
		Message: d.Message,
	})
}

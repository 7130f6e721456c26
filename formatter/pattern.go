package formatter

import (
	"github.com/gnoswap-labs/langtrans/internal/pattern"
	"github.com/gnoswap-labs/langtrans/internal/rules"
)

type PatternErrorFormatter struct{}

func (f *PatternErrorFormatter) ReportTemplate() string {
	return `{{header .Part -}}
{{error "invalid regex"}}
{{message .Reason -}}
{{pointer .Pointer}}
`
}

type PatternErrorData struct {
	Part    string
	Reason  string
	Pointer string
}

// FormatPatternError renders the pattern with a caret under the offset
// where compilation failed.
func FormatPatternError(part string, err *pattern.PatternError) string {
	return render(&PatternErrorFormatter{}, PatternErrorData{
		Part:    part,
		Reason:  err.Reason,
		Pointer: err.Pointer(),
	})
}

func pointer(p string) string {
	return lineStyle.Sprint(p)
}

type SpecErrorFormatter struct{}

func (f *SpecErrorFormatter) ReportTemplate() string {
	return `{{header .Part -}}
{{error .Message}}
`
}

type SpecErrorData struct {
	Part    string
	Message string
}

// FormatSpecError renders a rule specification error.
func FormatSpecError(err *rules.SpecError) string {
	msg := err.Err.Error()
	if err.Location != "" {
		msg = err.Location + ": " + msg
	}
	return render(&SpecErrorFormatter{}, SpecErrorData{Part: err.Part, Message: msg})
}

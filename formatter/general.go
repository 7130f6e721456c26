package formatter

// DiagnosticFormatter renders a diagnostic: the part header, the numbered
// line with the match highlighted, the diagnostic name under the match and
// the message.
type DiagnosticFormatter struct{}

func (f *DiagnosticFormatter) ReportTemplate() string {
	return `{{header .Part -}}
{{snippet .Line .Text .Match .Column -}}
{{name .Name .Line .Column -}}
{{message .Message -}}
`
}

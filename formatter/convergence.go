package formatter

import (
	"fmt"
	"strings"

	"github.com/gnoswap-labs/langtrans/internal/rewrite"
)

type NonConvergenceFormatter struct{}

func (f *NonConvergenceFormatter) ReportTemplate() string {
	return `{{error "loop limit exceeded"}}
{{note .Note -}}
{{pending .Pending -}}
`
}

type NonConvergenceData struct {
	Note    string
	Pending []rewrite.PendingPart
}

// FormatNonConvergence lists the parts that kept matching, with the text
// each still matched.
func FormatNonConvergence(err *rewrite.NonConvergenceError) string {
	return render(&NonConvergenceFormatter{}, NonConvergenceData{
		Note:    fmt.Sprintf("these parts still matched after %d passes", err.Passes),
		Pending: err.Pending,
	})
}

func pending(parts []rewrite.PendingPart) string {
	var sb strings.Builder
	for _, p := range parts {
		sb.WriteString(header(p.Part))
		for _, m := range p.Matches {
			sb.WriteString(lineStyle.Sprint("  | "))
			sb.WriteString(strings.ReplaceAll(m, "\n", `\n`))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

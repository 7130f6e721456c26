package formatter

import (
	"fmt"
	"strings"

	"github.com/gnoswap-labs/langtrans/internal/ruleset"
)

const minColumnWidth = 7

// FormatDoc renders the language, the author and the part table of a
// source rule file. Multi-line docs are indented to the About column.
func FormatDoc(doc *ruleset.Doc) string {
	var sb strings.Builder
	if doc.Lang != "" {
		fmt.Fprintf(&sb, "%s %s\n", noteStyle.Sprint("Language:"), doc.Lang)
	}
	if doc.Author != "" {
		fmt.Fprintf(&sb, "%s %s\n", noteStyle.Sprint("Author:"), doc.Author)
	}

	partWidth, tokenWidth := minColumnWidth, minColumnWidth
	tokens := make([]string, len(doc.Parts))
	for i, p := range doc.Parts {
		tokens[i] = strings.Join(p.Tokens, ",")
		partWidth = max(partWidth, len(p.Name))
		tokenWidth = max(tokenWidth, len(tokens[i]))
	}

	fmt.Fprintf(&sb, "%-*s %-*s %s\n", partWidth, "Part", tokenWidth, "Tokens", "About")
	indent := "\n" + strings.Repeat(" ", partWidth+tokenWidth+2)
	for i, p := range doc.Parts {
		about := strings.ReplaceAll(strings.TrimRight(p.Doc, "\n"), "\n", indent)
		fmt.Fprintf(&sb, "%s %-*s %s\n", partStyle.Sprint(p.Name)+padding(p.Name, partWidth), tokenWidth, tokens[i], about)
	}
	return sb.String()
}

// padding fills name up to width; styled text cannot be padded by fmt.
func padding(name string, width int) string {
	if n := width - len(name); n > 0 {
		return strings.Repeat(" ", n)
	}
	return ""
}

package output

import (
	"fmt"
	"io"
	"strings"

	"loupe/internal/service"
)

// MarkdownWriter outputs the review as a markdown document. When the raw
// provider report is itself markdown it is passed through followed by a
// parsed-summary footer; otherwise a summary document is synthesized.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Write(w io.Writer, out service.Outcome) error {
	ew := &errWriter{w: w}

	if out.Failed() {
		ew.printf("# Code Review\n\n**Failed**: %s\n", out.ErrorMessage)
		return ew.err
	}

	rv := out.Result
	if strings.TrimSpace(rv.Raw) != "" {
		ew.println(strings.TrimSpace(rv.Raw))
		ew.println("")
		ew.println("---")
	} else {
		ew.println("# Code Review")
	}

	ew.println("")
	ew.printf("**Parsed score**: %d/100 | **Issues**: %d", rv.Score, len(rv.Issues))
	if rv.Recommendation != "" {
		ew.printf(" | **Recommendation**: %s", rv.Recommendation)
	}
	ew.println("")

	if len(rv.Issues) > 0 {
		ew.println("")
		ew.println("| Severity | Issue | Location |")
		ew.println("|----------|-------|----------|")
		for _, is := range rv.Issues {
			loc := ""
			if is.File != "" {
				loc = fmt.Sprintf("`%s:%d`", is.File, is.Line)
			}
			ew.printf("| %s | %s | %s |\n", is.Severity, escapePipes(is.Title), loc)
		}
	}

	return ew.err
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

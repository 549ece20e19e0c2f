package output

import (
	"fmt"
	"io"
	"strings"

	"loupe/internal/result"
	"loupe/internal/service"
)

// TextWriter outputs a human-readable text report.
type TextWriter struct{}

func (t *TextWriter) Write(w io.Writer, out service.Outcome) error {
	ew := &errWriter{w: w}

	if out.Failed() {
		ew.printf("Review failed: %s\n", out.ErrorMessage)
		return ew.err
	}

	rv := out.Result
	total := len(rv.Issues)

	ew.printf("Loupe Code Review\n")
	ew.println(strings.Repeat("─", 60))
	ew.printf("Score: %d/100\n", rv.Score)
	ew.printf("Issues: %d total", total)
	if total > 0 {
		ew.printf(" (%d critical, %d high, %d medium, %d low)",
			rv.Counts.Critical, rv.Counts.High, rv.Counts.Medium, rv.Counts.Low)
	}
	ew.println("")
	if rv.Recommendation != "" {
		ew.printf("Recommendation: %s\n", rv.Recommendation)
	}
	ew.printf("Elapsed: %dms\n", rv.DurationMs)
	ew.println(strings.Repeat("─", 60))

	if total == 0 {
		ew.println("\nNo issues found. Looks good!")
		return ew.err
	}

	for _, sev := range []result.Severity{
		result.SeverityCritical, result.SeverityHigh,
		result.SeverityMedium, result.SeverityLow,
	} {
		issues := filterBySeverity(rv.Issues, sev)
		if len(issues) == 0 {
			continue
		}
		ew.printf("\n%s %s\n", severityIcon(sev), strings.ToUpper(string(sev)))
		ew.println(strings.Repeat("─", 40))
		for _, is := range issues {
			if is.File != "" {
				ew.printf("  %s:%d  %s\n", is.File, is.Line, is.Title)
			} else {
				ew.printf("  %s\n", is.Title)
			}
			if is.Description != "" {
				ew.printf("    %s\n", is.Description)
			}
		}
	}

	return ew.err
}

func filterBySeverity(issues []result.Issue, sev result.Severity) []result.Issue {
	var filtered []result.Issue
	for _, is := range issues {
		if is.Severity == sev {
			filtered = append(filtered, is)
		}
	}
	return filtered
}

func severityIcon(sev result.Severity) string {
	switch sev {
	case result.SeverityCritical:
		return "✖"
	case result.SeverityHigh:
		return "▲"
	case result.SeverityMedium:
		return "●"
	default:
		return "○"
	}
}

// errWriter accumulates the first write error so callers check once.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}

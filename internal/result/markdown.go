package result

import (
	"regexp"
	"strconv"
	"strings"
)

// MarkdownParser extracts a Review from the markdown report format that the
// assembled prompt instructs providers to produce. It is deliberately
// tolerant: a report that deviates from the template still yields a Review
// with whatever could be recovered, never an error, so a sloppy model
// response degrades to a low-information result rather than a failed review.
type MarkdownParser struct{}

// NewMarkdownParser returns the default report parser.
func NewMarkdownParser() *MarkdownParser { return &MarkdownParser{} }

var (
	scorePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)overall score\D{0,10}(\d{1,3})`),
		regexp.MustCompile(`(?i)total score\D{0,10}(\d{1,3})`),
		regexp.MustCompile(`(?i)\bscore\b\**\s*[:：]\s*\[?(\d{1,3})`),
		regexp.MustCompile(`\*\*\s*(\d{1,3})\s*/\s*100\s*\*\*`),
		regexp.MustCompile(`(\d{1,3})\s*/\s*100`),
	}

	// Issue lines carry a severity marker, either an emoji tier or a
	// bracketed word, e.g. "- 🔴 SQL injection in login handler" or
	// "- [high] Missing input validation".
	issueLine = regexp.MustCompile(`^\s*[-*]\s*(?:\[?(critical|high|medium|low)\]?|(🔴|🟠|🟡|🟢))\s*[:：]?\s*(.+)$`)

	fileRef = regexp.MustCompile("`([^`\\s]+?):(\\d+)`")

	recommendLine = regexp.MustCompile(`(?i)merge recommendation\**\s*[:：]\s*(.+)`)
)

func severityFromMarker(word, emoji string) Severity {
	if word != "" {
		return Severity(strings.ToLower(word))
	}
	switch emoji {
	case "🔴":
		return SeverityCritical
	case "🟠":
		return SeverityHigh
	case "🟡":
		return SeverityMedium
	case "🟢":
		return SeverityLow
	}
	return SeverityLow
}

// Parse implements Parser.
func (p *MarkdownParser) Parse(raw string, durationMs int64) (*Review, error) {
	rv := &Review{
		Score:      parseScore(raw),
		Issues:     parseIssues(raw),
		DurationMs: durationMs,
		Raw:        raw,
	}
	rv.Counts = ComputeCounts(rv.Issues)
	if m := recommendLine.FindStringSubmatch(raw); m != nil {
		rv.Recommendation = strings.TrimSpace(stripMarkdown(m[1]))
	}
	rv.Summary = firstParagraph(raw)
	return rv, nil
}

func parseScore(raw string) int {
	for _, pat := range scorePatterns {
		if m := pat.FindStringSubmatch(raw); m != nil {
			n, err := strconv.Atoi(m[1])
			if err == nil && n >= 0 && n <= 100 {
				return n
			}
		}
	}
	return 0
}

func parseIssues(raw string) []Issue {
	var issues []Issue
	for _, line := range strings.Split(raw, "\n") {
		m := issueLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		is := Issue{
			Severity: severityFromMarker(m[1], m[2]),
			Title:    strings.TrimSpace(stripMarkdown(m[3])),
		}
		if fm := fileRef.FindStringSubmatch(line); fm != nil {
			is.File = fm[1]
			is.Line, _ = strconv.Atoi(fm[2])
		}
		if is.Title != "" {
			issues = append(issues, is)
		}
	}
	return issues
}

func stripMarkdown(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	return s
}

// firstParagraph returns the first non-heading, non-list prose block as a
// short summary of the report.
func firstParagraph(raw string) string {
	for _, block := range strings.Split(raw, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		first := strings.TrimSpace(strings.Split(block, "\n")[0])
		if strings.HasPrefix(first, "#") || strings.HasPrefix(first, "-") ||
			strings.HasPrefix(first, "*") || strings.HasPrefix(first, "```") ||
			strings.HasPrefix(first, "|") {
			continue
		}
		if len(block) > 400 {
			block = block[:400]
		}
		return block
	}
	return ""
}

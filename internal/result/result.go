package result

// Severity represents the severity tier of an issue.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// SeverityRank returns a numeric rank for sorting (higher = more severe).
func SeverityRank(s Severity) int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// Issue is a single problem extracted from a review report.
type Issue struct {
	Severity    Severity `json:"severity"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	File        string   `json:"file,omitempty"`
	Line        int      `json:"line,omitempty"`
}

// SeverityCounts holds issue counts by severity tier.
type SeverityCounts struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
}

// Review is the structured outcome of a parsed review report.
type Review struct {
	Score          int            `json:"score"`
	Issues         []Issue        `json:"issues"`
	Counts         SeverityCounts `json:"counts"`
	Recommendation string         `json:"recommendation,omitempty"`
	Summary        string         `json:"summary,omitempty"`
	DurationMs     int64          `json:"durationMs"`
	Raw            string         `json:"raw,omitempty"`
}

// ComputeCounts tallies issues by severity.
func ComputeCounts(issues []Issue) SeverityCounts {
	var c SeverityCounts
	for _, is := range issues {
		switch is.Severity {
		case SeverityCritical:
			c.Critical++
		case SeverityHigh:
			c.High++
		case SeverityMedium:
			c.Medium++
		case SeverityLow:
			c.Low++
		}
	}
	return c
}

// Parser converts raw provider output plus timing metadata into a Review.
type Parser interface {
	Parse(raw string, durationMs int64) (*Review, error)
}

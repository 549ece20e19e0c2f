package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"loupe/internal/result"
	"loupe/internal/service"
)

func sampleOutcome() service.Outcome {
	issues := []result.Issue{
		{Severity: result.SeverityHigh, Title: "SQL built by string concatenation", File: "store/query.go", Line: 88},
		{Severity: result.SeverityLow, Title: "missing doc comment | exported type"},
	}
	return service.Outcome{Result: &result.Review{
		Score:          74,
		Issues:         issues,
		Counts:         result.ComputeCounts(issues),
		Recommendation: "merge after fixes",
		DurationMs:     950,
		Raw:            "# Code Review Report\n\nScore: 74",
	}}
}

func TestGetWriter(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"text", false},
		{"", false}, // default
		{"json", false},
		{"markdown", false},
		{"yaml", true},
	}
	for _, tt := range tests {
		_, err := GetWriter(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("GetWriter(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestJSONWriter_Success(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONWriter{}).Write(&buf, sampleOutcome()); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	var payload struct {
		OK     bool           `json:"ok"`
		Error  string         `json:"error"`
		Review *result.Review `json:"review"`
	}
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if !payload.OK {
		t.Error("ok = false for successful outcome")
	}
	if payload.Review == nil || payload.Review.Score != 74 {
		t.Errorf("review payload = %+v", payload.Review)
	}
	if payload.Error != "" {
		t.Errorf("error = %q, want empty", payload.Error)
	}
}

func TestJSONWriter_Failure(t *testing.T) {
	var buf bytes.Buffer
	out := service.Outcome{ErrorMessage: "code review failed: no change content obtained"}
	if err := (&JSONWriter{}).Write(&buf, out); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	if payload["ok"] != false {
		t.Error("ok must be false for failed outcome")
	}
	if payload["error"] != "code review failed: no change content obtained" {
		t.Errorf("error = %v", payload["error"])
	}
	if _, present := payload["review"]; present {
		t.Error("review must be omitted on failure")
	}
}

func TestTextWriter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TextWriter{}).Write(&buf, sampleOutcome()); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	got := buf.String()
	for _, want := range []string{
		"Score: 74/100",
		"Issues: 2 total",
		"1 high",
		"Recommendation: merge after fixes",
		"store/query.go:88",
		"▲ HIGH",
		"○ LOW",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("text output missing %q\n%s", want, got)
		}
	}
}

func TestTextWriter_NoIssues(t *testing.T) {
	var buf bytes.Buffer
	out := service.Outcome{Result: &result.Review{Score: 100}}
	if err := (&TextWriter{}).Write(&buf, out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "No issues found") {
		t.Errorf("output = %s", buf.String())
	}
}

func TestTextWriter_Failure(t *testing.T) {
	var buf bytes.Buffer
	out := service.Outcome{ErrorMessage: "code review failed: boom"}
	if err := (&TextWriter{}).Write(&buf, out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Review failed: code review failed: boom") {
		t.Errorf("output = %s", buf.String())
	}
}

func TestMarkdownWriter_PassesThroughRaw(t *testing.T) {
	var buf bytes.Buffer
	if err := (&MarkdownWriter{}).Write(&buf, sampleOutcome()); err != nil {
		t.Fatal(err)
	}
	got := buf.String()
	if !strings.HasPrefix(got, "# Code Review Report") {
		t.Error("raw provider report must lead the document")
	}
	if !strings.Contains(got, "**Parsed score**: 74/100") {
		t.Error("missing parsed footer")
	}
	if !strings.Contains(got, `missing doc comment \| exported type`) {
		t.Error("pipes inside issue titles must be escaped in the table")
	}
}

func TestMarkdownWriter_Failure(t *testing.T) {
	var buf bytes.Buffer
	out := service.Outcome{ErrorMessage: "code review failed: boom"}
	if err := (&MarkdownWriter{}).Write(&buf, out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "**Failed**: code review failed: boom") {
		t.Errorf("output = %s", buf.String())
	}
}

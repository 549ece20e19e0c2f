package cli

import (
	"testing"
)

func TestMaskKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"", "(not set)"},
		{"short", "*****"},
		{"12345678", "********"},
		{"sk-abcdef1234567890", "sk-a********7890"},
	}
	for _, tt := range tests {
		if got := maskKey(tt.key); got != tt.want {
			t.Errorf("maskKey(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestValueOrDash(t *testing.T) {
	if got := valueOrDash(""); got != "-" {
		t.Errorf("valueOrDash(\"\") = %q", got)
	}
	if got := valueOrDash("http://localhost:11434"); got != "http://localhost:11434" {
		t.Errorf("valueOrDash passthrough = %q", got)
	}
}

func TestBuildSubject(t *testing.T) {
	reset := func() {
		flagTitle, flagAuthor, flagSourceBranch, flagTargetBranch, flagDescription = "", "", "", "", ""
	}

	reset()
	if buildSubject() != nil {
		t.Error("no subject flags must yield a nil subject")
	}

	reset()
	flagTitle = "fix race in watcher"
	subj := buildSubject()
	if subj == nil || subj.Title != "fix race in watcher" {
		t.Errorf("subject = %+v", subj)
	}

	reset()
	flagSourceBranch = "feat/x"
	flagTargetBranch = "main"
	subj = buildSubject()
	if subj == nil || subj.SourceBranch != "feat/x" || subj.TargetBranch != "main" {
		t.Errorf("subject = %+v", subj)
	}
	reset()
}

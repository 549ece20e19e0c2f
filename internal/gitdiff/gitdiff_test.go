package gitdiff

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

// scriptRunner replays canned responses keyed by the joined git argv and
// records every invocation in order.
type scriptRunner struct {
	responses map[string]string
	errs      map[string]error
	calls     []string
}

func (r *scriptRunner) run(_ context.Context, _ string, _ time.Duration, args ...string) (string, error) {
	key := strings.Join(args, " ")
	r.calls = append(r.calls, key)
	if err, ok := r.errs[key]; ok {
		return "", err
	}
	if out, ok := r.responses[key]; ok {
		return out, nil
	}
	return "", fmt.Errorf("unexpected git invocation: %s", key)
}

func newEngine(r *scriptRunner) *Engine {
	return NewWithRunner(r.run, zap.NewNop())
}

func TestExtract_RepoNotFound(t *testing.T) {
	e := newEngine(&scriptRunner{})
	_, err := e.Extract(context.Background(), filepath.Join(t.TempDir(), "missing"), "")
	if !errors.Is(err, ErrRepoNotFound) {
		t.Fatalf("err = %v, want ErrRepoNotFound", err)
	}
}

func TestExtract_RangeProbeWins(t *testing.T) {
	r := &scriptRunner{
		responses: map[string]string{
			"rev-parse --abbrev-ref HEAD": "feature\n",
			"diff main..feature":          "diff --git a/x.go b/x.go\n+change\n",
		},
	}
	e := newEngine(r)

	out, err := e.Extract(context.Background(), t.TempDir(), "main..feature")
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if !strings.Contains(out, "+change") {
		t.Errorf("output = %q, want range diff content", out)
	}
	for _, call := range r.calls {
		if strings.HasPrefix(call, "log -p") {
			t.Error("later probes should not run after the first non-empty output")
		}
	}
}

func TestExtract_FixedOrderAndEarlyStop(t *testing.T) {
	// Only the third strategy (diff HEAD) yields output; 1-2 are attempted
	// and discarded, 4-5 never invoked.
	r := &scriptRunner{
		responses: map[string]string{
			"rev-parse --abbrev-ref HEAD": "feature\n",
			"diff main..feature":          "",
			"log -p -5":                   "",
			"diff HEAD":                   "working tree delta\n",
		},
	}
	e := newEngine(r)

	out, err := e.Extract(context.Background(), t.TempDir(), "main..feature")
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if out != "working tree delta\n" {
		t.Errorf("output = %q, want strategy-3 output verbatim", out)
	}

	want := []string{
		"rev-parse --abbrev-ref HEAD",
		"diff main..feature",
		"log -p -5",
		"diff HEAD",
	}
	if len(r.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", r.calls, want)
	}
	for i := range want {
		if r.calls[i] != want[i] {
			t.Errorf("calls[%d] = %q, want %q", i, r.calls[i], want[i])
		}
	}
}

func TestExtract_ProbeErrorsAreSwallowed(t *testing.T) {
	r := &scriptRunner{
		responses: map[string]string{
			"rev-parse --abbrev-ref HEAD": "feature\n",
			"diff HEAD~1 HEAD":            "last commit diff\n",
		},
		errs: map[string]error{
			"diff main..feature":  errors.New("bad revision"),
			"log -p -5":           errors.New("boom"),
			"diff HEAD":           errors.New("boom"),
			"diff origin/feature": errors.New("no upstream"),
		},
	}
	e := newEngine(r)

	out, err := e.Extract(context.Background(), t.TempDir(), "main..feature")
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if out != "last commit diff\n" {
		t.Errorf("output = %q, want final-strategy output", out)
	}
}

func TestExtract_InfersRangeFromRemoteHead(t *testing.T) {
	r := &scriptRunner{
		responses: map[string]string{
			"rev-parse --abbrev-ref HEAD": "feature\n",
			"remote show origin":          "* remote origin\n  HEAD branch: main\n",
			"diff main..feature":          "inferred range diff\n",
		},
	}
	e := newEngine(r)

	out, err := e.Extract(context.Background(), t.TempDir(), "")
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if out != "inferred range diff\n" {
		t.Errorf("output = %q, want inferred-range diff", out)
	}
}

func TestExtract_InferenceFailureIsNonFatal(t *testing.T) {
	r := &scriptRunner{
		responses: map[string]string{
			"rev-parse --abbrev-ref HEAD": "feature\n",
			"diff":                        "plain working tree diff\n",
		},
		errs: map[string]error{
			"remote show origin": errors.New("no remote"),
		},
	}
	e := newEngine(r)

	out, err := e.Extract(context.Background(), t.TempDir(), "")
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if out != "plain working tree diff\n" {
		t.Errorf("output = %q, want plain diff", out)
	}
}

func TestExtract_FallbackSummary(t *testing.T) {
	failAll := errors.New("nothing works")
	r := &scriptRunner{
		responses: map[string]string{
			"rev-parse --abbrev-ref HEAD": "main\n",
			"log -1 --pretty=%B":          "initial commit\n",
		},
		errs: map[string]error{
			"remote show origin": failAll,
			"diff":               failAll,
			"log -p -5":          failAll,
			"diff HEAD":          failAll,
			"diff origin/main":   failAll,
			"diff HEAD~1 HEAD":   failAll,
		},
	}
	e := newEngine(r)

	out, err := e.Extract(context.Background(), t.TempDir(), "")
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if !strings.Contains(out, "Current branch: main") {
		t.Errorf("summary missing branch: %q", out)
	}
	if !strings.Contains(out, "initial commit") {
		t.Errorf("summary missing latest commit: %q", out)
	}
}

func TestExtract_NoContext(t *testing.T) {
	failAll := errors.New("repository is broken")
	r := &scriptRunner{
		errs: map[string]error{
			"rev-parse --abbrev-ref HEAD": failAll,
			"remote show origin":          failAll,
			"diff":                        failAll,
			"log -p -5":                   failAll,
			"diff HEAD":                   failAll,
			"diff HEAD~1 HEAD":            failAll,
			"log -1 --pretty=%B":          failAll,
		},
	}
	e := newEngine(r)

	_, err := e.Extract(context.Background(), t.TempDir(), "")
	if !errors.Is(err, ErrNoContext) {
		t.Fatalf("err = %v, want ErrNoContext", err)
	}
}

func TestExtract_Idempotent(t *testing.T) {
	r := &scriptRunner{
		responses: map[string]string{
			"rev-parse --abbrev-ref HEAD": "feature\n",
			"diff main..feature":          "stable diff\n",
		},
	}
	e := newEngine(r)

	repo := t.TempDir()
	first, err := e.Extract(context.Background(), repo, "main..feature")
	if err != nil {
		t.Fatalf("first Extract error: %v", err)
	}
	second, err := e.Extract(context.Background(), repo, "main..feature")
	if err != nil {
		t.Fatalf("second Extract error: %v", err)
	}
	if first != second {
		t.Error("extraction should be idempotent over unchanged history")
	}
}

func TestTruncate(t *testing.T) {
	under := strings.Repeat("a", MaxContextChars)
	if got := Truncate(under); got != under {
		t.Error("content at the cap should be returned unmodified")
	}

	over := strings.Repeat("b", MaxContextChars+100)
	got := Truncate(over)
	if len(got) != MaxContextChars+len(TruncationMarker) {
		t.Errorf("len = %d, want cap plus marker", len(got))
	}
	if !strings.HasSuffix(got, TruncationMarker) {
		t.Error("truncated content must carry the in-band marker")
	}
}

func TestExtract_TruncatesLongDiff(t *testing.T) {
	r := &scriptRunner{
		responses: map[string]string{
			"rev-parse --abbrev-ref HEAD": "feature\n",
			"diff main..feature":          strings.Repeat("x", MaxContextChars*2),
		},
	}
	e := newEngine(r)

	out, err := e.Extract(context.Background(), t.TempDir(), "main..feature")
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if len(out) > MaxContextChars+len(TruncationMarker) {
		t.Errorf("len = %d, exceeds cap plus marker", len(out))
	}
	if !strings.HasSuffix(out, TruncationMarker) {
		t.Error("expected truncation marker")
	}
}

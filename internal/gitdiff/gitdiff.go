package gitdiff

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// MaxContextChars is the soft cap on extracted diff content. Longer
	// output is cut and marked in-band with TruncationMarker.
	MaxContextChars = 20000

	// TruncationMarker is appended when diff content exceeds the cap.
	TruncationMarker = "\n\n...(content truncated)"

	probeTimeout = 30 * time.Second
	metaTimeout  = 10 * time.Second
)

var (
	// ErrRepoNotFound indicates the repository path does not exist.
	ErrRepoNotFound = errors.New("repository not found")

	// ErrNoContext indicates no diff content and no repository summary
	// could be obtained.
	ErrNoContext = errors.New("no review context available")
)

var headBranchRe = regexp.MustCompile(`HEAD branch: (\S+)`)

// Runner executes git with the given arguments in dir, bounded by timeout,
// and returns combined stdout. Injectable so the fallback policy is testable
// without a real repository.
type Runner func(ctx context.Context, dir string, timeout time.Duration, args ...string) (string, error)

// probe is one extraction strategy: a named, idempotent git invocation.
// Probes are recreated per extraction attempt and tried in order.
type probe struct {
	label string
	args  []string
}

// Engine extracts a bounded code diff from a local repository using an
// ordered fallback chain of git probes.
type Engine struct {
	run    Runner
	logger *zap.Logger
}

// New creates an Engine backed by the real git binary.
func New(logger *zap.Logger) *Engine {
	return NewWithRunner(gitRun, logger)
}

// NewWithRunner creates an Engine with a custom command runner.
func NewWithRunner(run Runner, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{run: run, logger: logger}
}

// Extract produces review context for the repository. When commitRange is
// empty a range is inferred from the current branch and the remote default
// branch; inference failure is non-fatal. Probes run in fixed order and the
// first non-empty output wins. When every probe comes up empty a short
// repository summary is returned instead; only when even that fails does
// Extract return ErrNoContext.
func (e *Engine) Extract(ctx context.Context, repoPath, commitRange string) (string, error) {
	if _, err := os.Stat(repoPath); err != nil {
		return "", fmt.Errorf("%w: %s", ErrRepoNotFound, repoPath)
	}

	branch := e.currentBranch(ctx, repoPath)

	if commitRange == "" {
		if inferred := e.inferRange(ctx, repoPath, branch); inferred != "" {
			commitRange = inferred
			e.logger.Info("inferred commit range", zap.String("range", commitRange))
		}
	}

	for _, p := range buildProbes(commitRange, branch) {
		out, err := e.run(ctx, repoPath, probeTimeout, p.args...)
		if err != nil {
			e.logger.Warn("extraction probe failed",
				zap.String("probe", p.label), zap.Error(err))
			continue
		}
		if strings.TrimSpace(out) == "" {
			e.logger.Debug("extraction probe returned no output",
				zap.String("probe", p.label))
			continue
		}
		e.logger.Info("extraction probe succeeded",
			zap.String("probe", p.label), zap.Int("chars", len(out)))
		return Truncate(out), nil
	}

	e.logger.Warn("all extraction probes exhausted, falling back to repository summary")
	return e.summary(ctx, repoPath, branch)
}

// buildProbes returns the fixed, ordered strategy list. A probe whose
// precondition input is missing (no range, no branch) is skipped rather than
// invoked with malformed arguments.
func buildProbes(commitRange, branch string) []probe {
	var probes []probe
	if commitRange != "" {
		probes = append(probes, probe{"range diff", []string{"diff", commitRange}})
	} else {
		probes = append(probes, probe{"working tree diff", []string{"diff"}})
	}
	probes = append(probes,
		probe{"recent commits", []string{"log", "-p", "-5"}},
		probe{"diff against HEAD", []string{"diff", "HEAD"}},
	)
	if branch != "" {
		probes = append(probes, probe{"diff against upstream", []string{"diff", "origin/" + branch}})
	}
	probes = append(probes, probe{"last commit diff", []string{"diff", "HEAD~1", "HEAD"}})
	return probes
}

// inferRange derives "<default>..<current>" from the remote HEAD branch.
// Returns "" when either side cannot be determined.
func (e *Engine) inferRange(ctx context.Context, repoPath, branch string) string {
	if branch == "" {
		return ""
	}
	out, err := e.run(ctx, repoPath, metaTimeout, "remote", "show", "origin")
	if err != nil {
		e.logger.Warn("cannot determine remote default branch", zap.Error(err))
		return ""
	}
	m := headBranchRe.FindStringSubmatch(out)
	if m == nil {
		return ""
	}
	if m[1] == branch {
		return ""
	}
	return m[1] + ".." + branch
}

func (e *Engine) currentBranch(ctx context.Context, repoPath string) string {
	out, err := e.run(ctx, repoPath, metaTimeout, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		e.logger.Warn("cannot determine current branch", zap.Error(err))
		return ""
	}
	return strings.TrimSpace(out)
}

// summary builds the minimal repository description used when no diff is
// obtainable: current branch plus most recent commit message.
func (e *Engine) summary(ctx context.Context, repoPath, branch string) (string, error) {
	subject, err := e.run(ctx, repoPath, metaTimeout, "log", "-1", "--pretty=%B")
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNoContext, repoPath)
	}

	var b strings.Builder
	b.WriteString("# Repository status\n\n")
	fmt.Fprintf(&b, "- Current branch: %s\n", branch)
	fmt.Fprintf(&b, "- Latest commit: %s\n", strings.TrimSpace(subject))
	b.WriteString("- Note: no code change content could be extracted; check the repository state\n")
	return b.String(), nil
}

// Truncate enforces the context cap, appending the marker when content is cut.
// Output at or under the cap is returned unmodified.
func Truncate(s string) string {
	if len(s) <= MaxContextChars {
		return s
	}
	return s[:MaxContextChars] + TruncationMarker
}

func gitRun(ctx context.Context, dir string, timeout time.Duration, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return string(out), fmt.Errorf("git %s: %s: %s",
				strings.Join(args, " "), err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return string(out), nil
}

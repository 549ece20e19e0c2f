package providers

import (
	"context"

	"loupe/internal/config"
)

// mockReport is the canned review returned by the mock provider. It renders
// through the normal parse path so downstream behavior is exercised
// end to end without any network traffic.
const mockReport = `# Code Review Report

## Overview
- **Title**: mock review
- **Change type**: refactor
- **Risk level**: low
- **Overall score**: 85

## Findings
- [medium] Example finding from the mock provider - ` + "`example.go:42`" + ` - replace the magic number with a named constant
- [low] Example style note - ` + "`example.go:7`" + ` - exported function is missing a doc comment

## Conclusion
**Merge recommendation**: merge
`

// Mock is a deterministic no-op adapter for the mock provider
// configuration. Validation always passes and execution returns a fixed
// report without contacting anything.
type Mock struct{}

func newMock(_ config.ProviderConfig, _ Deps) (Adapter, error) {
	return &Mock{}, nil
}

func (m *Mock) Name() string { return "mock" }

func (m *Mock) Validate(ctx context.Context) error { return nil }

func (m *Mock) Execute(ctx context.Context, req ExecRequest) (ExecResult, error) {
	return ExecResult{Raw: mockReport, DurationMs: 1}, nil
}

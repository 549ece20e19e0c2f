package prompt

import (
	"fmt"
	"strings"
)

// Subject describes the change under review. All fields are caller-supplied
// and read-only; absent fields render as the placeholder.
type Subject struct {
	Title        string
	Author       string
	SourceBranch string
	TargetBranch string
	Description  string
}

const placeholder = "unknown"

// SystemInstruction is the fixed system role sent to hosted providers.
const SystemInstruction = "You are an expert code reviewer with deep experience finding defects and suggesting constructive, actionable improvements."

const reviewBody = `
**Review requirements**
Perform a thorough, well-structured analysis of this change and produce a
detailed review report. Point out problems and give concrete fixes, not
vague advice.

## Review dimensions

### 1. Security
- Authentication, authorization, session handling
- Input validation and boundary conditions
- Injection vulnerabilities (SQL, XSS, path traversal)
- Hardcoded secrets or leaked credentials

### 2. Code quality
- Architecture, module boundaries, naming
- Readability and consistency
- Complexity (nesting depth, function length)

### 3. Performance
- Algorithmic efficiency
- Database access patterns (N+1, missing indexes)
- Resource management and concurrency safety

### 4. Maintainability
- Single responsibility, abstraction, dependency direction
- Error handling and logging
- Test coverage and documentation

### 5. Business logic
- Requirement coverage and edge cases
- Data consistency and state management

## Required output format

Produce a markdown report with these sections:

# Code Review Report

## Overview
- **Title**: [change title]
- **Change type**: [feature/fix/refactor/optimization]
- **Risk level**: [high/medium/low/none]
- **Overall score**: [0-100]

## Findings
List each issue as a bullet with a severity marker and location:
- [critical|high|medium|low] Short title - ` + "`file:line`" + ` - description and fix

## Score breakdown

| Dimension | Score | Notes |
|-----------|-------|-------|
| Security | [0-25] | |
| Code quality | [0-25] | |
| Performance | [0-25] | |
| Maintainability | [0-25] | |
| **Total** | **[0-100]** | |

## Action items
- Must fix (P0): blocking issues
- Should fix (P1): important but not blocking
- Consider (P2): optimization suggestions

## Conclusion
**Merge recommendation**: [merge / merge after fixes / do not merge]

## Notes
1. Every finding must reference a concrete file path and line number.
2. Include before/after code examples where a fix is non-obvious.
3. Score objectively from the actual code, not the description.
`

// Build renders the diff-free review prompt for providers that derive their
// own repository context (CLI tool, local service).
func Build(subject Subject) string {
	var b strings.Builder
	writeHeader(&b, subject)
	b.WriteString(reviewBody)
	return b.String()
}

// BuildWithDiff renders the full prompt with the code change embedded as a
// fenced diff block, for hosted providers with no filesystem access.
func BuildWithDiff(subject Subject, diff string) string {
	var b strings.Builder
	writeHeader(&b, subject)
	b.WriteString(reviewBody)
	b.WriteString("\n## Code changes\n\n```diff\n")
	b.WriteString(diff)
	b.WriteString("\n```\n")
	return b.String()
}

// Default renders the fallback prompt used when no subject metadata is
// available: a short review instruction plus the fenced diff.
func Default(diff string) string {
	var b strings.Builder
	b.WriteString("Please review the following code changes carefully, focusing on:\n")
	b.WriteString("1. Code quality and best practices\n")
	b.WriteString("2. Potential bugs and security issues\n")
	b.WriteString("3. Performance optimization opportunities\n")
	b.WriteString("4. Style and readability\n\n")
	b.WriteString("Provide concrete improvement suggestions.\n")
	b.WriteString("\n## Code changes\n\n```diff\n")
	b.WriteString(diff)
	b.WriteString("\n```\n")
	return b.String()
}

func writeHeader(b *strings.Builder, s Subject) {
	b.WriteString("Please perform a detailed code review of this merge request:\n\n")
	b.WriteString("**Merge request**\n")
	fmt.Fprintf(b, "- Title: %s\n", orPlaceholder(s.Title))
	fmt.Fprintf(b, "- Author: %s\n", orPlaceholder(s.Author))
	fmt.Fprintf(b, "- Source branch: %s\n", orPlaceholder(s.SourceBranch))
	fmt.Fprintf(b, "- Target branch: %s\n", orPlaceholder(s.TargetBranch))
	if s.Description != "" {
		fmt.Fprintf(b, "- Description: %s\n", s.Description)
	}
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return s
}

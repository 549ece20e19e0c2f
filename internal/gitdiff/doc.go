// Package gitdiff extracts bounded code change content from a local git
// repository for review.
//
// Extraction is an ordered fold over a fixed probe list: range diff, recent
// commit log, working tree vs HEAD, upstream tracking diff, last commit
// diff. Probe failures are logged and swallowed so that later strategies
// still run; the first non-empty output is truncated to the context cap and
// returned. When no probe yields anything, a terse repository summary stands
// in, degrading review quality gracefully instead of failing hard.
package gitdiff

// Package service is the dispatch controller for review requests.
//
// A Service loads its provider configuration exactly once at construction
// (missing configuration is fatal) and routes each Review call through the
// selected adapter: repository precondition, adapter validation, diff
// extraction for hosted providers, prompt resolution, timed execution, and
// result parsing. The Review boundary converts every failure mode into a
// human-readable error message; callers always receive exactly one of a
// structured result or an error string, never a raised fault.
package service

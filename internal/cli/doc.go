// Package cli implements the loupe command-line interface.
//
// Commands: review (run a review through the configured provider), config
// (show the active provider entry), version. Exit codes are deterministic:
// 0 success, 1 review failed, 2 usage error, 3 configuration error,
// 4 runtime error.
package cli

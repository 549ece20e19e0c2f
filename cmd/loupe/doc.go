// Loupe reviews code changes with a configured LLM provider.
//
// It extracts a bounded diff from a local repository with an ordered
// fallback chain, assembles a structured review prompt, dispatches to the
// provider's adapter (claude CLI, local ollama service, or a hosted API),
// and prints the parsed review.
//
// Usage:
//
//	loupe review --repo . --range main..HEAD
//	loupe review --repo . --title "Add cache layer" --author ada
//	loupe review --repo . --prompt-file custom.md --format json
//	loupe config
package main

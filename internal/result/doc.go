// Package result defines the structured review outcome and the parser that
// produces it from raw provider output.
//
// The dispatch layer treats parsing as a collaborator behind the [Parser]
// interface; [MarkdownParser] is the default implementation, which scrapes
// the score, issue list, and merge recommendation out of the markdown report
// the review prompt asks providers to emit.
package result

// Package prompt assembles review prompts from change metadata.
//
// Both variants render the same structured template (overview, review
// dimensions, required output schema, scoring rubric, action-item tiers);
// [BuildWithDiff] additionally embeds the extracted diff as a fenced block
// for providers with no repository access of their own. Assembly is pure:
// no I/O, deterministic given inputs.
package prompt

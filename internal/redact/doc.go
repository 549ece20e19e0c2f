// Package redact removes secrets from extracted diff content before it is
// embedded into a hosted-provider prompt. Detection uses regex heuristics
// covering common secret shapes: API keys, JWTs, private key blocks, AWS
// credentials, bearer tokens, and provider-specific token formats. Local
// providers read the repository themselves, so nothing passes through here
// for them.
package redact

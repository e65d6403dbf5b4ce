// Package redact removes secrets from bundle content before it is sent to
// any LLM provider.
//
// Detection uses regex heuristics covering common secret shapes: API keys,
// JWTs, private keys, AWS access key IDs and secret access keys, bearer
// tokens, database connection strings, and provider-specific tokens
// (Anthropic, OpenAI, Google, GitHub, Slack).
//
// Path-based redaction is also supported: files whose paths match configured
// glob patterns are withheld from the bundle entirely rather than being
// scanned line by line. Audits ship whole files off the machine, so
// scrubbing is on by default.
package redact

// Package audit contains the engine that runs a checklist against a
// source bundle.
//
// It assembles prompts from checklist rules and numbered file listings,
// calls an LLM provider, and validates the JSON responses into issue
// records. Malformed responses get exactly one repair round-trip before
// the chunk fails.
//
// Large bundles are split into chunks that never divide a file and are
// audited in parallel with bounded concurrency; results merge in chunk
// order, then records are deduplicated and sorted by severity.
package audit

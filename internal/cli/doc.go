// Package cli wires together the Cobra command tree for the auditmd binary.
//
// It defines the root command and all subcommands (audit, validate, review,
// checklists, config, models, cache, hook, version), binds flags, reads
// configuration, invokes the audit engine, and returns deterministic exit
// codes for CI gating.
package cli

// Auditmd runs Markdown audit checklists against a codebase with LLM providers.
//
// It ships built-in checklists for accessibility, security, and dependency
// architecture audits, validates every returned issue record against a strict
// JSON schema, and emits reports with deterministic exit codes suitable for CI
// gating and git hooks.
//
// Usage:
//
//	auditmd audit .                                # audit the current directory
//	auditmd audit --checklist security --since HEAD  # audit changed files only
//	auditmd audit --interactive                    # approve records before export
//	auditmd validate report.json                   # validate issue records
//	auditmd checklists list                        # list built-in checklists
//
// See https://github.com/auditmd/auditmd for full documentation.
package main

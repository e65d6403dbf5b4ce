// Package export formats audit reports for display or machine consumption.
//
// Four formats are supported:
//   - text     — human-readable terminal output (default)
//   - json     — full structured JSON report, record order frozen
//   - markdown — PR-comment-friendly with collapsible sections per severity
//   - sarif    — SARIF v2.1.0 for upload to GitHub Advanced Security and other CI tools
//
// Use [GetWriter] to obtain a [Writer] for a given format string, then call
// [Writer.Write] with an [io.Writer] and a [*record.Report]. [WriteReport]
// is a convenience helper that handles destination selection.
package export

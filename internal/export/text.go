package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/auditmd/auditmd/internal/record"
)

// TextWriter outputs a human-readable text report.
type TextWriter struct{}

func (t *TextWriter) Write(w io.Writer, report *record.Report) error {
	ew := &errWriter{w: w}

	total := report.Summary.Counts.Total()
	ew.printf("auditmd — %s audit\n", report.Checklist)
	ew.printf("Target: %s\n", report.Target)
	ew.println(strings.Repeat("─", 60))
	ew.printf("Findings: %d total", total)
	if total > 0 {
		ew.printf(" (%d critical, %d serious, %d moderate, %d minor)",
			report.Summary.Counts.Critical,
			report.Summary.Counts.Serious,
			report.Summary.Counts.Moderate,
			report.Summary.Counts.Minor,
		)
	}
	ew.println("")
	if len(report.Rejected) > 0 {
		ew.printf("Rejected records: %d (see json output for reasons)\n", len(report.Rejected))
	}
	ew.println(strings.Repeat("─", 60))

	if total == 0 {
		ew.println("\nNo issues found. Looks good!")
		return ew.err
	}

	grouped := groupBySeverity(report.Records)
	for _, sev := range record.Severities {
		records := grouped[sev]
		if len(records) == 0 {
			continue
		}

		label := strings.ToUpper(string(sev))
		ew.printf("\n%s %s\n", severityIcon(sev), label)
		ew.println(strings.Repeat("─", 40))

		for _, r := range records {
			ew.printf("\n  %s  [%s]\n", r.Location, r.Issue)
			for _, line := range wrapText(r.Description, 70) {
				ew.printf("    %s\n", line)
			}
			if len(r.WCAG) > 0 {
				ew.printf("    WCAG: %s\n", strings.Join(r.WCAG, ", "))
			}
			ew.printf("  Fix (%s effort):\n", r.Fix.Effort)
			ew.printf("    - %s\n", indentContinuation(r.Fix.Before, 6))
			ew.printf("    + %s\n", indentContinuation(r.Fix.After, 6))
			for _, cmd := range r.Commands {
				ew.printf("    $ %s\n", cmd)
			}
		}
	}

	ew.printf("\n%s\n", strings.Repeat("─", 60))
	ew.printf("Completed in %dms (collect: %dms, LLM: %dms)\n",
		report.Timing.TotalMs, report.Timing.CollectMs, report.Timing.LLMMs)

	return ew.err
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}

func groupBySeverity(records []record.Record) map[record.Severity][]record.Record {
	m := make(map[record.Severity][]record.Record)
	for _, r := range records {
		m[r.Severity] = append(m[r.Severity], r)
	}
	return m
}

func severityIcon(s record.Severity) string {
	switch s {
	case record.SeverityCritical:
		return "[!!]"
	case record.SeveritySerious:
		return "[!]"
	case record.SeverityModerate:
		return "[~]"
	case record.SeverityMinor:
		return "[-]"
	default:
		return "[?]"
	}
}

// indentContinuation keeps multi-line snippets aligned under their marker.
func indentContinuation(s string, indent int) string {
	pad := "\n" + strings.Repeat(" ", indent)
	return strings.ReplaceAll(s, "\n", pad)
}

func wrapText(text string, width int) []string {
	if len(text) <= width {
		return []string{text}
	}
	var lines []string
	words := strings.Fields(text)
	var current strings.Builder
	for _, word := range words {
		if current.Len()+len(word)+1 > width && current.Len() > 0 {
			lines = append(lines, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}

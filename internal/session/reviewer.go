package session

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/auditmd/auditmd/internal/record"
)

// Reviewer walks a draft's pending records and collects human
// decisions. Input and output are injected so tests can script a
// session.
type Reviewer struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewReviewer creates a reviewer reading decisions from in.
func NewReviewer(in io.Reader, out io.Writer) *Reviewer {
	return &Reviewer{
		scanner: bufio.NewScanner(in),
		out:     out,
	}
}

// Run presents each pending or skipped record and applies the decision.
// It returns true if the user quit early, leaving the rest pending.
func (r *Reviewer) Run(d *Draft) (bool, error) {
	total := len(d.Items)
	for i := range d.Items {
		item := &d.Items[i]
		if item.Status != StatusPending && item.Status != StatusSkipped {
			continue
		}

		r.printRecord(i+1, total, item.Record)

		for {
			fmt.Fprint(r.out, "\n[a]pprove  [r]eject  [e]dit  [s]kip  [q]uit > ")
			input, ok := r.readLine()
			if !ok {
				return true, nil
			}

			switch strings.ToLower(strings.TrimSpace(input)) {
			case "a", "approve":
				item.Status = StatusApproved
			case "r", "reject":
				item.Status = StatusRejected
			case "e", "edit":
				if err := r.edit(item); err != nil {
					fmt.Fprintf(r.out, "  %v\n", err)
					continue
				}
				item.Status = StatusApproved
			case "s", "skip":
				item.Status = StatusSkipped
			case "q", "quit":
				return true, nil
			default:
				fmt.Fprintln(r.out, "  unrecognized choice")
				continue
			}
			break
		}
	}
	return false, nil
}

func (r *Reviewer) printRecord(n, total int, rec record.Record) {
	fmt.Fprintf(r.out, "\n─── Record %d/%d ───────────────────────────────\n", n, total)
	fmt.Fprintf(r.out, "Issue:    %s\n", rec.Issue)
	fmt.Fprintf(r.out, "Severity: %s\n", rec.Severity)
	fmt.Fprintf(r.out, "Location: %s\n", rec.Location)
	if len(rec.WCAG) > 0 {
		fmt.Fprintf(r.out, "WCAG:     %s\n", strings.Join(rec.WCAG, ", "))
	}
	fmt.Fprintf(r.out, "\n%s\n", rec.Description)
	fmt.Fprintf(r.out, "\nFix (%s effort):\n  - %s\n  + %s\n", rec.Fix.Effort, rec.Fix.Before, rec.Fix.After)
	for _, cmd := range rec.Commands {
		fmt.Fprintf(r.out, "  $ %s\n", cmd)
	}
}

// edit prompts for replacement values. Blank input keeps the current
// value.
func (r *Reviewer) edit(item *Item) error {
	rec := item.Record

	fmt.Fprintf(r.out, "Severity [%s]: ", rec.Severity)
	if input, ok := r.readLine(); ok && strings.TrimSpace(input) != "" {
		sev := record.Severity(strings.TrimSpace(input))
		if !record.ValidSeverity(sev) {
			return fmt.Errorf("severity must be one of Critical, Serious, Moderate, Minor")
		}
		rec.Severity = sev
	}

	fmt.Fprintf(r.out, "Effort [%s]: ", rec.Fix.Effort)
	if input, ok := r.readLine(); ok && strings.TrimSpace(input) != "" {
		eff := record.Effort(strings.TrimSpace(input))
		if !record.ValidEffort(eff) {
			return fmt.Errorf("effort must be one of Low, Medium, High")
		}
		rec.Fix.Effort = eff
	}

	fmt.Fprint(r.out, "Description (blank keeps current): ")
	if input, ok := r.readLine(); ok && strings.TrimSpace(input) != "" {
		rec.Description = strings.TrimSpace(input)
	}

	item.Record = rec
	item.Edited = true
	return nil
}

func (r *Reviewer) readLine() (string, bool) {
	if !r.scanner.Scan() {
		return "", false
	}
	return r.scanner.Text(), true
}

package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/auditmd/auditmd/internal/record"
)

// Status is the human decision on a draft record.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusSkipped  Status = "skipped"
)

// Item pairs a record with its review decision. Edits replace the
// record in place; the engine output is not kept separately.
type Item struct {
	Record record.Record `json:"record"`
	Status Status        `json:"status"`
	Edited bool          `json:"edited,omitempty"`
}

// Draft is a persisted review session. It carries the full engine
// report so a frozen export needs nothing beyond the draft file.
type Draft struct {
	Report  record.Report `json:"report"`
	Items   []Item        `json:"items"`
	SavedAt time.Time     `json:"savedAt"`
}

// DefaultPath returns the session file location for a target directory.
func DefaultPath(target string) string {
	return filepath.Join(target, ".auditmd-session.json")
}

// NewDraft wraps an engine report in a fresh draft with every record
// pending.
func NewDraft(report *record.Report) *Draft {
	d := &Draft{Report: *report}
	for _, r := range report.Records {
		d.Items = append(d.Items, Item{Record: r, Status: StatusPending})
	}
	return d
}

// LoadDraft reads a draft from a session file.
func LoadDraft(path string) (*Draft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading session file: %w", err)
	}
	var d Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parsing session file: %w", err)
	}
	return &d, nil
}

// Save writes the draft to path.
func (d *Draft) Save(path string) error {
	d.SavedAt = time.Now().UTC()
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}
	return nil
}

// Pending returns the number of records still awaiting a decision.
// Skipped records count as pending: a resume revisits them.
func (d *Draft) Pending() int {
	n := 0
	for _, item := range d.Items {
		if item.Status == StatusPending || item.Status == StatusSkipped {
			n++
		}
	}
	return n
}

// Approved returns the approved records in draft order.
func (d *Draft) Approved() []record.Record {
	var out []record.Record
	for _, item := range d.Items {
		if item.Status == StatusApproved {
			out = append(out, item.Record)
		}
	}
	return out
}

// Freeze produces the final report from the approved records. Record
// order follows the draft, which preserved the engine's severity
// ordering; the summary is recomputed so edits count correctly.
func (d *Draft) Freeze() *record.Report {
	report := d.Report
	report.Records = d.Approved()
	if report.Records == nil {
		report.Records = []record.Record{}
	}
	report.Summary = record.ComputeSummary(report.Records)
	return &report
}

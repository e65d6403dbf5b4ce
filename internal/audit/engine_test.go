package audit

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/auditmd/auditmd/internal/checklist"
	"github.com/auditmd/auditmd/internal/providers"
	"github.com/auditmd/auditmd/internal/record"
	"github.com/auditmd/auditmd/internal/source"
)

const testChecklistDoc = `---
domain: security
title: Test Security Checklist
---

## Rules

### SEC-001: No hardcoded secrets

- Check: no credentials in source.
- Pattern: long literals assigned to key-like names.
- False positives: documented placeholders.
- Fix: read from the environment.
`

func testChecklist(t *testing.T) *checklist.Checklist {
	t.Helper()
	c, err := checklist.Parse([]byte(testChecklistDoc))
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func testBundle(files map[string]string) source.Bundle {
	var b source.Bundle
	for path, text := range files {
		b.Sections = append(b.Sections, source.Section{Path: path, Text: text})
		b.Files = append(b.Files, path)
		b.Bytes += len(text)
	}
	return b
}

// fakeProvider returns scripted responses in call order.
type fakeProvider struct {
	responses []string
	err       error
	calls     atomic.Int32
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Audit(_ context.Context, _ providers.Request) (providers.Response, error) {
	n := int(f.calls.Add(1)) - 1
	if f.err != nil {
		return providers.Response{}, f.err
	}
	if n >= len(f.responses) {
		n = len(f.responses) - 1
	}
	return providers.Response{Content: f.responses[n], TokensUsed: 1}, nil
}

func recordJSON(issue, severity, location string) string {
	return fmt.Sprintf(`{"issue":%q,"severity":%q,"location":%q,"description":"d","fix":{"before":"b","after":"a","effort":"Low"}}`,
		issue, severity, location)
}

func TestRun(t *testing.T) {
	provider := &fakeProvider{responses: []string{
		"[" + recordJSON("sec-1", "Critical", "a.go:3") + "," + recordJSON("sec-2", "Minor", "a.go:9") + "]",
	}}

	report, err := Run(context.Background(), testBundle(map[string]string{"a.go": "==== a.go ====\n    1| x\n"}), Params{
		Provider:  provider,
		Model:     "m",
		Checklist: testChecklist(t),
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.Tool != "auditmd" || report.Checklist != "security" {
		t.Errorf("report header = %+v", report)
	}
	if len(report.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(report.Records))
	}
	if report.Records[0].Issue != "sec-1" {
		t.Errorf("expected Critical record first, got %+v", report.Records[0])
	}
	if report.Summary.Counts.Critical != 1 || report.Summary.Counts.Minor != 1 {
		t.Errorf("summary = %+v", report.Summary)
	}
	if report.Summary.HighestSeverity != record.SeverityCritical {
		t.Errorf("HighestSeverity = %q", report.Summary.HighestSeverity)
	}
	if report.RunID == "" {
		t.Error("missing run id")
	}
}

func TestRun_RejectsMalformedWithoutAborting(t *testing.T) {
	provider := &fakeProvider{responses: []string{
		`[` + recordJSON("ok-1", "Serious", "a.go:1") + `,{"issue":"bad-1","severity":"Urgent","description":"d"}]`,
	}}

	report, err := Run(context.Background(), testBundle(map[string]string{"a.go": "text"}), Params{
		Provider:  provider,
		Checklist: testChecklist(t),
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(report.Records) != 1 || report.Records[0].Issue != "ok-1" {
		t.Errorf("records = %+v", report.Records)
	}
	if len(report.Rejected) != 1 {
		t.Fatalf("rejected = %+v", report.Rejected)
	}
	reasons := strings.Join(report.Rejected[0].Reasons, "; ")
	if !strings.Contains(reasons, "severity not in enumerated set") ||
		!strings.Contains(reasons, "missing required field: location") {
		t.Errorf("reasons = %q", reasons)
	}
}

func TestRun_RepairPass(t *testing.T) {
	provider := &fakeProvider{responses: []string{
		"Sorry, here are the findings: not json",
		"[" + recordJSON("r-1", "Moderate", "a.go:2") + "]",
	}}

	report, err := Run(context.Background(), testBundle(map[string]string{"a.go": "text"}), Params{
		Provider:  provider,
		Checklist: testChecklist(t),
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if provider.calls.Load() != 2 {
		t.Errorf("calls = %d, want 2 (original + repair)", provider.calls.Load())
	}
	if len(report.Records) != 1 {
		t.Errorf("records = %+v", report.Records)
	}
}

func TestRun_RepairFailsTwice(t *testing.T) {
	provider := &fakeProvider{responses: []string{"not json", "still not json"}}

	_, err := Run(context.Background(), testBundle(map[string]string{"a.go": "text"}), Params{
		Provider:  provider,
		Checklist: testChecklist(t),
	})
	if err == nil || !strings.Contains(err.Error(), "after repair") {
		t.Errorf("err = %v, want repair failure", err)
	}
}

func TestRun_EmptyBundle(t *testing.T) {
	report, err := Run(context.Background(), source.Bundle{}, Params{
		Provider:  &fakeProvider{responses: []string{"[]"}},
		Checklist: testChecklist(t),
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(report.Records) != 0 {
		t.Errorf("records = %+v, want none", report.Records)
	}
}

func TestRun_MaxFindings(t *testing.T) {
	provider := &fakeProvider{responses: []string{
		"[" + recordJSON("r-1", "Critical", "a.go:1") + "," +
			recordJSON("r-2", "Critical", "a.go:2") + "," +
			recordJSON("r-3", "Minor", "a.go:3") + "]",
	}}

	report, err := Run(context.Background(), testBundle(map[string]string{"a.go": "text"}), Params{
		Provider:    provider,
		Checklist:   testChecklist(t),
		MaxFindings: 2,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(report.Records) != 2 {
		t.Errorf("got %d records, want 2", len(report.Records))
	}
	// The cap keeps the most severe records.
	for _, r := range report.Records {
		if r.Severity != record.SeverityCritical {
			t.Errorf("record %s severity = %q, want Critical", r.Issue, r.Severity)
		}
	}
}

func TestRun_CrossChunkIDCollision(t *testing.T) {
	// Providers are only told to keep ids unique within one response.
	// The same id coming back from two chunks is two distinct findings:
	// the second gets renamed, neither is rejected.
	provider := &fakeProvider{responses: []string{
		"[" + recordJSON("sec-1", "Serious", "a.go:1") + "]",
		"[" + recordJSON("sec-1", "Serious", "b.go:2") + "]",
	}}

	bundle := source.Bundle{
		Files: []string{"a.go", "b.go"},
		Sections: []source.Section{
			{Path: "a.go", Text: "==== a.go ====\n"},
			{Path: "b.go", Text: "==== b.go ====\n"},
		},
		Bytes: 30,
	}

	report, err := Run(context.Background(), bundle, Params{
		Provider:      provider,
		Checklist:     testChecklist(t),
		MaxChunkBytes: 16, // forces one chunk per file
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if provider.calls.Load() != 2 {
		t.Fatalf("calls = %d, want 2 chunks", provider.calls.Load())
	}

	if len(report.Rejected) != 0 {
		t.Fatalf("rejected = %+v, want none", report.Rejected)
	}
	if len(report.Records) != 2 {
		t.Fatalf("got %d records, want 2: %+v", len(report.Records), report.Records)
	}
	ids := map[string]bool{}
	for _, r := range report.Records {
		ids[r.Issue] = true
	}
	if !ids["sec-1"] || !ids["sec-1-2"] {
		t.Errorf("ids = %v, want sec-1 and sec-1-2", ids)
	}
}

func TestDedupe(t *testing.T) {
	records := []record.Record{
		{Issue: "x", Location: "a.go:1", Description: "d"},
		{Issue: "x", Location: "a.go:1", Description: "d"},  // exact duplicate
		{Issue: "x", Location: "b.go:2", Description: "d2"}, // id collision, distinct finding
	}
	out := dedupe(records)
	if len(out) != 2 {
		t.Fatalf("got %d records, want 2: %+v", len(out), out)
	}
	if out[0].Issue != "x" || out[1].Issue != "x-2" {
		t.Errorf("ids = %q, %q", out[0].Issue, out[1].Issue)
	}
}

func TestSortRecords(t *testing.T) {
	records := []record.Record{
		{Issue: "c", Severity: record.SeverityMinor, Location: "z.go:1"},
		{Issue: "b", Severity: record.SeverityCritical, Location: "b.go:5"},
		{Issue: "a", Severity: record.SeverityCritical, Location: "a.go:9"},
	}
	sortRecords(records)
	if records[0].Issue != "a" || records[1].Issue != "b" || records[2].Issue != "c" {
		t.Errorf("order = %s, %s, %s", records[0].Issue, records[1].Issue, records[2].Issue)
	}
}

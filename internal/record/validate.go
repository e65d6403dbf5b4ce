package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Verdict is the validation outcome for one candidate record.
type Verdict struct {
	Index   int      `json:"index"`
	Valid   bool     `json:"valid"`
	Record  Record   `json:"record,omitempty"`
	Reasons []string `json:"reasons,omitempty"`
}

// requiredKeys are the top-level keys every record must carry.
var requiredKeys = []string{"issue", "severity", "location", "description", "fix"}

// requiredFixKeys are the keys required inside the fix object.
var requiredFixKeys = []string{"before", "after", "effort"}

// ValidateDocument validates a JSON document containing candidate issue
// records. The document may be a bare JSON array of records or a report
// envelope with a top-level "records" array. Validation is pure: the
// input is never mutated and no I/O is performed.
func ValidateDocument(data []byte) ([]Verdict, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty document")
	}

	var items []json.RawMessage
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("invalid JSON array: %w", err)
		}
	case '{':
		var envelope struct {
			Records []json.RawMessage `json:"records"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, fmt.Errorf("invalid JSON object: %w", err)
		}
		if envelope.Records == nil {
			return nil, fmt.Errorf("document is an object without a \"records\" array")
		}
		items = envelope.Records
	default:
		return nil, fmt.Errorf("document must be a JSON array or object")
	}

	return ValidateSequence(items), nil
}

// ValidateSequence validates each candidate in order. A malformed record
// never aborts the run: every candidate receives a verdict, and every
// verdict carries all violations found, not just the first. Issue
// identifiers must be unique within the sequence; later duplicates are
// rejected.
func ValidateSequence(items []json.RawMessage) []Verdict {
	verdicts := make([]Verdict, 0, len(items))
	seen := make(map[string]int)

	for i, raw := range items {
		rec, reasons := validateItem(raw)

		if rec.Issue != "" {
			if first, dup := seen[rec.Issue]; dup {
				reasons = append(reasons, fmt.Sprintf("duplicate issue id %q (first seen at index %d)", rec.Issue, first))
			} else {
				seen[rec.Issue] = i
			}
		}

		verdicts = append(verdicts, Verdict{
			Index:   i,
			Valid:   len(reasons) == 0,
			Record:  rec,
			Reasons: reasons,
		})
	}

	return verdicts
}

func validateItem(raw json.RawMessage) (Record, []string) {
	var reasons []string

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Record{}, []string{"record is not a JSON object"}
	}

	for _, key := range requiredKeys {
		if _, ok := fields[key]; !ok {
			reasons = append(reasons, "missing required field: "+key)
		}
	}

	if fixRaw, ok := fields["fix"]; ok {
		var fixFields map[string]json.RawMessage
		if err := json.Unmarshal(fixRaw, &fixFields); err != nil {
			reasons = append(reasons, "fix is not a JSON object")
		} else {
			for _, key := range requiredFixKeys {
				if _, ok := fixFields[key]; !ok {
					reasons = append(reasons, "missing required field: fix."+key)
				}
			}
		}
	}

	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		reasons = append(reasons, "record has mistyped fields: "+err.Error())
		return rec, reasons
	}

	if _, ok := fields["issue"]; ok && strings.TrimSpace(rec.Issue) == "" {
		reasons = append(reasons, "empty issue id")
	}
	if _, ok := fields["location"]; ok && strings.TrimSpace(rec.Location) == "" {
		reasons = append(reasons, "empty location")
	}
	if _, ok := fields["description"]; ok && strings.TrimSpace(rec.Description) == "" {
		reasons = append(reasons, "empty description")
	}
	if _, ok := fields["severity"]; ok && !ValidSeverity(rec.Severity) {
		reasons = append(reasons, "severity not in enumerated set")
	}
	if fixRaw, ok := fields["fix"]; ok {
		var fixFields map[string]json.RawMessage
		if json.Unmarshal(fixRaw, &fixFields) == nil {
			if _, ok := fixFields["effort"]; ok && !ValidEffort(rec.Fix.Effort) {
				reasons = append(reasons, "fix.effort not in enumerated set")
			}
		}
	}

	return rec, reasons
}

// Rejections converts the failed verdicts of a sequence into report rejections.
func Rejections(verdicts []Verdict) []Rejection {
	var out []Rejection
	for _, v := range verdicts {
		if v.Valid {
			continue
		}
		out = append(out, Rejection{
			Index:   v.Index,
			Issue:   v.Record.Issue,
			Reasons: v.Reasons,
		})
	}
	return out
}

// ValidRecords returns the records of the passing verdicts, in order.
func ValidRecords(verdicts []Verdict) []Record {
	var out []Record
	for _, v := range verdicts {
		if v.Valid {
			out = append(out, v.Record)
		}
	}
	return out
}

// ResolveLocation checks that a file[:line] location resolves to a real
// source position under root. Selector-style locations (CSS selectors,
// DOM paths) cannot be resolved against the filesystem and pass
// unchecked. Used by strict validation only; schema validation never
// touches the filesystem.
func ResolveLocation(root, location string) error {
	path, line := SplitLocation(location)
	if path == "" || looksLikeSelector(path) {
		return nil
	}

	full := filepath.Join(root, filepath.FromSlash(path))
	data, err := os.ReadFile(full)
	if err != nil {
		return fmt.Errorf("location %q does not resolve: %w", location, err)
	}

	if line > 0 {
		count := bytes.Count(data, []byte{'\n'}) + 1
		if line > count {
			return fmt.Errorf("location %q line %d exceeds file length %d", location, line, count)
		}
	}
	return nil
}

// SplitLocation splits a "file:line" location into its parts. The line
// is 0 when absent or not numeric.
func SplitLocation(location string) (path string, line int) {
	idx := strings.LastIndex(location, ":")
	if idx < 0 {
		return location, 0
	}
	n, err := strconv.Atoi(location[idx+1:])
	if err != nil || n < 1 {
		return location, 0
	}
	return location[:idx], n
}

func looksLikeSelector(s string) bool {
	if strings.ContainsAny(s, "#>[] ") {
		return true
	}
	// ".modal-close" style class selectors have no path component
	return strings.HasPrefix(s, ".") && !strings.Contains(s, "/")
}

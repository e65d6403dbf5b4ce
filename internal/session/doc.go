// Package session implements interactive review of audit records.
//
// A [Draft] wraps an engine report with a per-record decision status and
// persists to a JSON session file, so a review can stop partway and
// resume later. The [Reviewer] walks pending records, prompting for
// approve, reject, edit, or skip; [Draft.Freeze] then produces the
// final report from the approved records with the summary recomputed.
package session

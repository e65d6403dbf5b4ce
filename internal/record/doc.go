// Package record defines the issue record data model and its validator.
//
// An issue record is the unit of audit output: a uniquely identified
// finding with a severity, a location, a description, and a concrete
// fix. [ValidateDocument] and [ValidateSequence] check candidate
// records against the schema, producing a per-record [Verdict] that
// lists every reason a record was rejected. Validation never aborts a
// sequence: valid records survive invalid neighbors.
package record

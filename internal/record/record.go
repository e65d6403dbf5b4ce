package record

// Severity is the impact ranking of an issue record.
type Severity string

const (
	SeverityCritical Severity = "Critical"
	SeveritySerious  Severity = "Serious"
	SeverityModerate Severity = "Moderate"
	SeverityMinor    Severity = "Minor"
)

// Severities lists the enumerated severity values, most severe first.
var Severities = []Severity{SeverityCritical, SeveritySerious, SeverityModerate, SeverityMinor}

// SeverityRank returns a numeric rank for sorting (higher = more severe).
func SeverityRank(s Severity) int {
	switch s {
	case SeverityCritical:
		return 4
	case SeveritySerious:
		return 3
	case SeverityModerate:
		return 2
	case SeverityMinor:
		return 1
	default:
		return 0
	}
}

// MeetsThreshold returns true if severity is at or above the threshold.
// A threshold of "none" or "" never matches.
func MeetsThreshold(s Severity, threshold string) bool {
	if threshold == "none" || threshold == "" {
		return false
	}
	return SeverityRank(s) >= SeverityRank(Severity(threshold))
}

// Effort is the estimated remediation cost of a fix.
type Effort string

const (
	EffortLow    Effort = "Low"
	EffortMedium Effort = "Medium"
	EffortHigh   Effort = "High"
)

// Efforts lists the enumerated effort values.
var Efforts = []Effort{EffortLow, EffortMedium, EffortHigh}

// ValidEffort reports whether e is a member of the enumerated set.
func ValidEffort(e Effort) bool {
	switch e {
	case EffortLow, EffortMedium, EffortHigh:
		return true
	}
	return false
}

// ValidSeverity reports whether s is a member of the enumerated set.
func ValidSeverity(s Severity) bool {
	return SeverityRank(s) > 0
}

// Fix holds the before/after snippets and remediation cost for a record.
type Fix struct {
	Before string `json:"before"`
	After  string `json:"after"`
	Effort Effort `json:"effort"`
}

// Record is one audit finding as exchanged with providers and
// downstream implementation agents.
type Record struct {
	Issue       string   `json:"issue"`
	WCAG        []string `json:"wcag,omitempty"`
	Severity    Severity `json:"severity"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	Fix         Fix      `json:"fix"`
	Commands    []string `json:"commands,omitempty"`
}

// SeverityCounts holds counts by severity level.
type SeverityCounts struct {
	Critical int `json:"critical"`
	Serious  int `json:"serious"`
	Moderate int `json:"moderate"`
	Minor    int `json:"minor"`
}

// Total returns the sum across all severities.
func (c SeverityCounts) Total() int {
	return c.Critical + c.Serious + c.Moderate + c.Minor
}

// Summary provides an overview of an audit run.
type Summary struct {
	Counts          SeverityCounts `json:"counts"`
	HighestSeverity Severity       `json:"highestSeverity"`
}

// Timing contains phase durations for a run.
type Timing struct {
	CollectMs int64 `json:"collectMs"`
	LLMMs     int64 `json:"llmMs"`
	TotalMs   int64 `json:"totalMs"`
}

// Rejection describes a record that failed schema validation.
type Rejection struct {
	Index   int         `json:"index"`
	Issue   string      `json:"issue,omitempty"`
	Reasons []string    `json:"reasons"`
	Raw     interface{} `json:"raw,omitempty"`
}

// Report is the top-level output of an audit run. Records are frozen
// in their final order at export time.
type Report struct {
	Tool      string      `json:"tool"`
	Version   string      `json:"version"`
	RunID     string      `json:"runId"`
	Checklist string      `json:"checklist"`
	Target    string      `json:"target"`
	Summary   Summary     `json:"summary"`
	Records   []Record    `json:"records"`
	Rejected  []Rejection `json:"rejected,omitempty"`
	Timing    Timing      `json:"timing"`
}

// ComputeSummary calculates the summary from a record sequence.
func ComputeSummary(records []Record) Summary {
	var s Summary
	for _, r := range records {
		switch r.Severity {
		case SeverityCritical:
			s.Counts.Critical++
		case SeveritySerious:
			s.Counts.Serious++
		case SeverityModerate:
			s.Counts.Moderate++
		case SeverityMinor:
			s.Counts.Minor++
		}
		if SeverityRank(r.Severity) > SeverityRank(s.HighestSeverity) {
			s.HighestSeverity = r.Severity
		}
	}
	return s
}

package record

import "testing"

func TestSeverityRank(t *testing.T) {
	tests := []struct {
		severity Severity
		want     int
	}{
		{SeverityCritical, 4},
		{SeveritySerious, 3},
		{SeverityModerate, 2},
		{SeverityMinor, 1},
		{Severity("Urgent"), 0},
		{Severity(""), 0},
	}
	for _, tt := range tests {
		got := SeverityRank(tt.severity)
		if got != tt.want {
			t.Errorf("SeverityRank(%q) = %d, want %d", tt.severity, got, tt.want)
		}
	}
}

func TestMeetsThreshold(t *testing.T) {
	tests := []struct {
		severity  Severity
		threshold string
		want      bool
	}{
		{SeverityCritical, "none", false},
		{SeverityCritical, "", false},
		{SeverityCritical, "Critical", true},
		{SeverityCritical, "Minor", true},
		{SeveritySerious, "Critical", false},
		{SeveritySerious, "Serious", true},
		{SeverityModerate, "Serious", false},
		{SeverityModerate, "Moderate", true},
		{SeverityMinor, "Moderate", false},
		{SeverityMinor, "Minor", true},
	}
	for _, tt := range tests {
		got := MeetsThreshold(tt.severity, tt.threshold)
		if got != tt.want {
			t.Errorf("MeetsThreshold(%q, %q) = %v, want %v", tt.severity, tt.threshold, got, tt.want)
		}
	}
}

func TestValidEffort(t *testing.T) {
	for _, e := range Efforts {
		if !ValidEffort(e) {
			t.Errorf("ValidEffort(%q) = false, want true", e)
		}
	}
	for _, e := range []Effort{"", "low", "Trivial", "Extreme"} {
		if ValidEffort(e) {
			t.Errorf("ValidEffort(%q) = true, want false", e)
		}
	}
}

func TestValidSeverity_CaseSensitive(t *testing.T) {
	// The enumerated set is capitalized; lowercase variants are not members.
	for _, s := range []Severity{"critical", "serious", "moderate", "minor"} {
		if ValidSeverity(s) {
			t.Errorf("ValidSeverity(%q) = true, want false", s)
		}
	}
}

func TestComputeSummary(t *testing.T) {
	records := []Record{
		{Severity: SeverityCritical},
		{Severity: SeveritySerious},
		{Severity: SeveritySerious},
		{Severity: SeverityModerate},
		{Severity: SeverityMinor},
		{Severity: SeverityMinor},
		{Severity: SeverityMinor},
	}

	s := ComputeSummary(records)

	if s.Counts.Critical != 1 {
		t.Errorf("Critical count = %d, want 1", s.Counts.Critical)
	}
	if s.Counts.Serious != 2 {
		t.Errorf("Serious count = %d, want 2", s.Counts.Serious)
	}
	if s.Counts.Moderate != 1 {
		t.Errorf("Moderate count = %d, want 1", s.Counts.Moderate)
	}
	if s.Counts.Minor != 3 {
		t.Errorf("Minor count = %d, want 3", s.Counts.Minor)
	}
	if s.Counts.Total() != 7 {
		t.Errorf("Total() = %d, want 7", s.Counts.Total())
	}
	if s.HighestSeverity != SeverityCritical {
		t.Errorf("HighestSeverity = %q, want %q", s.HighestSeverity, SeverityCritical)
	}
}

func TestComputeSummary_Empty(t *testing.T) {
	s := ComputeSummary(nil)
	if s.Counts.Total() != 0 {
		t.Errorf("expected zero counts for empty records")
	}
	if s.HighestSeverity != "" {
		t.Errorf("HighestSeverity = %q, want empty", s.HighestSeverity)
	}
}

package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/auditmd/auditmd/internal/record"
)

// SARIFWriter outputs records in SARIF v2.1.0 format.
type SARIFWriter struct{}

func (s *SARIFWriter) Write(w io.Writer, report *record.Report) error {
	sarif := buildSARIF(report)
	data, err := json.MarshalIndent(sarif, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling SARIF: %w", err)
	}
	_, err = w.Write(data)
	if err != nil {
		return fmt.Errorf("writing SARIF: %w", err)
	}
	_, err = fmt.Fprintln(w)
	return err
}

// SARIF schema types (v2.1.0)

type sarifLog struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string              `json:"id"`
	Name             string              `json:"name"`
	ShortDescription sarifMessage        `json:"shortDescription"`
	DefaultConfig    sarifDefaultConfig  `json:"defaultConfiguration"`
	Properties       sarifRuleProperties `json:"properties,omitempty"`
}

type sarifDefaultConfig struct {
	Level string `json:"level"`
}

type sarifRuleProperties struct {
	Tags []string `json:"tags,omitempty"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
	Fixes     []sarifFix      `json:"fixes,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine int `json:"startLine"`
	EndLine   int `json:"endLine"`
}

type sarifFix struct {
	Description sarifMessage `json:"description"`
}

func buildSARIF(report *record.Report) sarifLog {
	var rules []sarifRule
	var results []sarifResult
	seen := make(map[string]bool)

	for _, r := range report.Records {
		level := severityToLevel(r.Severity)

		if !seen[r.Issue] {
			seen[r.Issue] = true
			rules = append(rules, sarifRule{
				ID:               r.Issue,
				Name:             r.Issue,
				ShortDescription: sarifMessage{Text: r.Description},
				DefaultConfig:    sarifDefaultConfig{Level: level},
				Properties:       sarifRuleProperties{Tags: wcagTags(r.WCAG)},
			})
		}

		result := sarifResult{
			RuleID:  r.Issue,
			Level:   level,
			Message: sarifMessage{Text: r.Description},
		}

		path, line := record.SplitLocation(r.Location)
		loc := sarifLocation{
			PhysicalLocation: sarifPhysicalLocation{
				ArtifactLocation: sarifArtifactLocation{URI: path},
			},
		}
		if line > 0 {
			loc.PhysicalLocation.Region = &sarifRegion{StartLine: line, EndLine: line}
		}
		result.Locations = append(result.Locations, loc)

		fix := fmt.Sprintf("Replace:\n%s\nWith:\n%s", r.Fix.Before, r.Fix.After)
		result.Fixes = append(result.Fixes, sarifFix{
			Description: sarifMessage{Text: fix},
		})

		results = append(results, result)
	}

	return sarifLog{
		Version: "2.1.0",
		Schema:  "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/main/sarif-2.1/schema/sarif-schema-2.1.0.json",
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:           report.Tool,
						Version:        report.Version,
						InformationURI: "https://github.com/auditmd/auditmd",
						Rules:          rules,
					},
				},
				Results: results,
			},
		},
	}
}

// severityToLevel maps audit severity to SARIF level.
func severityToLevel(s record.Severity) string {
	switch s {
	case record.SeverityCritical, record.SeveritySerious:
		return "error"
	case record.SeverityModerate:
		return "warning"
	default:
		return "note"
	}
}

func wcagTags(refs []string) []string {
	if len(refs) == 0 {
		return nil
	}
	tags := make([]string, len(refs))
	for i, ref := range refs {
		tags[i] = "wcag-" + strings.ReplaceAll(ref, ".", "")
	}
	return tags
}

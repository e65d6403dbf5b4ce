package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/auditmd/auditmd/internal/record"
)

// MarkdownWriter outputs a PR-comment-friendly markdown report.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Write(w io.Writer, report *record.Report) error {
	total := report.Summary.Counts.Total()

	fmt.Fprintf(w, "## auditmd — %s audit\n\n", report.Checklist)

	fmt.Fprintf(w, "| Severity | Count |\n")
	fmt.Fprintf(w, "|----------|-------|\n")
	fmt.Fprintf(w, "| Critical | %d    |\n", report.Summary.Counts.Critical)
	fmt.Fprintf(w, "| Serious  | %d    |\n", report.Summary.Counts.Serious)
	fmt.Fprintf(w, "| Moderate | %d    |\n", report.Summary.Counts.Moderate)
	fmt.Fprintf(w, "| Minor    | %d    |\n", report.Summary.Counts.Minor)
	fmt.Fprintf(w, "| **Total** | **%d** |\n\n", total)

	if total == 0 {
		fmt.Fprintln(w, "No issues found. :white_check_mark:")
		return nil
	}

	grouped := groupBySeverity(report.Records)
	for _, sev := range record.Severities {
		records := grouped[sev]
		if len(records) == 0 {
			continue
		}

		icon := mdSeverityIcon(sev)
		label := strings.ToUpper(string(sev))

		fmt.Fprintf(w, "<details>\n<summary>%s %s (%d)</summary>\n\n", icon, label, len(records))

		for _, r := range records {
			fmt.Fprintf(w, "### %s\n\n", r.Issue)
			fmt.Fprintf(w, "**`%s`** | Effort: %s", r.Location, r.Fix.Effort)
			if len(r.WCAG) > 0 {
				fmt.Fprintf(w, " | WCAG %s", strings.Join(r.WCAG, ", "))
			}
			fmt.Fprintf(w, "\n\n%s\n\n", r.Description)

			path, _ := record.SplitLocation(r.Location)
			lang := inferLang(path)
			fmt.Fprintf(w, "**Before:**\n\n```%s\n%s\n```\n\n", lang, r.Fix.Before)
			fmt.Fprintf(w, "**After:**\n\n```%s\n%s\n```\n\n", lang, r.Fix.After)

			if len(r.Commands) > 0 {
				fmt.Fprintf(w, "**Commands:**\n\n```sh\n%s\n```\n\n", strings.Join(r.Commands, "\n"))
			}

			fmt.Fprintf(w, "---\n\n")
		}

		fmt.Fprintf(w, "</details>\n\n")
	}

	fmt.Fprintf(w, "*Audited in %dms (collect: %dms, LLM: %dms)*\n",
		report.Timing.TotalMs, report.Timing.CollectMs, report.Timing.LLMMs)

	return nil
}

func mdSeverityIcon(s record.Severity) string {
	switch s {
	case record.SeverityCritical:
		return ":red_circle:"
	case record.SeveritySerious:
		return ":orange_circle:"
	case record.SeverityModerate:
		return ":yellow_circle:"
	case record.SeverityMinor:
		return ":white_circle:"
	default:
		return ":black_circle:"
	}
}

func inferLang(path string) string {
	langMap := map[string]string{
		".go":   "go",
		".py":   "python",
		".js":   "javascript",
		".ts":   "typescript",
		".tsx":  "tsx",
		".jsx":  "jsx",
		".rs":   "rust",
		".java": "java",
		".rb":   "ruby",
		".cpp":  "cpp",
		".c":    "c",
		".cs":   "csharp",
		".php":  "php",
		".sh":   "bash",
		".sql":  "sql",
		".html": "html",
		".css":  "css",
		".vue":  "vue",
		".yaml": "yaml",
		".yml":  "yaml",
		".json": "json",
		".tf":   "hcl",
	}
	for ext, lang := range langMap {
		if strings.HasSuffix(path, ext) {
			return lang
		}
	}
	return ""
}

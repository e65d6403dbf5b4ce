package audit

import (
	"fmt"
	"strings"

	"github.com/auditmd/auditmd/internal/checklist"
)

const systemPromptHeader = `You are a strict, expert auditor. Your job is to audit source files against the checklist provided and produce issue records in JSON format.

Rules:
1. Apply only the checklist rules. Do not report issues outside the checklist's scope.
2. Every rule carries a false-positive guard. Do not report a violation unless it survives the guard.
3. Be specific and actionable. Every record must quote the offending snippet and show the corrected code.
4. The "location" must be an exact file:line position from the numbered listings, or a selector when no single line applies.
5. Rate severity as "Critical", "Serious", "Moderate", or "Minor".
6. Rate fix effort as "Low", "Medium", or "High".
7. Give each record a short stable "issue" identifier, unique within your response.

You MUST respond with ONLY a JSON array of issue records. No markdown, no explanation, no preamble. Just the JSON array.

Each record must have this exact structure:`

const recordShapeBase = `{
  "issue": "unique-identifier",
  "severity": "Critical|Serious|Moderate|Minor",
  "location": "file:line",
  "description": "specific violation",
  "fix": {
    "before": "problematic code",
    "after": "corrected code",
    "effort": "Low|Medium|High"
  }`

const systemPromptFooter = `If there are no issues, respond with an empty array: []`

// SystemPrompt builds the system prompt for a checklist domain. The
// record shape varies: accessibility records carry wcag references,
// security and architecture records may carry remediation commands.
func SystemPrompt(c *checklist.Checklist) string {
	var b strings.Builder
	b.WriteString(systemPromptHeader)
	b.WriteString("\n")
	b.WriteString(recordShapeBase)
	if c.WantsWCAG() {
		b.WriteString(",\n  \"wcag\": [\"2.4.7\"]")
	}
	if c.WantsCommands() {
		b.WriteString(",\n  \"commands\": [\"optional shell remediation commands\"]")
	}
	b.WriteString("\n}\n\n")
	if c.WantsWCAG() {
		b.WriteString("Every record must list the WCAG success criteria it violates in \"wcag\".\n\n")
	}
	b.WriteString(systemPromptFooter)
	return b.String()
}

// UserPrompt builds the user prompt from the checklist rules and a
// bundle chunk.
func UserPrompt(c *checklist.Checklist, chunkText string, files []string, maxFindings int, failOn string) string {
	var b strings.Builder

	b.WriteString("Audit the following source files against the checklist.\n\n")

	if maxFindings > 0 {
		fmt.Fprintf(&b, "Return at most %d records.\n", maxFindings)
	}
	if failOn != "" && failOn != "none" {
		fmt.Fprintf(&b, "Focus especially on findings of severity %s or above.\n", failOn)
	}
	if len(files) > 0 {
		fmt.Fprintf(&b, "Files in this batch: %s\n", strings.Join(files, ", "))
	}

	b.WriteString("\n")
	b.WriteString(c.PromptSection())

	b.WriteString("\n--- BEGIN SOURCE ---\n")
	b.WriteString(chunkText)
	b.WriteString("\n--- END SOURCE ---\n")

	return b.String()
}

func repairPrompt(parseErr error, previous string) string {
	return fmt.Sprintf(
		"Your previous response was not a valid JSON array of issue records. The error was: %s\n\nPlease fix it and respond with ONLY a valid JSON array of issue records.\n\nYour previous response was:\n%s",
		parseErr.Error(), previous,
	)
}

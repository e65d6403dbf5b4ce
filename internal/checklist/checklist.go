package checklist

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Meta is the YAML front matter of a checklist document.
type Meta struct {
	Domain      string   `yaml:"domain"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Refs        []string `yaml:"refs"`
}

// Rule is one numbered check within a checklist.
type Rule struct {
	ID             string
	Title          string
	Check          string
	Pattern        string
	FalsePositives string
	Fix            string
	WCAG           []string
}

// Checklist is a parsed audit checklist document.
type Checklist struct {
	Meta  Meta
	Rules []Rule
	Raw   string
}

// Accessibility checklists ask for WCAG references on each record;
// security and architecture checklists ask for remediation commands.
func (c *Checklist) WantsWCAG() bool {
	return c.Meta.Domain == "accessibility"
}

// WantsCommands reports whether records from this checklist may carry
// an optional commands array.
func (c *Checklist) WantsCommands() bool {
	return c.Meta.Domain == "security" || c.Meta.Domain == "architecture"
}

const frontMatterDelim = "---"

// Parse parses a checklist document. The document must start with YAML
// front matter declaring at least a domain.
func Parse(data []byte) (*Checklist, error) {
	content := string(data)

	meta, body, err := splitFrontMatter(content)
	if err != nil {
		return nil, err
	}
	if meta.Domain == "" {
		return nil, fmt.Errorf("checklist front matter missing domain")
	}

	rules, err := parseRules(body)
	if err != nil {
		return nil, err
	}
	if len(rules) == 0 {
		return nil, fmt.Errorf("checklist %q contains no rules", meta.Domain)
	}

	return &Checklist{Meta: meta, Rules: rules, Raw: content}, nil
}

func splitFrontMatter(content string) (Meta, string, error) {
	var meta Meta

	rest, found := strings.CutPrefix(content, frontMatterDelim+"\n")
	if !found {
		return meta, "", fmt.Errorf("checklist missing front matter")
	}
	idx := strings.Index(rest, "\n"+frontMatterDelim)
	if idx < 0 {
		return meta, "", fmt.Errorf("checklist front matter not terminated")
	}

	if err := yaml.Unmarshal([]byte(rest[:idx]), &meta); err != nil {
		return meta, "", fmt.Errorf("parsing front matter: %w", err)
	}

	body := rest[idx+len("\n"+frontMatterDelim):]
	if i := strings.Index(body, "\n"); i >= 0 {
		body = body[i+1:]
	}
	return meta, body, nil
}

// parseRules extracts "### ID: Title" sections and their labeled bullets.
func parseRules(body string) ([]Rule, error) {
	var rules []Rule
	var current *Rule

	flush := func() {
		if current != nil {
			rules = append(rules, *current)
			current = nil
		}
	}

	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)

		if rest, ok := strings.CutPrefix(trimmed, "### "); ok {
			flush()
			id, title, found := strings.Cut(rest, ":")
			if !found {
				return nil, fmt.Errorf("rule heading %q missing id separator", trimmed)
			}
			current = &Rule{
				ID:    strings.TrimSpace(id),
				Title: strings.TrimSpace(title),
			}
			continue
		}

		if current == nil || !strings.HasPrefix(trimmed, "- ") {
			continue
		}
		label, value, found := strings.Cut(strings.TrimPrefix(trimmed, "- "), ":")
		if !found {
			continue
		}
		value = strings.TrimSpace(value)

		switch strings.ToLower(strings.TrimSpace(label)) {
		case "check":
			current.Check = value
		case "pattern":
			current.Pattern = value
		case "false positives":
			current.FalsePositives = value
		case "fix":
			current.Fix = value
		case "wcag":
			for _, ref := range strings.Split(value, ",") {
				if ref = strings.TrimSpace(ref); ref != "" {
					current.WCAG = append(current.WCAG, ref)
				}
			}
		}
	}
	flush()

	for _, r := range rules {
		if r.Check == "" {
			return nil, fmt.Errorf("rule %s missing check statement", r.ID)
		}
	}
	return rules, nil
}

// PromptSection renders the checklist rules as prompt instructions,
// including the false-positive guards the documents insist on.
func (c *Checklist) PromptSection() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Checklist: %s (%s domain)\n", c.Meta.Title, c.Meta.Domain)
	if len(c.Meta.Refs) > 0 {
		fmt.Fprintf(&b, "Standards: %s\n", strings.Join(c.Meta.Refs, ", "))
	}
	b.WriteString("\nApply every rule below. Do not report a violation unless it survives the rule's false-positive guard.\n\n")

	for _, r := range c.Rules {
		fmt.Fprintf(&b, "[%s] %s\n", r.ID, r.Title)
		fmt.Fprintf(&b, "  Check: %s\n", r.Check)
		if r.Pattern != "" {
			fmt.Fprintf(&b, "  Pattern: %s\n", r.Pattern)
		}
		if r.FalsePositives != "" {
			fmt.Fprintf(&b, "  Not a violation when: %s\n", r.FalsePositives)
		}
		if r.Fix != "" {
			fmt.Fprintf(&b, "  Fix pattern: %s\n", r.Fix)
		}
		if len(r.WCAG) > 0 {
			fmt.Fprintf(&b, "  WCAG: %s\n", strings.Join(r.WCAG, ", "))
		}
		b.WriteString("\n")
	}

	return b.String()
}

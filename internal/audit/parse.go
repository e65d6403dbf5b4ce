package audit

import (
	"encoding/json"
	"fmt"
	"strings"
)

// parseRecords extracts the JSON array of candidate records from a
// provider response. Providers are told to respond with bare JSON, but
// markdown code fences still show up and are stripped.
func parseRecords(content string) ([]json.RawMessage, error) {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		lines := strings.Split(content, "\n")
		if len(lines) >= 2 {
			end := len(lines)
			if strings.TrimSpace(lines[end-1]) == "```" {
				end--
			}
			content = strings.Join(lines[1:end], "\n")
		}
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(content), &items); err != nil {
		return nil, fmt.Errorf("invalid JSON array: %w", err)
	}
	return items, nil
}

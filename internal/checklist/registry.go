package checklist

import (
	"embed"
	"fmt"
	"os"
	"sort"
	"strings"
)

//go:embed packs/*.md
var packsFS embed.FS

const packsDir = "packs"

// Names returns the names of the built-in checklist packs, sorted.
func Names() []string {
	entries, err := packsFS.ReadDir(packsDir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".md"))
	}
	sort.Strings(names)
	return names
}

// Load resolves nameOrPath to a checklist. Built-in pack names
// (accessibility, security, architecture) take precedence; anything
// else is treated as a path to a user-supplied checklist file.
func Load(nameOrPath string) (*Checklist, error) {
	data, err := packsFS.ReadFile(packsDir + "/" + nameOrPath + ".md")
	if err == nil {
		c, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("built-in checklist %q: %w", nameOrPath, err)
		}
		return c, nil
	}

	data, err = os.ReadFile(nameOrPath)
	if err != nil {
		return nil, fmt.Errorf("loading checklist %q: %w", nameOrPath, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("checklist %s: %w", nameOrPath, err)
	}
	return c, nil
}

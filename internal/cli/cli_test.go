package cli

import (
	"os"
	"path/filepath"
	"testing"
)

// resetFlags resets all package-level flag variables to their zero values.
func resetFlags() {
	flagConfig = ""
	flagChecklist = ""
	flagInclude = ""
	flagExclude = ""
	flagSince = ""
	flagProvider = ""
	flagModel = ""
	flagFormat = ""
	flagOut = ""
	flagFailOn = ""
	flagMaxFindings = 0
	flagInteractive = false
	flagSessionFile = ""
	flagNoRedact = false
	flagNoCache = false
	flagValidateStrict = false
	flagValidateRoot = "."
	exitCode = ExitSuccess
}

// --- splitComma tests ---

func TestSplitComma(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty string", "", nil},
		{"single value", "foo", []string{"foo"}},
		{"multiple values", "a,b,c", []string{"a", "b", "c"}},
		{"whitespace trimmed", " a , b , c ", []string{"a", "b", "c"}},
		{"empty parts skipped", "a,,b", []string{"a", "b"}},
		{"all empty", ",,,", nil},
		{"glob patterns", "*.go,src/**/*.ts", []string{"*.go", "src/**/*.ts"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitComma(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("splitComma(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("splitComma(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

// --- buildOverrides tests ---

func TestBuildOverrides_NoFlags(t *testing.T) {
	resetFlags()
	m := buildOverrides()
	if len(m) != 0 {
		t.Errorf("buildOverrides() with no flags = %v, want empty map", m)
	}
}

func TestBuildOverrides_AllFlags(t *testing.T) {
	resetFlags()
	flagProvider = "openai"
	flagModel = "gpt-4o"
	flagChecklist = "security"
	flagFormat = "json"
	flagFailOn = "Serious"
	flagMaxFindings = 10
	flagInclude = "src/**"
	flagExclude = "vendor/**"

	m := buildOverrides()

	expected := map[string]string{
		"provider":    "openai",
		"model":       "gpt-4o",
		"checklist":   "security",
		"format":      "json",
		"failOn":      "Serious",
		"maxFindings": "10",
		"include":     "src/**",
		"exclude":     "vendor/**",
	}

	if len(m) != len(expected) {
		t.Fatalf("buildOverrides() returned %d entries, want %d", len(m), len(expected))
	}
	for k, v := range expected {
		if m[k] != v {
			t.Errorf("buildOverrides()[%q] = %q, want %q", k, m[k], v)
		}
	}
}

func TestBuildOverrides_PartialFlags(t *testing.T) {
	resetFlags()
	flagProvider = "ollama"

	m := buildOverrides()
	if len(m) != 1 || m["provider"] != "ollama" {
		t.Errorf("buildOverrides() = %v, want only provider", m)
	}
}

// --- validate command tests ---

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "records.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const validDoc = `[
  {
    "issue": "missing-alt-text",
    "severity": "Critical",
    "location": "index.html:12",
    "description": "Image has no alt attribute",
    "fix": {"before": "<img>", "after": "<img alt=\"\">", "effort": "Low"}
  }
]`

func TestValidateCommand_ValidDocument(t *testing.T) {
	resetFlags()
	path := writeDoc(t, validDoc)

	if err := validateCmd.RunE(validateCmd, []string{path}); err != nil {
		t.Fatalf("RunE error: %v", err)
	}
	if exitCode != ExitSuccess {
		t.Errorf("exitCode = %d, want %d", exitCode, ExitSuccess)
	}
}

func TestValidateCommand_InvalidRecord(t *testing.T) {
	resetFlags()
	path := writeDoc(t, `[{"issue": "x", "severity": "Extreme"}]`)

	if err := validateCmd.RunE(validateCmd, []string{path}); err != nil {
		t.Fatalf("RunE error: %v", err)
	}
	if exitCode != ExitFindings {
		t.Errorf("exitCode = %d, want %d", exitCode, ExitFindings)
	}
}

func TestValidateCommand_MalformedDocument(t *testing.T) {
	resetFlags()
	path := writeDoc(t, "not json")

	if err := validateCmd.RunE(validateCmd, []string{path}); err != nil {
		t.Fatalf("RunE error: %v", err)
	}
	if exitCode != ExitUsageError {
		t.Errorf("exitCode = %d, want %d", exitCode, ExitUsageError)
	}
}

func TestValidateCommand_MissingFile(t *testing.T) {
	resetFlags()

	if err := validateCmd.RunE(validateCmd, []string{filepath.Join(t.TempDir(), "nope.json")}); err != nil {
		t.Fatalf("RunE error: %v", err)
	}
	if exitCode != ExitRuntimeError {
		t.Errorf("exitCode = %d, want %d", exitCode, ExitRuntimeError)
	}
}

func TestValidateCommand_StrictLocations(t *testing.T) {
	resetFlags()
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "index.html"), []byte("line1\nline2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	// Valid schema, but the location points past the end of the file.
	doc := `[
  {
    "issue": "missing-alt-text",
    "severity": "Critical",
    "location": "index.html:99",
    "description": "Image has no alt attribute",
    "fix": {"before": "<img>", "after": "<img alt=\"\">", "effort": "Low"}
  }
]`
	path := writeDoc(t, doc)
	flagValidateStrict = true
	flagValidateRoot = root

	if err := validateCmd.RunE(validateCmd, []string{path}); err != nil {
		t.Fatalf("RunE error: %v", err)
	}
	if exitCode != ExitFindings {
		t.Errorf("exitCode = %d, want %d", exitCode, ExitFindings)
	}
}

package redact

import (
	"path/filepath"
	"regexp"
	"strings"
)

const mask = "[REDACTED]"

type pattern struct {
	name string
	re   *regexp.Regexp
}

var secretPatterns = []pattern{
	{"aws-access-key", regexp.MustCompile(`AKIA[0-9A-Z]{16}`)},
	{"aws-secret-key", regexp.MustCompile(`(?i)(aws[_-]?secret[_-]?access[_-]?key)\s*[:=]\s*["']?([A-Za-z0-9/+=]{40})["']?`)},
	{"api-key-assignment", regexp.MustCompile(`(?i)(api[_-]?key|apikey|api[_-]?secret)\s*[:=]\s*["']?([A-Za-z0-9/+=_-]{20,})["']?`)},
	{"credential-assignment", regexp.MustCompile(`(?i)(secret|token|password|passwd|credential)\s*[:=]\s*["']([^"']{8,})["']`)},
	{"hex-key-assignment", regexp.MustCompile(`(?i)(key|secret|token)\s*[:=]\s*["']?[0-9a-f]{32,}["']?`)},
	{"bearer-token", regexp.MustCompile(`(?i)Bearer\s+[A-Za-z0-9._-]{20,}`)},
	{"jwt", regexp.MustCompile(`eyJ[A-Za-z0-9_-]{10,}\.eyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}`)},
	{"private-key-block", regexp.MustCompile(`-----BEGIN\s+(RSA\s+)?PRIVATE KEY-----`)},
	{"github-token", regexp.MustCompile(`gh[pousr]_[A-Za-z0-9_]{36,}`)},
	{"slack-token", regexp.MustCompile(`xox[bporas]-[A-Za-z0-9-]{10,}`)},
	{"anthropic-key", regexp.MustCompile(`sk-ant-[A-Za-z0-9_-]{20,}`)},
	{"openai-key", regexp.MustCompile(`sk-[A-Za-z0-9]{20,}`)},
	{"google-key", regexp.MustCompile(`AIza[A-Za-z0-9_-]{35}`)},
}

// Scrub replaces detected secrets in text with [REDACTED].
func Scrub(text string) string {
	out := text
	for _, p := range secretPatterns {
		out = p.re.ReplaceAllString(out, mask)
	}
	return out
}

// File applies the path policy first, then scrubs content. Files
// matching a policy pattern are dropped wholesale: a .env file is
// secrets all the way down.
func File(content, path string, policyPatterns []string) string {
	if MatchesPolicy(path, policyPatterns) {
		return mask + " (file withheld by redaction policy)\n"
	}
	return Scrub(content)
}

// MatchesPolicy reports whether path matches any policy glob. Patterns
// with a "**/" prefix also match against the bare filename.
func MatchesPolicy(path string, policyPatterns []string) bool {
	for _, pat := range policyPatterns {
		if ok, err := filepath.Match(pat, path); err == nil && ok {
			return true
		}
		if stripped := strings.TrimPrefix(pat, "**/"); stripped != pat {
			if ok, err := filepath.Match(stripped, filepath.Base(path)); err == nil && ok {
				return true
			}
			if ok, err := filepath.Match(stripped, path); err == nil && ok {
				return true
			}
		}
	}
	return false
}

package source

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/auditmd/auditmd/internal/redact"
)

// Options controls bundle collection.
type Options struct {
	Include        []string
	Exclude        []string
	MaxFileBytes   int
	MaxBundleBytes int
	SinceRef       string
	RedactSecrets  bool
	RedactPaths    []string
}

// Section is one file's contribution to a bundle.
type Section struct {
	Path string
	Text string
}

// Bundle is the collected audit input.
type Bundle struct {
	Root      string
	Files     []string
	Sections  []Section
	Truncated bool
	Bytes     int
}

// Content returns the full bundle text in file order.
func (b Bundle) Content() string {
	var sb strings.Builder
	sb.Grow(b.Bytes)
	for _, s := range b.Sections {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

const defaultMaxFileBytes = 1 << 20 // 1MB

// Directories that never contribute audit-relevant source.
var skippedDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
	"target":       true,
	"__pycache__":  true,
	".next":        true,
}

// Collect walks root and assembles a bundle. When opts.SinceRef is set
// the walk is restricted to files changed since that git ref. Files are
// rendered with line numbers so providers can emit file:line locations.
func Collect(root string, opts Options) (Bundle, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return Bundle{}, fmt.Errorf("resolving root: %w", err)
	}

	files, err := listFiles(absRoot, opts)
	if err != nil {
		return Bundle{}, err
	}

	maxFile := opts.MaxFileBytes
	if maxFile <= 0 {
		maxFile = defaultMaxFileBytes
	}

	bundle := Bundle{Root: absRoot}
	for _, rel := range files {
		data, err := os.ReadFile(filepath.Join(absRoot, rel))
		if err != nil {
			continue // unreadable files drop out of the bundle
		}
		if len(data) > maxFile || isBinary(data) {
			continue
		}

		content := string(data)
		if opts.RedactSecrets {
			content = redact.File(content, rel, opts.RedactPaths)
		}

		text := renderSection(rel, content)
		if opts.MaxBundleBytes > 0 && bundle.Bytes+len(text) > opts.MaxBundleBytes {
			bundle.Truncated = true
			break
		}

		bundle.Sections = append(bundle.Sections, Section{Path: rel, Text: text})
		bundle.Files = append(bundle.Files, rel)
		bundle.Bytes += len(text)
	}

	return bundle, nil
}

func listFiles(absRoot string, opts Options) ([]string, error) {
	if opts.SinceRef != "" {
		changed, err := ChangedFiles(absRoot, opts.SinceRef)
		if err != nil {
			return nil, err
		}
		return filterPaths(changed, opts), nil
	}

	var files []string
	err := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != absRoot && (skippedDirs[d.Name()] || strings.HasPrefix(d.Name(), ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", absRoot, err)
	}

	return filterPaths(files, opts), nil
}

// hasHiddenComponent reports whether any path element starts with ".".
// Dotfiles never carry audit-relevant source, and saved session files
// (.auditmd-session.json) must not leak into the next bundle.
func hasHiddenComponent(path string) bool {
	for _, part := range strings.Split(path, "/") {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}

func filterPaths(paths []string, opts Options) []string {
	var out []string
	for _, p := range paths {
		if hasHiddenComponent(p) {
			continue
		}
		if len(opts.Include) > 0 && !MatchesAny(p, opts.Include) {
			continue
		}
		if len(opts.Exclude) > 0 && MatchesAny(p, opts.Exclude) {
			continue
		}
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// MatchesAny reports whether path matches any glob pattern. Patterns
// with a "**/" prefix also match the bare filename and the full path.
func MatchesAny(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, err := filepath.Match(pattern, path); err == nil && ok {
			return true
		}
		clean := strings.TrimPrefix(pattern, "**/")
		if clean == pattern {
			continue
		}
		if ok, err := filepath.Match(clean, filepath.Base(path)); err == nil && ok {
			return true
		}
		if ok, err := filepath.Match(clean, path); err == nil && ok {
			return true
		}
	}
	return false
}

// renderSection numbers each line so a provider can point at file:line.
func renderSection(path, content string) string {
	lines := strings.Split(content, "\n")
	var b strings.Builder
	fmt.Fprintf(&b, "==== %s ====\n", path)
	for i, line := range lines {
		if i == len(lines)-1 && line == "" {
			break
		}
		fmt.Fprintf(&b, "%5d| %s\n", i+1, line)
	}
	b.WriteString("\n")
	return b.String()
}

// isBinary sniffs for a NUL byte in the leading window, the same
// heuristic git uses for diff output.
func isBinary(data []byte) bool {
	window := data
	if len(window) > 8000 {
		window = window[:8000]
	}
	return bytes.IndexByte(window, 0) >= 0
}

// Package checklist parses audit checklist documents and embeds the
// built-in packs.
//
// A checklist is a Markdown file with YAML front matter (domain, title,
// refs) followed by "### ID: Title" rule sections; each rule states a
// check, a pattern to look for, a false-positive guard, and a fix
// pattern. [Load] resolves a name to a built-in pack or a file path;
// [Parse] handles raw bytes.
package checklist

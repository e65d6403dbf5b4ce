// Package source collects codebase files into an audit bundle: the text
// block handed to a provider alongside a checklist.
//
// [Collect] walks a directory honoring include/exclude globs, skips
// binaries, dotfiles, and oversized files, applies secret redaction, and renders
// each file as a numbered listing so providers can cite exact
// file:line locations. With a since-ref the walk is restricted to files
// changed since that git ref.
package source

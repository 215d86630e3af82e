// Package langdetect decides which inputs hold Rust code: files by name,
// and unlabeled Markdown code blocks by content.
package langdetect

import (
	"bytes"
	"regexp"
	"slices"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Language names as reported by go-enry.
const (
	Rust     = "Rust"
	Markdown = "Markdown"
)

// ByFilename returns the language implied by the file extension, or "".
// Extensions shared by several languages (".rs" is also RenderScript, ".md"
// also GCC Machine Description) resolve to Rust or Markdown when possible.
func ByFilename(path string) string {
	langs := enry.GetLanguagesByExtension(path, nil, nil)
	for _, preferred := range []string{Rust, Markdown} {
		if slices.Contains(langs, preferred) {
			return preferred
		}
	}
	if len(langs) == 0 {
		return ""
	}
	return langs[0]
}

// IsRustFile reports whether path names a Rust source file.
func IsRustFile(path string) bool {
	return ByFilename(path) == Rust
}

// IsMarkdownFile reports whether path names a Markdown document.
func IsMarkdownFile(path string) bool {
	return ByFilename(path) == Markdown
}

// IsRustTag reports whether a fence info tag names Rust. Tags like
// "rust,ignore" or "rs no_run" count.
func IsRustTag(tag string) bool {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if i := strings.IndexAny(tag, ", "); i >= 0 {
		tag = tag[:i]
	}
	return tag == "rust" || tag == "rs"
}

var (
	//nolint:gochecknoglobals // Compiled once.
	templateCall = regexp.MustCompile(`(?m)\bhtml!\s*[{(\[]`)
	//nolint:gochecknoglobals // Compiled once.
	rustItem = regexp.MustCompile(`(?m)^\s*(pub(\([^)]*\))?\s+)?(fn|use|impl|mod|struct|enum|trait|let)\b`)
)

// classifierCandidates are the languages an unlabeled fence in Rust
// documentation is plausibly written in.
//
//nolint:gochecknoglobals // Read-only list.
var classifierCandidates = []string{
	"Rust", "Go", "Python", "Shell", "JavaScript", "TypeScript",
	"C", "C++", "HTML", "CSS", "JSON", "TOML", "YAML",
}

// IsRust guesses whether content is Rust code. A template invocation or a
// Rust item keyword is decisive. Otherwise code-like content is handed to
// the go-enry classifier and Rust must rank first.
func IsRust(content []byte) bool {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 {
		return false
	}
	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return lang == Rust
	}
	if templateCall.Match(trimmed) {
		return true
	}
	if rustItem.Match(trimmed) && bytes.ContainsAny(trimmed, ";{") {
		return true
	}
	if !bytes.ContainsAny(trimmed, ";{}") {
		return false
	}
	ranked := enry.GetLanguagesByClassifier("", content, classifierCandidates)
	return len(ranked) > 0 && ranked[0] == Rust
}

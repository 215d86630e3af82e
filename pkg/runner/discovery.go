package runner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"github.com/yaklabco/maudfmt/pkg/langdetect"
)

// ErrNoMatches is returned when a glob argument matches no files.
var ErrNoMatches = errors.New("pattern matched no files")

// matcher is a compiled set of ignore patterns.
type matcher []glob.Glob

func compileGlobs(patterns []string) (matcher, error) {
	out := make(matcher, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(filepath.ToSlash(p), '/')
		if err != nil {
			return nil, fmt.Errorf("compile ignore pattern %q: %w", p, err)
		}
		out = append(out, g)
	}
	return out, nil
}

// Match reports whether rel (slash separated, relative to the working
// directory) is ignored. Patterns are tried against the full relative path,
// the base name and, for directories, the path with a trailing slash.
func (m matcher) Match(rel string, isDir bool) bool {
	rel = filepath.ToSlash(rel)
	base := path.Base(rel)
	for _, g := range m {
		if g.Match(rel) || g.Match(base) {
			return true
		}
		if isDir && g.Match(rel+"/") {
			return true
		}
	}
	return false
}

// Discover finds Rust sources (and Markdown documents when opts.Markdown is
// set) named by opts.Paths. Directories are walked recursively; arguments
// containing glob metacharacters are expanded against the working directory.
// Files named explicitly are accepted whatever their extension unless they
// match an ignore pattern. The result is sorted and deduplicated.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	ignore, err := compileGlobs(opts.ExcludeGlobs)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var files []string
	add := func(found ...string) {
		for _, f := range found {
			if _, ok := seen[f]; !ok {
				seen[f] = struct{}{}
				files = append(files, f)
			}
		}
	}

	for _, inputPath := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		absPath := inputPath
		if !filepath.IsAbs(inputPath) {
			absPath = filepath.Join(workDir, inputPath)
		}
		absPath = filepath.Clean(absPath)

		info, statErr := os.Stat(absPath)
		if statErr != nil {
			if errors.Is(statErr, fs.ErrNotExist) && isGlobPattern(inputPath) {
				expanded, err := expandGlob(ctx, absPath, workDir, ignore, opts)
				if err != nil {
					return nil, err
				}
				add(expanded...)
				continue
			}
			return nil, fmt.Errorf("stat %s: %w", inputPath, statErr)
		}

		if info.IsDir() {
			discovered, err := walkDirectory(ctx, absPath, workDir, ignore, opts)
			if err != nil {
				return nil, err
			}
			add(discovered...)
			continue
		}

		if !ignore.Match(relTo(workDir, absPath), false) {
			add(absPath)
		}
	}

	sort.Strings(files)

	return files, nil
}

// resolveWorkDir resolves the working directory, defaulting to os.Getwd().
func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return absPath, nil
}

func relTo(workDir, p string) string {
	rel, err := filepath.Rel(workDir, p)
	if err != nil {
		return p
	}
	return rel
}

func isGlobPattern(p string) bool {
	return strings.ContainsAny(p, "*?[{")
}

// wanted reports whether a discovered file is something the formatter handles.
func wanted(p string, opts Options) bool {
	if langdetect.IsRustFile(p) {
		return true
	}
	return opts.Markdown && langdetect.IsMarkdownFile(p)
}

// expandGlob walks the longest literal prefix of pattern and returns every
// formattable file whose absolute path matches it.
func expandGlob(ctx context.Context, pattern, workDir string, ignore matcher, opts Options) ([]string, error) {
	slashed := filepath.ToSlash(pattern)
	g, err := glob.Compile(slashed, '/')
	if err != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", pattern, err)
	}

	root := filepath.FromSlash(literalPrefix(slashed))
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoMatches, pattern)
	}

	candidates, err := walkDirectory(ctx, root, workDir, ignore, opts)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, c := range candidates {
		if g.Match(filepath.ToSlash(c)) {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoMatches, pattern)
	}
	return out, nil
}

// literalPrefix returns the directory portion of a slash pattern preceding
// its first metacharacter.
func literalPrefix(pattern string) string {
	idx := strings.IndexAny(pattern, "*?[{")
	if idx < 0 {
		return path.Dir(pattern)
	}
	dir := pattern[:idx]
	if cut := strings.LastIndex(dir, "/"); cut >= 0 {
		dir = dir[:cut]
	} else {
		dir = "."
	}
	if dir == "" {
		return "/"
	}
	return dir
}

// walkDirectory recursively walks a directory and returns formattable files.
func walkDirectory(
	ctx context.Context,
	root string,
	workDir string,
	ignore matcher,
	opts Options,
) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(p string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		rel := relTo(workDir, p)

		if entry.IsDir() {
			if p == root {
				return nil
			}
			if strings.HasPrefix(entry.Name(), ".") || entry.Name() == "target" {
				return filepath.SkipDir
			}
			if ignore.Match(rel, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			realPath, evalErr := filepath.EvalSymlinks(p)
			if evalErr != nil {
				return nil //nolint:nilerr // broken symlinks are skipped
			}
			info, statErr := os.Stat(realPath)
			if statErr != nil {
				return nil //nolint:nilerr // inaccessible targets are skipped
			}
			if info.IsDir() {
				if !opts.FollowSymlinks || ignore.Match(rel, true) {
					return nil
				}
				// Walk the target so WalkDir's Lstat on root does not loop.
				subFiles, err := walkDirectory(ctx, realPath, workDir, ignore, opts)
				if err != nil {
					return err
				}
				files = append(files, subFiles...)
				return nil
			}
		}

		if strings.HasPrefix(entry.Name(), ".") {
			return nil
		}

		if wanted(p, opts) && !ignore.Match(rel, false) {
			files = append(files, p)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory %s: %w", root, err)
	}

	return files, nil
}

// Package fileset resolves command-line arguments to the RDF files a run
// processes.
package fileset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/c360studio/groupsheets/rdfio"
)

// Options controls which files a directory contributes.
type Options struct {
	// Extensions lists the file extensions, with leading dot, collected from
	// directories. Empty means every extension rdfio can read.
	Extensions []string

	// ExcludeDirs names directories skipped while walking.
	ExcludeDirs []string
}

// DefaultOptions returns options for every readable RDF extension, skipping
// version control directories.
func DefaultOptions() Options {
	return Options{
		Extensions:  rdfio.Extensions(),
		ExcludeDirs: []string{".git", ".svn", ".hg"},
	}
}

// Resolve expands files, directories and doublestar patterns to a sorted list
// of absolute file paths without duplicates.
//
// Files named explicitly or matched by a pattern are kept whatever their
// extension. Directories, given or matched, contribute their RDF files
// recursively.
//
// Examples:
//   - "data/sheet.rdf" → ["/abs/data/sheet.rdf"]
//   - "data" → every RDF file below data
//   - "data/**/*.ttl" → every Turtle file below data
func Resolve(patterns []string, opts Options) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	for _, pattern := range patterns {
		paths, err := resolvePattern(pattern, opts)
		if err != nil {
			return nil, fmt.Errorf("resolve %q: %w", pattern, err)
		}
		for _, p := range paths {
			if !seen[p] {
				seen[p] = true
				files = append(files, p)
			}
		}
	}

	sort.Strings(files)
	return files, nil
}

// Matches reports whether path has one of the extensions and lies outside the
// excluded directories.
func (o Options) Matches(path string) bool {
	if o.excluded(path) {
		return false
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range o.extensions() {
		if ext == e {
			return true
		}
	}
	return false
}

func (o Options) extensions() []string {
	if len(o.Extensions) == 0 {
		return rdfio.Extensions()
	}
	return o.Extensions
}

func (o Options) excluded(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		for _, dir := range o.ExcludeDirs {
			if part == dir {
				return true
			}
		}
	}
	return false
}

func resolvePattern(pattern string, opts Options) ([]string, error) {
	if !containsGlob(pattern) {
		abs, err := filepath.Abs(pattern)
		if err != nil {
			return nil, err
		}
		return expand(abs, opts)
	}

	absPattern, err := makeAbsolutePattern(pattern)
	if err != nil {
		return nil, err
	}
	matches, err := doublestar.FilepathGlob(absPattern)
	if err != nil {
		return nil, fmt.Errorf("glob: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no files match pattern: %s", pattern)
	}

	var files []string
	for _, m := range matches {
		paths, err := expand(m, opts)
		if err != nil {
			return nil, err
		}
		files = append(files, paths...)
	}
	return files, nil
}

// expand returns path itself when it is a file, or the RDF files below it
// when it is a directory.
func expand(path string, opts Options) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	return walk(path, opts)
}

func walk(dir string, opts Options) ([]string, error) {
	exts := make([]string, 0, len(opts.extensions()))
	for _, e := range opts.extensions() {
		exts = append(exts, strings.TrimPrefix(e, "."))
	}
	pattern := "**/*.{" + strings.Join(exts, ",") + "}"

	matches, err := doublestar.Glob(os.DirFS(dir), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}

	var files []string
	for _, m := range matches {
		if opts.excluded(m) {
			continue
		}
		files = append(files, filepath.Join(dir, filepath.FromSlash(m)))
	}
	return files, nil
}

func containsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// makeAbsolutePattern makes the directory part before the first glob
// character absolute and keeps the rest of the pattern as is.
func makeAbsolutePattern(pattern string) (string, error) {
	globIdx := strings.IndexAny(pattern, "*?[{")
	if globIdx == -1 {
		return filepath.Abs(pattern)
	}

	dir, rest := ".", pattern
	if i := strings.LastIndexAny(pattern[:globIdx], `/`+string(filepath.Separator)); i >= 0 {
		dir, rest = pattern[:i+1], pattern[i+1:]
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	return filepath.Join(absDir, filepath.FromSlash(rest)), nil
}

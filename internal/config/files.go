package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// sourceExtensions are the file types a directory argument expands to
var sourceExtensions = map[string]bool{
	".sv":  true,
	".svh": true,
	".v":   true,
}

// ResolveSources expands command-line paths into the list of files to
// document. A file argument is kept as given. A directory is expanded with
// Sources.Include minus Sources.Exclude. Order follows the arguments; files
// found under one directory are sorted.
func (c *Config) ResolveSources(paths []string) ([]string, error) {
	var result []string
	seen := make(map[string]bool)

	add := func(path string) {
		key, err := filepath.Abs(path)
		if err != nil {
			key = path
		}
		if seen[key] {
			return
		}
		seen[key] = true
		result = append(result, path)
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", path, err)
		}
		if !info.IsDir() {
			add(path)
			continue
		}

		files, err := c.expandDir(path)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			add(f)
		}
	}

	return result, nil
}

// expandDir applies the include and exclude patterns beneath rootPath.
// Patterns are doublestar globs; relative ones are joined to rootPath.
func (c *Config) expandDir(rootPath string) ([]string, error) {
	fileSet := make(map[string]bool)
	for _, pattern := range c.Sources.Include {
		pattern = anchorPattern(rootPath, pattern)
		if !doublestar.ValidatePathPattern(pattern) {
			return nil, fmt.Errorf("expanding %s: %w", pattern, doublestar.ErrBadPattern)
		}

		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expanding %s: %w", pattern, err)
		}

		for _, match := range matches {
			if sourceExtensions[strings.ToLower(filepath.Ext(match))] {
				fileSet[match] = true
			}
		}
	}

	for _, pattern := range c.Sources.Exclude {
		pattern = anchorPattern(rootPath, pattern)
		if !doublestar.ValidatePathPattern(pattern) {
			return nil, fmt.Errorf("excluding %s: %w", pattern, doublestar.ErrBadPattern)
		}

		for match := range fileSet {
			if excluded, _ := doublestar.PathMatch(pattern, match); excluded {
				delete(fileSet, match)
			}
		}
	}

	files := make([]string, 0, len(fileSet))
	for f := range fileSet {
		files = append(files, f)
	}
	sort.Strings(files)
	return files, nil
}

func anchorPattern(rootPath, pattern string) string {
	if filepath.IsAbs(pattern) {
		return filepath.Clean(pattern)
	}
	return filepath.Join(rootPath, pattern)
}

// Package pathfind locates volume source folders under the operator's home
// directory. The search is advisory only: a miss falls back to the literal
// source the operator wrote.
package pathfind

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DefaultVisitLimit bounds the number of directories the search may visit,
// keeping worst-case latency acceptable on large home trees. Reaching the
// limit is not an error.
const DefaultVisitLimit = 10_000

// Finder resolves a folder name to an absolute path by scanning root trees.
type Finder struct {
	// Roots are the trees to scan. Empty means the operator's home directory.
	Roots []string
	// VisitLimit caps visited directories across all roots; zero means
	// DefaultVisitLimit.
	VisitLimit int
}

// FindFolder searches the roots breadth-unbounded for a directory literally
// named name and returns its path with the home prefix rewritten to $HOME.
// ok is false when the folder was not found within the visit limit.
func (f Finder) FindFolder(name string) (string, bool) {
	roots := f.Roots
	if len(roots) == 0 {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", false
		}
		roots = []string{home}
	}
	limit := f.VisitLimit
	if limit <= 0 {
		limit = DefaultVisitLimit
	}

	visited := 0
	found := ""
	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				// Unreadable subtrees are skipped, not fatal.
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if !d.IsDir() {
				return nil
			}
			if d.Name() == name && path != root {
				found = path
				return fs.SkipAll
			}
			visited++
			if visited > limit {
				return fs.SkipAll
			}
			return nil
		})
		if err != nil {
			continue
		}
		if found != "" {
			return ReplaceHome(found), true
		}
		if visited > limit {
			break
		}
	}
	return "", false
}

// ReplaceHome rewrites a path under the operator's home directory to start
// with the $HOME variable, so generated help text stays portable.
func ReplaceHome(s string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return s
	}
	if strings.HasPrefix(s, home) {
		return "$HOME" + strings.TrimPrefix(s, home)
	}
	return s
}

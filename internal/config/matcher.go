package config

import (
	"fmt"
	"path/filepath"

	"github.com/gobwas/glob"
)

// Matcher tests paths against compiled exclude globs. Patterns match the
// base name only. A nil Matcher excludes nothing.
type Matcher struct {
	dirs  []glob.Glob
	files []glob.Glob
}

// NewMatcher compiles the directory and file patterns.
func NewMatcher(dirs, files []string) (*Matcher, error) {
	m := &Matcher{}
	for _, pattern := range dirs {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("dir pattern %q: %w", pattern, err)
		}
		m.dirs = append(m.dirs, g)
	}
	for _, pattern := range files {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("file pattern %q: %w", pattern, err)
		}
		m.files = append(m.files, g)
	}
	return m, nil
}

// Matcher compiles the config's exclude patterns.
func (c *Config) Matcher() (*Matcher, error) {
	return NewMatcher(c.Exclude.Dirs, c.Exclude.Files)
}

func (m *Matcher) ExcludeDir(path string) bool {
	if m == nil {
		return false
	}
	base := filepath.Base(path)
	for _, g := range m.dirs {
		if g.Match(base) {
			return true
		}
	}
	return false
}

func (m *Matcher) ExcludeFile(path string) bool {
	if m == nil {
		return false
	}
	base := filepath.Base(path)
	for _, g := range m.files {
		if g.Match(base) {
			return true
		}
	}
	return false
}

// ExcludePath reports whether path is excluded by its base name or by any
// directory component between root and the file.
func (m *Matcher) ExcludePath(root, path string) bool {
	if m == nil {
		return false
	}
	if m.ExcludeFile(path) {
		return true
	}
	rel, err := filepath.Rel(root, filepath.Dir(path))
	if err != nil || rel == "." {
		return false
	}
	for dir := rel; dir != "." && dir != string(filepath.Separator); dir = filepath.Dir(dir) {
		if m.ExcludeDir(dir) {
			return true
		}
	}
	return false
}

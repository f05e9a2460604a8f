// Package loader resolves the paths given to load into source text.
package loader

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// FileLoader reads source files from the host filesystem. Relative paths are
// resolved against Dir, or the working directory when Dir is empty.
type FileLoader struct {
	Dir string
}

// Load reads the file at p.
func (l FileLoader) Load(p string) (string, error) {
	if p == "" {
		return "", fmt.Errorf("empty path")
	}
	if !filepath.IsAbs(p) && l.Dir != "" {
		p = filepath.Join(l.Dir, p)
	}
	resolved, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("invalid path %s: %w", p, err)
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FSLoader reads source files from an fs.FS, such as an embedded library or
// a testing/fstest map. Paths use forward slashes; a leading "./" or "/" is
// ignored.
type FSLoader struct {
	FS fs.FS
}

// Load reads the file at p.
func (l FSLoader) Load(p string) (string, error) {
	name := path.Clean(strings.TrimPrefix(filepath.ToSlash(p), "/"))
	if !fs.ValidPath(name) {
		return "", &fs.PathError{Op: "open", Path: p, Err: fs.ErrInvalid}
	}
	data, err := fs.ReadFile(l.FS, name)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Package workspace classifies and walks a two-level note workspace:
// a root directory holding group directories that in turn hold note files.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/starford/quill/internal/apperr"
)

// Defaults for an Obsidian-style vault.
const (
	DefaultConfigDir = ".obsidian"
	DefaultNoteExt   = ".md"
)

// Layout describes which entries of a workspace are notes.
type Layout struct {
	// ConfigDir is the reserved tool directory directly under the root.
	ConfigDir string
	// NoteExt is the note file extension including the leading dot.
	NoteExt string
}

// DefaultLayout returns the layout of an Obsidian vault.
func DefaultLayout() Layout {
	return Layout{ConfigDir: DefaultConfigDir, NoteExt: DefaultNoteExt}
}

// Root resolves dir to an absolute, cleaned path and checks that it is a directory.
func Root(dir string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("%w: workspace is required", apperr.ErrInvalidArgument)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("workspace: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("workspace: stat root: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("workspace: root is not a directory: %s", abs)
	}
	return abs, nil
}

// IsExcludedPath reports whether path is the config directory of root or lies under it.
func (l Layout) IsExcludedPath(path, root string) bool {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel == l.ConfigDir || strings.HasPrefix(rel, l.ConfigDir+string(filepath.Separator))
}

// IsEligibleNote reports whether path is a regular note file at depth two or
// more below root. Symlinks are followed.
func (l Layout) IsEligibleNote(path, root string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	if filepath.Dir(filepath.Clean(path)) == filepath.Clean(root) {
		return false
	}
	return filepath.Ext(path) == l.NoteExt
}

// Name returns the final path component of path.
func Name(path string) (string, error) {
	base := filepath.Base(path)
	if base == "." || base == string(filepath.Separator) {
		return "", fmt.Errorf("%w: no file name in %q", apperr.ErrInvalidPath, path)
	}
	if !utf8.ValidString(base) {
		return "", fmt.Errorf("%w: file name is not valid UTF-8: %q", apperr.ErrInvalidPath, path)
	}
	return base, nil
}

// Stem returns the file name of path without its extension.
func Stem(path string) (string, error) {
	base, err := Name(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(base, filepath.Ext(base)), nil
}

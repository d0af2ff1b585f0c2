package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/starford/quill/internal/apperr"
)

var errStop = errors.New("workspace: stop walk")

// Group is a first-level directory of a workspace.
type Group struct {
	Path string
	// Name is the canonical "<workspace>/<group>" name.
	Name string
}

// Groups yields the direct child directories of root, skipping the config
// directory. Entries come in directory order.
func (l Layout) Groups(root string) iter.Seq2[Group, error] {
	return func(yield func(Group, error) bool) {
		wsName, err := Name(root)
		if err != nil {
			yield(Group{}, err)
			return
		}
		entries, err := os.ReadDir(root)
		if err != nil {
			yield(Group{}, fmt.Errorf("workspace: read %s: %w", root, err))
			return
		}
		for _, e := range entries {
			p := filepath.Join(root, e.Name())
			if l.IsExcludedPath(p, root) {
				continue
			}
			info, err := os.Stat(p)
			if err != nil || !info.IsDir() {
				continue
			}
			name, err := Name(p)
			if err != nil {
				yield(Group{}, err)
				return
			}
			if !yield(Group{Path: p, Name: wsName + "/" + name}, nil) {
				return
			}
		}
	}
}

// NotesInGroup recursively yields every eligible note below dir.
func (l Layout) NotesInGroup(dir, root string) iter.Seq2[string, error] {
	return l.walk(dir, root)
}

// Notes yields every eligible note of the workspace. The config directory
// is never descended into.
func (l Layout) Notes(root string) iter.Seq2[string, error] {
	return l.walk(root, root)
}

func (l Layout) walk(dir, root string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		start := dir
		// WalkDir does not descend into a symlinked start directory; a
		// trailing separator makes the stat follow the link.
		if info, err := os.Lstat(dir); err == nil && info.Mode()&fs.ModeSymlink != 0 {
			start = filepath.Clean(dir) + string(filepath.Separator)
		}
		err := filepath.WalkDir(start, func(p string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() {
				if l.IsExcludedPath(p, root) {
					return filepath.SkipDir
				}
				return nil
			}
			if !l.IsEligibleNote(p, root) {
				return nil
			}
			if !utf8.ValidString(p) {
				return fmt.Errorf("%w: path is not valid UTF-8: %q", apperr.ErrInvalidPath, p)
			}
			if !yield(p, nil) {
				return errStop
			}
			return nil
		})
		if err != nil && !errors.Is(err, errStop) {
			yield("", fmt.Errorf("workspace: walk %s: %w", dir, err))
		}
	}
}

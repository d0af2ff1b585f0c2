// Package watch reports note changes inside a workspace as they happen on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/starford/quill/internal/workspace"
)

// Event kinds passed to an EventCallback.
const (
	Created = "created"
	Updated = "updated"
	Deleted = "deleted"
)

// EventCallback is called for every note change. path is absolute and group
// is the canonical "<workspace>/<group>" name of the note's group.
type EventCallback func(kind, path, group string)

// Watcher follows one workspace root.
type Watcher struct {
	root    string
	wsName  string
	layout  workspace.Layout
	pattern string
	logger  *slog.Logger
}

// New returns a watcher for root. root must be an existing directory.
func New(root string, layout workspace.Layout, logger *slog.Logger) (*Watcher, error) {
	abs, err := workspace.Root(root)
	if err != nil {
		return nil, err
	}
	name, err := workspace.Name(abs)
	if err != nil {
		return nil, err
	}
	pattern := "*/**/*" + layout.NoteExt
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("watch: invalid note extension %q", layout.NoteExt)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{root: abs, wsName: name, layout: layout, pattern: pattern, logger: logger}, nil
}

// Root returns the absolute workspace root being watched.
func (w *Watcher) Root() string { return w.root }

// Watch processes file system events until ctx is cancelled, calling cb (if
// non-nil) for every note created, updated or deleted. Directories created
// at runtime are added to the watch list and the notes already inside them
// are reported as created. A rename reports the old path as deleted; the
// new path arrives as a separate create.
func (w *Watcher) Watch(ctx context.Context, cb EventCallback) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := w.addDirsRecursive(fw, w.root); err != nil {
		return err
	}

	w.logger.Info("watcher: started", slog.String("root", w.root))

	emit := func(kind, path string) {
		group, ok := w.groupOf(path)
		if !ok {
			return
		}
		w.logger.Debug("watcher: note changed", slog.String("path", path), slog.String("op", kind))
		if cb != nil {
			cb(kind, path, group)
		}
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watcher: stopped", slog.String("root", w.root))
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			path := ev.Name
			if w.layout.IsExcludedPath(path, w.root) {
				continue
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
					if addErr := w.addDirsRecursive(fw, path); addErr != nil {
						w.logger.Warn("watcher: add new dir failed",
							slog.String("path", path),
							slog.String("error", addErr.Error()))
					}
					w.reportDir(path, emit)
					continue
				}
			}

			if !w.matches(path) {
				continue
			}

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				if !w.layout.IsEligibleNote(path, w.root) {
					continue
				}
				kind := Updated
				if ev.Op&fsnotify.Create != 0 {
					kind = Created
				}
				emit(kind, path)

			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				emit(Deleted, path)
			}

		case watchErr, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher: error", slog.String("root", w.root), slog.String("error", watchErr.Error()))
		}
	}
}

// reportDir reports every note already present below a new directory.
func (w *Watcher) reportDir(dir string, emit func(kind, path string)) {
	for p, err := range w.layout.NotesInGroup(dir, w.root) {
		if err != nil {
			w.logger.Warn("watcher: scan new dir failed", slog.String("path", dir), slog.String("error", err.Error()))
			return
		}
		emit(Created, p)
	}
}

// matches reports whether path has the shape of a note: at least one
// directory below the root and the note extension.
func (w *Watcher) matches(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return false
	}
	ok, err := doublestar.Match(w.pattern, filepath.ToSlash(rel))
	return err == nil && ok
}

// groupOf returns the canonical group name for a note path.
func (w *Watcher) groupOf(path string) (string, bool) {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return "", false
	}
	first, _, found := strings.Cut(filepath.ToSlash(rel), "/")
	if !found || first == "" || first == ".." {
		return "", false
	}
	return w.wsName + "/" + first, true
}

// addDirsRecursive adds dir and its subdirectories to fw, skipping the
// config directory.
func (w *Watcher) addDirsRecursive(fw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && p != dir {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if w.layout.IsExcludedPath(p, w.root) {
			return filepath.SkipDir
		}
		return fw.Add(p)
	})
}

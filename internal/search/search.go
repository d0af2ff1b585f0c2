// Package search matches a regular expression against the file names and
// the content lines of every note in a workspace.
package search

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/starford/quill/internal/apperr"
	"github.com/starford/quill/internal/metadata"
	"github.com/starford/quill/internal/models"
	"github.com/starford/quill/internal/workspace"
)

// Query describes a search. The pattern is used verbatim as a regular expression.
type Query struct {
	Pattern string
	Root    string
	Keys    metadata.Keys
	// Start and End are inclusive bounds on the created timestamp (ms).
	// They default to 0 and math.MaxInt64.
	Start *int64
	End   *int64
}

// Engine runs stateless searches over a workspace.
type Engine struct {
	layout workspace.Layout
}

// NewEngine creates an Engine for workspaces with the given layout.
func NewEngine(layout workspace.Layout) *Engine {
	return &Engine{layout: layout}
}

// Search returns filename matches and per-line content matches for every note
// created within [Start, End]. A note yields at most one filename item,
// followed by one content item per matching line.
func (e *Engine) Search(ctx context.Context, q Query) ([]models.SearchItem, error) {
	re, err := regexp.Compile(q.Pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInvalidPattern, err)
	}
	root, err := workspace.Root(q.Root)
	if err != nil {
		return nil, err
	}

	start, end := int64(0), int64(math.MaxInt64)
	if q.Start != nil {
		start = *q.Start
	}
	if q.End != nil {
		end = *q.End
	}

	out := make([]models.SearchItem, 0)
	for path, err := range e.layout.Notes(root) {
		if err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		md, err := metadata.Resolve(path, q.Keys)
		if err != nil {
			return nil, err
		}
		if md.Created < start || md.Created > end {
			continue
		}

		if re.MatchString(filepath.Base(path)) {
			name, err := workspace.Stem(path)
			if err != nil {
				return nil, fmt.Errorf("search: note name: %w", err)
			}
			out = append(out, models.SearchItem{
				Path:     path,
				Matched:  name,
				Target:   models.TargetFilename,
				Metadata: md,
			})
		}

		for line, err := range MatchLines(path, re) {
			if err != nil {
				return nil, err
			}
			out = append(out, models.SearchItem{
				Path:     path,
				Matched:  line,
				Target:   models.TargetContent,
				Metadata: md,
			})
		}
	}
	return out, nil
}

// binaryBlock is the read granularity of MatchLines. A block containing a
// NUL byte marks the file as binary before any of its lines are matched.
const binaryBlock = 64 << 10

// MatchLines lazily yields every line of the file at path that re matches,
// without its line terminator. Invalid UTF-8 is replaced with U+FFFD.
// The file is read in 64 KiB blocks; scanning stops at the first block that
// contains a NUL byte, so a note with a NUL in its first block yields nothing.
func MatchLines(path string, re *regexp.Regexp) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		f, err := os.Open(path)
		if err != nil {
			yield("", fmt.Errorf("search: open %s: %w", path, err))
			return
		}
		defer f.Close()

		match := func(line []byte) bool {
			line = trimEOL(line)
			if !re.Match(line) {
				return true
			}
			return yield(strings.ToValidUTF8(string(line), "\uFFFD"), nil)
		}

		buf := make([]byte, binaryBlock)
		var pending []byte
		for {
			n, readErr := io.ReadFull(f, buf)
			block := buf[:n]
			if bytes.IndexByte(block, 0) >= 0 {
				return
			}

			data := append(pending, block...)
			for {
				i := bytes.IndexByte(data, '\n')
				if i < 0 {
					break
				}
				if !match(data[:i+1]) {
					return
				}
				data = data[i+1:]
			}
			pending = append([]byte(nil), data...)

			if errors.Is(readErr, io.EOF) || errors.Is(readErr, io.ErrUnexpectedEOF) {
				if len(pending) > 0 {
					match(pending)
				}
				return
			}
			if readErr != nil {
				yield("", fmt.Errorf("search: read %s: %w", path, readErr))
				return
			}
		}
	}
}

func trimEOL(line []byte) []byte {
	line = bytes.TrimSuffix(line, []byte("\n"))
	return bytes.TrimSuffix(line, []byte("\r"))
}

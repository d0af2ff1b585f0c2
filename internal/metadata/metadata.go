// Package metadata resolves the effective created/updated time of a note.
//
// Filesystem timestamps are the defaults; string values under the configured
// frontmatter keys override them one field at a time when they parse as dates.
package metadata

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/djherbis/times"

	"github.com/starford/quill/internal/frontmatter"
	"github.com/starford/quill/internal/models"
)

// Default frontmatter keys.
const (
	DefaultCreatedKey = "created"
	DefaultUpdatedKey = "updated"
)

// Keys names the frontmatter fields holding the created and updated dates.
type Keys struct {
	Created string
	Updated string
}

// DefaultKeys returns the conventional created/updated keys.
func DefaultKeys() Keys {
	return Keys{Created: DefaultCreatedKey, Updated: DefaultUpdatedKey}
}

// Resolve returns the effective timestamps of the note at path.
// Stat and read failures are returned; unparsable frontmatter or dates are not.
func Resolve(path string, keys Keys) (models.Metadata, error) {
	ts, err := times.Stat(path)
	if err != nil {
		return models.Metadata{}, fmt.Errorf("metadata: stat %s: %w", path, err)
	}
	md := models.Metadata{
		Created: createdTime(ts).UnixMilli(),
		Updated: ts.ModTime().UnixMilli(),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return models.Metadata{}, fmt.Errorf("metadata: read %s: %w", path, err)
	}

	fm, _ := frontmatter.Split(data)
	if fm == nil {
		return md, nil
	}
	if ms, ok := dateValue(fm, keys.Created); ok {
		md.Created = ms
	}
	if ms, ok := dateValue(fm, keys.Updated); ok {
		md.Updated = ms
	}
	return md, nil
}

// createdTime is the birth time, or the modification time on filesystems
// that do not record one.
func createdTime(ts times.Timespec) time.Time {
	if ts.HasBirthTime() {
		return ts.BirthTime()
	}
	return ts.ModTime()
}

// dateValue parses fm[key] as a date. Values without a zone are read as UTC.
func dateValue(fm map[string]any, key string) (int64, bool) {
	if key == "" {
		return 0, false
	}
	s, ok := frontmatter.String(fm, key)
	if !ok {
		return 0, false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return 0, false
	}
	return t.UnixMilli(), true
}

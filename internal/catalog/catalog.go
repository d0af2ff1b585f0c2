// Package catalog lists the notes and groups of a workspace.
package catalog

import (
	"context"
	"fmt"

	"github.com/starford/quill/internal/groupid"
	"github.com/starford/quill/internal/metadata"
	"github.com/starford/quill/internal/models"
	"github.com/starford/quill/internal/workspace"
)

// Query selects notes by creation time and, optionally, by group.
type Query struct {
	Root string
	Keys metadata.Keys
	// Start and End are exclusive bounds on the created timestamp (ms).
	Start int64
	End   int64
	// GroupID restricts the result to one group when non-nil.
	GroupID *uint32
}

// Catalog lists notes and groups by scanning the filesystem on every call.
type Catalog struct {
	layout workspace.Layout
}

// New creates a Catalog for workspaces with the given layout.
func New(layout workspace.Layout) *Catalog {
	return &Catalog{layout: layout}
}

// ListNotes returns every note whose created time lies strictly between
// q.Start and q.End. Any error aborts the listing.
func (c *Catalog) ListNotes(ctx context.Context, q Query) ([]models.Note, error) {
	root, err := workspace.Root(q.Root)
	if err != nil {
		return nil, err
	}

	out := make([]models.Note, 0)
	for group, err := range c.layout.Groups(root) {
		if err != nil {
			return nil, err
		}
		id := groupid.Of(group.Name)

		for path, err := range c.layout.NotesInGroup(group.Path, root) {
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
			if md.Created <= q.Start || md.Created >= q.End {
				continue
			}
			if q.GroupID != nil && *q.GroupID != id {
				continue
			}

			name, err := workspace.Stem(path)
			if err != nil {
				return nil, fmt.Errorf("catalog: note name: %w", err)
			}
			out = append(out, models.Note{
				Name:    name,
				Path:    path,
				Created: md.Created,
				Updated: md.Updated,
				Group:   group.Name,
				GroupID: id,
			})
		}
	}
	return out, nil
}

// ListGroups returns the groups of the workspace that hold at least one note.
// Scanning a group stops at its first note.
func (c *Catalog) ListGroups(ctx context.Context, root string) ([]models.Group, error) {
	root, err := workspace.Root(root)
	if err != nil {
		return nil, err
	}

	out := make([]models.Group, 0)
	for group, err := range c.layout.Groups(root) {
		if err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, err := range c.layout.NotesInGroup(group.Path, root) {
			if err != nil {
				return nil, err
			}
			out = append(out, models.Group{Name: group.Name, ID: groupid.Of(group.Name)})
			break
		}
	}
	return out, nil
}

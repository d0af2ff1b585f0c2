// Package noteservice binds the catalog and search engine to a set of
// configured workspaces and default frontmatter keys.
package noteservice

import (
	"context"
	"fmt"
	"math"
	"path/filepath"

	"github.com/starford/quill/internal/apperr"
	"github.com/starford/quill/internal/catalog"
	"github.com/starford/quill/internal/metadata"
	"github.com/starford/quill/internal/models"
	"github.com/starford/quill/internal/search"
	"github.com/starford/quill/internal/workspace"
)

// NotesParams are the inputs of ListNotes. Empty strings and nil pointers
// select the defaults.
type NotesParams struct {
	Workspace  string
	CreatedKey string
	UpdatedKey string
	Start      *int64
	End        *int64
	GroupID    *uint32
}

// SearchParams are the inputs of Search.
type SearchParams struct {
	Pattern    string
	Workspace  string
	CreatedKey string
	UpdatedKey string
	Start      *int64
	End        *int64
}

// Service serves the three workspace queries.
type Service struct {
	catalog *catalog.Catalog
	engine  *search.Engine
	roots   []string
	keys    metadata.Keys
}

// NewService creates a service restricted to roots. The first root is the
// default workspace; with no roots any workspace must be named explicitly.
func NewService(layout workspace.Layout, roots []string, keys metadata.Keys) *Service {
	clean := make([]string, 0, len(roots))
	for _, r := range roots {
		if abs, err := filepath.Abs(r); err == nil {
			clean = append(clean, abs)
		}
	}
	return &Service{
		catalog: catalog.New(layout),
		engine:  search.NewEngine(layout),
		roots:   clean,
		keys:    keys,
	}
}

// Roots returns the configured workspace roots.
func (s *Service) Roots() []string {
	return append([]string(nil), s.roots...)
}

// ListNotes lists notes created strictly inside (Start, End), which default
// to -1 and math.MaxInt64.
func (s *Service) ListNotes(ctx context.Context, p NotesParams) ([]models.Note, error) {
	root, err := s.resolveWorkspace(p.Workspace)
	if err != nil {
		return nil, err
	}
	q := catalog.Query{
		Root:    root,
		Keys:    s.keysFor(p.CreatedKey, p.UpdatedKey),
		Start:   -1,
		End:     math.MaxInt64,
		GroupID: p.GroupID,
	}
	if p.Start != nil {
		q.Start = *p.Start
	}
	if p.End != nil {
		q.End = *p.End
	}
	return s.catalog.ListNotes(ctx, q)
}

// ListGroups lists the non-empty groups of a workspace.
func (s *Service) ListGroups(ctx context.Context, ws string) ([]models.Group, error) {
	root, err := s.resolveWorkspace(ws)
	if err != nil {
		return nil, err
	}
	return s.catalog.ListGroups(ctx, root)
}

// Search runs a pattern search over a workspace. The pattern is used
// verbatim; the empty pattern matches every file name and line.
func (s *Service) Search(ctx context.Context, p SearchParams) ([]models.SearchItem, error) {
	root, err := s.resolveWorkspace(p.Workspace)
	if err != nil {
		return nil, err
	}
	return s.engine.Search(ctx, search.Query{
		Pattern: p.Pattern,
		Root:    root,
		Keys:    s.keysFor(p.CreatedKey, p.UpdatedKey),
		Start:   p.Start,
		End:     p.End,
	})
}

func (s *Service) resolveWorkspace(ws string) (string, error) {
	if ws == "" {
		if len(s.roots) == 0 {
			return "", fmt.Errorf("%w: workspace is required", apperr.ErrInvalidArgument)
		}
		return s.roots[0], nil
	}
	abs, err := filepath.Abs(ws)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperr.ErrInvalidArgument, err)
	}
	if len(s.roots) == 0 {
		return abs, nil
	}
	for _, r := range s.roots {
		if r == abs {
			return abs, nil
		}
	}
	return "", fmt.Errorf("%w: %s", apperr.ErrWorkspaceNotAllowed, ws)
}

func (s *Service) keysFor(created, updated string) metadata.Keys {
	keys := s.keys
	if created != "" {
		keys.Created = created
	}
	if updated != "" {
		keys.Updated = updated
	}
	return keys
}

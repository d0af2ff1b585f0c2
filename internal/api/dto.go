package api

import "github.com/starford/quill/internal/models"

// Note is a single note in a list response.
type Note = models.Note

// Group is a non-empty workspace group.
type Group = models.Group

// SearchItem is a single search hit.
type SearchItem = models.SearchItem

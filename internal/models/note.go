// Package models defines the domain types returned by the quill core.
package models

// Target tells which part of a note a SearchItem matched.
type Target string

const (
	TargetFilename Target = "filename"
	TargetContent  Target = "content"
)

// Metadata holds the resolved timestamps of a note in milliseconds since epoch.
type Metadata struct {
	Created int64 `json:"created"`
	Updated int64 `json:"updated"`
}

// Note is an eligible note file together with its owning group.
type Note struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	Created int64  `json:"created"`
	Updated int64  `json:"updated"`
	Group   string `json:"group"`
	GroupID uint32 `json:"groupId"`
}

// Group is a first-level workspace directory holding at least one note.
type Group struct {
	Name string `json:"name"`
	ID   uint32 `json:"id"`
}

// SearchItem is a single filename or content match.
type SearchItem struct {
	Path     string   `json:"path"`
	Matched  string   `json:"matched"`
	Target   Target   `json:"target"`
	Metadata Metadata `json:"metadata"`
}

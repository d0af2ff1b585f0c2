// Package testutil provides shared test helpers for building fixture workspaces.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// Workspace creates an empty workspace directory called name inside a temp dir.
func Workspace(t *testing.T, name string) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), name)
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatal(err)
	}
	return root
}

// WriteFile writes content to rel (slash separated) under root, creating
// parent directories, and returns the absolute path.
func WriteFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

// Note renders a note with a YAML frontmatter block holding fields as quoted strings.
func Note(fields map[string]string, body string) string {
	if len(fields) == 0 {
		return body
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("---\n")
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %q\n", k, fields[k])
	}
	b.WriteString("---\n")
	b.WriteString(body)
	return b.String()
}

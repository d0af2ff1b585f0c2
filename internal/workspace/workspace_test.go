package workspace

import (
	"errors"
	"iter"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/quill/internal/apperr"
	"github.com/starford/quill/internal/testutil"
)

func collect[T any](t *testing.T, seq iter.Seq2[T, error]) []T {
	t.Helper()
	var out []T
	for v, err := range seq {
		require.NoError(t, err)
		out = append(out, v)
	}
	return out
}

func fixture(t *testing.T) string {
	t.Helper()
	root := testutil.Workspace(t, "vault")
	testutil.WriteFile(t, root, "top.md", "top level")
	testutil.WriteFile(t, root, "work/plan.md", "plan")
	testutil.WriteFile(t, root, "work/deep/nested/idea.md", "idea")
	testutil.WriteFile(t, root, "work/readme.txt", "not a note")
	testutil.WriteFile(t, root, "empty/image.png", "png")
	testutil.WriteFile(t, root, ".obsidian/plugins/cfg.md", "hidden")
	testutil.WriteFile(t, root, "life/.obsidian/kept.md", "nested config dir is not reserved")
	return root
}

func TestIsExcludedPath(t *testing.T) {
	l := DefaultLayout()
	root := "/ws"

	assert.True(t, l.IsExcludedPath("/ws/.obsidian", root))
	assert.True(t, l.IsExcludedPath("/ws/.obsidian/plugins/x.md", root))
	assert.False(t, l.IsExcludedPath("/ws/.obsidianx", root))
	assert.False(t, l.IsExcludedPath("/ws/group/.obsidian", root))
	assert.False(t, l.IsExcludedPath("/ws", root))
}

func TestIsEligibleNote(t *testing.T) {
	root := fixture(t)
	l := DefaultLayout()

	assert.True(t, l.IsEligibleNote(filepath.Join(root, "work", "plan.md"), root))
	assert.True(t, l.IsEligibleNote(filepath.Join(root, "work", "deep", "nested", "idea.md"), root))
	assert.False(t, l.IsEligibleNote(filepath.Join(root, "top.md"), root), "top-level files are not notes")
	assert.False(t, l.IsEligibleNote(filepath.Join(root, "work", "readme.txt"), root))
	assert.False(t, l.IsEligibleNote(filepath.Join(root, "work"), root), "directories are not notes")
	assert.False(t, l.IsEligibleNote(filepath.Join(root, "work", "missing.md"), root))
}

func TestGroups(t *testing.T) {
	root := fixture(t)

	groups := collect(t, DefaultLayout().Groups(root))
	names := make([]string, 0, len(groups))
	for _, g := range groups {
		names = append(names, g.Name)
		assert.Equal(t, root, filepath.Dir(g.Path))
	}
	sort.Strings(names)
	assert.Equal(t, []string{"vault/empty", "vault/life", "vault/work"}, names)
}

func TestNotesInGroup(t *testing.T) {
	root := fixture(t)

	notes := collect(t, DefaultLayout().NotesInGroup(filepath.Join(root, "work"), root))
	sort.Strings(notes)
	assert.Equal(t, []string{
		filepath.Join(root, "work", "deep", "nested", "idea.md"),
		filepath.Join(root, "work", "plan.md"),
	}, notes)
}

func TestSymlinkedGroup(t *testing.T) {
	root := testutil.Workspace(t, "vault")
	target := testutil.Workspace(t, "real")
	note := testutil.WriteFile(t, target, "sub/a.md", "linked note")
	linked := filepath.Join(root, "linked")
	if err := os.Symlink(target, linked); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	groups := collect(t, DefaultLayout().Groups(root))
	require.Len(t, groups, 1)
	assert.Equal(t, "vault/linked", groups[0].Name)

	notes := collect(t, DefaultLayout().NotesInGroup(groups[0].Path, root))
	assert.Equal(t, []string{filepath.Join(linked, "sub", "a.md")}, notes)
	assert.NotEqual(t, note, notes[0], "paths stay under the workspace")
}

func TestNotesSkipsConfigDirAndTopLevel(t *testing.T) {
	root := fixture(t)

	notes := collect(t, DefaultLayout().Notes(root))
	sort.Strings(notes)
	assert.Equal(t, []string{
		filepath.Join(root, "life", ".obsidian", "kept.md"),
		filepath.Join(root, "work", "deep", "nested", "idea.md"),
		filepath.Join(root, "work", "plan.md"),
	}, notes)
}

func TestNotesEarlyBreak(t *testing.T) {
	root := fixture(t)

	count := 0
	for _, err := range DefaultLayout().Notes(root) {
		require.NoError(t, err)
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestCustomLayout(t *testing.T) {
	root := testutil.Workspace(t, "kb")
	testutil.WriteFile(t, root, "g/a.txt", "a")
	testutil.WriteFile(t, root, "g/b.md", "b")
	testutil.WriteFile(t, root, ".config/c.txt", "c")

	l := Layout{ConfigDir: ".config", NoteExt: ".txt"}
	notes := collect(t, l.Notes(root))
	assert.Equal(t, []string{filepath.Join(root, "g", "a.txt")}, notes)
}

func TestRoot(t *testing.T) {
	root := fixture(t)

	got, err := Root(root)
	require.NoError(t, err)
	assert.Equal(t, root, got)

	_, err = Root(filepath.Join(root, "missing"))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	_, err = Root(filepath.Join(root, "top.md"))
	assert.Error(t, err)

	_, err = Root("")
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
}

func TestStem(t *testing.T) {
	stem, err := Stem("/ws/g/budget-2023.md")
	require.NoError(t, err)
	assert.Equal(t, "budget-2023", stem)

	stem, err = Stem("/ws/g/archive.tar.md")
	require.NoError(t, err)
	assert.Equal(t, "archive.tar", stem)

	_, err = Name("/")
	assert.ErrorIs(t, err, apperr.ErrInvalidPath)
}

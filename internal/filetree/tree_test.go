package filetree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/codedeck/internal/models"
)

func file(name string) models.FileEntry { return models.FileEntry{Name: name, Type: models.EntryFile} }
func dir(name string) models.FileEntry {
	return models.FileEntry{Name: name, Type: models.EntryDirectory}
}

func names(rows []Row) []string {
	var out []string
	for _, r := range rows {
		if r.Up {
			out = append(out, "..")
			continue
		}
		out = append(out, r.Node.Entry.Name)
	}
	return out
}

func TestSortEntries(t *testing.T) {
	t.Run("directories before files", func(t *testing.T) {
		got := SortEntries([]models.FileEntry{file("b"), dir("a")})
		assert.Equal(t, "a", got[0].Name)
		assert.True(t, got[0].IsDir())
		assert.Equal(t, "b", got[1].Name)
	})

	t.Run("name order within kind", func(t *testing.T) {
		in := []models.FileEntry{file("z.py"), dir("src"), file("a.py"), dir("docs")}
		got := SortEntries(in)
		assert.Equal(t, []string{"docs", "src", "a.py", "z.py"}, []string{got[0].Name, got[1].Name, got[2].Name, got[3].Name})
		assert.Equal(t, "z.py", in[0].Name, "input is not reordered")
	})
}

func TestPaths(t *testing.T) {
	assert.Equal(t, "a.py", JoinPath("", "a.py"))
	assert.Equal(t, "src/a.py", JoinPath("src", "a.py"))
	assert.Equal(t, "src", ParentPath("src/pkg"))
	assert.Equal(t, "", ParentPath("src"))
	assert.Equal(t, "", ParentPath(""))
}

func TestTreeRows(t *testing.T) {
	t.Run("root has no parent row", func(t *testing.T) {
		tr := New()
		tr.Load("", []models.FileEntry{file("b"), dir("a")})
		assert.Equal(t, []string{"a", "b"}, names(tr.Rows()))
	})

	t.Run("non-root gets a parent row", func(t *testing.T) {
		tr := New()
		tr.Load("src", []models.FileEntry{file("main.py")})
		rows := tr.Rows()
		assert.Equal(t, []string{"..", "main.py"}, names(rows))
		assert.Equal(t, "src/main.py", rows[1].Path())
		assert.True(t, rows[1].IsFile())
	})
}

func TestTreeExpandAndToggle(t *testing.T) {
	tr := New()
	tr.Load("", []models.FileEntry{dir("src"), file("README.md")})

	row, ok := tr.RowAt(0)
	require.True(t, ok)
	assert.False(t, tr.Toggle(row.Node), "unloaded directory must be fetched first")

	tr.Load("src", []models.FileEntry{file("app.py"), dir("core")})
	rows := tr.Rows()
	assert.Equal(t, []string{"src", "core", "app.py", "README.md"}, names(rows))
	assert.Equal(t, 1, rows[1].Depth)
	assert.Equal(t, "src/core", rows[1].Path())

	assert.True(t, tr.Toggle(row.Node))
	assert.Equal(t, []string{"src", "README.md"}, names(tr.Rows()))
	assert.True(t, tr.Toggle(row.Node))
	assert.Len(t, tr.Rows(), 4)
}

func TestTreeCursor(t *testing.T) {
	tr := New()
	tr.Load("src", []models.FileEntry{file("a.py"), file("b.py")})

	tr.Move(10)
	assert.Equal(t, 2, tr.Cursor())
	sel, ok := tr.Selected()
	require.True(t, ok)
	assert.Equal(t, "src/b.py", sel.Path())

	tr.Move(-10)
	sel, _ = tr.Selected()
	assert.True(t, sel.Up)

	tr.Load("", []models.FileEntry{file("x")})
	assert.Equal(t, 0, tr.Cursor(), "a new root resets the cursor")

	tr.Clear()
	_, ok = tr.Selected()
	assert.False(t, ok)
}

// Package filetree holds the browsable listing of the backend workspace.
package filetree

import (
	"sort"
	"strings"

	"github.com/Rorical/codedeck/internal/models"
)

// SortEntries returns a copy with directories first, then by name.
func SortEntries(entries []models.FileEntry) []models.FileEntry {
	out := make([]models.FileEntry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsDir() != out[j].IsDir() {
			return out[i].IsDir()
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// JoinPath joins a workspace-relative directory and a name with "/".
func JoinPath(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + "/" + name
}

// ParentPath drops the last path segment; the parent of a top level entry is
// the root "".
func ParentPath(path string) string {
	i := strings.LastIndex(path, "/")
	if i < 0 {
		return ""
	}
	return path[:i]
}

type Node struct {
	Entry    models.FileEntry
	Path     string
	Children []*Node
	Loaded   bool
	Expanded bool
}

// Row is one visible line of the tree. Up marks the synthetic ".." row.
type Row struct {
	Node  *Node
	Up    bool
	Depth int
}

func (r Row) Path() string {
	if r.Node == nil {
		return ""
	}
	return r.Node.Path
}

func (r Row) IsFile() bool {
	return r.Node != nil && !r.Node.Entry.IsDir()
}

// Tree is a listing rooted at one directory, with lazily loaded children.
type Tree struct {
	root   string
	nodes  []*Node
	cursor int
	loaded bool
}

func New() *Tree {
	return &Tree{}
}

func (t *Tree) Root() string {
	return t.root
}

// Loaded reports whether any listing arrived yet.
func (t *Tree) Loaded() bool {
	return t.loaded
}

// Load places a listing. A path matching a known directory fills in and
// expands that directory; any other path becomes the new root.
func (t *Tree) Load(path string, entries []models.FileEntry) {
	if n := t.find(path); n != nil && n.Entry.IsDir() {
		n.Children = buildNodes(path, entries)
		n.Loaded = true
		n.Expanded = true
		return
	}
	t.root = path
	t.nodes = buildNodes(path, entries)
	t.cursor = 0
	t.loaded = true
}

// Clear empties the tree after a failed load.
func (t *Tree) Clear() {
	t.root = ""
	t.nodes = nil
	t.cursor = 0
}

// Toggle flips an already loaded directory. It reports false when the
// directory still needs to be fetched.
func (t *Tree) Toggle(n *Node) bool {
	if n == nil || !n.Entry.IsDir() || !n.Loaded {
		return false
	}
	n.Expanded = !n.Expanded
	return true
}

// Rows flattens the visible tree, starting with ".." below the root.
func (t *Tree) Rows() []Row {
	var rows []Row
	if t.root != "" {
		rows = append(rows, Row{Up: true})
	}
	var walk func(nodes []*Node, depth int)
	walk = func(nodes []*Node, depth int) {
		for _, n := range nodes {
			rows = append(rows, Row{Node: n, Depth: depth})
			if n.Expanded {
				walk(n.Children, depth+1)
			}
		}
	}
	walk(t.nodes, 0)
	return rows
}

func (t *Tree) Cursor() int {
	return t.cursor
}

// Selected returns the row under the cursor.
func (t *Tree) Selected() (Row, bool) {
	return t.RowAt(t.cursor)
}

func (t *Tree) RowAt(i int) (Row, bool) {
	rows := t.Rows()
	if i < 0 || i >= len(rows) {
		return Row{}, false
	}
	return rows[i], true
}

// Move shifts the cursor by delta, clamped to the visible rows.
func (t *Tree) Move(delta int) {
	t.SetCursor(t.cursor + delta)
}

func (t *Tree) SetCursor(i int) {
	n := len(t.Rows())
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	t.cursor = i
}

func (t *Tree) find(path string) *Node {
	var walk func(nodes []*Node) *Node
	walk = func(nodes []*Node) *Node {
		for _, n := range nodes {
			if n.Path == path {
				return n
			}
			if found := walk(n.Children); found != nil {
				return found
			}
		}
		return nil
	}
	return walk(t.nodes)
}

func buildNodes(dir string, entries []models.FileEntry) []*Node {
	sorted := SortEntries(entries)
	nodes := make([]*Node, 0, len(sorted))
	for _, e := range sorted {
		nodes = append(nodes, &Node{Entry: e, Path: JoinPath(dir, e.Name)})
	}
	return nodes
}

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/codedeck/internal/filetree"
	"github.com/Rorical/codedeck/internal/models"
)

func TestComputeLayoutFillsScreen(t *testing.T) {
	l := ComputeLayout(120, 40, false)

	assert.Equal(t, 120, l.Tree.W+l.Editor.W+l.Log.W)
	assert.Equal(t, 40, l.Title.H+l.Tree.H+l.Input.H+l.Status.H)
	assert.Zero(t, l.Preview.H)

	withPreview := ComputeLayout(120, 40, true)
	assert.Equal(t, l.Editor.H, withPreview.Editor.H+withPreview.Preview.H)
	assert.Equal(t, withPreview.Editor.Y+withPreview.Editor.H, withPreview.Preview.Y)
}

func TestTreeRowAt(t *testing.T) {
	l := ComputeLayout(100, 30, false)

	i, ok := l.TreeRowAt(3, l.TreeRowY(0))
	require.True(t, ok)
	assert.Equal(t, 0, i)

	i, ok = l.TreeRowAt(3, l.TreeRowY(4))
	require.True(t, ok)
	assert.Equal(t, 4, i)

	_, ok = l.TreeRowAt(3, l.Tree.Y+1) // title line
	assert.False(t, ok)
	_, ok = l.TreeRowAt(l.Editor.X+1, l.TreeRowY(0))
	assert.False(t, ok)
}

func TestScrollOffset(t *testing.T) {
	tests := []struct {
		name                           string
		offset, cursor, visible, total int
		want                           int
	}{
		{"inside window", 0, 3, 10, 50, 0},
		{"below window", 0, 12, 10, 50, 3},
		{"above window", 8, 2, 10, 50, 2},
		{"shrunk listing", 40, 5, 10, 12, 2},
		{"nothing visible", 5, 5, 0, 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScrollOffset(tt.offset, tt.cursor, tt.visible, tt.total))
		})
	}
}

func TestOverlay(t *testing.T) {
	bg := strings.Join([]string{"..........", "..........", ".........."}, "\n")

	out := Overlay(bg, "AB\nCD", 3, 1)

	assert.Equal(t, []string{"..........", "...AB.....", "...CD....."}, strings.Split(out, "\n"))
}

func TestOverlayPastShortLine(t *testing.T) {
	out := Overlay("ab", "X", 4, 0)
	assert.Equal(t, "ab  X", out)
}

func TestHumanSize(t *testing.T) {
	assert.Equal(t, "512B", humanSize(512))
	assert.Equal(t, "1.5K", humanSize(1536))
	assert.Equal(t, "2.0M", humanSize(2*1024*1024))
}

func TestRenderTree(t *testing.T) {
	tree := filetree.New()
	size := int64(2048)
	tree.Load("src", []models.FileEntry{
		{Name: "main.py", Type: models.EntryFile, Size: &size},
		{Name: "lib", Type: models.EntryDirectory},
	})

	out := RenderTree(TreeView{Root: tree.Root(), Rows: tree.Rows(), Focused: true}, Rect{W: 40, H: 10})

	assert.Contains(t, out, "Files: /src")
	assert.Contains(t, out, "⬆ ..")
	assert.Contains(t, out, "lib/")
	assert.Contains(t, out, "main.py")
	assert.Contains(t, out, "2.0K")
	assert.Less(t, strings.Index(out, "lib/"), strings.Index(out, "main.py"))
}

func TestRenderTreeEmpty(t *testing.T) {
	assert.Contains(t, RenderTree(TreeView{}, Rect{W: 30, H: 6}), "No files")
	assert.Contains(t, RenderTree(TreeView{Loading: true}, Rect{W: 30, H: 6}), "Loading...")
}

func TestRenderLog(t *testing.T) {
	at := time.Date(2024, 5, 1, 9, 30, 5, 0, time.UTC)
	out := RenderLog([]models.Message{
		{Text: "Searching...", Category: models.System, Time: at},
		{Text: "hello", Sender: models.User, Time: at},
		{Text: "...", Category: models.AI, Sender: models.Assistant, Time: at, Typing: true},
	}, 60, 3)

	assert.Contains(t, out, "09:30:05")
	assert.Contains(t, out, "Searching...")
	assert.Contains(t, out, "You")
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "Assistant")
	assert.Equal(t, "...", TypingIndicator(3))
}

func TestRenderPaneClipsLines(t *testing.T) {
	out := RenderPane("Title", strings.Repeat("x", 100), Rect{W: 20, H: 5}, false)
	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, ansi.StringWidth(line), 20)
	}
	assert.Len(t, strings.Split(out, "\n"), 5)
}

func TestCenteredModal(t *testing.T) {
	box := RenderModal(models.ModalRequest{Title: "Search Code", Prompt: "Enter search keyword:"}, "> foo", 100)
	r := Centered(box, 100, 40)

	assert.Equal(t, ModalWidth(100), r.W)
	assert.Equal(t, (100-r.W)/2, r.X)
	assert.Contains(t, box, "Search Code")
	assert.Contains(t, box, "[x]")
}

func TestCloseMarkMatchesRenderedBox(t *testing.T) {
	for _, screenW := range []int{40, 100, 200} {
		box := RenderModal(models.ModalRequest{Title: "Run Tests", Prompt: "path?"}, "> ", screenW)
		r := Centered(box, screenW, 40)
		mark := CloseMark(r)

		line := ansi.Strip(strings.Split(box, "\n")[mark.Y-r.Y])
		idx := strings.Index(line, closeMark)
		require.GreaterOrEqual(t, idx, 0)
		assert.Equal(t, mark.X-r.X, ansi.StringWidth(line[:idx]), "screen width %d", screenW)
		assert.Equal(t, 3, mark.W)
	}
}

package components

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/Rorical/codedeck/internal/filetree"
	"github.com/Rorical/codedeck/ui/styles"
)

// TreeView is what the tree pane needs to draw itself.
type TreeView struct {
	Root    string
	Rows    []filetree.Row
	Cursor  int
	Offset  int
	Loading bool
	Focused bool
}

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%dB", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%c", float64(n)/float64(div), "KMGTPE"[exp])
}

func treeLabel(row filetree.Row) string {
	if row.Up {
		return "⬆ .."
	}
	n := row.Node
	indent := strings.Repeat("  ", row.Depth)
	if n.Entry.IsDir() {
		mark := "▸"
		if n.Expanded {
			mark = "▾"
		}
		return indent + mark + " " + n.Entry.Name + "/"
	}
	return indent + "  " + n.Entry.Name
}

// RenderTree draws the listing into r.
func RenderTree(v TreeView, r Rect) string {
	title := "Files: /" + v.Root
	w, _ := r.Inner()
	visible := max(r.H-3, 0)

	var lines []string
	switch {
	case v.Loading && len(v.Rows) == 0:
		lines = append(lines, styles.EmptyStyle().Render("Loading..."))
	case len(v.Rows) == 0:
		lines = append(lines, styles.EmptyStyle().Render("No files"))
	default:
		end := min(v.Offset+visible, len(v.Rows))
		for i := v.Offset; i < end; i++ {
			lines = append(lines, treeLine(v.Rows[i], w, i == v.Cursor && v.Focused))
		}
	}
	return RenderPane(title, strings.Join(lines, "\n"), r, v.Focused)
}

func treeLine(row filetree.Row, width int, selected bool) string {
	label := treeLabel(row)
	meta := ""
	if row.IsFile() && row.Node.Entry.Size != nil {
		meta = humanSize(*row.Node.Entry.Size)
	}

	room := width
	if meta != "" {
		room -= runewidth.StringWidth(meta) + 1
	}
	label = runewidth.Truncate(label, max(room, 1), "…")
	pad := max(width-runewidth.StringWidth(label)-runewidth.StringWidth(meta), 0)
	line := label + strings.Repeat(" ", pad)

	style := styles.TreeFileStyle()
	if row.Up || (row.Node != nil && row.Node.Entry.IsDir()) {
		style = styles.TreeDirStyle()
	}
	if selected {
		style = style.Inherit(styles.TreeCursorStyle())
	}
	return style.Render(line) + styles.TreeMetaStyle().Render(meta)
}

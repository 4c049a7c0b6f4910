package components

// Rect is a screen region in cells.
type Rect struct {
	X, Y, W, H int
}

func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Inner is the content size of a bordered pane.
func (r Rect) Inner() (w, h int) {
	return max(r.W-2, 0), max(r.H-2, 0)
}

const (
	titleHeight  = 1
	inputHeight  = 3
	statusHeight = 1
	minMain      = 6
)

// Layout places every pane for one terminal size.
type Layout struct {
	Title   Rect
	Tree    Rect
	Editor  Rect
	Preview Rect // zero size when hidden
	Log     Rect
	Input   Rect
	Status  Rect
}

func ComputeLayout(width, height int, preview bool) Layout {
	mainH := max(height-titleHeight-inputHeight-statusHeight, minMain)

	treeW := min(max(width/4, 22), 40)
	if treeW > width/2 {
		treeW = width / 2
	}
	rest := max(width-treeW, 0)
	editorW := rest * 11 / 20
	logW := rest - editorW

	l := Layout{
		Title:  Rect{X: 0, Y: 0, W: width, H: titleHeight},
		Tree:   Rect{X: 0, Y: titleHeight, W: treeW, H: mainH},
		Editor: Rect{X: treeW, Y: titleHeight, W: editorW, H: mainH},
		Log:    Rect{X: treeW + editorW, Y: titleHeight, W: logW, H: mainH},
		Input:  Rect{X: 0, Y: titleHeight + mainH, W: width, H: inputHeight},
		Status: Rect{X: 0, Y: titleHeight + mainH + inputHeight, W: width, H: statusHeight},
	}
	if preview {
		edH := mainH / 2
		l.Editor.H = edH
		l.Preview = Rect{X: treeW, Y: titleHeight + edH, W: editorW, H: mainH - edH}
	}
	return l
}

// TreeRows is how many listing rows fit below the tree pane's title.
func (l Layout) TreeRows() int {
	_, h := l.Tree.Inner()
	return max(h-1, 0)
}

// TreeRowAt maps a screen position to a visible row index of the tree.
func (l Layout) TreeRowAt(x, y int) (int, bool) {
	if !l.Tree.Contains(x, y) || x == l.Tree.X || x == l.Tree.X+l.Tree.W-1 {
		return 0, false
	}
	i := y - (l.Tree.Y + 2) // top border, then title
	if i < 0 || i >= l.TreeRows() {
		return 0, false
	}
	return i, true
}

// TreeRowY is the screen row of visible tree row i.
func (l Layout) TreeRowY(i int) int {
	return l.Tree.Y + 2 + i
}

// ScrollOffset keeps cursor inside a window of visible rows.
func ScrollOffset(offset, cursor, visible, total int) int {
	if visible <= 0 {
		return 0
	}
	if cursor < offset {
		offset = cursor
	}
	if cursor >= offset+visible {
		offset = cursor - visible + 1
	}
	if limit := max(total-visible, 0); offset > limit {
		offset = limit
	}
	return max(offset, 0)
}

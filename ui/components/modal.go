package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/Rorical/codedeck/internal/models"
	"github.com/Rorical/codedeck/ui/styles"
)

// ModalWidth is the outer width of the prompt box for a screen width.
func ModalWidth(screenW int) int {
	return max(min(screenW-8, 64), 20)
}

const (
	closeMark = "[x]"
	// Cells between the box edge and its content: border plus padding.
	modalInsetX = 3
	modalInsetY = 2
)

// modalInner is the width of the title line for a box w cells wide.
func modalInner(w int) int {
	return max(w-8, 1)
}

// RenderModal draws the prompt box around the input view.
func RenderModal(req models.ModalRequest, inputView string, screenW int) string {
	w := ModalWidth(screenW)
	inner := modalInner(w)
	body := strings.Join([]string{
		styles.ModalTitleStyle().Render(req.Title) + strings.Repeat(" ", max(inner-lipgloss.Width(req.Title)-len(closeMark), 1)) + closeMark,
		"",
		lipgloss.NewStyle().Width(inner).Render(req.Prompt),
		"",
		inputView,
		"",
		styles.HelpStyle().Render("enter confirm · esc cancel · ctrl+x close"),
	}, "\n")
	return styles.ModalStyle(w - 2).Render(body)
}

// CloseMark returns the cells of the close mark of a box placed at r.
func CloseMark(r Rect) Rect {
	n := len(closeMark)
	return Rect{X: r.X + modalInsetX + modalInner(r.W) - n, Y: r.Y + modalInsetY, W: n, H: 1}
}

// Centered returns the rectangle box occupies when centered on the screen.
func Centered(box string, screenW, screenH int) Rect {
	w, h := lipgloss.Width(box), lipgloss.Height(box)
	return Rect{X: max((screenW-w)/2, 0), Y: max((screenH-h)/2, 0), W: w, H: h}
}

// Overlay draws fg over bg with its top-left corner at x,y. bg keeps its
// styling on both sides of the overlaid region.
func Overlay(bg, fg string, x, y int) string {
	bgLines := strings.Split(bg, "\n")
	fgLines := strings.Split(fg, "\n")
	fgW := 0
	for _, line := range fgLines {
		fgW = max(fgW, ansi.StringWidth(line))
	}
	x, y = max(x, 0), max(y, 0)

	for i := 0; i < len(fgLines) && y+i < len(bgLines); i++ {
		bgLine := bgLines[y+i]
		w := ansi.StringWidth(bgLine)
		if w < x {
			bgLine += strings.Repeat(" ", x-w)
			w = x
		}
		fgLine := fgLines[i]
		if n := ansi.StringWidth(fgLine); n < fgW {
			fgLine += strings.Repeat(" ", fgW-n)
		}
		left := ansi.Cut(bgLine, 0, x)
		right := ""
		if x+fgW < w {
			right = ansi.Cut(bgLine, x+fgW, w)
		}
		bgLines[y+i] = left + fgLine + right
	}
	return strings.Join(bgLines, "\n")
}

package components

import "github.com/Rorical/codedeck/ui/styles"

// RenderHover frames a file preview.
func RenderHover(content string) string {
	return styles.HoverStyle().Render(content)
}

// HoverOrigin clamps the preview box so it stays on screen.
func HoverOrigin(box string, x, y, screenW, screenH int) (int, int) {
	r := Centered(box, 0, 0)
	if x+r.W > screenW {
		x = screenW - r.W
	}
	if y+r.H > screenH {
		y = screenH - r.H
	}
	return max(x, 0), max(y, 0)
}

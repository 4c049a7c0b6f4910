package components

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/Rorical/codedeck/ui/styles"
)

// RenderPane frames body inside r with a title line. Lines wider than the
// pane are cut.
func RenderPane(title, body string, r Rect, focused bool) string {
	w, h := r.Inner()
	if w <= 0 || h <= 0 {
		return ""
	}
	lines := []string{styles.PaneTitleStyle(focused).Render(ansi.Truncate(title, w, "…"))}
	for _, line := range strings.Split(body, "\n") {
		if len(lines) == h {
			break
		}
		lines = append(lines, ansi.Truncate(line, w, ""))
	}
	return styles.PaneStyle(r.W, r.H, focused).Render(strings.Join(lines, "\n"))
}

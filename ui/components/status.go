package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/Rorical/codedeck/ui/styles"
)

// RenderStatus draws the bottom bar. spin is shown while actions are pending.
func RenderStatus(status, spin string, pending int, hint string, width int) string {
	left := status
	if pending > 0 {
		left = fmt.Sprintf("%s %s (%d running)", spin, status, pending)
	}
	inner := max(width-2, 0)
	hintW := lipgloss.Width(hint)
	if lipgloss.Width(left)+hintW+1 > inner {
		hint, hintW = "", 0
	}
	left = ansi.Truncate(left, inner-hintW, "…")
	gap := max(inner-lipgloss.Width(left)-hintW, 0)
	return styles.StatusStyle(width).Render(left + fmt.Sprintf("%*s", gap, "") + hint)
}

// RenderTitle draws the top bar.
func RenderTitle(profile, baseURL, currentFile string, width int) string {
	text := "codedeck · " + profile + " · " + baseURL
	if currentFile != "" {
		text += " · " + currentFile
	}
	return styles.TitleBarStyle(width).Render(ansi.Truncate(text, max(width-2, 0), "…"))
}

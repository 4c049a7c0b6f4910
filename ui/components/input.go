package components

import "github.com/Rorical/codedeck/ui/styles"

// RenderInput frames the chat input line.
func RenderInput(view string, width int, focused bool) string {
	return styles.InputStyle(width, focused).Render(view)
}

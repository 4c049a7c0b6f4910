package components

import (
	"github.com/Rorical/codedeck/internal/utils"
	"github.com/Rorical/codedeck/ui/styles"
)

// RenderPreview renders the editor buffer: markdown is styled, anything else
// is shown verbatim.
func RenderPreview(content, language string) string {
	if content == "" {
		return styles.EmptyStyle().Render("Nothing to preview")
	}
	if language == "markdown" {
		return utils.RenderMarkdown(content)
	}
	return content
}

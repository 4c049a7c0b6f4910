package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Rorical/codedeck/internal/models"
	"github.com/Rorical/codedeck/internal/utils"
	"github.com/Rorical/codedeck/ui/styles"
)

var typingFrames = []string{"   ", ".  ", ".. ", "..."}

// TypingIndicator is the animated suffix of an entry that is still typing.
func TypingIndicator(frame int) string {
	return typingFrames[frame%len(typingFrames)]
}

// RenderLog renders every entry for the log viewport. Entries still typing
// end with an animated indicator.
func RenderLog(messages []models.Message, width, frame int) string {
	width = max(width, 10)
	blocks := make([]string, 0, len(messages))
	for _, msg := range messages {
		blocks = append(blocks, renderEntry(msg, width, frame))
	}
	return strings.Join(blocks, "\n\n")
}

func renderEntry(msg models.Message, width, frame int) string {
	stamp := styles.TimestampStyle().Render(msg.Time.Format("15:04:05"))
	text := msg.Text
	if msg.Typing {
		text = strings.TrimSuffix(text, "...") + TypingIndicator(frame)
	}

	switch msg.Sender {
	case models.User:
		header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Render("You") + " " + stamp
		return header + "\n" + styles.UserStyle().Width(width-2).Render(text)
	case models.Assistant:
		header := styles.CategoryStyle(models.AI).Bold(true).Render("Assistant") + " " + stamp
		return header + "\n" + styles.AssistantStyle().Width(width-2).Render(utils.RenderMarkdown(text))
	}

	icon := styles.CategoryStyle(msg.Category).Bold(true).Render(styles.Icon(msg.Category))
	body := text
	if msg.Category == models.AI {
		body = utils.RenderMarkdown(text)
	}
	body = styles.CategoryStyle(msg.Category).Width(width - 2).Render(body)
	return icon + " " + stamp + "\n" + lipgloss.NewStyle().PaddingLeft(2).Render(body)
}

package utils

import "github.com/charmbracelet/lipgloss"

// Markdown styles
func CodeBlockStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Background(lipgloss.Color("236")).
		Padding(0, 1)
}

func InlineCodeStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("180")).
		Background(lipgloss.Color("236"))
}

func FenceStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("240"))
}

func BoldStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true)
}

func ItalicStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Italic(true)
}

func HeadingStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("141"))
}

func LinkStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Underline(true)
}

func QuoteStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true)
}

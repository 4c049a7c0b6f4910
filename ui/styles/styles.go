package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Rorical/codedeck/internal/models"
)

var (
	accent  = lipgloss.Color("62")
	muted   = lipgloss.Color("241")
	subtle  = lipgloss.Color("236")
	userFg  = lipgloss.Color("39")
	agentFg = lipgloss.Color("214")
)

var categoryColors = map[models.Category]lipgloss.Color{
	models.System:  lipgloss.Color("245"),
	models.Success: lipgloss.Color("42"),
	models.Error:   lipgloss.Color("196"),
	models.Warning: lipgloss.Color("214"),
	models.AI:      lipgloss.Color("141"),
}

var categoryIcons = map[models.Category]string{
	models.System:  "ℹ",
	models.Success: "✔",
	models.Error:   "✖",
	models.Warning: "⚠",
	models.AI:      "✦",
}

// Icon is the glyph shown before an entry of category c.
func Icon(c models.Category) string {
	return categoryIcons[c]
}

func CategoryStyle(c models.Category) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(categoryColors[c])
}

// PaneStyle frames a pane of the given outer size.
func PaneStyle(width, height int, focused bool) lipgloss.Style {
	border := muted
	if focused {
		border = accent
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(max(width-2, 0)).
		Height(max(height-2, 0)).
		MaxHeight(height)
}

func PaneTitleStyle(focused bool) lipgloss.Style {
	s := lipgloss.NewStyle().Bold(true).Foreground(muted)
	if focused {
		s = s.Foreground(accent)
	}
	return s
}

func TitleBarStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("231")).
		Background(accent).
		Bold(true).
		Padding(0, 1).
		Width(width)
}

func InputStyle(width int, focused bool) lipgloss.Style {
	border := muted
	if focused {
		border = accent
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(max(width-2, 0))
}

func StatusStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(muted).
		Background(lipgloss.Color("235")).
		Padding(0, 1).
		Width(width)
}

func TimestampStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
}

func UserStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(userFg).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(userFg).
		PaddingLeft(1)
}

func AssistantStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(agentFg).
		PaddingLeft(1)
}

func TreeDirStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Bold(true)
}

func TreeFileStyle() lipgloss.Style {
	return lipgloss.NewStyle()
}

func TreeCursorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Background(subtle).Bold(true)
}

func TreeMetaStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(muted)
}

func ModalStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(accent).
		Padding(1, 2).
		Width(width)
}

func ModalTitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(accent)
}

func HoverStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(agentFg).
		Background(lipgloss.Color("234")).
		Padding(0, 1)
}

func HelpStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(muted).Padding(0, 1)
}

func EmptyStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(muted).Italic(true)
}

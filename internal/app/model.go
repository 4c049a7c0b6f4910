package app

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Rorical/codedeck/internal/eventbus"
	"github.com/Rorical/codedeck/internal/models"
	"github.com/Rorical/codedeck/internal/update"
	"github.com/Rorical/codedeck/ui/components"
	"github.com/Rorical/codedeck/ui/styles"
)

// AppModel is the root tea.Model.
type AppModel struct {
	state *update.State
	bus   *eventbus.EventBus
}

func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(
		update.TickCmd(),
		update.ListenForCoreEvents(m.bus),
		textinput.Blink,
	)
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle core events and continue listening
	if coreEvent, ok := msg.(update.CoreEventMsg); ok {
		cmd := m.state.HandleCoreEvent(coreEvent)
		return m, tea.Batch(cmd, update.ListenForCoreEvents(m.bus))
	}
	return m, update.Update(m.state, msg)
}

func (m *AppModel) View() string {
	s := m.state
	if s.App.Width == 0 || s.App.Height == 0 {
		return "Starting codedeck..."
	}
	l := s.Layout
	prompting := s.OpenPrompt != nil
	focused := func(p models.Pane) bool { return !prompting && s.App.Focus == p }

	tree := components.RenderTree(components.TreeView{
		Root:    s.Tree.Root(),
		Rows:    s.Tree.Rows(),
		Cursor:  s.Tree.Cursor(),
		Offset:  s.TreeOffset,
		Loading: s.App.TreeLoading,
		Focused: focused(models.TreePane),
	}, l.Tree)

	editorTitle := "Editor"
	if s.App.CurrentFile != "" {
		editorTitle += ": " + s.App.CurrentFile + " (" + s.Editor.Language() + ")"
	}
	middle := components.RenderPane(editorTitle, s.Editor.View(), l.Editor, focused(models.EditorPane))
	if s.App.PreviewVisible {
		preview := components.RenderPane("Preview", s.PreviewView.View(), l.Preview, false)
		middle = lipgloss.JoinVertical(lipgloss.Left, middle, preview)
	}
	messages := components.RenderPane("Messages", s.LogView.View(), l.Log, false)

	screen := lipgloss.JoinVertical(lipgloss.Left,
		components.RenderTitle(s.App.Profile, s.App.BaseURL, s.App.CurrentFile, l.Title.W),
		lipgloss.JoinHorizontal(lipgloss.Top, tree, middle, messages),
		components.RenderInput(s.Chat.View(), l.Input.W, focused(models.ChatPane)),
		components.RenderStatus(s.App.Status, s.Spinner.View(), s.App.Pending,
			s.Help.ShortHelpView(s.Keys.ShortHelp()), l.Status.W),
	)

	if s.Hover.Visible() && !prompting {
		content, x, y := s.Hover.Box()
		box := components.RenderHover(content)
		x, y = components.HoverOrigin(box, x, y, s.App.Width, s.App.Height)
		screen = components.Overlay(screen, box, x, y)
	}
	if s.App.ShowHelp && !prompting {
		box := styles.ModalStyle(min(s.App.Width-4, 100)).Render(s.Help.FullHelpView(s.Keys.FullHelp()))
		r := components.Centered(box, s.App.Width, s.App.Height)
		screen = components.Overlay(screen, box, r.X, r.Y)
	}
	if prompting {
		box := components.RenderModal(*s.OpenPrompt, s.PromptInput.View(), s.App.Width)
		r := components.Centered(box, s.App.Width, s.App.Height)
		screen = components.Overlay(screen, box, r.X, r.Y)
	}
	return screen
}

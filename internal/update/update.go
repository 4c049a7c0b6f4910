package update

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/codedeck/internal/eventbus"
	"github.com/Rorical/codedeck/internal/hover"
)

// Update routes one message to its handler.
func Update(s *State, msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return s.HandleKeyMsg(msg)
	case tea.MouseMsg:
		return s.HandleMouseMsg(msg)
	case tea.WindowSizeMsg:
		s.Resize(msg.Width, msg.Height)
	case TickMsg:
		return s.HandleTick()
	case SettleMsg:
		s.HandleSettle(msg)
	case CoreEventMsg:
		return s.HandleCoreEvent(msg)
	case hover.DueMsg:
		return s.Hover.HandleDue(msg)
	case hover.LoadedMsg:
		s.Hover.HandleLoaded(msg)
	case spinner.TickMsg:
		if s.App.Pending > 0 {
			var cmd tea.Cmd
			s.Spinner, cmd = s.Spinner.Update(msg)
			return cmd
		}
	default:
		// Cursor blink and other widget messages go to the focused input.
		return s.forward(msg)
	}
	return nil
}

func (s *State) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if s.OpenPrompt != nil {
		s.PromptInput, cmd = s.PromptInput.Update(msg)
		return cmd
	}
	s.Chat, cmd = s.Chat.Update(msg)
	return tea.Batch(cmd, s.Editor.Update(msg))
}

// ListenForCoreEvents waits for the next core event. It returns nil once the
// bus is closed, which ends the listening loop.
func ListenForCoreEvents(eb *eventbus.EventBus) tea.Cmd {
	return func() tea.Msg {
		select {
		case ev := <-eb.CoreToUI():
			return CoreEventMsg{Event: ev}
		case <-eb.Done():
			return nil
		}
	}
}

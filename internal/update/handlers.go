package update

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/codedeck/internal/core"
	"github.com/Rorical/codedeck/internal/eventbus"
	"github.com/Rorical/codedeck/internal/filetree"
	"github.com/Rorical/codedeck/internal/models"
	"github.com/Rorical/codedeck/ui/components"
)

// SettleMsg ends the typing animation of one log entry.
type SettleMsg struct {
	ID string
}

// CoreEventMsg wraps core events for Bubble Tea
type CoreEventMsg struct {
	Event eventbus.CoreEvent
}

type TickMsg time.Time

const tickInterval = 300 * time.Millisecond

func TickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// dispatch asks the core to run action with a snapshot of the editor.
func (s *State) dispatch(action, arg string) {
	ev := eventbus.ActionEvent{
		Action: action,
		Arg:    arg,
		Snapshot: eventbus.Snapshot{
			CurrentFile: s.App.CurrentFile,
			Content:     s.Editor.Content(),
		},
	}
	if err := s.bus.SendToCore(ev); err != nil {
		s.log.WithError(err).WithField("action", action).Warn("could not dispatch action")
		s.App.Status = "Error: " + err.Error()
	}
}

// Navigate replaces the tree with the listing of dir.
func (s *State) Navigate(dir string) {
	s.Tree.Clear()
	s.TreeOffset = 0
	s.App.TreeLoading = true
	s.Hover.Leave()
	s.dispatch(core.ActionListFiles, dir)
}

func (s *State) HandleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, s.Keys.Quit) {
		return tea.Quit
	}
	if s.OpenPrompt != nil {
		return s.handlePromptKey(msg)
	}

	switch {
	case key.Matches(msg, s.Keys.Help):
		s.App.ShowHelp = !s.App.ShowHelp
		s.Help.ShowAll = s.App.ShowHelp
		return nil
	case key.Matches(msg, s.Keys.Focus):
		return s.cycleFocus()
	case key.Matches(msg, s.Keys.Search):
		s.dispatch(core.ActionSearch, "")
	case key.Matches(msg, s.Keys.Semantic):
		s.dispatch(core.ActionSemanticSearch, "")
	case key.Matches(msg, s.Keys.Tests):
		s.dispatch(core.ActionRunTests, "")
	case key.Matches(msg, s.Keys.Analyze):
		s.dispatch(core.ActionAnalyze, "")
	case key.Matches(msg, s.Keys.Context):
		s.dispatch(core.ActionContext, "")
	case key.Matches(msg, s.Keys.GitStatus):
		s.dispatch(core.ActionGitStatus, "")
	case key.Matches(msg, s.Keys.Suggest):
		s.dispatch(core.ActionSuggest, "")
	case key.Matches(msg, s.Keys.Upload):
		s.dispatch(core.ActionUpload, "")
	case key.Matches(msg, s.Keys.Commit):
		s.dispatch(core.ActionGitCommit, "")
	case key.Matches(msg, s.Keys.Refresh):
		s.Navigate(s.Tree.Root())
	case key.Matches(msg, s.Keys.Clear):
		s.Log.Clear(core.Welcome)
		s.refreshLog()
	case key.Matches(msg, s.Keys.Preview):
		s.App.PreviewVisible = !s.App.PreviewVisible
		s.Resize(s.App.Width, s.App.Height)
	case key.Matches(msg, s.Keys.Copy):
		s.copyLastReply()
	case key.Matches(msg, s.Keys.Scroll):
		var cmd tea.Cmd
		s.LogView, cmd = s.LogView.Update(msg)
		return cmd
	default:
		return s.handlePaneKey(msg)
	}
	return nil
}

func (s *State) handlePromptKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, s.Keys.Confirm):
		s.modal.Confirm(s.PromptInput.Value())
		return s.dismissPrompt()
	case key.Matches(msg, s.Keys.Cancel):
		s.modal.Cancel()
		return s.dismissPrompt()
	case key.Matches(msg, s.Keys.Close):
		s.modal.Close()
		return s.dismissPrompt()
	}
	var cmd tea.Cmd
	s.PromptInput, cmd = s.PromptInput.Update(msg)
	return cmd
}

func (s *State) dismissPrompt() tea.Cmd {
	s.OpenPrompt = nil
	s.PromptInput.Blur()
	s.PromptInput.Reset()
	return s.focus(s.App.Focus)
}

func (s *State) handlePaneKey(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	switch s.App.Focus {
	case models.TreePane:
		return s.handleTreeKey(msg)
	case models.EditorPane:
		cmd = s.Editor.Update(msg)
		s.refreshPreview()
	case models.ChatPane:
		if key.Matches(msg, s.Keys.Open) {
			text := strings.TrimSpace(s.Chat.Value())
			if text == "" {
				return nil
			}
			s.Chat.Reset()
			s.dispatch(core.ActionChat, text)
			return nil
		}
		s.Chat, cmd = s.Chat.Update(msg)
	}
	return cmd
}

func (s *State) handleTreeKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, s.Keys.Up):
		s.Tree.Move(-1)
		return s.cursorMoved()
	case key.Matches(msg, s.Keys.Down):
		s.Tree.Move(1)
		return s.cursorMoved()
	case key.Matches(msg, s.Keys.Open):
		if row, ok := s.Tree.Selected(); ok {
			s.activate(row)
		}
	case key.Matches(msg, s.Keys.Expand):
		if row, ok := s.Tree.Selected(); ok && row.Node != nil && row.Node.Entry.IsDir() {
			if !s.Tree.Toggle(row.Node) {
				s.App.TreeLoading = true
				s.dispatch(core.ActionListFiles, row.Path())
			}
		}
	case key.Matches(msg, s.Keys.Back):
		if s.Tree.Root() != "" {
			s.Navigate(filetree.ParentPath(s.Tree.Root()))
		}
	}
	return nil
}

// activate opens a file or navigates into a directory.
func (s *State) activate(row filetree.Row) {
	s.Hover.Leave()
	switch {
	case row.Up:
		s.Navigate(filetree.ParentPath(s.Tree.Root()))
	case row.IsFile():
		s.App.Status = "Loading " + row.Path() + "..."
		s.dispatch(core.ActionReadFile, row.Path())
	case row.Node != nil:
		s.Navigate(row.Path())
	}
}

// cursorMoved keeps the cursor visible and treats the selected row as
// hovered, anchored just right of the tree pane.
func (s *State) cursorMoved() tea.Cmd {
	rows := s.Tree.Rows()
	s.TreeOffset = components.ScrollOffset(s.TreeOffset, s.Tree.Cursor(), s.Layout.TreeRows(), len(rows))

	row, ok := s.Tree.Selected()
	if !ok || !row.IsFile() {
		s.Hover.Leave()
		return nil
	}
	x := s.Layout.Tree.X + s.Layout.Tree.W - 2
	y := s.Layout.TreeRowY(s.Tree.Cursor() - s.TreeOffset)
	return s.Hover.Enter(row.Path(), x, y)
}

func (s *State) cycleFocus() tea.Cmd {
	return s.focus((s.App.Focus + 1) % 3)
}

func (s *State) focus(p models.Pane) tea.Cmd {
	s.App.Focus = p
	s.Editor.Blur()
	s.Chat.Blur()
	if p != models.TreePane {
		s.Hover.Leave()
	}
	switch p {
	case models.EditorPane:
		return s.Editor.Focus()
	case models.ChatPane:
		return s.Chat.Focus()
	}
	return nil
}

func (s *State) copyLastReply() {
	text, ok := s.Log.LastReply()
	if !ok {
		s.App.Status = "Nothing to copy yet"
		return
	}
	if s.copy == nil {
		s.App.Status = "Clipboard unavailable"
		return
	}
	if err := s.copy(text); err != nil {
		s.log.WithError(err).Warn("clipboard write failed")
		s.App.Status = "Copy failed: " + err.Error()
		return
	}
	s.App.Status = "Copied last reply to clipboard"
}

func (s *State) HandleMouseMsg(msg tea.MouseMsg) tea.Cmd {
	if s.OpenPrompt != nil {
		return s.handlePromptMouse(msg)
	}

	l := s.Layout
	switch {
	case l.Tree.Contains(msg.X, msg.Y):
		return s.handleTreeMouse(msg)
	case l.Log.Contains(msg.X, msg.Y):
		s.leaveHover()
		var cmd tea.Cmd
		s.LogView, cmd = s.LogView.Update(msg)
		return cmd
	default:
		s.leaveHover()
	}
	return nil
}

// handlePromptMouse closes the prompt on a click outside the box or on its
// close mark.
func (s *State) handlePromptMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return nil
	}
	box := components.Centered(components.RenderModal(*s.OpenPrompt, s.PromptInput.View(), s.App.Width), s.App.Width, s.App.Height)
	if box.Contains(msg.X, msg.Y) && !components.CloseMark(box).Contains(msg.X, msg.Y) {
		return nil
	}
	s.modal.Close()
	return s.dismissPrompt()
}

func (s *State) handleTreeMouse(msg tea.MouseMsg) tea.Cmd {
	i, onRow := s.Layout.TreeRowAt(msg.X, msg.Y)
	idx := s.TreeOffset + i
	row, ok := s.Tree.RowAt(idx)
	ok = ok && onRow

	switch {
	case msg.Action == tea.MouseActionMotion:
		if ok && row.IsFile() {
			return s.Hover.Enter(row.Path(), msg.X, msg.Y)
		}
		s.leaveHover()
	case msg.Button == tea.MouseButtonWheelUp:
		s.Tree.Move(-1)
		s.TreeOffset = components.ScrollOffset(s.TreeOffset, s.Tree.Cursor(), s.Layout.TreeRows(), len(s.Tree.Rows()))
	case msg.Button == tea.MouseButtonWheelDown:
		s.Tree.Move(1)
		s.TreeOffset = components.ScrollOffset(s.TreeOffset, s.Tree.Cursor(), s.Layout.TreeRows(), len(s.Tree.Rows()))
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && ok:
		s.Tree.SetCursor(idx)
		cmd := s.focus(models.TreePane)
		s.activate(row)
		return cmd
	}
	return nil
}

func (s *State) leaveHover() {
	if s.Hover.Target() != "" || s.Hover.Visible() {
		s.Hover.Leave()
	}
}

// HandleCoreEvent applies one event from the core to the view.
func (s *State) HandleCoreEvent(msg CoreEventMsg) tea.Cmd {
	switch e := msg.Event.(type) {
	case eventbus.AppendEvent:
		s.Log.AppendMessage(e.Message)
		s.refreshLog()
		if e.SettleAfter > 0 {
			id := e.Message.ID
			return tea.Tick(e.SettleAfter, func(time.Time) tea.Msg {
				return SettleMsg{ID: id}
			})
		}
	case eventbus.RemoveEvent:
		if s.Log.Remove(e.ID) {
			s.refreshLog()
		}
	case eventbus.ModalOpenedEvent:
		req := e.Request
		s.OpenPrompt = &req
		s.leaveHover()
		s.Editor.Blur()
		s.Chat.Blur()
		s.PromptInput.SetValue(req.Default)
		s.PromptInput.CursorEnd()
		return s.PromptInput.Focus()
	case eventbus.ActivityEvent:
		wasIdle := s.App.Pending == 0
		s.App.Pending = max(s.App.Pending+e.Delta, 0)
		if s.App.Pending == 0 {
			s.App.Status = "Ready"
		} else {
			s.App.Status = e.Action + "..."
		}
		if wasIdle && s.App.Pending > 0 {
			return s.Spinner.Tick
		}
	case eventbus.TreeLoadedEvent:
		s.App.TreeLoading = false
		s.Tree.Load(e.Path, e.Entries)
		s.TreeOffset = components.ScrollOffset(s.TreeOffset, s.Tree.Cursor(), s.Layout.TreeRows(), len(s.Tree.Rows()))
	case eventbus.TreeFailedEvent:
		s.App.TreeLoading = false
		s.Tree.Clear()
		s.TreeOffset = 0
	case eventbus.FileOpenedEvent:
		s.Editor.SetContent(e.Content)
		s.Editor.SetLanguage(e.Language)
		s.App.CurrentFile = e.Path
		s.App.Status = "Editing: " + e.Path + " (" + e.Language + ")"
		s.refreshPreview()
	}
	return nil
}

func (s *State) HandleTick() tea.Cmd {
	if s.typing() {
		s.Frame++
		s.refreshLog()
	}
	return TickCmd()
}

func (s *State) HandleSettle(msg SettleMsg) {
	if s.Log.Settle(msg.ID) {
		s.refreshLog()
	}
}

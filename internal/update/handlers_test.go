package update

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/codedeck/internal/core"
	"github.com/Rorical/codedeck/internal/eventbus"
	"github.com/Rorical/codedeck/internal/modal"
	"github.com/Rorical/codedeck/internal/models"
	"github.com/Rorical/codedeck/ui/components"
)

type noPreview struct{}

func (noPreview) Preview(context.Context, string) (string, error) {
	return "", errors.New("not used")
}

type fixture struct {
	s      *State
	bus    *eventbus.EventBus
	modal  *modal.Controller
	copied []string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{bus: eventbus.NewEventBus(), modal: modal.NewController()}
	t.Cleanup(f.bus.Close)
	f.s = NewState(models.AppModel{Width: 120, Height: 40, Status: "Ready"}, Deps{
		Bus:     f.bus,
		Modal:   f.modal,
		Preview: noPreview{},
		Copy: func(text string) error {
			f.copied = append(f.copied, text)
			return nil
		},
	})
	return f
}

func (f *fixture) sent(t *testing.T) eventbus.ActionEvent {
	t.Helper()
	select {
	case ev := <-f.bus.UIToCore():
		a, ok := ev.(eventbus.ActionEvent)
		require.True(t, ok)
		return a
	default:
		t.Fatal("no event sent to core")
		return eventbus.ActionEvent{}
	}
}

func (f *fixture) loadTree() {
	size := int64(10)
	f.s.HandleCoreEvent(CoreEventMsg{Event: eventbus.TreeLoadedEvent{Path: "", Entries: []models.FileEntry{
		{Name: "main.py", Type: models.EntryFile, Size: &size},
		{Name: "lib", Type: models.EntryDirectory},
	}}})
}

func press(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func TestFunctionKeyDispatchesAction(t *testing.T) {
	f := newFixture(t)
	f.s.Editor.SetContent("x = 1")
	f.s.App.CurrentFile = "a.py"

	f.s.HandleKeyMsg(press(tea.KeyF2))

	ev := f.sent(t)
	assert.Equal(t, core.ActionSearch, ev.Action)
	assert.Equal(t, eventbus.Snapshot{CurrentFile: "a.py", Content: "x = 1"}, ev.Snapshot)
}

type promptResult struct {
	value string
	err   error
}

func openPrompt(t *testing.T, f *fixture, req models.ModalRequest) <-chan promptResult {
	t.Helper()
	res := make(chan promptResult, 1)
	go func() {
		v, err := f.modal.Prompt(context.Background(), req)
		res <- promptResult{v, err}
	}()
	require.Eventually(t, f.modal.IsOpen, time.Second, time.Millisecond)
	f.s.HandleCoreEvent(CoreEventMsg{Event: eventbus.ModalOpenedEvent{Request: req}})
	return res
}

func TestPromptSettles(t *testing.T) {
	req := models.ModalRequest{Title: "AI Suggestion", Prompt: "kind?", Default: "refactor"}

	tests := []struct {
		name    string
		act     func(f *fixture)
		want    string
		wantErr error
	}{
		{"enter confirms the default", func(f *fixture) { f.s.HandleKeyMsg(press(tea.KeyEnter)) }, "refactor", nil},
		{"esc cancels", func(f *fixture) { f.s.HandleKeyMsg(press(tea.KeyEsc)) }, "", modal.ErrCancelled},
		{"ctrl+x closes", func(f *fixture) { f.s.HandleKeyMsg(press(tea.KeyCtrlX)) }, "", modal.ErrClosed},
		{"click outside closes", func(f *fixture) {
			f.s.HandleMouseMsg(tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
		}, "", modal.ErrClosed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			res := openPrompt(t, f, req)
			assert.Equal(t, "refactor", f.s.PromptInput.Value())

			tt.act(f)

			got := <-res
			assert.Equal(t, tt.want, got.value)
			if tt.wantErr != nil {
				assert.ErrorIs(t, got.err, tt.wantErr)
			} else {
				assert.NoError(t, got.err)
			}
			assert.Nil(t, f.s.OpenPrompt)
			assert.False(t, f.modal.IsOpen())
		})
	}
}

func TestClickOnCloseMarkCloses(t *testing.T) {
	req := models.ModalRequest{Title: "Run Tests", Prompt: "path?"}
	for i := 0; i < 3; i++ {
		f := newFixture(t)
		res := openPrompt(t, f, req)
		box := components.Centered(components.RenderModal(req, f.s.PromptInput.View(), f.s.App.Width), f.s.App.Width, f.s.App.Height)
		mark := components.CloseMark(box)

		f.s.HandleMouseMsg(tea.MouseMsg{X: mark.X + i, Y: mark.Y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})

		got := <-res
		assert.ErrorIs(t, got.err, modal.ErrClosed, "cell %d", i)
		assert.False(t, f.modal.IsOpen())
	}
}

func TestClickInsideBoxKeepsPrompt(t *testing.T) {
	req := models.ModalRequest{Title: "Run Tests", Prompt: "path?"}
	f := newFixture(t)
	openPrompt(t, f, req)
	box := components.Centered(components.RenderModal(req, f.s.PromptInput.View(), f.s.App.Width), f.s.App.Width, f.s.App.Height)
	mark := components.CloseMark(box)

	f.s.HandleMouseMsg(tea.MouseMsg{X: mark.X - 1, Y: mark.Y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})

	assert.True(t, f.modal.IsOpen())
	f.modal.Cancel()
}

func TestPromptSwallowsActionKeys(t *testing.T) {
	f := newFixture(t)
	res := openPrompt(t, f, models.ModalRequest{Title: "Search Code"})

	f.s.HandleKeyMsg(press(tea.KeyF3))
	f.s.HandleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("foo")})

	select {
	case <-f.bus.UIToCore():
		t.Fatal("action dispatched while a prompt is open")
	default:
	}
	f.s.HandleKeyMsg(press(tea.KeyEnter))
	assert.Equal(t, "foo", (<-res).value)
}

func TestTypingEntrySettles(t *testing.T) {
	f := newFixture(t)
	msg := models.Message{ID: "s1", Text: "suggestion", Category: models.AI, Typing: true}

	cmd := f.s.HandleCoreEvent(CoreEventMsg{Event: eventbus.AppendEvent{Message: msg, SettleAfter: 800 * time.Millisecond}})

	require.NotNil(t, cmd)
	assert.True(t, f.s.typing())
	f.s.HandleSettle(SettleMsg{ID: "s1"})
	assert.False(t, f.s.typing())
}

func TestRemoveEvent(t *testing.T) {
	f := newFixture(t)
	f.s.HandleCoreEvent(CoreEventMsg{Event: eventbus.AppendEvent{Message: models.Message{ID: "p", Text: "...", Typing: true}}})
	require.Equal(t, 2, f.s.Log.Len())

	f.s.HandleCoreEvent(CoreEventMsg{Event: eventbus.RemoveEvent{ID: "p"}})

	assert.Equal(t, 1, f.s.Log.Len())
}

func TestActivityCountsPending(t *testing.T) {
	f := newFixture(t)

	cmd := f.s.HandleCoreEvent(CoreEventMsg{Event: eventbus.ActivityEvent{Action: "Search", Delta: 1}})
	assert.NotNil(t, cmd)
	f.s.HandleCoreEvent(CoreEventMsg{Event: eventbus.ActivityEvent{Action: "Test", Delta: 1}})
	assert.Equal(t, 2, f.s.App.Pending)

	f.s.HandleCoreEvent(CoreEventMsg{Event: eventbus.ActivityEvent{Action: "Search", Delta: -1}})
	f.s.HandleCoreEvent(CoreEventMsg{Event: eventbus.ActivityEvent{Action: "Test", Delta: -1}})
	assert.Zero(t, f.s.App.Pending)
	assert.Equal(t, "Ready", f.s.App.Status)
}

func TestHoverOverFileRow(t *testing.T) {
	f := newFixture(t)
	f.loadTree()
	l := f.s.Layout

	// Rows: lib/ then main.py.
	cmd := f.s.HandleMouseMsg(tea.MouseMsg{X: 3, Y: l.TreeRowY(1), Action: tea.MouseActionMotion})
	assert.NotNil(t, cmd)
	assert.Equal(t, "main.py", f.s.Hover.Target())

	cmd = f.s.HandleMouseMsg(tea.MouseMsg{X: 3, Y: l.TreeRowY(0), Action: tea.MouseActionMotion})
	assert.Nil(t, cmd)
	assert.Empty(t, f.s.Hover.Target())
}

func TestKeyboardCursorHovers(t *testing.T) {
	f := newFixture(t)
	f.loadTree()

	cmd := f.s.HandleKeyMsg(press(tea.KeyDown))

	assert.NotNil(t, cmd)
	assert.Equal(t, "main.py", f.s.Hover.Target())
}

func TestClickFileOpensIt(t *testing.T) {
	f := newFixture(t)
	f.loadTree()

	f.s.HandleMouseMsg(tea.MouseMsg{X: 3, Y: f.s.Layout.TreeRowY(1), Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})

	ev := f.sent(t)
	assert.Equal(t, core.ActionReadFile, ev.Action)
	assert.Equal(t, "main.py", ev.Arg)
}

func TestEnterDirectoryNavigates(t *testing.T) {
	f := newFixture(t)
	f.loadTree()

	f.s.HandleKeyMsg(press(tea.KeyEnter))

	ev := f.sent(t)
	assert.Equal(t, core.ActionListFiles, ev.Action)
	assert.Equal(t, "lib", ev.Arg)
	assert.True(t, f.s.App.TreeLoading)
	assert.Empty(t, f.s.Tree.Rows())
}

func TestTreeFailureEmptiesTree(t *testing.T) {
	f := newFixture(t)
	f.loadTree()

	f.s.HandleCoreEvent(CoreEventMsg{Event: eventbus.TreeFailedEvent{Path: "x"}})

	assert.Empty(t, f.s.Tree.Rows())
	assert.False(t, f.s.App.TreeLoading)
}

func TestFileOpened(t *testing.T) {
	f := newFixture(t)

	f.s.HandleCoreEvent(CoreEventMsg{Event: eventbus.FileOpenedEvent{Path: "pkg/app.py", Content: "print(1)", Language: "python"}})

	assert.Equal(t, "pkg/app.py", f.s.App.CurrentFile)
	assert.Equal(t, "print(1)", f.s.Editor.Content())
	assert.Equal(t, "python", f.s.Editor.Language())
	assert.Contains(t, f.s.App.Status, "pkg/app.py")
}

func TestClearLeavesWelcome(t *testing.T) {
	f := newFixture(t)
	f.s.Log.Append("noise", models.Warning)

	f.s.HandleKeyMsg(press(tea.KeyCtrlL))

	entries := f.s.Log.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, core.Welcome, entries[0].Text)
}

func TestCopyLastReply(t *testing.T) {
	f := newFixture(t)

	f.s.HandleKeyMsg(press(tea.KeyCtrlY))
	assert.Empty(t, f.copied)

	f.s.Log.AppendFrom(models.Assistant, "use a dict", models.AI, false)
	f.s.HandleKeyMsg(press(tea.KeyCtrlY))
	assert.Equal(t, []string{"use a dict"}, f.copied)
}

func TestChatEnterSendsMessage(t *testing.T) {
	f := newFixture(t)
	f.s.HandleKeyMsg(press(tea.KeyTab)) // editor
	f.s.HandleKeyMsg(press(tea.KeyTab)) // chat
	require.Equal(t, models.ChatPane, f.s.App.Focus)

	f.s.HandleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("why?")})
	f.s.HandleKeyMsg(press(tea.KeyEnter))

	ev := f.sent(t)
	assert.Equal(t, core.ActionChat, ev.Action)
	assert.Equal(t, "why?", ev.Arg)
	assert.Empty(t, f.s.Chat.Value())
}

func TestPreviewToggle(t *testing.T) {
	f := newFixture(t)
	before := f.s.Layout.Editor.H

	f.s.HandleKeyMsg(press(tea.KeyCtrlP))

	assert.True(t, f.s.App.PreviewVisible)
	assert.Less(t, f.s.Layout.Editor.H, before)
	assert.NotZero(t, f.s.Layout.Preview.H)
}

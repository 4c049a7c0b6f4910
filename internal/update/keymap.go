package update

import "github.com/charmbracelet/bubbles/key"

// KeyMap lists every binding the UI reacts to.
type KeyMap struct {
	Quit  key.Binding
	Help  key.Binding
	Focus key.Binding

	Search    key.Binding
	Semantic  key.Binding
	Tests     key.Binding
	Analyze   key.Binding
	Context   key.Binding
	GitStatus key.Binding
	Suggest   key.Binding
	Upload    key.Binding
	Refresh   key.Binding
	Commit    key.Binding

	Clear   key.Binding
	Preview key.Binding
	Copy    key.Binding
	Scroll  key.Binding

	Up     key.Binding
	Down   key.Binding
	Open   key.Binding
	Expand key.Binding
	Back   key.Binding

	Confirm key.Binding
	Cancel  key.Binding
	Close   key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:  key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Help:  key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "keys")),
		Focus: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next pane")),

		Search:    key.NewBinding(key.WithKeys("f2"), key.WithHelp("f2", "search")),
		Semantic:  key.NewBinding(key.WithKeys("f12"), key.WithHelp("f12", "semantic search")),
		Tests:     key.NewBinding(key.WithKeys("f3"), key.WithHelp("f3", "run tests")),
		Analyze:   key.NewBinding(key.WithKeys("f4"), key.WithHelp("f4", "analyze")),
		Context:   key.NewBinding(key.WithKeys("f5"), key.WithHelp("f5", "context")),
		GitStatus: key.NewBinding(key.WithKeys("f6"), key.WithHelp("f6", "git status")),
		Suggest:   key.NewBinding(key.WithKeys("f7"), key.WithHelp("f7", "AI suggest")),
		Upload:    key.NewBinding(key.WithKeys("f8"), key.WithHelp("f8", "upload")),
		Refresh:   key.NewBinding(key.WithKeys("f9"), key.WithHelp("f9", "refresh files")),
		Commit:    key.NewBinding(key.WithKeys("f10"), key.WithHelp("f10", "quick save")),

		Clear:   key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear log")),
		Preview: key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "preview")),
		Copy:    key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "copy reply")),
		Scroll:  key.NewBinding(key.WithKeys("pgup", "pgdown"), key.WithHelp("pgup/pgdn", "scroll log")),

		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Open:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Expand: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "expand")),
		Back:   key.NewBinding(key.WithKeys("left", "h", "backspace"), key.WithHelp("←/h", "parent")),

		Confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Close:   key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "close")),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Focus, k.Search, k.Tests, k.Analyze, k.Suggest, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Search, k.Semantic, k.Tests, k.Analyze, k.Context},
		{k.GitStatus, k.Commit, k.Suggest, k.Upload, k.Refresh},
		{k.Up, k.Down, k.Open, k.Expand, k.Back},
		{k.Focus, k.Clear, k.Preview, k.Copy, k.Scroll, k.Quit},
	}
}

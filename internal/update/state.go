package update

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/sirupsen/logrus"

	"github.com/Rorical/codedeck/internal/core"
	"github.com/Rorical/codedeck/internal/editor"
	"github.com/Rorical/codedeck/internal/eventbus"
	"github.com/Rorical/codedeck/internal/filetree"
	"github.com/Rorical/codedeck/internal/hover"
	"github.com/Rorical/codedeck/internal/logging"
	"github.com/Rorical/codedeck/internal/modal"
	"github.com/Rorical/codedeck/internal/models"
	"github.com/Rorical/codedeck/ui/components"
)

// Deps are the collaborators shared with the core side.
type Deps struct {
	Bus     *eventbus.EventBus
	Modal   *modal.Controller
	Preview hover.Fetcher
	// Copy writes to the system clipboard.
	Copy func(string) error
}

// State is everything the UI loop owns. Only Update mutates it.
type State struct {
	App    models.AppModel
	Log    *core.MessageLog
	Tree   *filetree.Tree
	Editor *editor.TextArea
	Hover  *hover.Controller

	Chat        textinput.Model
	PromptInput textinput.Model
	LogView     viewport.Model
	PreviewView viewport.Model
	Spinner     spinner.Model
	Help        help.Model
	Keys        KeyMap

	Layout     components.Layout
	TreeOffset int
	// OpenPrompt is the request being shown, nil when no prompt is open.
	OpenPrompt *models.ModalRequest
	Frame      int

	bus   *eventbus.EventBus
	modal *modal.Controller
	copy  func(string) error
	log   *logrus.Entry
}

func NewState(app models.AppModel, deps Deps) *State {
	chat := textinput.New()
	chat.Placeholder = "Ask the assistant about your code..."
	chat.Prompt = "› "

	prompt := textinput.New()
	prompt.Prompt = "> "

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	s := &State{
		App:         app,
		Log:         core.NewMessageLog(),
		Tree:        filetree.New(),
		Editor:      editor.NewTextArea(),
		Hover:       hover.NewController(deps.Preview, hover.Delay),
		Chat:        chat,
		PromptInput: prompt,
		LogView:     viewport.New(0, 0),
		PreviewView: viewport.New(0, 0),
		Spinner:     spin,
		Help:        help.New(),
		Keys:        DefaultKeyMap(),
		bus:         deps.Bus,
		modal:       deps.Modal,
		copy:        deps.Copy,
		log:         logging.NewLogger("ui"),
	}
	s.Log.Clear(core.Welcome)
	s.Resize(app.Width, app.Height)
	return s
}

// Resize lays the panes out for a terminal of w by h cells.
func (s *State) Resize(w, h int) {
	s.App.Width, s.App.Height = w, h
	s.Layout = components.ComputeLayout(w, h, s.App.PreviewVisible)

	ew, eh := s.Layout.Editor.Inner()
	s.Editor.SetSize(ew, max(eh-1, 1))

	lw, lh := s.Layout.Log.Inner()
	s.LogView.Width, s.LogView.Height = lw, max(lh-1, 1)

	pw, ph := s.Layout.Preview.Inner()
	s.PreviewView.Width, s.PreviewView.Height = pw, max(ph-1, 1)

	s.Chat.Width = max(w-8, 10)
	s.PromptInput.Width = max(components.ModalWidth(w)-12, 10)
	s.Hover.SetWidth(min(60, max(w/2, 20)))
	s.Help.Width = w

	s.TreeOffset = components.ScrollOffset(s.TreeOffset, s.Tree.Cursor(), s.Layout.TreeRows(), len(s.Tree.Rows()))
	s.refreshLog()
	s.refreshPreview()
}

// refreshLog re-renders the log, following new entries unless the user has
// scrolled up.
func (s *State) refreshLog() {
	follow := s.LogView.AtBottom() || s.LogView.TotalLineCount() <= s.LogView.Height
	s.LogView.SetContent(components.RenderLog(s.Log.Entries(), s.LogView.Width, s.Frame))
	if follow {
		s.LogView.GotoBottom()
	}
}

func (s *State) refreshPreview() {
	if !s.App.PreviewVisible {
		return
	}
	s.PreviewView.SetContent(components.RenderPreview(s.Editor.Content(), s.Editor.Language()))
}

func (s *State) typing() bool {
	for _, m := range s.Log.Entries() {
		if m.Typing {
			return true
		}
	}
	return false
}

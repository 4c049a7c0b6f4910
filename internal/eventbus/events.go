package eventbus

import (
	"time"

	"github.com/Rorical/codedeck/internal/models"
)

// UIEvent represents events sent from UI to Core
type UIEvent interface {
	UIEvent()
}

// CoreEvent represents events sent from Core to UI
type CoreEvent interface {
	CoreEvent()
}

// Snapshot captures the editor state at the moment an action was triggered,
// so actions never read the editor from outside the UI loop.
type Snapshot struct {
	CurrentFile string
	Content     string
}

// ActionEvent - UI asks core to run one named action
type ActionEvent struct {
	Action   string
	Arg      string // path for file actions, text for chat
	Snapshot Snapshot
}

func (e ActionEvent) UIEvent() {}

// AppendEvent - core appends an entry to the message log
type AppendEvent struct {
	Message     models.Message
	SettleAfter time.Duration // >0 clears Message.Typing after this delay
}

func (e AppendEvent) CoreEvent() {}

// RemoveEvent - core removes a transient entry (typing placeholder)
type RemoveEvent struct {
	ID string
}

func (e RemoveEvent) CoreEvent() {}

// ModalOpenedEvent - an action is waiting on user input
type ModalOpenedEvent struct {
	Request models.ModalRequest
}

func (e ModalOpenedEvent) CoreEvent() {}

// ActivityEvent - an action started (+1) or finished (-1)
type ActivityEvent struct {
	Action string
	Delta  int
}

func (e ActivityEvent) CoreEvent() {}

// TreeLoadedEvent - a directory listing arrived
type TreeLoadedEvent struct {
	Path    string
	Entries []models.FileEntry
}

func (e TreeLoadedEvent) CoreEvent() {}

// TreeFailedEvent - a directory listing failed; the tree is emptied
type TreeFailedEvent struct {
	Path string
}

func (e TreeFailedEvent) CoreEvent() {}

// FileOpenedEvent - file content should replace the editor buffer
type FileOpenedEvent struct {
	Path     string
	Content  string
	Language string
}

func (e FileOpenedEvent) CoreEvent() {}

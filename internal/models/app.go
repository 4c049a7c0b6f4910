package models

// Pane identifies which panel currently receives keyboard input.
type Pane int

const (
	TreePane Pane = iota
	EditorPane
	ChatPane
)

// ModalRequest is what an action asks the user for.
type ModalRequest struct {
	Title   string
	Prompt  string
	Default string
}

// AppModel represents the UI state - only local UI concerns
type AppModel struct {
	Status         string // Status bar text
	Pending        int    // Actions currently waiting on the backend
	Width          int    // Terminal width
	Height         int    // Terminal height
	Focus          Pane   // Pane receiving keys
	CurrentFile    string // Path of the file loaded into the editor
	TreeLoading    bool   // A directory listing is in flight
	PreviewVisible bool   // Preview of the editor buffer below the editor
	ShowHelp       bool
	Profile        string // Active profile name
	BaseURL        string // Backend the session talks to
}

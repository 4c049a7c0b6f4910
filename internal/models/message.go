package models

import "time"

// Category selects how a log entry is styled and which icon it gets.
type Category int

const (
	System Category = iota
	Success
	Error
	Warning
	AI
)

func (c Category) String() string {
	switch c {
	case Success:
		return "success"
	case Error:
		return "error"
	case Warning:
		return "warning"
	case AI:
		return "ai"
	default:
		return "system"
	}
}

// Sender records who authored a chat entry. Action feedback has no sender.
type Sender int

const (
	NoSender Sender = iota
	User
	Assistant
)

// Message is a single entry of the message log. Entries are immutable once
// appended, except for the Typing flag which the log settles exactly once.
type Message struct {
	ID       string
	Text     string
	Category Category
	Sender   Sender
	Time     time.Time
	Typing   bool // transient "typing" animation, not a network state
}

package core

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Rorical/codedeck/internal/models"
)

// Welcome is the single entry left in the log after it is cleared.
const Welcome = "Welcome to codedeck. Select a file or run an action."

// MessageLog is the append-only list of entries shown in the log pane.
type MessageLog struct {
	mu      sync.RWMutex
	entries []models.Message
	now     func() time.Time
}

func NewMessageLog() *MessageLog {
	return &MessageLog{
		entries: make([]models.Message, 0),
		now:     time.Now,
	}
}

// Append adds an action entry with the given category.
func (l *MessageLog) Append(text string, category models.Category) models.Message {
	return l.AppendFrom(models.NoSender, text, category, false)
}

// AppendFrom adds a chat entry authored by sender.
func (l *MessageLog) AppendFrom(sender models.Sender, text string, category models.Category, typing bool) models.Message {
	return l.AppendMessage(models.Message{
		Text:     text,
		Category: category,
		Sender:   sender,
		Typing:   typing,
	})
}

// AppendMessage adds msg as is, filling in ID and Time when they are unset.
func (l *MessageLog) AppendMessage(msg models.Message) models.Message {
	l.mu.Lock()
	defer l.mu.Unlock()

	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.Time.IsZero() {
		msg.Time = l.now()
	}
	l.entries = append(l.entries, msg)
	return msg
}

// Remove deletes the entry with id. It reports whether one was found.
func (l *MessageLog) Remove(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, m := range l.entries {
		if m.ID == id {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Settle ends the typing animation of id. Settling twice is a no-op.
func (l *MessageLog) Settle(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.entries {
		if l.entries[i].ID == id && l.entries[i].Typing {
			l.entries[i].Typing = false
			return true
		}
	}
	return false
}

// Clear empties the log and leaves exactly one system welcome entry.
func (l *MessageLog) Clear(welcome string) {
	l.mu.Lock()
	l.entries = l.entries[:0]
	l.mu.Unlock()

	l.Append(welcome, models.System)
}

func (l *MessageLog) Entries() []models.Message {
	l.mu.RLock()
	defer l.mu.RUnlock()
	result := make([]models.Message, len(l.entries))
	copy(result, l.entries)
	return result
}

func (l *MessageLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// LastReply returns the text of the newest assistant or AI entry.
func (l *MessageLog) LastReply() (string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for i := len(l.entries) - 1; i >= 0; i-- {
		m := l.entries[i]
		if m.Typing {
			continue
		}
		if m.Sender == models.Assistant || m.Category == models.AI {
			return m.Text, true
		}
	}
	return "", false
}

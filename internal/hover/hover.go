// Package hover shows a short preview of a file after the pointer has rested
// on it for a fixed delay.
package hover

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/sirupsen/logrus"

	"github.com/Rorical/codedeck/internal/logging"
)

const (
	Delay      = 500 * time.Millisecond
	MaxLines   = 15
	Truncation = "... (truncated)"
)

// Fetcher loads the content shown in a preview.
type Fetcher interface {
	Preview(ctx context.Context, path string) (string, error)
}

// DueMsg fires when a session's delay has elapsed.
type DueMsg struct {
	gen uint64
}

// LoadedMsg carries a fetched preview back to the UI loop.
type LoadedMsg struct {
	gen     uint64
	Path    string
	Content string
	Err     error
}

// Controller tracks at most one live session. Every Enter of a new target or
// Leave bumps the generation; timers and responses carrying an older
// generation are dropped.
type Controller struct {
	fetch Fetcher
	delay time.Duration
	width int
	log   *logrus.Entry

	gen     uint64
	target  string
	x, y    int
	visible bool
	content string
}

func NewController(fetch Fetcher, delay time.Duration) *Controller {
	if delay <= 0 {
		delay = Delay
	}
	return &Controller{
		fetch: fetch,
		delay: delay,
		width: 60,
		log:   logging.NewLogger("hover"),
	}
}

// SetWidth bounds preview lines to the box width.
func (c *Controller) SetWidth(width int) {
	c.width = width
}

// Enter starts a session for path at pointer position x,y. Re-entering the
// current target keeps the pending session.
func (c *Controller) Enter(path string, x, y int) tea.Cmd {
	if path == "" {
		c.Leave()
		return nil
	}
	if path == c.target {
		return nil
	}
	c.Leave()
	c.target, c.x, c.y = path, x, y

	gen := c.gen
	return tea.Tick(c.delay, func(time.Time) tea.Msg {
		return DueMsg{gen: gen}
	})
}

// Leave cancels any pending session and hides the preview.
func (c *Controller) Leave() {
	c.gen++
	c.target = ""
	c.visible = false
	c.content = ""
}

// HandleDue issues the fetch for a session that is still current.
func (c *Controller) HandleDue(msg DueMsg) tea.Cmd {
	if msg.gen != c.gen || c.target == "" {
		return nil
	}
	gen, path, fetch := c.gen, c.target, c.fetch
	c.log.WithField("path", path).Debug("fetching preview")
	return func() tea.Msg {
		content, err := fetch.Preview(context.Background(), path)
		return LoadedMsg{gen: gen, Path: path, Content: content, Err: err}
	}
}

// HandleLoaded shows a preview if it belongs to the live session. It reports
// whether the preview became visible.
func (c *Controller) HandleLoaded(msg LoadedMsg) bool {
	if msg.gen != c.gen {
		c.log.WithField("path", msg.Path).Debug("discarding stale preview")
		return false
	}
	if msg.Err != nil {
		c.log.WithError(msg.Err).WithField("path", msg.Path).Warn("preview error")
		return false
	}
	c.content = Truncate(msg.Content, c.width)
	c.visible = true
	return true
}

func (c *Controller) Visible() bool {
	return c.visible
}

func (c *Controller) Target() string {
	return c.target
}

// Box returns the preview text and the position it should be drawn at,
// offset from the pointer.
func (c *Controller) Box() (content string, x, y int) {
	return c.content, c.x + 2, c.y + 1
}

// Truncate keeps the first MaxLines lines, each clipped to width cells, and
// appends a marker when lines were dropped.
func Truncate(content string, width int) string {
	lines := strings.Split(content, "\n")
	more := len(lines) > MaxLines
	if more {
		lines = lines[:MaxLines]
	}
	if width > 0 {
		for i, line := range lines {
			lines[i] = runewidth.Truncate(strings.ReplaceAll(line, "\t", "    "), width, "…")
		}
	}
	out := strings.Join(lines, "\n")
	if more {
		out += "\n" + Truncation
	}
	return out
}

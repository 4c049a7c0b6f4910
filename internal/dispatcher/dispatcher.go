// Package dispatcher runs user-triggered actions: optional prompt, an
// announce entry, one backend call and the rendered result, all reported to
// the UI as log events.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Rorical/codedeck/internal/api"
	"github.com/Rorical/codedeck/internal/eventbus"
	"github.com/Rorical/codedeck/internal/logging"
	"github.com/Rorical/codedeck/internal/modal"
	"github.com/Rorical/codedeck/internal/models"
)

// Entry is a log line an action wants to show.
type Entry struct {
	Text        string
	Category    models.Category
	Sender      models.Sender
	Typing      bool
	SettleAfter time.Duration // stops the typing animation after this delay
}

func System(text string) Entry  { return Entry{Text: text, Category: models.System} }
func Success(text string) Entry { return Entry{Text: text, Category: models.Success} }
func Warning(text string) Entry { return Entry{Text: text, Category: models.Warning} }
func Failure(text string) Entry { return Entry{Text: text, Category: models.Error} }

// AI returns an assistant entry that types for d before settling.
func AI(text string, d time.Duration) Entry {
	return Entry{Text: text, Category: models.AI, Typing: d > 0, SettleAfter: d}
}

// Outcome is what an action produced: log entries first, then view events.
type Outcome struct {
	Entries []Entry
	Events  []eventbus.CoreEvent
}

// Prompter asks the user for one value.
type Prompter interface {
	Prompt(ctx context.Context, req models.ModalRequest) (string, error)
}

// Sink receives events for the UI loop. *eventbus.EventBus satisfies it.
type Sink interface {
	SendToUI(ctx context.Context, event eventbus.CoreEvent) error
}

// Action describes one user-triggered operation. Only Name and Call are
// required.
type Action[T any] struct {
	Name     string // "Search" yields "Search cancelled." and "Search error: ..."
	Cancel   string // overrides the cancel text
	ErrLabel string // overrides the error prefix
	Prompt   *models.ModalRequest
	// Required treats an empty or blank answer as a cancel.
	Required bool
	// Guard can stop the action before prompting; a non-empty entry is logged.
	Guard    func() (Entry, bool)
	Announce func(input string) Entry
	// Pending is shown while the call is in flight and removed afterwards.
	Pending *Entry
	Call    func(ctx context.Context, input string) (T, error)
	Render  func(input string, result T) Outcome
	// OnError replaces the default error entry.
	OnError func(input string, err error) Outcome
}

func (a Action[T]) cancelText() string {
	if a.Cancel != "" {
		return a.Cancel
	}
	return a.Name + " cancelled."
}

func (a Action[T]) errLabel() string {
	if a.ErrLabel != "" {
		return a.ErrLabel
	}
	return a.Name + " error"
}

// Dispatcher owns the plumbing shared by every action.
type Dispatcher struct {
	sink   Sink
	prompt Prompter
	log    *logrus.Entry
	now    func() time.Time
	wg     sync.WaitGroup
}

func New(sink Sink, prompt Prompter) *Dispatcher {
	return &Dispatcher{
		sink:   sink,
		prompt: prompt,
		log:    logging.NewLogger("dispatcher"),
		now:    time.Now,
	}
}

// Go runs fn on its own goroutine. Completions are not ordered across calls.
func (d *Dispatcher) Go(ctx context.Context, fn func(ctx context.Context)) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		fn(ctx)
	}()
}

// Wait blocks until every goroutine started by Go has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Invoke runs a to completion and reports whether the call succeeded. arg is
// the input for actions without a prompt.
func Invoke[T any](ctx context.Context, d *Dispatcher, a Action[T], arg string) bool {
	log := d.log.WithField("action", a.Name)

	if a.Guard != nil {
		if e, stop := a.Guard(); stop {
			if e.Text != "" {
				d.Post(ctx, e)
			}
			return false
		}
	}

	input := arg
	if a.Prompt != nil {
		v, err := d.prompt.Prompt(ctx, *a.Prompt)
		switch {
		case errors.Is(err, modal.ErrBusy):
			d.Post(ctx, Warning(fmt.Sprintf("%s: another prompt is already open.", a.Name)))
			return false
		case err != nil:
			log.WithError(err).Debug("prompt dismissed")
			d.Post(ctx, Warning(a.cancelText()))
			return false
		case a.Required && strings.TrimSpace(v) == "":
			d.Post(ctx, Warning(a.cancelText()))
			return false
		}
		input = v
	}

	if a.Announce != nil {
		d.Post(ctx, a.Announce(input))
	}
	var placeholder string
	if a.Pending != nil {
		placeholder = d.Post(ctx, *a.Pending).ID
	}

	d.send(ctx, eventbus.ActivityEvent{Action: a.Name, Delta: 1})
	start := d.now()
	result, err := a.Call(ctx, input)
	d.send(ctx, eventbus.ActivityEvent{Action: a.Name, Delta: -1})

	if placeholder != "" {
		d.send(ctx, eventbus.RemoveEvent{ID: placeholder})
	}

	if err != nil {
		log.WithError(err).WithField("elapsed", d.now().Sub(start)).Warn("action failed")
		if a.OnError != nil {
			d.Emit(ctx, a.OnError(input, err))
		} else {
			d.Post(ctx, Failure(FailureText(a.errLabel(), err)))
		}
		return false
	}

	log.WithField("elapsed", d.now().Sub(start)).Debug("action completed")
	if a.Render != nil {
		d.Emit(ctx, a.Render(input, result))
	}
	return true
}

// FailureText renders err for the log. Backend errors keep their message
// under label; network failures are reported generically.
func FailureText(label string, err error) string {
	if be, ok := api.AsBackendError(err); ok {
		return fmt.Sprintf("%s: %s", label, be.Message)
	}
	var te *api.TransportError
	if errors.As(err, &te) {
		return fmt.Sprintf("Network error: %v", te.Err)
	}
	return fmt.Sprintf("%s: %v", label, err)
}

// Post appends e to the log and returns the message as sent.
func (d *Dispatcher) Post(ctx context.Context, e Entry) models.Message {
	msg := models.Message{
		ID:       uuid.NewString(),
		Text:     e.Text,
		Category: e.Category,
		Sender:   e.Sender,
		Time:     d.now(),
		Typing:   e.Typing,
	}
	d.send(ctx, eventbus.AppendEvent{Message: msg, SettleAfter: e.SettleAfter})
	return msg
}

// Emit posts the entries of o in order, then its events.
func (d *Dispatcher) Emit(ctx context.Context, o Outcome) {
	for _, e := range o.Entries {
		d.Post(ctx, e)
	}
	for _, ev := range o.Events {
		d.send(ctx, ev)
	}
}

func (d *Dispatcher) send(ctx context.Context, ev eventbus.CoreEvent) {
	if err := d.sink.SendToUI(ctx, ev); err != nil {
		d.log.WithError(err).WithField("event", fmt.Sprintf("%T", ev)).Debug("event dropped")
	}
}

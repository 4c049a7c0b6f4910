// Package modal implements a single-slot prompt. Actions block in Prompt while
// the UI loop settles the open request through Confirm, Cancel or Close.
package modal

import (
	"context"
	"errors"
	"sync"

	"github.com/Rorical/codedeck/internal/models"
)

var (
	ErrCancelled = errors.New("Cancelled")
	ErrClosed    = errors.New("Closed")
	ErrBusy      = errors.New("another prompt is already open")
)

// IsAbort reports whether the user dismissed the prompt. Callers treat both
// reasons the same way: the action quietly stops.
func IsAbort(err error) bool {
	return errors.Is(err, ErrCancelled) || errors.Is(err, ErrClosed)
}

type outcome struct {
	value string
	err   error
}

type pending struct {
	req    models.ModalRequest
	result chan outcome
}

// Controller is either idle or holding exactly one open request.
type Controller struct {
	mu      sync.Mutex
	current *pending
	onOpen  func(models.ModalRequest)
}

func NewController() *Controller {
	return &Controller{}
}

// OnOpen registers a hook called after a request opens, outside the lock.
func (c *Controller) OnOpen(fn func(models.ModalRequest)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onOpen = fn
}

// Prompt opens req and waits for it to settle. It fails fast with ErrBusy
// when another request is open. If ctx ends first the request settles as
// closed.
func (c *Controller) Prompt(ctx context.Context, req models.ModalRequest) (string, error) {
	p, err := c.open(req)
	if err != nil {
		return "", err
	}

	select {
	case o := <-p.result:
		return o.value, o.err
	case <-ctx.Done():
		c.settle(p, outcome{err: ErrClosed})
		o := <-p.result
		return o.value, o.err
	}
}

func (c *Controller) open(req models.ModalRequest) (*pending, error) {
	c.mu.Lock()
	if c.current != nil {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	p := &pending{req: req, result: make(chan outcome, 1)}
	c.current = p
	hook := c.onOpen
	c.mu.Unlock()

	if hook != nil {
		hook(req)
	}
	return p, nil
}

// Confirm resolves the open request with value, which may be empty.
func (c *Controller) Confirm(value string) bool {
	return c.settle(nil, outcome{value: value})
}

// Cancel rejects the open request with ErrCancelled.
func (c *Controller) Cancel() bool {
	return c.settle(nil, outcome{err: ErrCancelled})
}

// Close rejects the open request with ErrClosed.
func (c *Controller) Close() bool {
	return c.settle(nil, outcome{err: ErrClosed})
}

// settle delivers o to the open request, or only to want when it is non-nil.
// The slot is cleared before delivery, so each request settles exactly once.
func (c *Controller) settle(want *pending, o outcome) bool {
	c.mu.Lock()
	p := c.current
	if p == nil || (want != nil && p != want) {
		c.mu.Unlock()
		return false
	}
	c.current = nil
	c.mu.Unlock()

	p.result <- o
	return true
}

// Current returns the open request, if any.
func (c *Controller) Current() (models.ModalRequest, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return models.ModalRequest{}, false
	}
	return c.current.req, true
}

func (c *Controller) IsOpen() bool {
	_, ok := c.Current()
	return ok
}

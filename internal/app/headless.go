package app

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/Rorical/codedeck/internal/api"
	"github.com/Rorical/codedeck/internal/config"
	"github.com/Rorical/codedeck/internal/core"
	"github.com/Rorical/codedeck/internal/dispatcher"
	"github.com/Rorical/codedeck/internal/eventbus"
	"github.com/Rorical/codedeck/internal/logging"
	"github.com/Rorical/codedeck/internal/models"
	"github.com/Rorical/codedeck/ui/styles"
)

// answer replies to every prompt with the input given on the command line.
type answer struct {
	mu    sync.Mutex
	value string
}

func (a *answer) set(v string) {
	a.mu.Lock()
	a.value = v
	a.mu.Unlock()
}

func (a *answer) Prompt(context.Context, models.ModalRequest) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.value, nil
}

// Headless runs one action at a time without the terminal UI and prints the
// resulting log entries as plain lines.
type Headless struct {
	backend core.Backend
	bus     *eventbus.EventBus
	service *core.Service
	answer  *answer
	out     io.Writer
	log     *logrus.Entry
}

func NewHeadless(cfg *config.Config, out io.Writer) *Headless {
	log := logging.NewLogger("headless")
	profile := cfg.Current()
	client := api.New(api.Config{
		BaseURL:       profile.BaseURL,
		SessionCookie: profile.SessionCookie,
		Token:         profile.Token,
	})
	chat, _ := chatProvider(cfg, client, log)
	return newHeadless(client, chat, profile.AnalyzeTool, out)
}

func newHeadless(backend core.Backend, chat core.ChatProvider, tool string, out io.Writer) *Headless {
	eb := eventbus.NewEventBus()
	a := &answer{}
	return &Headless{
		backend: backend,
		bus:     eb,
		service: core.NewService(eb, core.Options{
			Backend:     backend,
			Chat:        chat,
			Prompter:    a,
			AnalyzeTool: tool,
		}),
		answer: a,
		out:    out,
		log:    logging.NewLogger("headless"),
	}
}

// Run executes action with input as both its argument and its prompt answer.
// file, when set, is loaded first so editor-based actions see its content.
func (h *Headless) Run(ctx context.Context, action, input, file string) bool {
	snap := eventbus.Snapshot{}
	if file != "" {
		res, err := h.backend.ReadFile(ctx, file)
		if err != nil {
			h.print(models.Message{Text: dispatcher.FailureText("Error loading file", err), Category: models.Error})
			return false
		}
		snap = eventbus.Snapshot{CurrentFile: res.Path, Content: res.Content}
	}
	h.answer.set(input)

	stop := make(chan struct{})
	drained := make(chan struct{})
	go h.drain(stop, drained)

	ok := h.service.Run(ctx, eventbus.ActionEvent{Action: action, Arg: input, Snapshot: snap})
	close(stop)
	<-drained

	h.log.WithFields(logrus.Fields{"action": action, "ok": ok}).Debug("headless run finished")
	return ok
}

// drain prints log entries until stop closes, then flushes what is buffered.
// Every send has been accepted by the time Run returns, so nothing is lost.
func (h *Headless) drain(stop <-chan struct{}, drained chan<- struct{}) {
	defer close(drained)
	for {
		select {
		case ev := <-h.bus.CoreToUI():
			h.handle(ev)
		case <-stop:
			for {
				select {
				case ev := <-h.bus.CoreToUI():
					h.handle(ev)
				default:
					return
				}
			}
		}
	}
}

func (h *Headless) handle(ev eventbus.CoreEvent) {
	e, ok := ev.(eventbus.AppendEvent)
	if !ok {
		return
	}
	// Placeholders stand in for a reply that is printed when it arrives.
	if e.Message.Typing && e.SettleAfter == 0 {
		return
	}
	h.print(e.Message)
}

func (h *Headless) print(msg models.Message) {
	fmt.Fprintf(h.out, "%s [%s] %s\n", styles.Icon(msg.Category), msg.Category, msg.Text)
}

// Close shuts the bus down.
func (h *Headless) Close() {
	h.service.Stop()
	h.bus.Close()
}

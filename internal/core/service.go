package core

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Rorical/codedeck/internal/dispatcher"
	"github.com/Rorical/codedeck/internal/eventbus"
	"github.com/Rorical/codedeck/internal/logging"
)

// Options wires a Service. Chat may be nil, in which case chat messages are
// ignored.
type Options struct {
	Backend     Backend
	Chat        ChatProvider
	Prompter    dispatcher.Prompter
	AnalyzeTool string
}

// Service turns UI action events into dispatcher runs. Every action runs on
// its own goroutine and reports back through the event bus.
type Service struct {
	backend     Backend
	chat        ChatProvider
	dispatcher  *dispatcher.Dispatcher
	eventBus    *eventbus.EventBus
	analyzeTool string
	open        func(name string) (io.ReadCloser, error)
	log         *logrus.Entry
	ctx         context.Context
	cancel      context.CancelFunc
}

func NewService(eb *eventbus.EventBus, opts Options) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		backend:     opts.Backend,
		chat:        opts.Chat,
		dispatcher:  dispatcher.New(eb, opts.Prompter),
		eventBus:    eb,
		analyzeTool: opts.AnalyzeTool,
		open:        openFile,
		log:         logging.NewLogger("core"),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start runs the event loop in a goroutine.
func (s *Service) Start() {
	go s.eventLoop()
}

// Stop cancels in-flight actions and waits for them to return.
func (s *Service) Stop() {
	s.cancel()
	s.dispatcher.Wait()
}

func (s *Service) eventLoop() {
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-s.eventBus.Done():
			return
		case event, ok := <-s.eventBus.UIToCore():
			if !ok {
				return
			}
			s.handleUIEvent(event)
		}
	}
}

func (s *Service) handleUIEvent(event eventbus.UIEvent) {
	switch e := event.(type) {
	case eventbus.ActionEvent:
		s.dispatcher.Go(s.ctx, func(ctx context.Context) {
			s.Run(ctx, e)
		})
	default:
		s.log.WithField("event", fmt.Sprintf("%T", event)).Debug("ignoring event")
	}
}

// Run executes one action synchronously and reports whether it succeeded.
func (s *Service) Run(ctx context.Context, e eventbus.ActionEvent) bool {
	s.log.WithFields(logrus.Fields{"action": e.Action, "arg": e.Arg}).Debug("running action")

	d := s.dispatcher
	switch e.Action {
	case ActionListFiles:
		return dispatcher.Invoke(ctx, d, s.listFiles(), e.Arg)
	case ActionReadFile:
		return dispatcher.Invoke(ctx, d, s.readFile(), e.Arg)
	case ActionSearch:
		return dispatcher.Invoke(ctx, d, s.search(), e.Arg)
	case ActionSemanticSearch:
		return dispatcher.Invoke(ctx, d, s.semanticSearch(), e.Arg)
	case ActionRunTests:
		return dispatcher.Invoke(ctx, d, s.runTests(), e.Arg)
	case ActionAnalyze:
		return dispatcher.Invoke(ctx, d, s.analyze(e.Snapshot), e.Arg)
	case ActionContext:
		return dispatcher.Invoke(ctx, d, s.projectContext(), e.Arg)
	case ActionGitStatus:
		return dispatcher.Invoke(ctx, d, s.gitStatus(), e.Arg)
	case ActionGitCommit:
		return dispatcher.Invoke(ctx, d, s.gitCommit(), e.Arg)
	case ActionSuggest:
		return dispatcher.Invoke(ctx, d, s.suggest(e.Snapshot), e.Arg)
	case ActionUpload:
		if !dispatcher.Invoke(ctx, d, s.upload(e.Snapshot), e.Arg) {
			return false
		}
		// Refresh the directory that received the files.
		s.Run(ctx, eventbus.ActionEvent{Action: ActionListFiles, Arg: uploadTarget(e.Snapshot)})
		return true
	case ActionChat:
		msg := strings.TrimSpace(e.Arg)
		if msg == "" {
			return false
		}
		return dispatcher.Invoke(ctx, d, s.chatAction(e.Snapshot), msg)
	default:
		d.Post(ctx, dispatcher.Warning(fmt.Sprintf("Unknown action: %s", e.Action)))
		return false
	}
}

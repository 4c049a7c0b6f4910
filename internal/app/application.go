package app

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/Rorical/codedeck/internal/api"
	"github.com/Rorical/codedeck/internal/config"
	"github.com/Rorical/codedeck/internal/core"
	"github.com/Rorical/codedeck/internal/eventbus"
	"github.com/Rorical/codedeck/internal/llm"
	"github.com/Rorical/codedeck/internal/logging"
	"github.com/Rorical/codedeck/internal/modal"
	"github.com/Rorical/codedeck/internal/models"
	"github.com/Rorical/codedeck/internal/tools"
	"github.com/Rorical/codedeck/internal/update"
)

// Application manages the complete application lifecycle
type Application struct {
	config   *config.Config
	eventBus *eventbus.EventBus
	modal    *modal.Controller
	service  *core.Service
	model    *AppModel
	log      *logrus.Entry
}

func NewApplication(cfg *config.Config) (*Application, error) {
	log := logging.NewLogger("app")
	profile := cfg.Current()

	eb := eventbus.NewEventBus()
	eb.SetErrorCallback(func(e eventbus.EventBusError) {
		log.WithError(e.Err).WithField("operation", e.Operation).Warn("event bus error")
	})

	client := api.New(api.Config{
		BaseURL:       profile.BaseURL,
		SessionCookie: profile.SessionCookie,
		Token:         profile.Token,
	})

	chat, chatLabel := chatProvider(cfg, client, log)

	prompts := modal.NewController()
	prompts.OnOpen(func(req models.ModalRequest) {
		if err := eb.SendToUI(context.Background(), eventbus.ModalOpenedEvent{Request: req}); err != nil {
			log.WithError(err).Debug("prompt opened after shutdown")
		}
	})

	service := core.NewService(eb, core.Options{
		Backend:     client,
		Chat:        chat,
		Prompter:    prompts,
		AnalyzeTool: profile.AnalyzeTool,
	})

	state := update.NewState(models.AppModel{
		Status:  "Ready",
		Profile: cfg.ActiveProfile,
		BaseURL: client.BaseURL(),
	}, update.Deps{
		Bus:     eb,
		Modal:   prompts,
		Preview: client,
		Copy:    clipboard.WriteAll,
	})
	addWelcomeMessages(state.Log, cfg.ActiveProfile, client.BaseURL(), chatLabel)

	return &Application{
		config:   cfg,
		eventBus: eb,
		modal:    prompts,
		service:  service,
		model:    &AppModel{state: state, bus: eb},
		log:      log,
	}, nil
}

// chatProvider picks the direct LLM client when the profile asks for it and
// has a key, the backend otherwise.
func chatProvider(cfg *config.Config, client *api.Client, log *logrus.Entry) (core.ChatProvider, string) {
	if !cfg.DirectChat() {
		return client, "backend"
	}
	p := cfg.Current()
	direct, err := llm.NewDirectChat(p.LLM)
	if err != nil {
		log.WithError(err).Warn("direct chat unavailable, using backend")
		return client, "backend"
	}
	return direct.WithTools(tools.NewWorkspaceRegistry(client)), "direct (" + p.LLM.Model + ")"
}

func addWelcomeMessages(l *core.MessageLog, profile, baseURL, chat string) {
	l.Append(fmt.Sprintf("Profile: %s · backend %s", profile, baseURL), models.System)
	l.Append("Chat: "+chat, models.System)
	l.Append("F1 lists the keys. Tab switches panes.", models.System)
}

func (app *Application) Start() error {
	app.service.Start()
	app.model.state.Navigate("")

	p := tea.NewProgram(app.model, tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := p.Run()
	return err
}

// Stop closes the bus before waiting on actions, so a send blocked on a UI
// that is no longer reading returns instead of holding up shutdown.
func (app *Application) Stop() {
	app.eventBus.Close()
	app.service.Stop()
	app.log.Info("stopped")
}

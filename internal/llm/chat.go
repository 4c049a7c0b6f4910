// Package llm talks to an OpenAI compatible endpoint directly, bypassing the
// backend's /api/chat route.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"github.com/Rorical/codedeck/internal/api"
	"github.com/Rorical/codedeck/internal/config"
	"github.com/Rorical/codedeck/internal/logging"
	"github.com/Rorical/codedeck/internal/tools"
)

const (
	// maxFileContext bounds how many characters of the open file go into the prompt.
	maxFileContext = 2000
	temperature    = 0.3
	endpoint       = "chat/completions"
	// maxToolRounds bounds how many times the model may call tools per reply.
	maxToolRounds = 4
)

const systemPrompt = `You are an AI coding assistant integrated into a development environment.
You have access to the current file and the project workspace. Answer questions, help with code,
explain concepts, and assist with debugging. Be concise but thorough.`

var ErrNoAPIKey = errors.New("llm: no API key configured")

// completer is the part of *openai.Client DirectChat uses.
type completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// DirectChat answers chat messages from the model. With tools attached the
// model may look around the workspace before it answers.
type DirectChat struct {
	client completer
	model  string
	tools  *tools.Registry
	log    *logrus.Entry
}

func NewDirectChat(cfg config.LLM) (*DirectChat, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = config.DefaultModel
	}
	return &DirectChat{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
		log:    logging.NewLogger("llm"),
	}, nil
}

// WithTools lets the model call the tools in r while answering.
func (c *DirectChat) WithTools(r *tools.Registry) *DirectChat {
	c.tools = r
	return c
}

// Messages builds the conversation sent for req.
func Messages(req api.ChatRequest) []openai.ChatCompletionMessage {
	var b strings.Builder
	if req.CurrentFile != "" {
		fmt.Fprintf(&b, "Current file: %s\n", req.CurrentFile)
	}
	if req.FileContent != "" {
		content := req.FileContent
		if runes := []rune(content); len(runes) > maxFileContext {
			content = string(runes[:maxFileContext])
		}
		fmt.Fprintf(&b, "File content:\n```\n%s```\n", content)
	}
	fmt.Fprintf(&b, "\nUser question: %s", req.Message)

	return []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: b.String()},
	}
}

func (c *DirectChat) Chat(ctx context.Context, req api.ChatRequest) (string, error) {
	messages := Messages(req)
	var specs []openai.Tool
	if c.tools != nil {
		specs = c.tools.OpenAITools()
	}

	for round := 0; ; round++ {
		resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       c.model,
			Messages:    messages,
			Temperature: temperature,
			Tools:       specs,
		})
		if err != nil {
			c.log.WithError(err).Warn("chat completion failed")
			return "", classify(err)
		}
		if len(resp.Choices) == 0 {
			return "", &api.BackendError{Endpoint: endpoint, Message: "no response from model"}
		}

		reply := resp.Choices[0].Message
		if len(reply.ToolCalls) == 0 || c.tools == nil {
			return reply.Content, nil
		}
		if round == maxToolRounds {
			return "", &api.BackendError{Endpoint: endpoint, Message: "model kept calling tools without answering"}
		}

		messages = append(messages, reply)
		for _, call := range reply.ToolCalls {
			c.log.WithFields(logrus.Fields{"tool": call.Function.Name, "round": round}).Debug("tool call")
			messages = append(messages, c.tools.Execute(ctx, call))
		}
	}
}

// classify maps client errors onto the backend error taxonomy.
func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &api.BackendError{Endpoint: endpoint, Status: apiErr.HTTPStatusCode, Message: apiErr.Message}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &api.BackendError{Endpoint: endpoint, Status: reqErr.HTTPStatusCode, Message: reqErr.Error()}
	}
	return &api.TransportError{Endpoint: endpoint, Err: err}
}

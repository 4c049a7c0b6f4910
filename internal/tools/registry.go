// Package tools exposes read-only views of the backend workspace as functions
// an LLM can call during a direct chat.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/sashabaranov/go-openai"
)

// Tool represents a function that can be called by the model
type Tool interface {
	Name() string
	Description() string
	Parameters() map[string]any // JSON schema properties
	RequiredParameters() []string
	Execute(ctx context.Context, args map[string]any) (any, error)
}

// ToolResult is what the model sees as the tool's reply.
type ToolResult struct {
	Name   string `json:"name"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Registry manages available tools
type Registry struct {
	tools map[string]Tool
	mu    sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

func (r *Registry) Register(tool Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[tool.Name()] = tool
}

func (r *Registry) GetTool(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, exists := r.tools[name]
	return tool, exists
}

// ListTools returns all registered tools ordered by name.
func (r *Registry) ListTools() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]Tool, 0, len(r.tools))
	for _, tool := range r.tools {
		tools = append(tools, tool)
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name() < tools[j].Name() })
	return tools
}

// OpenAITools returns the function specs sent with a completion request.
func (r *Registry) OpenAITools() []openai.Tool {
	tools := r.ListTools()
	specs := make([]openai.Tool, len(tools))
	for i, tool := range tools {
		specs[i] = openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        tool.Name(),
				Description: tool.Description(),
				Parameters: map[string]any{
					"type":       "object",
					"properties": tool.Parameters(),
					"required":   tool.RequiredParameters(),
				},
			},
		}
	}
	return specs
}

// Execute runs one tool call and wraps the outcome as a tool message. Tool
// failures are reported to the model, not to the caller.
func (r *Registry) Execute(ctx context.Context, call openai.ToolCall) openai.ChatCompletionMessage {
	result := ToolResult{Name: call.Function.Name}

	tool, exists := r.GetTool(call.Function.Name)
	if !exists {
		result.Error = fmt.Sprintf("tool '%s' not found", call.Function.Name)
		return toolMessage(call.ID, result)
	}

	args := map[string]any{}
	if call.Function.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
			result.Error = fmt.Sprintf("invalid arguments: %v", err)
			return toolMessage(call.ID, result)
		}
	}

	out, err := tool.Execute(ctx, args)
	if err != nil {
		result.Error = err.Error()
	} else {
		result.Result = out
	}
	return toolMessage(call.ID, result)
}

func toolMessage(callID string, result ToolResult) openai.ChatCompletionMessage {
	data, err := json.Marshal(result)
	if err != nil {
		data = []byte(fmt.Sprintf(`{"name":%q,"error":"unencodable result"}`, result.Name))
	}
	return openai.ChatCompletionMessage{
		Role:       openai.ChatMessageRoleTool,
		Content:    string(data),
		Name:       result.Name,
		ToolCallID: callID,
	}
}

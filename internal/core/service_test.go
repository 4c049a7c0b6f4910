package core

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/codedeck/internal/api"
	"github.com/Rorical/codedeck/internal/eventbus"
	"github.com/Rorical/codedeck/internal/models"
)

type fixedPrompt struct {
	value string
	err   error
	asked []models.ModalRequest
}

func (p *fixedPrompt) Prompt(_ context.Context, req models.ModalRequest) (string, error) {
	p.asked = append(p.asked, req)
	return p.value, p.err
}

type harness struct {
	svc    *Service
	bus    *eventbus.EventBus
	prompt *fixedPrompt

	mu   sync.Mutex
	hits map[string]int
}

func (h *harness) count(path string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hits[path]
}

func newHarness(t *testing.T, answer string, routes map[string]http.HandlerFunc) *harness {
	t.Helper()
	h := &harness{hits: map[string]int{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		h.hits[r.URL.Path]++
		h.mu.Unlock()
		fn, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		fn(w, r)
	}))
	t.Cleanup(srv.Close)

	client := api.New(api.Config{BaseURL: srv.URL})
	h.bus = eventbus.NewEventBus()
	h.prompt = &fixedPrompt{value: answer}
	h.svc = NewService(h.bus, Options{
		Backend:     client,
		Chat:        client,
		Prompter:    h.prompt,
		AnalyzeTool: "pylint",
	})
	return h
}

func reply(v any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(v)
	}
}

// drain collects everything the service has sent to the UI so far.
func (h *harness) drain() []eventbus.CoreEvent {
	var out []eventbus.CoreEvent
	for {
		select {
		case ev := <-h.bus.CoreToUI():
			out = append(out, ev)
		default:
			return out
		}
	}
}

func messages(events []eventbus.CoreEvent) []models.Message {
	var out []models.Message
	for _, ev := range events {
		if a, ok := ev.(eventbus.AppendEvent); ok {
			out = append(out, a.Message)
		}
	}
	return out
}

func TestSearchErrorFieldYieldsAnnounceThenError(t *testing.T) {
	h := newHarness(t, "foo", map[string]http.HandlerFunc{
		"/api/search": reply(map[string]string{"error": "boom"}),
	})

	ok := h.svc.Run(context.Background(), eventbus.ActionEvent{Action: ActionSearch})

	assert.False(t, ok)
	assert.Equal(t, 1, h.count("/api/search"))
	msgs := messages(h.drain())
	require.Len(t, msgs, 2)
	assert.Equal(t, models.System, msgs[0].Category)
	assert.Contains(t, msgs[0].Text, "Searching for \"foo\"")
	assert.Equal(t, models.Error, msgs[1].Category)
	assert.Equal(t, "Search error: boom", msgs[1].Text)
}

func TestSearchEmptyInputIsCancelled(t *testing.T) {
	h := newHarness(t, "", nil)

	h.svc.Run(context.Background(), eventbus.ActionEvent{Action: ActionSearch})

	assert.Zero(t, h.count("/api/search"))
	msgs := messages(h.drain())
	require.Len(t, msgs, 1)
	assert.Equal(t, "Search cancelled.", msgs[0].Text)
}

func TestRunTestsFailureIsError(t *testing.T) {
	var got map[string]string
	h := newHarness(t, "", map[string]http.HandlerFunc{
		"/api/run_tests": func(w http.ResponseWriter, r *http.Request) {
			json.NewDecoder(r.Body).Decode(&got)
			reply(api.TestRunResponse{Framework: "pytest", Total: 2, Passed: 1, Failed: 1, Output: "FAILED test_x"})(w, r)
		},
	})

	assert.True(t, h.svc.Run(context.Background(), eventbus.ActionEvent{Action: ActionRunTests}))

	assert.Equal(t, "", got["test_path"])
	msgs := messages(h.drain())
	require.Len(t, msgs, 2)
	assert.Equal(t, models.Error, msgs[1].Category)
	assert.Contains(t, msgs[1].Text, "FAILED test_x")
}

func TestUploadPartialErrorsThenReload(t *testing.T) {
	h := newHarness(t, "one.py two.py", map[string]http.HandlerFunc{
		"/api/upload": func(w http.ResponseWriter, r *http.Request) {
			assert.NoError(t, r.ParseMultipartForm(1<<20))
			assert.Equal(t, "src", r.FormValue("target_dir"))
			reply(api.UploadResponse{Uploaded: []string{"one.py"}, Errors: []string{"x"}})(w, r)
		},
		"/api/files": reply(api.ListFilesResponse{Path: "src", Entries: []models.FileEntry{{Name: "one.py", Type: models.EntryFile}}}),
	})
	h.svc.open = func(name string) (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader("print(1)")), nil
	}

	ok := h.svc.Run(context.Background(), eventbus.ActionEvent{
		Action:   ActionUpload,
		Snapshot: eventbus.Snapshot{CurrentFile: "src/main.py"},
	})

	assert.True(t, ok)
	events := h.drain()
	msgs := messages(events)
	require.Len(t, msgs, 3)
	assert.Equal(t, models.System, msgs[0].Category)
	assert.Equal(t, models.Success, msgs[1].Category)
	assert.Equal(t, models.Warning, msgs[2].Category)
	assert.Equal(t, "Errors: x", msgs[2].Text)

	assert.Equal(t, 1, h.count("/api/files"))
	var loaded *eventbus.TreeLoadedEvent
	for _, ev := range events {
		if e, ok := ev.(eventbus.TreeLoadedEvent); ok {
			loaded = &e
		}
	}
	require.NotNil(t, loaded)
	assert.Equal(t, "src", loaded.Path)
}

func TestSuggestWithEmptyEditorSendsNothing(t *testing.T) {
	h := newHarness(t, "refactor", nil)

	h.svc.Run(context.Background(), eventbus.ActionEvent{Action: ActionSuggest})

	assert.Zero(t, h.count("/api/suggest"))
	assert.Empty(t, h.prompt.asked)
	msgs := messages(h.drain())
	require.Len(t, msgs, 1)
	assert.Equal(t, models.Warning, msgs[0].Category)
}

func TestSuggestTypes(t *testing.T) {
	h := newHarness(t, "refactor", map[string]http.HandlerFunc{
		"/api/suggest": reply(api.SuggestResponse{Suggestion: "extract a helper"}),
	})

	h.svc.Run(context.Background(), eventbus.ActionEvent{
		Action:   ActionSuggest,
		Snapshot: eventbus.Snapshot{CurrentFile: "a.py", Content: "def f(): pass"},
	})

	require.Len(t, h.prompt.asked, 1)
	assert.Equal(t, "refactor", h.prompt.asked[0].Default)
	var last eventbus.AppendEvent
	for _, ev := range h.drain() {
		if a, ok := ev.(eventbus.AppendEvent); ok {
			last = a
		}
	}
	assert.Equal(t, models.AI, last.Message.Category)
	assert.True(t, last.Message.Typing)
	assert.Equal(t, suggestTyping, last.SettleAfter)
}

func TestChatOrdering(t *testing.T) {
	var got api.ChatRequest
	h := newHarness(t, "", map[string]http.HandlerFunc{
		"/api/chat": func(w http.ResponseWriter, r *http.Request) {
			json.NewDecoder(r.Body).Decode(&got)
			reply(api.ChatResponse{Response: "hi"})(w, r)
		},
	})

	ok := h.svc.Run(context.Background(), eventbus.ActionEvent{
		Action:   ActionChat,
		Arg:      "  hello  ",
		Snapshot: eventbus.Snapshot{CurrentFile: "a.py", Content: "x = 1"},
	})

	require.True(t, ok)
	assert.Equal(t, api.ChatRequest{Message: "hello", CurrentFile: "a.py", FileContent: "x = 1"}, got)

	var order []string
	for _, ev := range h.drain() {
		switch e := ev.(type) {
		case eventbus.AppendEvent:
			switch {
			case e.Message.Sender == models.User:
				order = append(order, "user:"+e.Message.Text)
			case e.Message.Typing:
				order = append(order, "typing")
			default:
				order = append(order, "assistant:"+e.Message.Text)
			}
		case eventbus.RemoveEvent:
			order = append(order, "remove")
		}
	}
	assert.Equal(t, []string{"user:hello", "typing", "remove", "assistant:hi"}, order)
}

func TestChatBlankMessageIgnored(t *testing.T) {
	h := newHarness(t, "", nil)

	assert.False(t, h.svc.Run(context.Background(), eventbus.ActionEvent{Action: ActionChat, Arg: "   "}))
	assert.Empty(t, h.drain())
}

func TestTransportFailureIsReported(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	bus := eventbus.NewEventBus()
	svc := NewService(bus, Options{Backend: api.New(api.Config{BaseURL: srv.URL})})

	assert.NotPanics(t, func() {
		svc.Run(context.Background(), eventbus.ActionEvent{Action: ActionContext})
	})

	h := &harness{bus: bus}
	msgs := messages(h.drain())
	require.Len(t, msgs, 2)
	assert.Equal(t, models.Error, msgs[1].Category)
	assert.True(t, strings.HasPrefix(msgs[1].Text, "Network error: "))
}

func TestListFilesFailureClearsTree(t *testing.T) {
	h := newHarness(t, "", map[string]http.HandlerFunc{
		"/api/files": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			reply(map[string]string{"error": "Access denied"})(w, r)
		},
	})

	h.svc.Run(context.Background(), eventbus.ActionEvent{Action: ActionListFiles, Arg: "../etc"})

	events := h.drain()
	msgs := messages(events)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Error loading files: Access denied", msgs[0].Text)
	assert.Contains(t, events, eventbus.CoreEvent(eventbus.TreeFailedEvent{Path: "../etc"}))
}

func TestReadFileOpensEditor(t *testing.T) {
	h := newHarness(t, "", map[string]http.HandlerFunc{
		"/api/read_file": reply(api.ReadFileResponse{
			Path:    "pkg/app.py",
			Content: "def main(): pass",
			Analysis: api.Analysis{
				Functions: []api.Symbol{{Name: "main", Line: 1}},
			},
		}),
	})

	h.svc.Run(context.Background(), eventbus.ActionEvent{Action: ActionReadFile, Arg: "pkg/app.py"})

	events := h.drain()
	msgs := messages(events)
	require.Len(t, msgs, 2)
	assert.Equal(t, models.System, msgs[0].Category)
	assert.Equal(t, "Opening file: pkg/app.py", msgs[0].Text)
	assert.Equal(t, models.Success, msgs[1].Category)
	assert.Contains(t, msgs[1].Text, "1 function, 0 classes")
	assert.Contains(t, events, eventbus.CoreEvent(eventbus.FileOpenedEvent{
		Path:     "pkg/app.py",
		Content:  "def main(): pass",
		Language: "python",
	}))
}

func TestUnknownAction(t *testing.T) {
	h := newHarness(t, "", nil)

	assert.False(t, h.svc.Run(context.Background(), eventbus.ActionEvent{Action: "dance"}))
	msgs := messages(h.drain())
	require.Len(t, msgs, 1)
	assert.Equal(t, "Unknown action: dance", msgs[0].Text)
}

func TestEventLoopRunsActions(t *testing.T) {
	h := newHarness(t, "", map[string]http.HandlerFunc{
		"/api/git/status": reply(api.GitStatusResponse{Branch: "main"}),
	})
	h.svc.Start()
	defer h.svc.Stop()

	require.NoError(t, h.bus.SendToCore(eventbus.ActionEvent{Action: ActionGitStatus}))

	var texts []string
	for len(texts) < 2 {
		ev := <-h.bus.CoreToUI()
		if a, ok := ev.(eventbus.AppendEvent); ok {
			texts = append(texts, a.Message.Text)
		}
	}
	assert.Equal(t, "Checking git status...", texts[0])
	assert.Contains(t, texts[1], "branch: main")
}

func TestSemanticSearchUnavailableIsError(t *testing.T) {
	h := newHarness(t, "where is auth handled", map[string]http.HandlerFunc{
		"/api/search_semantic": func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"error": "Semantic search is not available"})
		},
	})

	assert.False(t, h.svc.Run(context.Background(), eventbus.ActionEvent{Action: ActionSemanticSearch}))

	msgs := messages(h.drain())
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[0].Text, "where is auth handled")
	assert.Equal(t, models.Error, msgs[1].Category)
	assert.Contains(t, msgs[1].Text, "Semantic search is not available")
}

func TestAnalyzeSendsProfileTool(t *testing.T) {
	var got map[string]string
	h := newHarness(t, "src/app.py", map[string]http.HandlerFunc{
		"/api/analyze": func(w http.ResponseWriter, r *http.Request) {
			json.NewDecoder(r.Body).Decode(&got)
			reply(api.AnalyzeResponse{Tool: "pylint"})(w, r)
		},
	})

	assert.True(t, h.svc.Run(context.Background(), eventbus.ActionEvent{Action: ActionAnalyze}))

	assert.Equal(t, map[string]string{"path": "src/app.py", "tool": "pylint"}, got)
	msgs := messages(h.drain())
	require.Len(t, msgs, 2)
	assert.Equal(t, "🔎 Analyzing src/app.py with pylint...", msgs[0].Text)
	assert.Equal(t, models.Success, msgs[1].Category)
	assert.Equal(t, "No issues found in src/app.py.", msgs[1].Text)
}

func TestGitCommitSendsMessage(t *testing.T) {
	var got map[string]string
	h := newHarness(t, "fix login", map[string]http.HandlerFunc{
		"/api/git/commit": func(w http.ResponseWriter, r *http.Request) {
			json.NewDecoder(r.Body).Decode(&got)
			reply(api.GitCommitResponse{Success: true, Message: "Changes saved", Hash: "abc1234"})(w, r)
		},
	})

	assert.True(t, h.svc.Run(context.Background(), eventbus.ActionEvent{Action: ActionGitCommit}))

	assert.Equal(t, "fix login", got["message"])
	msgs := messages(h.drain())
	require.Len(t, msgs, 2)
	assert.Equal(t, models.Success, msgs[1].Category)
	assert.Equal(t, "💾 Changes saved (abc1234)", msgs[1].Text)
}

func TestContextAndGitStatusAreSuccess(t *testing.T) {
	h := newHarness(t, "", map[string]http.HandlerFunc{
		"/api/context":    reply(api.ContextResponse{Root: "/srv", Files: []string{"a.py"}}),
		"/api/git/status": reply(api.GitStatusResponse{Branch: "main"}),
	})

	for _, action := range []string{ActionContext, ActionGitStatus} {
		assert.True(t, h.svc.Run(context.Background(), eventbus.ActionEvent{Action: action}), action)

		msgs := messages(h.drain())
		require.Len(t, msgs, 2, action)
		assert.Equal(t, models.System, msgs[0].Category, action)
		assert.Equal(t, models.Success, msgs[1].Category, action)
	}
}

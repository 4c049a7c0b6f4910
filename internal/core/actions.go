package core

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Rorical/codedeck/internal/api"
	"github.com/Rorical/codedeck/internal/dispatcher"
	"github.com/Rorical/codedeck/internal/editor"
	"github.com/Rorical/codedeck/internal/eventbus"
	"github.com/Rorical/codedeck/internal/filetree"
	"github.com/Rorical/codedeck/internal/models"
)

// Action names carried by eventbus.ActionEvent.
const (
	ActionListFiles      = "list-files"
	ActionReadFile       = "read-file"
	ActionSearch         = "search"
	ActionSemanticSearch = "semantic-search"
	ActionRunTests       = "run-tests"
	ActionAnalyze        = "analyze"
	ActionContext        = "context"
	ActionGitStatus      = "git-status"
	ActionGitCommit      = "git-commit"
	ActionSuggest        = "ai-suggest"
	ActionUpload         = "upload"
	ActionChat           = "chat"
)

// Actions lists every action name in menu order.
var Actions = []string{
	ActionListFiles, ActionReadFile, ActionSearch, ActionSemanticSearch,
	ActionRunTests, ActionAnalyze, ActionContext, ActionGitStatus,
	ActionGitCommit, ActionSuggest, ActionUpload, ActionChat,
}

// Backend is the subset of the HTTP API the actions call.
type Backend interface {
	ListFiles(ctx context.Context, path string) (*api.ListFilesResponse, error)
	ReadFile(ctx context.Context, path string) (*api.ReadFileResponse, error)
	Search(ctx context.Context, keyword string) (*api.SearchResponse, error)
	SearchSemantic(ctx context.Context, query string) (*api.SemanticSearchResponse, error)
	RunTests(ctx context.Context, testPath string) (*api.TestRunResponse, error)
	Analyze(ctx context.Context, path, tool string) (*api.AnalyzeResponse, error)
	Context(ctx context.Context) (*api.ContextResponse, error)
	GitStatus(ctx context.Context) (*api.GitStatusResponse, error)
	GitCommit(ctx context.Context, message string) (*api.GitCommitResponse, error)
	Suggest(ctx context.Context, kind, code string) (*api.SuggestResponse, error)
	Upload(ctx context.Context, targetDir string, files []api.UploadFile) (*api.UploadResponse, error)
}

// ChatProvider answers a chat message. Both the backend client and the
// direct LLM client implement it.
type ChatProvider interface {
	Chat(ctx context.Context, req api.ChatRequest) (string, error)
}

func (s *Service) listFiles() dispatcher.Action[*api.ListFilesResponse] {
	return dispatcher.Action[*api.ListFilesResponse]{
		Name: "Files",
		Call: s.backend.ListFiles,
		Render: func(path string, res *api.ListFilesResponse) dispatcher.Outcome {
			if res.Path != "" {
				path = res.Path
			}
			return dispatcher.Outcome{Events: []eventbus.CoreEvent{
				eventbus.TreeLoadedEvent{Path: path, Entries: res.Entries},
			}}
		},
		OnError: func(path string, err error) dispatcher.Outcome {
			return dispatcher.Outcome{
				Entries: []dispatcher.Entry{dispatcher.Failure(dispatcher.FailureText("Error loading files", err))},
				Events:  []eventbus.CoreEvent{eventbus.TreeFailedEvent{Path: path}},
			}
		},
	}
}

func (s *Service) readFile() dispatcher.Action[*api.ReadFileResponse] {
	return dispatcher.Action[*api.ReadFileResponse]{
		Name:     "Open",
		ErrLabel: "Error reading file",
		Announce: func(path string) dispatcher.Entry {
			return dispatcher.System("Opening file: " + path)
		},
		Call: s.backend.ReadFile,
		Render: func(path string, res *api.ReadFileResponse) dispatcher.Outcome {
			if res.Path != "" {
				path = res.Path
			}
			return dispatcher.Outcome{
				Entries: []dispatcher.Entry{
					dispatcher.Success(fmt.Sprintf("📄 %s: %s", path, FileSummary(res.Analysis))),
				},
				Events: []eventbus.CoreEvent{eventbus.FileOpenedEvent{
					Path:     path,
					Content:  res.Content,
					Language: editor.LanguageFor(path),
				}},
			}
		},
	}
}

func (s *Service) search() dispatcher.Action[*api.SearchResponse] {
	return dispatcher.Action[*api.SearchResponse]{
		Name:     "Search",
		Prompt:   &models.ModalRequest{Title: "Search Code", Prompt: "Enter search keyword:"},
		Required: true,
		Announce: func(kw string) dispatcher.Entry {
			return dispatcher.System(fmt.Sprintf("🔍 Searching for \"%s\"...", kw))
		},
		Call:   s.backend.Search,
		Render: formatSearch,
	}
}

func (s *Service) semanticSearch() dispatcher.Action[*api.SemanticSearchResponse] {
	return dispatcher.Action[*api.SemanticSearchResponse]{
		Name:     "Semantic search",
		Prompt:   &models.ModalRequest{Title: "Semantic Search", Prompt: "Describe what you are looking for:"},
		Required: true,
		Announce: func(q string) dispatcher.Entry {
			return dispatcher.System(fmt.Sprintf("🧠 Semantic search for \"%s\"...", q))
		},
		Call: s.backend.SearchSemantic,
		Render: func(_ string, res *api.SemanticSearchResponse) dispatcher.Outcome {
			return entries(dispatcher.AI(res.Response, suggestTyping))
		},
	}
}

func (s *Service) runTests() dispatcher.Action[*api.TestRunResponse] {
	return dispatcher.Action[*api.TestRunResponse]{
		Name:   "Test",
		Prompt: &models.ModalRequest{Title: "Run Tests", Prompt: "Enter test path (leave empty to run all tests):"},
		Announce: func(path string) dispatcher.Entry {
			if strings.TrimSpace(path) == "" {
				return dispatcher.System("🧪 Running all tests...")
			}
			return dispatcher.System(fmt.Sprintf("🧪 Running tests in %s...", path))
		},
		Call: func(ctx context.Context, path string) (*api.TestRunResponse, error) {
			return s.backend.RunTests(ctx, strings.TrimSpace(path))
		},
		Render: func(_ string, res *api.TestRunResponse) dispatcher.Outcome {
			return formatTests(res)
		},
	}
}

func (s *Service) analyze(snap eventbus.Snapshot) dispatcher.Action[*api.AnalyzeResponse] {
	return dispatcher.Action[*api.AnalyzeResponse]{
		Name: "Analysis",
		Prompt: &models.ModalRequest{
			Title:   "Static Analysis",
			Prompt:  "Enter file or directory to analyze (leave empty for the project):",
			Default: snap.CurrentFile,
		},
		Announce: func(path string) dispatcher.Entry {
			if strings.TrimSpace(path) == "" {
				path = "project"
			}
			return dispatcher.System(fmt.Sprintf("🔎 Analyzing %s with %s...", path, s.analyzeTool))
		},
		Call: func(ctx context.Context, path string) (*api.AnalyzeResponse, error) {
			return s.backend.Analyze(ctx, strings.TrimSpace(path), s.analyzeTool)
		},
		Render: func(path string, res *api.AnalyzeResponse) dispatcher.Outcome {
			return formatAnalysis(strings.TrimSpace(path), res)
		},
	}
}

func (s *Service) projectContext() dispatcher.Action[*api.ContextResponse] {
	return dispatcher.Action[*api.ContextResponse]{
		Name: "Context",
		Announce: func(string) dispatcher.Entry {
			return dispatcher.System("Gathering project context...")
		},
		Call: func(ctx context.Context, _ string) (*api.ContextResponse, error) {
			return s.backend.Context(ctx)
		},
		Render: func(_ string, res *api.ContextResponse) dispatcher.Outcome {
			return formatContext(res)
		},
	}
}

func (s *Service) gitStatus() dispatcher.Action[*api.GitStatusResponse] {
	return dispatcher.Action[*api.GitStatusResponse]{
		Name: "Git",
		Announce: func(string) dispatcher.Entry {
			return dispatcher.System("Checking git status...")
		},
		Call: func(ctx context.Context, _ string) (*api.GitStatusResponse, error) {
			return s.backend.GitStatus(ctx)
		},
		Render: func(_ string, res *api.GitStatusResponse) dispatcher.Outcome {
			return formatGitStatus(res)
		},
	}
}

func (s *Service) gitCommit() dispatcher.Action[*api.GitCommitResponse] {
	return dispatcher.Action[*api.GitCommitResponse]{
		Name:     "Save",
		Prompt:   &models.ModalRequest{Title: "Quick Save", Prompt: "Enter commit message:"},
		Required: true,
		Announce: func(string) dispatcher.Entry {
			return dispatcher.System("💾 Saving changes...")
		},
		Call: s.backend.GitCommit,
		Render: func(_ string, res *api.GitCommitResponse) dispatcher.Outcome {
			return formatCommit(res)
		},
	}
}

func (s *Service) suggest(snap eventbus.Snapshot) dispatcher.Action[*api.SuggestResponse] {
	return dispatcher.Action[*api.SuggestResponse]{
		Name:     "AI suggestion",
		ErrLabel: "AI error",
		Guard: func() (dispatcher.Entry, bool) {
			if strings.TrimSpace(snap.Content) == "" {
				return dispatcher.Warning("The editor is empty. Open a file first."), true
			}
			return dispatcher.Entry{}, false
		},
		Prompt: &models.ModalRequest{
			Title:   "AI Suggestion",
			Prompt:  "What kind of suggestion? (refactor, optimize, document, test)",
			Default: "refactor",
		},
		Required: true,
		Announce: func(kind string) dispatcher.Entry {
			return dispatcher.System(fmt.Sprintf("🤖 Asking AI for a %s suggestion...", strings.TrimSpace(kind)))
		},
		Call: func(ctx context.Context, kind string) (*api.SuggestResponse, error) {
			return s.backend.Suggest(ctx, strings.TrimSpace(kind), snap.Content)
		},
		Render: func(_ string, res *api.SuggestResponse) dispatcher.Outcome {
			return entries(dispatcher.AI(res.Suggestion, suggestTyping))
		},
	}
}

// uploadTarget is the directory of the open file, or the project root.
func uploadTarget(snap eventbus.Snapshot) string {
	return filetree.ParentPath(snap.CurrentFile)
}

func (s *Service) upload(snap eventbus.Snapshot) dispatcher.Action[*api.UploadResponse] {
	target := uploadTarget(snap)
	return dispatcher.Action[*api.UploadResponse]{
		Name:     "Upload",
		Prompt:   &models.ModalRequest{Title: "Upload Files", Prompt: "Enter local file paths to upload (space separated):"},
		Required: true,
		Announce: func(paths string) dispatcher.Entry {
			dir := target
			if dir == "" {
				dir = "project root"
			}
			n := len(strings.Fields(paths))
			return dispatcher.System(fmt.Sprintf("⬆️ Uploading %s to %s...", plural(n, "file", "files"), dir))
		},
		Call: func(ctx context.Context, paths string) (*api.UploadResponse, error) {
			files, closeAll, err := s.openUploads(strings.Fields(paths))
			if err != nil {
				return nil, err
			}
			defer closeAll()
			return s.backend.Upload(ctx, target, files)
		},
		Render: func(_ string, res *api.UploadResponse) dispatcher.Outcome {
			return formatUpload(res)
		},
	}
}

func (s *Service) openUploads(paths []string) ([]api.UploadFile, func(), error) {
	var (
		files   []api.UploadFile
		closers []io.Closer
	)
	closeAll := func() {
		for _, c := range closers {
			c.Close()
		}
	}
	for _, p := range paths {
		f, err := s.open(p)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("open %s: %w", p, err)
		}
		closers = append(closers, f)
		files = append(files, api.UploadFile{Name: filepath.Base(p), Data: f})
	}
	return files, closeAll, nil
}

func (s *Service) chatAction(snap eventbus.Snapshot) dispatcher.Action[string] {
	return dispatcher.Action[string]{
		Name: "Chat",
		Guard: func() (dispatcher.Entry, bool) {
			return dispatcher.Entry{}, s.chat == nil
		},
		Announce: func(msg string) dispatcher.Entry {
			return dispatcher.Entry{Text: msg, Category: models.System, Sender: models.User}
		},
		Pending: &dispatcher.Entry{Text: "...", Category: models.AI, Sender: models.Assistant, Typing: true},
		Call: func(ctx context.Context, msg string) (string, error) {
			return s.chat.Chat(ctx, api.ChatRequest{
				Message:     msg,
				CurrentFile: snap.CurrentFile,
				FileContent: snap.Content,
			})
		},
		Render: func(_ string, reply string) dispatcher.Outcome {
			return entries(dispatcher.Entry{Text: reply, Category: models.AI, Sender: models.Assistant})
		},
		OnError: func(_ string, err error) dispatcher.Outcome {
			return entries(dispatcher.Entry{
				Text:     dispatcher.FailureText("Error", err),
				Category: models.AI,
				Sender:   models.Assistant,
			})
		},
	}
}

func openFile(name string) (io.ReadCloser, error) {
	return os.Open(name)
}

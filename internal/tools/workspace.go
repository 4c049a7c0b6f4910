package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/Rorical/codedeck/internal/api"
)

const (
	defaultMaxLines = 200
	maxMaxLines     = 1000
	maxSearchHits   = 20
)

// Workspace is the part of the backend the tools read from.
type Workspace interface {
	ListFiles(ctx context.Context, path string) (*api.ListFilesResponse, error)
	ReadFile(ctx context.Context, path string) (*api.ReadFileResponse, error)
	Search(ctx context.Context, keyword string) (*api.SearchResponse, error)
	GitStatus(ctx context.Context) (*api.GitStatusResponse, error)
}

// NewWorkspaceRegistry registers every workspace tool backed by ws.
func NewWorkspaceRegistry(ws Workspace) *Registry {
	r := NewRegistry()
	r.Register(&ReadFileTool{ws: ws})
	r.Register(&ListFilesTool{ws: ws})
	r.Register(&SearchCodeTool{ws: ws})
	r.Register(&GitStatusTool{ws: ws})
	return r
}

// ReadFileTool returns a line range of a project file.
type ReadFileTool struct{ ws Workspace }

func (t *ReadFileTool) Name() string { return "read_file" }

func (t *ReadFileTool) Description() string {
	return "Read a project file. Supports a 1-based line range; long files are cut at max_lines."
}

func (t *ReadFileTool) Parameters() map[string]any {
	return map[string]any{
		"path": map[string]any{
			"type":        "string",
			"description": "Path of the file relative to the project root",
		},
		"lines_from": map[string]any{
			"type":        "number",
			"description": "First line to return (1-based, optional)",
		},
		"lines_to": map[string]any{
			"type":        "number",
			"description": "Last line to return (1-based, optional)",
		},
		"max_lines": map[string]any{
			"type":        "number",
			"description": "Maximum number of lines to return (default: 200, max: 1000, optional)",
		},
	}
}

func (t *ReadFileTool) RequiredParameters() []string { return []string{"path"} }

func (t *ReadFileTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	path, err := stringArg(args, "path")
	if err != nil {
		return nil, err
	}
	res, err := t.ws.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}

	maxLines := intArg(args, "max_lines", defaultMaxLines)
	if maxLines <= 0 || maxLines > maxMaxLines {
		maxLines = maxMaxLines
	}

	lines := strings.Split(res.Content, "\n")
	from := intArg(args, "lines_from", 1)
	to := intArg(args, "lines_to", len(lines))
	if from < 1 {
		from = 1
	}
	if to > len(lines) {
		to = len(lines)
	}
	if from > to {
		return nil, fmt.Errorf("empty line range %d-%d (file has %d lines)", from, to, len(lines))
	}

	truncated := false
	if to-from+1 > maxLines {
		to = from + maxLines - 1
		truncated = true
	}

	return map[string]any{
		"path":        res.Path,
		"lines_from":  from,
		"lines_to":    to,
		"total_lines": len(lines),
		"truncated":   truncated,
		"content":     strings.Join(lines[from-1:to], "\n"),
	}, nil
}

// ListFilesTool lists one directory of the project.
type ListFilesTool struct{ ws Workspace }

func (t *ListFilesTool) Name() string { return "list_files" }

func (t *ListFilesTool) Description() string {
	return "List the entries of a project directory. An empty path lists the project root."
}

func (t *ListFilesTool) Parameters() map[string]any {
	return map[string]any{
		"path": map[string]any{
			"type":        "string",
			"description": "Directory relative to the project root (optional)",
		},
	}
}

func (t *ListFilesTool) RequiredParameters() []string { return []string{} }

func (t *ListFilesTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	path, _ := args["path"].(string)
	res, err := t.ws.ListFiles(ctx, path)
	if err != nil {
		return nil, err
	}

	entries := make([]string, 0, len(res.Entries))
	for _, e := range res.Entries {
		name := e.Name
		if e.IsDir() {
			name += "/"
		}
		entries = append(entries, name)
	}
	return map[string]any{
		"path":    res.Path,
		"entries": entries,
	}, nil
}

// SearchCodeTool runs the backend keyword search.
type SearchCodeTool struct{ ws Workspace }

func (t *SearchCodeTool) Name() string { return "search_code" }

func (t *SearchCodeTool) Description() string {
	return "Search the project for a keyword and return matching lines with file and line number."
}

func (t *SearchCodeTool) Parameters() map[string]any {
	return map[string]any{
		"keyword": map[string]any{
			"type":        "string",
			"description": "Text to search for",
		},
	}
}

func (t *SearchCodeTool) RequiredParameters() []string { return []string{"keyword"} }

func (t *SearchCodeTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	keyword, err := stringArg(args, "keyword")
	if err != nil {
		return nil, err
	}
	res, err := t.ws.Search(ctx, keyword)
	if err != nil {
		return nil, err
	}

	hits := res.Results
	if len(hits) > maxSearchHits {
		hits = hits[:maxSearchHits]
	}
	return map[string]any{
		"total":   len(res.Results),
		"results": hits,
	}, nil
}

// GitStatusTool reports the working tree state.
type GitStatusTool struct{ ws Workspace }

func (t *GitStatusTool) Name() string { return "git_status" }

func (t *GitStatusTool) Description() string {
	return "Show the current branch and which files changed."
}

func (t *GitStatusTool) Parameters() map[string]any { return map[string]any{} }

func (t *GitStatusTool) RequiredParameters() []string { return []string{} }

func (t *GitStatusTool) Execute(ctx context.Context, _ map[string]any) (any, error) {
	return t.ws.GitStatus(ctx)
}

func stringArg(args map[string]any, name string) (string, error) {
	v, ok := args[name].(string)
	if !ok || strings.TrimSpace(v) == "" {
		return "", fmt.Errorf("%s parameter must be a non-empty string", name)
	}
	return v, nil
}

// intArg reads a JSON number argument, falling back to def.
func intArg(args map[string]any, name string, def int) int {
	if v, ok := args[name].(float64); ok {
		return int(v)
	}
	return def
}

package api

import "github.com/Rorical/codedeck/internal/models"

type ListFilesResponse struct {
	Path    string             `json:"path"`
	Entries []models.FileEntry `json:"entries"`
}

// Symbol is a function or class found by the backend's file analysis.
type Symbol struct {
	Name    string `json:"name"`
	Line    int    `json:"line"`
	Content string `json:"content"`
}

type Todo struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Line    int    `json:"line"`
}

type Analysis struct {
	Functions  []Symbol `json:"functions"`
	Classes    []Symbol `json:"classes"`
	Todos      []Todo   `json:"todos"`
	Deprecated []Symbol `json:"deprecated,omitempty"`
}

type ReadFileResponse struct {
	Path     string   `json:"path"`
	Content  string   `json:"content"`
	Analysis Analysis `json:"analysis"`
}

type SearchResult struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Content string `json:"content"`
}

type SearchResponse struct {
	Results []SearchResult `json:"results"`
}

type SemanticSearchResponse struct {
	Response string `json:"response"`
}

type TestRunResponse struct {
	Framework  string `json:"framework"`
	Status     string `json:"status,omitempty"`
	Total      int    `json:"total"`
	Passed     int    `json:"passed"`
	Failed     int    `json:"failed"`
	Errors     int    `json:"errors"`
	Skipped    int    `json:"skipped"`
	Output     string `json:"output"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Issue is one static analysis finding. Backends report either a numeric
// line or a free-form location.
type Issue struct {
	Line     any    `json:"line,omitempty"`
	Location string `json:"location,omitempty"`
	Message  string `json:"message"`
}

type AnalyzeResponse struct {
	Tool       string  `json:"tool"`
	Target     string  `json:"target,omitempty"`
	IssueCount int     `json:"issue_count,omitempty"`
	Issues     []Issue `json:"issues"`
	Summary    string  `json:"summary,omitempty"`
}

type ContextResponse struct {
	Root    string   `json:"root"`
	Folders []string `json:"folders"`
	Files   []string `json:"files"`
}

type GitStatusResponse struct {
	Branch        string   `json:"branch"`
	Modified      []string `json:"modified"`
	Staged        []string `json:"staged"`
	Untracked     []string `json:"untracked"`
	Ahead         int      `json:"ahead"`
	Behind        int      `json:"behind"`
	RecentCommits []string `json:"recent_commits,omitempty"`
}

type GitCommitResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Hash    string `json:"hash"`
}

type SuggestResponse struct {
	Suggestion string `json:"suggestion"`
}

type UploadResponse struct {
	Uploaded []string `json:"uploaded"`
	Errors   []string `json:"errors"`
	Message  string   `json:"message,omitempty"`
}

type ChatRequest struct {
	Message     string `json:"message"`
	CurrentFile string `json:"current_file"`
	FileContent string `json:"file_content"`
}

type ChatResponse struct {
	Response string `json:"response"`
}

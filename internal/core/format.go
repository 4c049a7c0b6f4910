package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/Rorical/codedeck/internal/api"
	"github.com/Rorical/codedeck/internal/dispatcher"
)

// Display limits for list-style results.
const (
	maxSearchResults = 5
	maxIssues        = 10
	maxContextFiles  = 10
	maxGitFiles      = 5

	suggestTyping    = 800 * time.Millisecond
	testAdviceTyping = 1000 * time.Millisecond
)

func entries(e ...dispatcher.Entry) dispatcher.Outcome {
	return dispatcher.Outcome{Entries: e}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

// FileSummary describes what the backend found in an opened file.
func FileSummary(a api.Analysis) string {
	s := fmt.Sprintf("%s, %s",
		plural(len(a.Functions), "function", "functions"),
		plural(len(a.Classes), "class", "classes"))
	if n := len(a.Todos); n > 0 {
		s += ", " + plural(n, "TODO", "TODOs")
	}
	return s
}

func formatSearch(keyword string, res *api.SearchResponse) dispatcher.Outcome {
	n := len(res.Results)
	if n == 0 {
		return entries(dispatcher.Warning(fmt.Sprintf("No results for \"%s\".", keyword)))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %s for \"%s\":\n", plural(n, "result", "results"), keyword)
	for i, r := range res.Results {
		if i == maxSearchResults {
			break
		}
		fmt.Fprintf(&b, "\n📄 %s:%d  %s", r.File, r.Line, strings.TrimSpace(r.Content))
	}
	if n > maxSearchResults {
		fmt.Fprintf(&b, "\n... and %d more.", n-maxSearchResults)
	}
	return entries(dispatcher.Success(b.String()))
}

func formatTests(res *api.TestRunResponse) dispatcher.Outcome {
	text := fmt.Sprintf("Tests (%s): Total %d, ✅ Passed %d, ❌ Failed %d, ⚠️ Errors %d, Skipped %d",
		res.Framework, res.Total, res.Passed, res.Failed, res.Errors, res.Skipped)

	category := dispatcher.Success
	if res.Failed > 0 || res.Errors > 0 {
		category = dispatcher.Failure
		if out := strings.TrimSpace(res.Output); out != "" {
			text += "\n\n" + out
		}
	}

	out := entries(category(text))
	if res.Suggestion != "" {
		out.Entries = append(out.Entries, dispatcher.AI("💡 "+res.Suggestion, testAdviceTyping))
	}
	return out
}

func issueLocation(i api.Issue) string {
	switch v := i.Line.(type) {
	case nil:
	case float64:
		return fmt.Sprintf("Line %d", int(v))
	case string:
		if v != "" {
			return "Line " + v
		}
	default:
		return fmt.Sprintf("Line %v", v)
	}
	if i.Location != "" {
		return i.Location
	}
	return "?"
}

func formatAnalysis(target string, res *api.AnalyzeResponse) dispatcher.Outcome {
	n := len(res.Issues)
	if n == 0 {
		if target == "" {
			target = "project"
		}
		return entries(dispatcher.Success(fmt.Sprintf("No issues found in %s.", target)))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %s with %s:\n", plural(n, "issue", "issues"), res.Tool)
	for i, issue := range res.Issues {
		if i == maxIssues {
			break
		}
		fmt.Fprintf(&b, "\n- %s: %s", issueLocation(issue), issue.Message)
	}
	if n > maxIssues {
		fmt.Fprintf(&b, "\n... and %d more.", n-maxIssues)
	}
	return entries(dispatcher.Warning(b.String()))
}

func formatContext(res *api.ContextResponse) dispatcher.Outcome {
	var b strings.Builder
	b.WriteString("📁 Project Context\n")
	fmt.Fprintf(&b, "- Root: %s\n", res.Root)
	fmt.Fprintf(&b, "- Folders: %d\n", len(res.Folders))
	fmt.Fprintf(&b, "- Files: %d", len(res.Files))
	if len(res.Files) > maxContextFiles {
		fmt.Fprintf(&b, " (showing first %d)", maxContextFiles)
	}
	for i, f := range res.Files {
		if i == maxContextFiles {
			break
		}
		fmt.Fprintf(&b, "\n  • %s", f)
	}
	if n := len(res.Files); n > maxContextFiles {
		fmt.Fprintf(&b, "\n  ... and %d more.", n-maxContextFiles)
	}
	return entries(dispatcher.Success(b.String()))
}

func gitSection(b *strings.Builder, icon, title string, files []string) {
	if len(files) == 0 {
		return
	}
	fmt.Fprintf(b, "\n\n%s %s (%d):", icon, title, len(files))
	for i, f := range files {
		if i == maxGitFiles {
			b.WriteString("\n  ...")
			break
		}
		fmt.Fprintf(b, "\n  %s", f)
	}
}

func formatGitStatus(res *api.GitStatusResponse) dispatcher.Outcome {
	var b strings.Builder
	fmt.Fprintf(&b, "🌿 Git Status (branch: %s)", res.Branch)
	gitSection(&b, "📝", "Modified", res.Modified)
	gitSection(&b, "✅", "Staged", res.Staged)
	gitSection(&b, "❓", "Untracked", res.Untracked)
	if res.Ahead > 0 || res.Behind > 0 {
		fmt.Fprintf(&b, "\n\n↑ Ahead %d · ↓ Behind %d", res.Ahead, res.Behind)
	}
	if len(res.Modified)+len(res.Staged)+len(res.Untracked) == 0 {
		b.WriteString("\n\nWorking tree clean.")
	}
	return entries(dispatcher.Success(b.String()))
}

func formatCommit(res *api.GitCommitResponse) dispatcher.Outcome {
	if !res.Success {
		return entries(dispatcher.Warning("Nothing saved: " + res.Message))
	}
	text := "💾 " + res.Message
	if res.Hash != "" {
		text += fmt.Sprintf(" (%s)", res.Hash)
	}
	return entries(dispatcher.Success(text))
}

func formatUpload(res *api.UploadResponse) dispatcher.Outcome {
	out := entries(dispatcher.Success(fmt.Sprintf("✅ Uploaded %s successfully.",
		plural(len(res.Uploaded), "file", "files"))))
	if len(res.Errors) > 0 {
		out.Entries = append(out.Entries, dispatcher.Warning("Errors: "+strings.Join(res.Errors, ", ")))
	}
	return out
}

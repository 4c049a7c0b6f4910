// Package editor is the buffer collaborator: anything that can hold the full
// text of a file and a language mode.
package editor

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

const Plaintext = "plaintext"

const placeholder = "// Select a file to edit"

var languages = map[string]string{
	"py":   "python",
	"js":   "javascript",
	"ts":   "typescript",
	"html": "html",
	"css":  "css",
	"json": "json",
	"md":   "markdown",
	"go":   "go",
}

// LanguageFor maps a file extension to a language mode.
func LanguageFor(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if lang, ok := languages[ext]; ok {
		return lang
	}
	return Plaintext
}

// Editor is the capability the rest of the app needs from the buffer.
type Editor interface {
	Content() string
	SetContent(content string)
	Language() string
	SetLanguage(lang string)
}

// TextArea is an Editor backed by a bubbles textarea.
type TextArea struct {
	model    textarea.Model
	language string
}

func NewTextArea() *TextArea {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = true
	ta.CharLimit = 0
	ta.MaxHeight = 0
	return &TextArea{model: ta, language: Plaintext}
}

func (e *TextArea) Content() string {
	return e.model.Value()
}

func (e *TextArea) SetContent(content string) {
	e.model.SetValue(content)
}

func (e *TextArea) Language() string {
	return e.language
}

func (e *TextArea) SetLanguage(lang string) {
	if lang == "" {
		lang = Plaintext
	}
	e.language = lang
}

func (e *TextArea) SetSize(width, height int) {
	e.model.SetWidth(width)
	e.model.SetHeight(height)
}

func (e *TextArea) Focus() tea.Cmd {
	return e.model.Focus()
}

func (e *TextArea) Blur() {
	e.model.Blur()
}

func (e *TextArea) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	e.model, cmd = e.model.Update(msg)
	return cmd
}

func (e *TextArea) View() string {
	return e.model.View()
}

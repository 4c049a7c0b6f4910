package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLanguageFor(t *testing.T) {
	tests := map[string]string{
		"app.py":           "python",
		"static/main.js":   "javascript",
		"src/index.ts":     "typescript",
		"README.md":        "markdown",
		"templates/x.HTML": "html",
		"Makefile":         Plaintext,
		"archive.tar.gz":   Plaintext,
	}
	for path, want := range tests {
		assert.Equal(t, want, LanguageFor(path), path)
	}
}

func TestTextArea(t *testing.T) {
	var e Editor = NewTextArea()
	assert.Equal(t, Plaintext, e.Language())
	assert.Empty(t, e.Content())

	e.SetContent("def main():\n    pass")
	e.SetLanguage("python")
	assert.Equal(t, "def main():\n    pass", e.Content())
	assert.Equal(t, "python", e.Language())

	e.SetLanguage("")
	assert.Equal(t, Plaintext, e.Language())
}

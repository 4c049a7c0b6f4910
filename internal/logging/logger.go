// Package logging provides per-component logrus loggers. While the terminal UI
// owns stdout, all diagnostics go to a dated file under the codedeck home.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	loggers   = make(map[string]*logrus.Entry)
	loggersMu sync.Mutex

	base     *logrus.Logger
	baseOnce sync.Once
	level    = logrus.InfoLevel
	output   io.Writer
)

// SetLevel parses and applies a level to every logger, existing or future.
func SetLevel(name string) error {
	lvl, err := logrus.ParseLevel(name)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", name, err)
	}
	loggersMu.Lock()
	level = lvl
	loggersMu.Unlock()
	root().SetLevel(lvl)
	return nil
}

// SetOutput redirects all loggers. Tests use it to capture output.
func SetOutput(w io.Writer) {
	loggersMu.Lock()
	output = w
	loggersMu.Unlock()
	root().SetOutput(w)
}

// NewLogger returns the logger for a component, creating it on first use.
func NewLogger(component string) *logrus.Entry {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if logger, exists := loggers[component]; exists {
		return logger
	}

	logger := root().WithField("component", component)
	loggers[component] = logger
	return logger
}

func root() *logrus.Logger {
	baseOnce.Do(func() {
		base = logrus.New()
		base.SetFormatter(&logrus.TextFormatter{
			DisableColors:   true,
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})

		levelStr := os.Getenv("CODEDECK_LOG_LEVEL")
		if lvl, err := logrus.ParseLevel(levelStr); levelStr != "" && err == nil {
			level = lvl
		}
		base.SetLevel(level)

		if output != nil {
			base.SetOutput(output)
			return
		}
		base.SetOutput(openLogFile())
	})
	return base
}

// openLogFile opens ~/.codedeck/logs/codedeck-<date>.log, discarding output if
// the file cannot be created.
func openLogFile() io.Writer {
	dir, err := logDir()
	if err != nil {
		return io.Discard
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return io.Discard
	}
	name := fmt.Sprintf("codedeck-%s.log", time.Now().Format("2006-01-02"))
	file, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return io.Discard
	}
	return file
}

func logDir() (string, error) {
	home := os.Getenv("CODEDECK_HOME")
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return "", err
		}
	}
	return filepath.Join(home, ".codedeck", "logs"), nil
}

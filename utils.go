package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// AppLogger provides the extended diagnostics: an agent prompt transcript,
// journal dumps and debug messages. Used by both the game and tests.
type AppLogger struct {
	outputDir   string
	logPrompts  bool
	logDB       bool
	debug       bool
	promptLog   *os.File
	dbLog       *os.File
	mu          sync.Mutex
	promptCount int
}

// Global application logger
var appLogger *AppLogger

// LogConfig holds logging configuration
type LogConfig struct {
	OutputDir  string
	LogPrompts bool
	LogDB      bool
	Debug      bool
}

// setupLogging points zerolog's global logger at a console writer.
func setupLogging(w io.Writer, debug bool) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}).With().Timestamp().Logger()
}

// logError logs an error with context
func logError(context string, err error) {
	log.Error().Err(err).Str("context", context).Msg("error")
}

// NewAppLogger creates a new application logger
func NewAppLogger(config LogConfig) (*AppLogger, error) {
	al := &AppLogger{
		outputDir:  config.OutputDir,
		logPrompts: config.LogPrompts,
		logDB:      config.LogDB,
		debug:      config.Debug,
	}

	if al.outputDir == "" {
		return al, nil // No file logging, just debug output
	}

	var err error
	if al.logPrompts {
		al.promptLog, err = os.OpenFile(filepath.Join(al.outputDir, "prompts.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open prompt log: %w", err)
		}
	}
	if al.logDB {
		al.dbLog, err = os.OpenFile(filepath.Join(al.outputDir, "journal.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			al.Close()
			return nil, fmt.Errorf("failed to open journal log: %w", err)
		}
	}

	return al, nil
}

// InitAppLogger initializes the global application logger
func InitAppLogger(config LogConfig) error {
	var err error
	appLogger, err = NewAppLogger(config)
	return err
}

// Close closes all open log files
func (al *AppLogger) Close() {
	if al.promptLog != nil {
		al.promptLog.Close()
	}
	if al.dbLog != nil {
		al.dbLog.Close()
	}
}

// LogPrompt appends one prompt/answer exchange to the transcript
func (al *AppLogger) LogPrompt(seat int, prompt, answer string) {
	if !al.logPrompts || al.promptLog == nil {
		return
	}

	al.mu.Lock()
	defer al.mu.Unlock()

	al.promptCount++
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "\n========== PROMPT #%d [%s] Player %d ==========\n", al.promptCount, time.Now().Format("15:04:05.000"), seat)
	buf.WriteString(prompt)
	buf.WriteString("\n--- Answer ---\n")
	if len(answer) > 5000 {
		buf.WriteString(answer[:5000])
		fmt.Fprintf(&buf, "\n... (truncated, %d bytes total)\n", len(answer))
	} else {
		buf.WriteString(answer)
	}
	buf.WriteString("\n")

	al.promptLog.Write(buf.Bytes())
}

// LogDB writes a journal dump with context
func (al *AppLogger) LogDB(context string, j *Journal) {
	if !al.logDB || al.dbLog == nil || j == nil {
		return
	}

	al.mu.Lock()
	defer al.mu.Unlock()

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "\n========== JOURNAL [%s] %s ==========\n", time.Now().Format("15:04:05.000"), context)
	if err := j.Dump(&buf); err != nil {
		fmt.Fprintf(&buf, "(dump failed: %v)\n", err)
	}
	al.dbLog.Write(buf.Bytes())
}

// Debug logs a debug message if debug mode is enabled
func (al *AppLogger) Debug(context, format string, args ...any) {
	if !al.debug {
		return
	}
	log.Debug().Str("context", context).Msgf(format, args...)
}

// IsEnabled returns true if any logging is enabled
func (al *AppLogger) IsEnabled() bool {
	return al.logPrompts || al.logDB || al.debug
}

// ============================================================================
// Test-specific wrapper
// ============================================================================

// TestLogger wraps AppLogger for test use with testing.T integration
type TestLogger struct {
	*AppLogger
	t *testing.T
}

// NewTestLogger creates a test logger; TEST_DEBUG=1 turns on debug output
func NewTestLogger(t *testing.T) *TestLogger {
	return &TestLogger{
		AppLogger: &AppLogger{debug: os.Getenv("TEST_DEBUG") == "1"},
		t:         t,
	}
}

// Debug logs a debug message using testing.T.Logf
func (tl *TestLogger) Debug(format string, args ...any) {
	if !tl.debug {
		return
	}
	tl.t.Logf("[DEBUG] "+format, args...)
}

// ============================================================================
// Global helper functions
// ============================================================================

// LogPrompt logs an agent exchange using the global logger
func LogPrompt(seat int, prompt, answer string) {
	if appLogger != nil {
		appLogger.LogPrompt(seat, prompt, answer)
	}
}

// LogJournalState dumps the journal using the global logger
func LogJournalState(j *Journal, context string) {
	if appLogger != nil {
		appLogger.LogDB(context, j)
	}
}

// DebugLog logs a debug message using the global logger
func DebugLog(context, format string, args ...any) {
	if appLogger != nil {
		appLogger.Debug(context, format, args...)
	}
}

// CloseAppLogger closes the global application logger
func CloseAppLogger() {
	if appLogger != nil {
		appLogger.Close()
	}
}

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppLoggerWritesTranscripts(t *testing.T) {
	newTestContext(t)
	dir := t.TempDir()
	al, err := NewAppLogger(LogConfig{OutputDir: dir, LogPrompts: true, LogDB: true})
	require.NoError(t, err)
	require.True(t, al.IsEnabled())

	al.LogPrompt(4, "Which player do you inspect?", "2")

	j := openTestJournal(t)
	require.NoError(t, j.StartGame("g", narratorTable()))
	al.LogDB("after setup", j)
	al.Close()

	prompts, err := os.ReadFile(filepath.Join(dir, "prompts.log"))
	require.NoError(t, err)
	require.Contains(t, string(prompts), "PROMPT #1")
	require.Contains(t, string(prompts), "Player 4")
	require.Contains(t, string(prompts), "--- Answer ---\n2")

	dump, err := os.ReadFile(filepath.Join(dir, "journal.log"))
	require.NoError(t, err)
	require.Contains(t, string(dump), "after setup")
	require.Contains(t, string(dump), "--- Table: game_player ---")
}

func TestAppLoggerWithoutOutputDir(t *testing.T) {
	al, err := NewAppLogger(LogConfig{LogPrompts: true})
	require.NoError(t, err)

	// nothing is open, so nothing is written
	al.LogPrompt(1, "p", "a")
	al.LogDB("ctx", nil)
	al.Close()
	require.True(t, al.IsEnabled())

	quiet, err := NewAppLogger(LogConfig{})
	require.NoError(t, err)
	require.False(t, quiet.IsEnabled())
}

func TestGlobalLogHelpersWithoutLogger(t *testing.T) {
	appLogger = nil
	LogPrompt(1, "p", "a")
	LogJournalState(nil, "ctx")
	DebugLog("ctx", "%d", 1)
	CloseAppLogger()
}

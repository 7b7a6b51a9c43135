package main

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestConfigDefaults(t *testing.T) {
	newTestContext(t)
	cfg := loadConfig(filepath.Join(t.TempDir(), "missing.json"))

	require.Equal(t, -1, cfg.Humans)
	require.Equal(t, "random", cfg.AgentProvider)
	require.Equal(t, 2, cfg.AgentRetries)
	require.Equal(t, 60*time.Second, cfg.agentTimeout())
	require.Empty(t, cfg.StorytellerProvider)
}

func TestConfigLayering(t *testing.T) {
	newTestContext(t)
	t.Setenv("AGENT_PROVIDER", "ollama")
	t.Setenv("AGENT_MODEL", "llama3")
	t.Setenv("HUMANS", "2")
	t.Setenv("CONFIRM", "true")
	path := writeConfig(t, `{"agent_provider": "groq", "agent_models": {"3": "mixtral"}, "seed": 42}`)

	cfg := loadConfig(path)
	require.Equal(t, "groq", cfg.AgentProvider, "the JSON file beats the environment")
	require.Equal(t, "llama3", cfg.AgentModel, "fields absent from the file keep the env value")
	require.Equal(t, 2, cfg.Humans)
	require.True(t, cfg.Confirm)
	require.Equal(t, uint64(42), cfg.Seed)
	require.Equal(t, map[string]string{"3": "mixtral"}, cfg.AgentModels)

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fv := registerFlags(fs)
	require.NoError(t, fs.Parse([]string{"-humans", "0", "-agent-provider", "random", "-agent-timeout", "5s"}))
	fv.applyTo(fs, &cfg)

	require.Equal(t, 0, cfg.Humans, "flags beat everything")
	require.Equal(t, "random", cfg.AgentProvider)
	require.Equal(t, 5*time.Second, cfg.agentTimeout())
	require.Equal(t, uint64(42), cfg.Seed, "unset flags change nothing")
}

func TestConfigIgnoresBadValues(t *testing.T) {
	newTestContext(t)
	t.Setenv("AGENT_RETRIES", "many")
	path := writeConfig(t, `{"humans": "three", "agent_timeout": "soon"}`)

	cfg := loadConfig(path)
	require.Equal(t, 2, cfg.AgentRetries)
	require.Equal(t, -1, cfg.Humans)
	require.Equal(t, 60*time.Second, cfg.agentTimeout())

	broken := writeConfig(t, `{not json`)
	require.Equal(t, defaultConfig().AgentProvider, loadConfig(broken).AgentProvider)
}

func TestLogConfigFromAppConfig(t *testing.T) {
	cfg := AppConfig{Dev: true, LogOutputDir: "/tmp/x", LogPrompts: true}
	lc := cfg.toLogConfig()
	require.True(t, lc.Debug, "dev mode turns on debug output")
	require.True(t, lc.LogPrompts)
	require.False(t, lc.LogDB)
	require.Equal(t, "/tmp/x", lc.OutputDir)
}

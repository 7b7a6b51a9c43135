package main

import (
	"encoding/json"
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds all game configuration.
// Priority (lowest → highest): defaults < .env file < env vars < JSON config file < CLI flags.
type AppConfig struct {
	// Game
	DB      string `json:"db"`      // journal connection string
	Dev     bool   `json:"dev"`     // dev mode: debug logging, journal dumps on errors
	Humans  int    `json:"humans"`  // human-controlled seats, -1 asks on stdin
	Seed    uint64 `json:"seed"`    // random seed, 0 seeds from the clock
	Confirm bool   `json:"confirm"` // pause before each major phase

	// Logging (extended diagnostics, off by default)
	LogOutputDir string `json:"log_output_dir"`
	LogPrompts   bool   `json:"log_prompts"`
	LogDB        bool   `json:"log_db"`
	LogDebug     bool   `json:"log_debug"`

	// Agents
	AgentProvider    string            `json:"agent_provider"`    // ollama | openai | claude | gemini | groq | openai-compatible | random
	AgentModel       string            `json:"agent_model"`       // default model name
	AgentModels      map[string]string `json:"agent_models"`      // per-seat model override, keyed by seat number
	AgentOllamaURL   string            `json:"agent_ollama_url"`  // Ollama server URL
	AgentURL         string            `json:"agent_url"`         // base URL for openai-compatible
	AgentAPIKey      string            `json:"agent_api_key"`     // API key for openai-compatible
	AgentTemperature string            `json:"agent_temperature"` // float 0-1 as string
	AgentMaxTokens   int               `json:"agent_max_tokens"`
	AgentTimeout     string            `json:"agent_timeout"` // Go duration, per call
	AgentRetries     int               `json:"agent_retries"`
	GroqAPIKey       string            `json:"groq_api_key"` // API key for groq provider

	// AI Storyteller
	StorytellerProvider    string `json:"storyteller_provider"`
	StorytellerModel       string `json:"storyteller_model"`
	StorytellerTemperature string `json:"storyteller_temperature"`
}

func (cfg AppConfig) toLogConfig() LogConfig {
	return LogConfig{
		OutputDir:  cfg.LogOutputDir,
		LogPrompts: cfg.LogPrompts,
		LogDB:      cfg.LogDB,
		Debug:      cfg.LogDebug || cfg.Dev,
	}
}

// agentTimeout parses AgentTimeout, falling back to 60s.
func (cfg AppConfig) agentTimeout() time.Duration {
	d, err := time.ParseDuration(cfg.AgentTimeout)
	if err != nil || d <= 0 {
		if cfg.AgentTimeout != "" {
			log.Warn().Str("agent_timeout", cfg.AgentTimeout).Msg("invalid agent timeout, using 60s")
		}
		return 60 * time.Second
	}
	return d
}

func defaultConfig() AppConfig {
	return AppConfig{
		DB:             "file::memory:?cache=shared",
		Humans:         -1,
		AgentProvider:  "random",
		AgentOllamaURL: "http://localhost:11434",
		AgentMaxTokens: 2000,
		AgentTimeout:   "60s",
		AgentRetries:   2,
	}
}

// loadConfig builds a config by layering: defaults → .env → env vars → JSON config file.
// CLI flag overrides are applied separately by flagValues.applyTo after flag.Parse.
func loadConfig(configPath string) AppConfig {
	cfg := defaultConfig()

	// Layer 1: .env file, never overriding variables already set in the environment
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("Config: failed to load .env")
	}

	// Layer 2: env vars
	envStr := os.Getenv
	envBool := func(key string) (val bool, set bool) {
		v := os.Getenv(key)
		if v == "" {
			return false, false
		}
		return v == "1" || v == "true" || v == "yes", true
	}
	envInt := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			} else {
				log.Warn().Str("key", key).Str("value", v).Msg("Config: not an integer")
			}
		}
	}

	if v := envStr("DB"); v != "" {
		cfg.DB = v
	}
	if v, ok := envBool("DEV"); ok {
		cfg.Dev = v
	}
	envInt("HUMANS", &cfg.Humans)
	if v := envStr("SEED"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.Seed = n
		}
	}
	if v, ok := envBool("CONFIRM"); ok {
		cfg.Confirm = v
	}
	if v := envStr("LOG_OUTPUT_DIR"); v != "" {
		cfg.LogOutputDir = v
	}
	if v, ok := envBool("LOG_PROMPTS"); ok {
		cfg.LogPrompts = v
	}
	if v, ok := envBool("LOG_DB"); ok {
		cfg.LogDB = v
	}
	if v, ok := envBool("LOG_DEBUG"); ok {
		cfg.LogDebug = v
	}
	if v := envStr("AGENT_PROVIDER"); v != "" {
		cfg.AgentProvider = v
	}
	if v := envStr("AGENT_MODEL"); v != "" {
		cfg.AgentModel = v
	}
	if v := envStr("AGENT_OLLAMA_URL"); v != "" {
		cfg.AgentOllamaURL = v
	}
	if v := envStr("AGENT_URL"); v != "" {
		cfg.AgentURL = v
	}
	if v := envStr("AGENT_API_KEY"); v != "" {
		cfg.AgentAPIKey = v
	}
	if v := envStr("AGENT_TEMPERATURE"); v != "" {
		cfg.AgentTemperature = v
	}
	envInt("AGENT_MAX_TOKENS", &cfg.AgentMaxTokens)
	if v := envStr("AGENT_TIMEOUT"); v != "" {
		cfg.AgentTimeout = v
	}
	envInt("AGENT_RETRIES", &cfg.AgentRetries)
	if v := envStr("GROQ_API_KEY"); v != "" {
		cfg.GroqAPIKey = v
	}
	if v := envStr("STORYTELLER_PROVIDER"); v != "" {
		cfg.StorytellerProvider = v
	}
	if v := envStr("STORYTELLER_MODEL"); v != "" {
		cfg.StorytellerModel = v
	}
	if v := envStr("STORYTELLER_TEMPERATURE"); v != "" {
		cfg.StorytellerTemperature = v
	}

	// Layer 3: JSON config file: only fields present in the file override env vars
	if data, err := os.ReadFile(configPath); err == nil {
		var overlay map[string]json.RawMessage
		if err := json.Unmarshal(data, &overlay); err != nil {
			log.Warn().Err(err).Str("path", configPath).Msg("Config: failed to parse")
		} else {
			applyJSONOverlay(&cfg, overlay)
			log.Info().Str("path", configPath).Msg("Config: loaded")
		}
	} else if !os.IsNotExist(err) {
		log.Warn().Err(err).Str("path", configPath).Msg("Config: failed to read")
	}

	return cfg
}

// applyJSONOverlay only sets fields that are explicitly present in the JSON map.
func applyJSONOverlay(cfg *AppConfig, m map[string]json.RawMessage) {
	field := func(key string, dst any) {
		if v, ok := m[key]; ok {
			if err := json.Unmarshal(v, dst); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("Config: bad value")
			}
		}
	}
	field("db", &cfg.DB)
	field("dev", &cfg.Dev)
	field("humans", &cfg.Humans)
	field("seed", &cfg.Seed)
	field("confirm", &cfg.Confirm)
	field("log_output_dir", &cfg.LogOutputDir)
	field("log_prompts", &cfg.LogPrompts)
	field("log_db", &cfg.LogDB)
	field("log_debug", &cfg.LogDebug)
	field("agent_provider", &cfg.AgentProvider)
	field("agent_model", &cfg.AgentModel)
	field("agent_models", &cfg.AgentModels)
	field("agent_ollama_url", &cfg.AgentOllamaURL)
	field("agent_url", &cfg.AgentURL)
	field("agent_api_key", &cfg.AgentAPIKey)
	field("agent_temperature", &cfg.AgentTemperature)
	field("agent_max_tokens", &cfg.AgentMaxTokens)
	field("agent_timeout", &cfg.AgentTimeout)
	field("agent_retries", &cfg.AgentRetries)
	field("groq_api_key", &cfg.GroqAPIKey)
	field("storyteller_provider", &cfg.StorytellerProvider)
	field("storyteller_model", &cfg.StorytellerModel)
	field("storyteller_temperature", &cfg.StorytellerTemperature)
}

// flagValues holds pointers to all registered CLI flags.
type flagValues struct {
	configPath             *string
	db                     *string
	dev                    *bool
	humans                 *int
	seed                   *uint64
	confirm                *bool
	logOutputDir           *string
	logPrompts             *bool
	logDB                  *bool
	logDebug               *bool
	agentProvider          *string
	agentModel             *string
	agentOllamaURL         *string
	agentURL               *string
	agentAPIKey            *string
	agentTemperature       *string
	agentTimeout           *string
	agentRetries           *int
	groqAPIKey             *string
	storytellerProvider    *string
	storytellerModel       *string
	storytellerTemperature *string
}

// registerFlags registers all CLI flags on fs and returns pointers to their values.
// Call fs.Parse() after this, then applyTo to layer them over the loaded config.
func registerFlags(fs *flag.FlagSet) flagValues {
	return flagValues{
		configPath:             fs.String("config", "config.json", "path to JSON config file"),
		db:                     fs.String("db", "", "journal connection string"),
		dev:                    fs.Bool("dev", false, "enable development mode (debug logging, journal dumps on error)"),
		humans:                 fs.Int("humans", -1, "number of human-controlled seats (0-9), -1 asks"),
		seed:                   fs.Uint64("seed", 0, "random seed (0 = from clock)"),
		confirm:                fs.Bool("confirm", false, "wait for Enter before each major phase"),
		logOutputDir:           fs.String("log-output-dir", "", "directory for extended log files"),
		logPrompts:             fs.Bool("log-prompts", false, "log agent prompts and answers"),
		logDB:                  fs.Bool("log-db", false, "log journal dumps"),
		logDebug:               fs.Bool("log-debug", false, "enable debug logging"),
		agentProvider:          fs.String("agent-provider", "", "agent provider (ollama|openai|claude|gemini|groq|openai-compatible|random)"),
		agentModel:             fs.String("agent-model", "", "agent model name"),
		agentOllamaURL:         fs.String("agent-ollama-url", "", "Ollama server URL"),
		agentURL:               fs.String("agent-url", "", "base URL for openai-compatible provider"),
		agentAPIKey:            fs.String("agent-api-key", "", "API key for openai-compatible provider"),
		agentTemperature:       fs.String("agent-temperature", "", "sampling temperature 0-1"),
		agentTimeout:           fs.String("agent-timeout", "", "per-call agent timeout (e.g. 45s)"),
		agentRetries:           fs.Int("agent-retries", 0, "retries per agent call"),
		groqAPIKey:             fs.String("groq-api-key", "", "Groq API key"),
		storytellerProvider:    fs.String("storyteller-provider", "", "AI storyteller provider"),
		storytellerModel:       fs.String("storyteller-model", "", "AI storyteller model name"),
		storytellerTemperature: fs.String("storyteller-temperature", "", "storyteller sampling temperature 0-1"),
	}
}

// applyTo overlays any CLI flags that were explicitly set onto cfg.
// Flags that were not passed on the command line are ignored (env/JSON values win).
func (fv flagValues) applyTo(fs *flag.FlagSet, cfg *AppConfig) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "db":
			cfg.DB = *fv.db
		case "dev":
			cfg.Dev = *fv.dev
		case "humans":
			cfg.Humans = *fv.humans
		case "seed":
			cfg.Seed = *fv.seed
		case "confirm":
			cfg.Confirm = *fv.confirm
		case "log-output-dir":
			cfg.LogOutputDir = *fv.logOutputDir
		case "log-prompts":
			cfg.LogPrompts = *fv.logPrompts
		case "log-db":
			cfg.LogDB = *fv.logDB
		case "log-debug":
			cfg.LogDebug = *fv.logDebug
		case "agent-provider":
			cfg.AgentProvider = *fv.agentProvider
		case "agent-model":
			cfg.AgentModel = *fv.agentModel
		case "agent-ollama-url":
			cfg.AgentOllamaURL = *fv.agentOllamaURL
		case "agent-url":
			cfg.AgentURL = *fv.agentURL
		case "agent-api-key":
			cfg.AgentAPIKey = *fv.agentAPIKey
		case "agent-temperature":
			cfg.AgentTemperature = *fv.agentTemperature
		case "agent-timeout":
			cfg.AgentTimeout = *fv.agentTimeout
		case "agent-retries":
			cfg.AgentRetries = *fv.agentRetries
		case "groq-api-key":
			cfg.GroqAPIKey = *fv.groqAPIKey
		case "storyteller-provider":
			cfg.StorytellerProvider = *fv.storytellerProvider
		case "storyteller-model":
			cfg.StorytellerModel = *fv.storytellerModel
		case "storyteller-temperature":
			cfg.StorytellerTemperature = *fv.storytellerTemperature
		}
	})
}

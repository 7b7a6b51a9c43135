package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// DecisionRequest is everything a seat's controller gets to see for one decision.
// It only ever carries the seat's own view of the game.
type DecisionRequest struct {
	Seat            int
	Name            string
	Action          string // action type being decided, e.g. ActionDayVote
	RoleDescription string
	Memory          []string
	Prompt          string
	Speech          bool           // free speech rather than a short decision
	Context         map[string]any // "options" holds eligible seat ids when a seat must be picked
}

// Decider turns a prompt into free text. An empty answer or an error both mean
// "no usable decision"; the engine applies the fallback for that action.
type Decider interface {
	Decide(ctx context.Context, req DecisionRequest) (string, error)
}

const agentSystemPrompt = `You are playing a 9-player game of Werewolf (3 Werewolves, Seer, Witch, Hunter, 3 Villagers).
Players are referred to by seat number ("Player 4"). When asked to pick a player, answer with the seat number.
Keep answers short unless asked to give a speech. Never reveal information you were not given.`

// ============================================================================
// LLM agents
// ============================================================================

type llmDecider struct {
	llm      llms.Model
	model    string
	callOpts []llms.CallOption
	timeout  time.Duration
	retries  int
	backoff  time.Duration
}

func (d *llmDecider) Decide(ctx context.Context, req DecisionRequest) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, agentSystemPrompt+"\n\n"+
			fmt.Sprintf("You are %s (%s).\n", seatLabel(req.Seat), req.Name)+req.RoleDescription),
		llms.TextParts(llms.ChatMessageTypeHuman, buildAgentMessage(req)),
	}

	var lastErr error
	delay := d.backoff
	for attempt := 0; attempt <= d.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
			if delay > 30*time.Second {
				delay = 30 * time.Second
			}
		}

		answer, err := d.generate(ctx, messages)
		if err != nil {
			lastErr = err
			log.Debug().Err(err).Int("seat", req.Seat).Int("attempt", attempt+1).Str("model", d.model).Msg("agent call failed")
			continue
		}
		LogPrompt(req.Seat, req.Prompt, answer)
		return answer, nil
	}

	return "", fmt.Errorf("agent %s: max retries exceeded: %w", d.model, lastErr)
}

func (d *llmDecider) generate(ctx context.Context, messages []llms.MessageContent) (string, error) {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}
	resp, err := d.llm.GenerateContent(ctx, messages, d.callOpts...)
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", errors.New("no choices returned")
	}
	return strings.TrimSpace(resp.Choices[0].Content), nil
}

// buildAgentMessage renders the seat's memory, the prompt and the decision context.
func buildAgentMessage(req DecisionRequest) string {
	var b strings.Builder
	if len(req.Memory) > 0 {
		b.WriteString("What you remember so far:\n")
		for _, m := range req.Memory {
			b.WriteString("- ")
			b.WriteString(m)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(req.Prompt)

	if len(req.Context) > 0 {
		keys := make([]string, 0, len(req.Context))
		for k := range req.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString("\n\n[context]")
		for _, k := range keys {
			fmt.Fprintf(&b, "\n%s: %v", k, req.Context[k])
		}
	}
	return b.String()
}

// buildCallOpts builds LLM call options from the config.
func buildCallOpts(temperature string, maxTokens int) []llms.CallOption {
	var opts []llms.CallOption

	if temperature != "" {
		if f, err := strconv.ParseFloat(temperature, 64); err == nil {
			opts = append(opts, llms.WithTemperature(f))
		} else {
			log.Warn().Err(err).Str("temperature", temperature).Msg("invalid temperature, using provider default")
		}
	}
	if maxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(maxTokens))
	}

	return opts
}

// newLLM builds a langchaingo model for the provider.
func newLLM(provider, model string, cfg AppConfig) (llms.Model, error) {
	switch provider {
	case "ollama":
		llm, err := ollama.New(ollama.WithModel(model), ollama.WithServerURL(cfg.AgentOllamaURL))
		if err != nil {
			return nil, fmt.Errorf("init Ollama (%s at %s): %w", model, cfg.AgentOllamaURL, err)
		}
		return llm, nil
	case "openai":
		llm, err := openai.New(openai.WithModel(model))
		if err != nil {
			return nil, fmt.Errorf("init OpenAI (%s): %w", model, err)
		}
		return llm, nil
	case "claude":
		llm, err := anthropic.New(anthropic.WithModel(model))
		if err != nil {
			return nil, fmt.Errorf("init Claude (%s): %w", model, err)
		}
		return llm, nil
	case "gemini":
		llm, err := googleai.New(context.Background(), googleai.WithDefaultModel(model))
		if err != nil {
			return nil, fmt.Errorf("init Gemini (%s): %w", model, err)
		}
		return llm, nil
	case "groq":
		llm, err := openai.New(
			openai.WithModel(model),
			openai.WithBaseURL("https://api.groq.com/openai/v1"),
			openai.WithToken(cfg.GroqAPIKey),
		)
		if err != nil {
			return nil, fmt.Errorf("init Groq (%s): %w", model, err)
		}
		return llm, nil
	case "openai-compatible":
		if cfg.AgentURL == "" {
			return nil, errors.New("agent_url is required for the openai-compatible provider")
		}
		opts := []openai.Option{
			openai.WithModel(model),
			openai.WithBaseURL(cfg.AgentURL),
		}
		if cfg.AgentAPIKey != "" {
			opts = append(opts, openai.WithToken(cfg.AgentAPIKey))
		}
		llm, err := openai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("init openai-compatible (%s at %s): %w", model, cfg.AgentURL, err)
		}
		return llm, nil
	default:
		return nil, fmt.Errorf("unknown provider %q", provider)
	}
}

// agentFactory hands out one decider per agent seat, sharing a client per model.
type agentFactory struct {
	cfg    AppConfig
	rng    Rand
	models map[string]Decider
}

func newAgentFactory(cfg AppConfig, rng Rand) *agentFactory {
	return &agentFactory{cfg: cfg, rng: rng, models: make(map[string]Decider)}
}

func (f *agentFactory) forSeat(seat int) (Decider, error) {
	if f.cfg.AgentProvider == "" || f.cfg.AgentProvider == "random" {
		return &randomDecider{rng: f.rng}, nil
	}

	model := f.cfg.AgentModel
	if m, ok := f.cfg.AgentModels[strconv.Itoa(seat)]; ok && m != "" {
		model = m
	}
	if d, ok := f.models[model]; ok {
		return d, nil
	}

	llm, err := newLLM(f.cfg.AgentProvider, model, f.cfg)
	if err != nil {
		return nil, err
	}
	d := &llmDecider{
		llm:      llm,
		model:    model,
		callOpts: buildCallOpts(f.cfg.AgentTemperature, f.cfg.AgentMaxTokens),
		timeout:  f.cfg.agentTimeout(),
		retries:  f.cfg.AgentRetries,
		backoff:  time.Second,
	}
	f.models[model] = d
	log.Info().Str("provider", f.cfg.AgentProvider).Str("model", model).Int("seat", seat).Msg("agent ready")
	return d, nil
}

// ============================================================================
// Human seats
// ============================================================================

// consoleDecider reads a human seat's answer from the terminal.
type consoleDecider struct {
	in  *bufio.Reader
	out io.Writer
}

// newConsoleDecider shares in with the rest of the CLI so buffered input is never lost.
func newConsoleDecider(in *bufio.Reader, out io.Writer) *consoleDecider {
	return &consoleDecider{in: in, out: out}
}

func (d *consoleDecider) Decide(_ context.Context, req DecisionRequest) (string, error) {
	fmt.Fprintf(d.out, "\n>>> %s, it is your turn <<<\n%s\n> ", seatLabel(req.Seat), req.Prompt)
	line, err := d.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// ============================================================================
// Offline agents
// ============================================================================

// randomDecider plays without a backend: a random eligible seat for selections,
// a coin flip for yes/no questions and a stock line for speeches.
type randomDecider struct {
	rng Rand
}

func (d *randomDecider) Decide(_ context.Context, req DecisionRequest) (string, error) {
	if req.Speech {
		return "I have nothing certain to share yet. Let's listen carefully and vote with reason.", nil
	}
	if opts, ok := req.Context["options"].([]int); ok && len(opts) > 0 {
		return strconv.Itoa(opts[d.rng.Intn(len(opts))]), nil
	}
	if d.rng.Intn(2) == 0 {
		return "yes", nil
	}
	return "no", nil
}

func seatLabel(id int) string {
	return fmt.Sprintf("Player %d", id)
}

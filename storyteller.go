package main

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
)

const storytellerSystemPrompt = `You are a dramatic storyteller for a medieval werewolf game. When players are killed, you tell a short atmospheric story about their fate. Keep it to 2-3 sentences. Be gothic and dramatic, fitting for a village plagued by werewolves.`

// Storyteller generates a dramatic story after deaths in the game.
// onChunk is called with each text chunk as it streams in.
type Storyteller interface {
	Tell(ctx context.Context, history []string, onChunk func(string)) (string, error)
}

type llmStoryteller struct {
	llm          llms.Model
	systemPrompt string
	callOpts     []llms.CallOption
}

func (s *llmStoryteller) Tell(ctx context.Context, history []string, onChunk func(string)) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, s.systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman,
			"Game history so far:\n"+strings.Join(history, "\n")+
				"\n\nTell a short dramatic story (2-3 sentences) about what just happened to the victim."),
	}

	var fullText strings.Builder
	opts := append(append([]llms.CallOption{}, s.callOpts...), llms.WithStreamingFunc(func(_ context.Context, chunk []byte) error {
		text := string(chunk)
		fullText.WriteString(text)
		if onChunk != nil {
			onChunk(text)
		}
		return nil
	}))

	_, err := s.llm.GenerateContent(ctx, messages, opts...)
	return strings.TrimSpace(fullText.String()), err
}

// initStoryteller builds the storyteller from config. It returns nil when the feature is
// disabled or the provider cannot be set up.
func initStoryteller(cfg AppConfig) Storyteller {
	if cfg.StorytellerProvider == "" {
		log.Debug().Msg("storyteller disabled (set storyteller_provider to enable)")
		return nil
	}
	llm, err := newLLM(cfg.StorytellerProvider, cfg.StorytellerModel, cfg)
	if err != nil {
		log.Warn().Err(err).Msg("storyteller disabled")
		return nil
	}
	log.Info().Str("provider", cfg.StorytellerProvider).Str("model", cfg.StorytellerModel).Msg("storyteller ready")
	return &llmStoryteller{
		llm:          llm,
		systemPrompt: storytellerSystemPrompt,
		callOpts:     buildCallOpts(cfg.StorytellerTemperature, 0),
	}
}

// tellStory streams a story about the latest death from the public history. Failures are
// logged and the game goes on.
func (g *Game) tellStory() {
	if g.storyteller == nil {
		return
	}
	history, err := g.journal.PublicHistory(g.ID)
	if err != nil {
		logError("tellStory: fetch history", err)
		return
	}

	ctx, cancel := context.WithTimeout(g.ctx, 30*time.Second)
	defer cancel()

	g.narrator.Stream("\n")
	story, err := g.storyteller.Tell(ctx, history, g.narrator.Stream)
	g.narrator.Stream("\n")
	if err != nil {
		log.Warn().Err(err).Str("game", g.ID).Msg("storyteller error")
		return
	}
	if story == "" {
		return
	}

	if err := g.journal.Record(GameAction{
		GameID:      g.ID,
		Day:         g.State.DayCount,
		Phase:       "day",
		ActionType:  ActionStory,
		Visibility:  VisibilityPublic,
		Description: story,
	}); err != nil {
		logError("tellStory: record", err)
	}
}

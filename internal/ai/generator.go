// Package ai generates story prose with an LLM, trying an ordered list of
// candidate models and falling through on transient failures.
package ai

import (
	"context"
	"errors"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	"fable/internal/ai/component"
	"fable/internal/config"
)

// PlaceholderText is returned when a model call succeeds but yields no
// content. An empty result is a valid (degenerate) story, not a failure.
const PlaceholderText = "No story generated."

// ErrNotConfigured is returned on the first generation call when the LLM
// API key is missing from the environment (FABLE_AI_API_KEY).
var ErrNotConfigured = errors.New("text generator is not configured: set FABLE_AI_API_KEY")

const systemPrompt = "You write short, vivid, paginated stories and always follow the requested output format exactly."

// Result is one successful generation.
type Result struct {
	Text  string
	Model string
}

type candidate struct {
	name string
	chat model.ChatModel
}

// Generator calls candidate models in priority order. A rate-limit or
// unavailable failure moves on to the next candidate; any other failure
// aborts immediately. An exhausted list fails with the last error observed.
type Generator struct {
	cfg        *config.AIConfig
	candidates []candidate
}

// NewGenerator builds one ChatModel per configured candidate model name.
// A missing API key is tolerated here and surfaced on first use, so the
// server can still start for endpoints that do not generate text.
func NewGenerator(ctx context.Context, cfg *config.AIConfig) (*Generator, error) {
	g := &Generator{cfg: cfg}

	if cfg.APIKey == "" {
		log.Warn().Msg("AI API key not configured; story generation will fail until FABLE_AI_API_KEY is set")
		return g, nil
	}

	for _, name := range cfg.Models {
		chat, err := component.NewChatModel(ctx, cfg, name)
		if err != nil {
			return nil, &GenerationError{Model: name, Kind: KindFatal, Err: err}
		}
		g.candidates = append(g.candidates, candidate{name: name, chat: chat})
	}
	return g, nil
}

// Generate runs the prompt against the candidate list.
func (g *Generator) Generate(ctx context.Context, prompt string) (*Result, error) {
	if g.cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}
	if len(g.candidates) == 0 {
		return nil, errors.New("no candidate models configured")
	}

	messages := []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(prompt),
	}

	var last error
	for _, c := range g.candidates {
		resp, err := c.chat.Generate(ctx, messages)
		if err == nil {
			text := strings.TrimSpace(resp.Content)
			if text == "" {
				log.Warn().Str("model", c.name).Msg("model returned empty content, substituting placeholder story")
				text = PlaceholderText
			}
			log.Info().Str("model", c.name).Int("chars", len(text)).Msg("story text generated")
			return &Result{Text: text, Model: c.name}, nil
		}

		genErr := &GenerationError{Model: c.name, Kind: classify(err), Err: err}
		if !genErr.Retryable() {
			return nil, genErr
		}
		log.Warn().
			Err(err).
			Str("model", c.name).
			Str("kind", genErr.Kind.String()).
			Msg("model call failed, trying next candidate")
		last = genErr
	}

	return nil, last
}

// ABOUTME: Builds the services a command needs from the invocation's config
// ABOUTME: OpenAI manager, Bluesky poster (live or dry run), and thread publisher
package commands

import (
	"context"

	"github.com/harper/assistant-manager/internal/bluesky"
	"github.com/harper/assistant-manager/internal/llm"
	"github.com/harper/assistant-manager/internal/thread"
)

func (a *app) manager() (*llm.Manager, error) {
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}

	client, err := llm.NewOpenAIClient(cfg.OpenAI)
	if err != nil {
		return nil, err
	}

	return llm.NewManager(client, llm.ManagerConfig{
		Model:           cfg.Model,
		PollInterval:    cfg.PollInterval,
		MaxPollInterval: cfg.MaxPollInterval,
	}, a.logger), nil
}

// poster returns the live Bluesky client, or a dry-run poster that needs no
// credentials.
func (a *app) poster(ctx context.Context, dryRun bool) (thread.Poster, error) {
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}
	if dryRun {
		return bluesky.NewDryRunPoster(cfg.Bluesky.Identifier), nil
	}
	return bluesky.New(ctx, cfg.Bluesky, a.logger)
}

// publisher builds a thread publisher. maxGraphemes <= 0 uses the configured
// budget; strict is also enabled by AMGR_STRICT.
func (a *app) publisher(ctx context.Context, dryRun bool, maxGraphemes int, strict bool) (*thread.Publisher, error) {
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}
	if maxGraphemes <= 0 {
		maxGraphemes = cfg.MaxGraphemes
	}

	poster, err := a.poster(ctx, dryRun)
	if err != nil {
		return nil, err
	}

	return thread.NewPublisher(poster,
		thread.WithMaxGraphemes(maxGraphemes),
		thread.WithStrict(strict || cfg.Strict),
		thread.WithLogger(a.logger)), nil
}

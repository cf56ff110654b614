package sources

import (
	"context"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/pantheonlab/pantheon/pkg/errors"
	"github.com/pantheonlab/pantheon/pkg/ingest"
	"github.com/pantheonlab/pantheon/pkg/logging"
)

// openAIProvider fetches rankings via the OpenAI Chat Completions API, or
// any OpenAI-compatible gateway when BaseURL is set.
type openAIProvider struct {
	client  *openai.Client
	cfg     Config
	limiter *rate.Limiter
}

func newOpenAI(cfg Config) (*openAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.ErrAPIKeyRequired
	}
	if cfg.Model == "" {
		cfg.Model = openai.GPT4oMini
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &openAIProvider{
		client:  openai.NewClientWithConfig(clientConfig),
		cfg:     cfg,
		limiter: newLimiter(cfg.RequestsPerMinute),
	}, nil
}

func (p *openAIProvider) Name() string {
	return "openai"
}

// FetchRanking implements Provider.
func (p *openAIProvider) FetchRanking(ctx context.Context, n int) (*ingest.RawList, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a historian producing significance rankings.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: rankingPrompt(n),
			},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return nil, errors.NewAPIError(p.Name(), 0, err.Error())
	}
	if len(resp.Choices) == 0 {
		return nil, errors.NewAPIError(p.Name(), 0, "empty response")
	}

	list := ParseRankedList(p.cfg.Source, resp.Choices[0].Message.Content)
	logging.FromContext(ctx).Debug().
		Str("provider", p.Name()).
		Str("model", p.cfg.Model).
		Int("entries", len(list.Entries)).
		Msg("Fetched ranking")
	return list, nil
}

package sources

import (
	"context"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/pantheonlab/pantheon/pkg/errors"
	"github.com/pantheonlab/pantheon/pkg/ingest"
	"github.com/pantheonlab/pantheon/pkg/logging"
)

const defaultGeminiModel = "gemini-2.0-flash"

// geminiProvider fetches rankings via the Gemini API.
type geminiProvider struct {
	cfg     Config
	limiter *rate.Limiter
}

func newGemini(cfg Config) (*geminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.ErrAPIKeyRequired
	}
	if cfg.Model == "" {
		cfg.Model = defaultGeminiModel
	}
	return &geminiProvider{
		cfg:     cfg,
		limiter: newLimiter(cfg.RequestsPerMinute),
	}, nil
}

func (p *geminiProvider) Name() string {
	return "gemini"
}

// FetchRanking implements Provider. The genai client is created per call:
// it holds no connection state worth pooling and this keeps the provider
// free of mutable fields.
func (p *geminiProvider) FetchRanking(ctx context.Context, n int) (*ingest.RawList, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  p.cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.NewAPIError(p.Name(), 0, err.Error())
	}

	resp, err := client.Models.GenerateContent(ctx, p.cfg.Model, genai.Text(rankingPrompt(n)), nil)
	if err != nil {
		return nil, errors.NewAPIError(p.Name(), 0, err.Error())
	}
	text := resp.Text()
	if text == "" {
		return nil, errors.NewAPIError(p.Name(), 0, "empty response")
	}

	list := ParseRankedList(p.cfg.Source, text)
	logging.FromContext(ctx).Debug().
		Str("provider", p.Name()).
		Str("model", p.cfg.Model).
		Int("entries", len(list.Entries)).
		Msg("Fetched ranking")
	return list, nil
}

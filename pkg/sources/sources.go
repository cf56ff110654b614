// Package sources fetches ranked lists of historical figures from language
// model providers. Each provider asks its model for an N-entry significance
// ranking and parses the reply into a raw list ready for ingestion.
//
// Model output is treated as untrusted text: parsing tolerates numbering
// quirks, blank lines, and prose preambles, and drops what it cannot read.
package sources

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pantheonlab/pantheon/pkg/errors"
	"github.com/pantheonlab/pantheon/pkg/ingest"
	"github.com/pantheonlab/pantheon/pkg/types"
)

// Provider fetches one ranked list from a language model.
type Provider interface {
	// Name returns the provider name ("openai", "gemini").
	Name() string

	// FetchRanking asks the model for its n most significant historical
	// figures and returns the parsed list. The list's source ID is the
	// configured source name; the sample ID is left for ingestion to assign.
	FetchRanking(ctx context.Context, n int) (*ingest.RawList, error)
}

// Config holds provider configuration.
type Config struct {
	// Provider name: "openai" or "gemini".
	Provider string

	// Source is the source ID recorded on fetched lists. Defaults to the
	// provider name.
	Source types.SourceID

	// Model is the provider-specific model name.
	Model string

	// APIKey authenticates against the provider.
	APIKey string

	// BaseURL overrides the API endpoint (OpenAI-compatible gateways).
	BaseURL string

	// Timeout bounds one fetch. Zero means DefaultTimeout.
	Timeout time.Duration

	// RequestsPerMinute throttles calls to the provider. Zero means
	// DefaultRequestsPerMinute.
	RequestsPerMinute int
}

// Defaults applied when Config fields are zero.
const (
	DefaultTimeout           = 120 * time.Second
	DefaultRequestsPerMinute = 10
)

// New creates the provider named by cfg.Provider.
func New(cfg Config) (Provider, error) {
	if cfg.Source == "" {
		cfg.Source = types.SourceID(strings.ToLower(cfg.Provider))
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerMinute == 0 {
		cfg.RequestsPerMinute = DefaultRequestsPerMinute
	}

	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return newOpenAI(cfg)
	case "gemini", "google":
		return newGemini(cfg)
	default:
		return nil, errors.NewConfigError("sources",
			fmt.Sprintf("unknown provider %q (supported: openai, gemini)", cfg.Provider), nil)
	}
}

// newLimiter builds the per-provider rate limiter.
func newLimiter(requestsPerMinute int) *rate.Limiter {
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1)
}

// rankingPrompt is the instruction sent to every provider.
func rankingPrompt(n int) string {
	return fmt.Sprintf(`List the %d most historically significant people of all time, `+
		`ranked from most to least significant. Consider lasting impact across `+
		`science, politics, religion, philosophy, art, and exploration. `+
		`Reply with a plain numbered list, one name per line, no commentary:

1. Name
2. Name
...`, n)
}

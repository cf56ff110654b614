// Package app provides the application context and dependency management
// for the pantheon CLI. It centralizes configuration, logging, and the
// shared catalog instance behind one handle that commands receive.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/pantheonlab/pantheon"
	"github.com/pantheonlab/pantheon/cmd/pantheon/cmd"
	"github.com/pantheonlab/pantheon/pkg/errors"
	"github.com/pantheonlab/pantheon/pkg/sources"
)

// App is the pantheon CLI application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger

	// Catalog instance (lazy-initialized, singleton)
	mu       sync.Mutex
	pantheon pantheon.Pantheon
}

// Ensure App satisfies the command interface at compile time.
var _ cmd.Application = (*App)(nil)

// New creates an App with the given version information.
func New(version, commit, date string) (*App, error) {
	config, err := LoadConfig()
	if err != nil {
		return nil, errors.NewConfigError("app", "loading configuration", err)
	}

	logger := NewLogger(config)

	return &App{
		version: version,
		commit:  commit,
		date:    date,
		config:  config,
		logger:  &logger,
	}, nil
}

// Version returns the version string.
func (a *App) Version() string {
	return a.version
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Format returns the requested output format.
func (a *App) Format() string {
	return a.config.Format
}

// Pantheon returns the shared catalog instance, creating it lazily.
func (a *App) Pantheon() (pantheon.Pantheon, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.pantheon != nil {
		return a.pantheon, nil
	}

	opts := []pantheon.Option{}
	if a.config.DSN != "" {
		opts = append(opts, pantheon.WithDSN(a.config.DSN))
	}
	if a.config.MergeTableFile != "" {
		opts = append(opts, pantheon.WithMergeTableFile(a.config.MergeTableFile))
	}
	if a.config.PenaltyRank > 0 {
		opts = append(opts, pantheon.WithPenaltyRank(a.config.PenaltyRank))
	}

	p, err := pantheon.New(opts...)
	if err != nil {
		return nil, err
	}
	a.pantheon = p
	return p, nil
}

// SourceConfig returns the fetch configuration for one provider.
func (a *App) SourceConfig(provider string) (sources.Config, error) {
	cfg := sources.Config{
		Provider: provider,
		Timeout:  a.config.FetchTimeout,
	}
	switch provider {
	case "openai":
		cfg.APIKey = a.config.OpenAIAPIKey
		cfg.Model = a.config.OpenAIModel
	case "gemini", "google":
		cfg.APIKey = a.config.GeminiAPIKey
		cfg.Model = a.config.GeminiModel
	default:
		return sources.Config{}, errors.NewConfigError("sources",
			"unknown provider "+provider, nil)
	}
	if cfg.APIKey == "" {
		return sources.Config{}, errors.ErrAPIKeyRequired
	}
	return cfg, nil
}

// Providers returns the providers with credentials configured.
func (a *App) Providers() []string {
	var out []string
	if a.config.OpenAIAPIKey != "" {
		out = append(out, "openai")
	}
	if a.config.GeminiAPIKey != "" {
		out = append(out, "gemini")
	}
	return out
}

// Shutdown performs graceful shutdown, closing the store if one was opened.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.pantheon != nil {
		err := a.pantheon.Close()
		a.pantheon = nil
		return err
	}
	return nil
}

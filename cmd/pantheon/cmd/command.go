// Package cmd implements the pantheon subcommands. Commands depend on the
// Application interface rather than the concrete app type so they can be
// exercised with a fake in tests.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog"

	"github.com/pantheonlab/pantheon"
	"github.com/pantheonlab/pantheon/pkg/sources"
)

// Application is the surface commands need from the CLI app.
type Application interface {
	// Logger returns the application logger.
	Logger() *zerolog.Logger

	// Pantheon returns the shared catalog instance, creating it lazily.
	Pantheon() (pantheon.Pantheon, error)

	// SourceConfig returns the fetch configuration for one provider.
	SourceConfig(provider string) (sources.Config, error)

	// Providers returns the providers with credentials configured.
	Providers() []string

	// Format is the requested output format: text, json, or yaml.
	Format() string
}

// render writes a report in the requested format.
func render(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		data, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		_, err := fmt.Fprintf(w, "%+v\n", v)
		return err
	}
}

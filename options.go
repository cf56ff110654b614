package pantheon

import (
	"time"

	"github.com/pantheonlab/pantheon/internal/store"
	"github.com/pantheonlab/pantheon/pkg/promote"
	"github.com/pantheonlab/pantheon/pkg/resolve"
)

// Option is a function that configures a Pantheon instance.
type Option func(*config) error

// config holds construction-time settings.
type config struct {
	store       store.Store
	dsn         string
	mergeTable  resolve.MergeTable
	thresholds  promote.Thresholds
	penaltyRank int
	lookupTTL   time.Duration
}

func newConfig() *config {
	return &config{
		thresholds: promote.DefaultThresholds(),
		lookupTTL:  DefaultLookupTTL,
	}
}

// WithStore supplies an already-open store. Takes precedence over WithDSN.
func WithStore(st store.Store) Option {
	return func(c *config) error {
		c.store = st
		return nil
	}
}

// WithDSN selects the SQL-backed store: a file path or :memory: for SQLite,
// or a postgres:// URL.
func WithDSN(dsn string) Option {
	return func(c *config) error {
		c.dsn = dsn
		return nil
	}
}

// WithMergeTable supplies the curated duplicate table used by
// ResolveDuplicates.
func WithMergeTable(table resolve.MergeTable) Option {
	return func(c *config) error {
		c.mergeTable = table
		return nil
	}
}

// WithMergeTableFile loads the curated duplicate table from a YAML file.
func WithMergeTableFile(path string) Option {
	return func(c *config) error {
		table, err := resolve.LoadMergeTable(path)
		if err != nil {
			return err
		}
		c.mergeTable = table
		return nil
	}
}

// WithPromotionThresholds overrides the candidate promotion gate.
func WithPromotionThresholds(t promote.Thresholds) Option {
	return func(c *config) error {
		c.thresholds = t
		return nil
	}
}

// WithPenaltyRank overrides the rank imputed for sources that omit a figure.
func WithPenaltyRank(rank int) Option {
	return func(c *config) error {
		c.penaltyRank = rank
		return nil
	}
}

// WithLookupTTL overrides how long Lookup results stay cached.
func WithLookupTTL(ttl time.Duration) Option {
	return func(c *config) error {
		c.lookupTTL = ttl
		return nil
	}
}

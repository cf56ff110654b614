package sqldb

// schema defines the entity store tables. Types are kept to the common
// subset that SQLite and Postgres interpret identically; candidate source
// sets cross the serialization boundary as JSON text.
const schema = `
CREATE TABLE IF NOT EXISTS figures (
    id             TEXT PRIMARY KEY,
    canonical_name TEXT NOT NULL,
    birth_year     INTEGER,
    death_year     INTEGER,
    domain         TEXT,
    era            TEXT,
    region         TEXT,
    latitude       DOUBLE PRECISION,
    longitude      DOUBLE PRECISION,
    external_id    TEXT,
    external_rank  INTEGER,
    consensus_rank DOUBLE PRECISION,
    variance_score DOUBLE PRECISION,
    created_at     TIMESTAMP NOT NULL,
    updated_at     TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_figures_external_id ON figures(external_id);

CREATE TABLE IF NOT EXISTS ranking_contributions (
    figure_id TEXT NOT NULL REFERENCES figures(id),
    source    TEXT NOT NULL,
    sample_id TEXT,
    rank      INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_contributions_figure ON ranking_contributions(figure_id);
CREATE INDEX IF NOT EXISTS idx_contributions_source ON ranking_contributions(source);

CREATE TABLE IF NOT EXISTS aliases (
    alias     TEXT PRIMARY KEY,
    figure_id TEXT NOT NULL REFERENCES figures(id)
);

CREATE INDEX IF NOT EXISTS idx_aliases_figure ON aliases(figure_id);

CREATE TABLE IF NOT EXISTS candidates (
    normalized_name TEXT PRIMARY KEY,
    display_name    TEXT NOT NULL,
    sources         TEXT NOT NULL,
    mention_count   INTEGER NOT NULL,
    avg_rank        DOUBLE PRECISION NOT NULL,
    created_at      TIMESTAMP NOT NULL
);
`

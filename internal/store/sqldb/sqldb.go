// Package sqldb implements the entity store on database/sql. It speaks both
// SQLite (modernc.org/sqlite, the default for local datasets) and Postgres
// (lib/pq) depending on the DSN, sharing one set of queries written with `?`
// placeholders that are rebound for Postgres.
package sqldb

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/agentstation/utc"

	// Database drivers registered by DSN scheme.
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/pantheonlab/pantheon/internal/store"
	"github.com/pantheonlab/pantheon/pkg/errors"
	"github.com/pantheonlab/pantheon/pkg/types"
)

// querier is the subset of sql.DB and sql.Tx the store uses, so the same
// methods serve both transactional and non-transactional calls.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// DB is the SQL-backed entity store.
type DB struct {
	db       *sql.DB
	q        querier
	postgres bool
}

var _ store.Store = (*DB)(nil)

// Open connects to the store at the given DSN and ensures the schema exists.
// DSNs beginning with postgres:// or postgresql:// use lib/pq; anything else
// is treated as a SQLite database path.
func Open(ctx context.Context, dsn string) (*DB, error) {
	postgres := strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")

	driver := "sqlite"
	if postgres {
		driver = "postgres"
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, errors.WrapStore("open", "", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.NewStoreError("ping", "", err)
	}

	s := &DB{db: db, q: db, postgres: postgres}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, errors.WrapStore("migrate", "", err)
	}
	return s, nil
}

// rebind rewrites `?` placeholders to `$n` for Postgres.
func (s *DB) rebind(query string) string {
	if !s.postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Figures

const figureColumns = `id, canonical_name, birth_year, death_year, domain, era, region,
	latitude, longitude, external_id, external_rank, consensus_rank, variance_score,
	created_at, updated_at`

// GetFigure implements store.Store.
func (s *DB) GetFigure(ctx context.Context, id types.FigureID) (*types.Figure, error) {
	row := s.q.QueryRowContext(ctx, s.rebind(
		`SELECT `+figureColumns+` FROM figures WHERE id = ?`), string(id))
	f, err := scanFigure(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("figure", id.String())
	}
	if err != nil {
		return nil, errors.WrapStore("get", "figures", err)
	}
	return f, nil
}

// ListFigures implements store.Store.
func (s *DB) ListFigures(ctx context.Context) ([]types.Figure, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT `+figureColumns+` FROM figures ORDER BY id`)
	if err != nil {
		return nil, errors.WrapStore("list", "figures", err)
	}
	defer rows.Close()

	var out []types.Figure
	for rows.Next() {
		f, err := scanFigure(rows)
		if err != nil {
			return nil, errors.WrapStore("scan", "figures", err)
		}
		out = append(out, *f)
	}
	return out, rows.Err()
}

// PutFigure implements store.Store.
func (s *DB) PutFigure(ctx context.Context, f *types.Figure) error {
	if f == nil || f.ID == "" {
		return errors.NewValidationError("id", f, "figure ID must not be empty")
	}
	var query string
	if s.postgres {
		query = `INSERT INTO figures (` + figureColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				canonical_name = EXCLUDED.canonical_name,
				birth_year = EXCLUDED.birth_year, death_year = EXCLUDED.death_year,
				domain = EXCLUDED.domain, era = EXCLUDED.era, region = EXCLUDED.region,
				latitude = EXCLUDED.latitude, longitude = EXCLUDED.longitude,
				external_id = EXCLUDED.external_id, external_rank = EXCLUDED.external_rank,
				consensus_rank = EXCLUDED.consensus_rank, variance_score = EXCLUDED.variance_score,
				updated_at = EXCLUDED.updated_at`
	} else {
		query = `INSERT OR REPLACE INTO figures (` + figureColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	}
	_, err := s.q.ExecContext(ctx, s.rebind(query),
		string(f.ID), f.Name, f.BirthYear, f.DeathYear, f.Domain, f.Era, f.Region,
		f.Latitude, f.Longitude, f.ExternalID, f.ExternalRank,
		f.ConsensusRank, f.VarianceScore, f.CreatedAt.Time, f.UpdatedAt.Time)
	return errors.WrapStore("put", "figures", err)
}

// DeleteFigure implements store.Store.
func (s *DB) DeleteFigure(ctx context.Context, id types.FigureID) error {
	_, err := s.q.ExecContext(ctx, s.rebind(`DELETE FROM figures WHERE id = ?`), string(id))
	return errors.WrapStore("delete", "figures", err)
}

// HasFigure implements store.Store.
func (s *DB) HasFigure(ctx context.Context, id types.FigureID) (bool, error) {
	var n int
	err := s.q.QueryRowContext(ctx, s.rebind(
		`SELECT COUNT(*) FROM figures WHERE id = ?`), string(id)).Scan(&n)
	if err != nil {
		return false, errors.WrapStore("get", "figures", err)
	}
	return n > 0, nil
}

// Contributions

// AddContribution implements store.Store.
func (s *DB) AddContribution(ctx context.Context, c types.Contribution) error {
	if c.FigureID == "" {
		return errors.NewValidationError("figure_id", c, "contribution must reference a figure")
	}
	_, err := s.q.ExecContext(ctx, s.rebind(
		`INSERT INTO ranking_contributions (figure_id, source, sample_id, rank) VALUES (?, ?, ?, ?)`),
		string(c.FigureID), string(c.Source), c.SampleID, c.Rank)
	return errors.WrapStore("put", "contributions", err)
}

// ContributionsFor implements store.Store.
func (s *DB) ContributionsFor(ctx context.Context, id types.FigureID) ([]types.Contribution, error) {
	rows, err := s.q.QueryContext(ctx, s.rebind(
		`SELECT figure_id, source, sample_id, rank FROM ranking_contributions WHERE figure_id = ?`),
		string(id))
	if err != nil {
		return nil, errors.WrapStore("list", "contributions", err)
	}
	defer rows.Close()
	return scanContributions(rows)
}

// ContributionsByFigure implements store.Store.
func (s *DB) ContributionsByFigure(ctx context.Context) (map[types.FigureID][]types.Contribution, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT figure_id, source, sample_id, rank FROM ranking_contributions`)
	if err != nil {
		return nil, errors.WrapStore("list", "contributions", err)
	}
	defer rows.Close()

	all, err := scanContributions(rows)
	if err != nil {
		return nil, err
	}
	out := make(map[types.FigureID][]types.Contribution)
	for _, c := range all {
		out[c.FigureID] = append(out[c.FigureID], c)
	}
	return out, nil
}

// ReassignContributions implements store.Store.
func (s *DB) ReassignContributions(ctx context.Context, from, to types.FigureID) (int, error) {
	res, err := s.q.ExecContext(ctx, s.rebind(
		`UPDATE ranking_contributions SET figure_id = ? WHERE figure_id = ?`),
		string(to), string(from))
	if err != nil {
		return 0, errors.WrapStore("update", "contributions", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// Sources implements store.Store.
func (s *DB) Sources(ctx context.Context) ([]types.SourceID, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT DISTINCT source FROM ranking_contributions ORDER BY source`)
	if err != nil {
		return nil, errors.WrapStore("list", "contributions", err)
	}
	defer rows.Close()

	var out []types.SourceID
	for rows.Next() {
		var src string
		if err := rows.Scan(&src); err != nil {
			return nil, errors.WrapStore("scan", "contributions", err)
		}
		out = append(out, types.SourceID(src))
	}
	return out, rows.Err()
}

// Aliases

// PutAlias implements store.Store.
func (s *DB) PutAlias(ctx context.Context, alias string, id types.FigureID) error {
	if alias == "" {
		return errors.NewValidationError("alias", alias, "alias must not be empty")
	}
	query := `INSERT OR IGNORE INTO aliases (alias, figure_id) VALUES (?, ?)`
	if s.postgres {
		query = `INSERT INTO aliases (alias, figure_id) VALUES (?, ?) ON CONFLICT (alias) DO NOTHING`
	}
	_, err := s.q.ExecContext(ctx, s.rebind(query), alias, string(id))
	return errors.WrapStore("put", "aliases", err)
}

// ResolveAlias implements store.Store.
func (s *DB) ResolveAlias(ctx context.Context, alias string) (types.FigureID, bool, error) {
	var id string
	err := s.q.QueryRowContext(ctx, s.rebind(
		`SELECT figure_id FROM aliases WHERE alias = ?`), alias).Scan(&id)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.WrapStore("get", "aliases", err)
	}
	return types.FigureID(id), true, nil
}

// AliasesFor implements store.Store.
func (s *DB) AliasesFor(ctx context.Context, id types.FigureID) ([]string, error) {
	rows, err := s.q.QueryContext(ctx, s.rebind(
		`SELECT alias FROM aliases WHERE figure_id = ? ORDER BY alias`), string(id))
	if err != nil {
		return nil, errors.WrapStore("list", "aliases", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var a string
		if err := rows.Scan(&a); err != nil {
			return nil, errors.WrapStore("scan", "aliases", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ReassignAliases implements store.Store.
func (s *DB) ReassignAliases(ctx context.Context, from, to types.FigureID) (int, error) {
	res, err := s.q.ExecContext(ctx, s.rebind(
		`UPDATE aliases SET figure_id = ? WHERE figure_id = ?`),
		string(to), string(from))
	if err != nil {
		return 0, errors.WrapStore("update", "aliases", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// DeleteAliasesFor implements store.Store.
func (s *DB) DeleteAliasesFor(ctx context.Context, id types.FigureID) error {
	_, err := s.q.ExecContext(ctx, s.rebind(
		`DELETE FROM aliases WHERE figure_id = ?`), string(id))
	return errors.WrapStore("delete", "aliases", err)
}

// Candidates

// UpsertCandidate implements store.Store.
func (s *DB) UpsertCandidate(ctx context.Context, c *types.Candidate) error {
	if c == nil || c.NormalizedName == "" {
		return errors.NewValidationError("normalized_name", c, "candidate key must not be empty")
	}
	sources, err := json.Marshal(c.Sources)
	if err != nil {
		return errors.WrapStore("encode", "candidates", err)
	}
	var query string
	if s.postgres {
		query = `INSERT INTO candidates (normalized_name, display_name, sources, mention_count, avg_rank, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (normalized_name) DO UPDATE SET
				display_name = EXCLUDED.display_name, sources = EXCLUDED.sources,
				mention_count = EXCLUDED.mention_count, avg_rank = EXCLUDED.avg_rank`
	} else {
		query = `INSERT OR REPLACE INTO candidates (normalized_name, display_name, sources, mention_count, avg_rank, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`
	}
	_, err = s.q.ExecContext(ctx, s.rebind(query),
		c.NormalizedName, c.DisplayName, string(sources), c.Mentions, c.AvgRank, c.CreatedAt.Time)
	return errors.WrapStore("put", "candidates", err)
}

// GetCandidate implements store.Store.
func (s *DB) GetCandidate(ctx context.Context, normalizedName string) (*types.Candidate, error) {
	row := s.q.QueryRowContext(ctx, s.rebind(
		`SELECT normalized_name, display_name, sources, mention_count, avg_rank, created_at
		 FROM candidates WHERE normalized_name = ?`), normalizedName)
	c, err := scanCandidate(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("candidate", normalizedName)
	}
	if err != nil {
		return nil, errors.WrapStore("get", "candidates", err)
	}
	return c, nil
}

// ListCandidates implements store.Store.
func (s *DB) ListCandidates(ctx context.Context) ([]types.Candidate, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT normalized_name, display_name, sources, mention_count, avg_rank, created_at
		 FROM candidates ORDER BY normalized_name`)
	if err != nil {
		return nil, errors.WrapStore("list", "candidates", err)
	}
	defer rows.Close()

	var out []types.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, errors.WrapStore("scan", "candidates", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// DeleteCandidate implements store.Store.
func (s *DB) DeleteCandidate(ctx context.Context, normalizedName string) error {
	_, err := s.q.ExecContext(ctx, s.rebind(
		`DELETE FROM candidates WHERE normalized_name = ?`), normalizedName)
	return errors.WrapStore("delete", "candidates", err)
}

// Consensus

// SetConsensus implements store.Store.
func (s *DB) SetConsensus(ctx context.Context, id types.FigureID, rank, variance *float64) error {
	res, err := s.q.ExecContext(ctx, s.rebind(
		`UPDATE figures SET consensus_rank = ?, variance_score = ? WHERE id = ?`),
		rank, variance, string(id))
	if err != nil {
		return errors.WrapStore("update", "figures", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NewNotFoundError("figure", id.String())
	}
	return nil
}

// Transact implements store.Store. The callback receives a store bound to a
// single SQL transaction; an error rolls everything back.
func (s *DB) Transact(ctx context.Context, fn func(store.Store) error) error {
	if _, inTx := s.q.(*sql.Tx); inTx {
		// Already transactional; join the outer transaction.
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.WrapStore("transact", "", err)
	}

	txStore := &DB{db: s.db, q: tx, postgres: s.postgres}
	if err := fn(txStore); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.WrapStore("commit", "", err)
	}
	return nil
}

// Close implements store.Store.
func (s *DB) Close() error {
	return s.db.Close()
}

// scanner abstracts sql.Row and sql.Rows for the scan helpers.
type scanner interface {
	Scan(dest ...any) error
}

func scanFigure(sc scanner) (*types.Figure, error) {
	var (
		f                    types.Figure
		id                   string
		createdAt, updatedAt time.Time
	)
	err := sc.Scan(&id, &f.Name, &f.BirthYear, &f.DeathYear, &f.Domain, &f.Era, &f.Region,
		&f.Latitude, &f.Longitude, &f.ExternalID, &f.ExternalRank,
		&f.ConsensusRank, &f.VarianceScore, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	f.ID = types.FigureID(id)
	f.CreatedAt = utc.Time{Time: createdAt}
	f.UpdatedAt = utc.Time{Time: updatedAt}
	return &f, nil
}

func scanContributions(rows *sql.Rows) ([]types.Contribution, error) {
	var out []types.Contribution
	for rows.Next() {
		var (
			c             types.Contribution
			figureID, src string
		)
		if err := rows.Scan(&figureID, &src, &c.SampleID, &c.Rank); err != nil {
			return nil, errors.WrapStore("scan", "contributions", err)
		}
		c.FigureID = types.FigureID(figureID)
		c.Source = types.SourceID(src)
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanCandidate(sc scanner) (*types.Candidate, error) {
	var (
		c         types.Candidate
		sources   string
		createdAt time.Time
	)
	err := sc.Scan(&c.NormalizedName, &c.DisplayName, &sources, &c.Mentions, &c.AvgRank, &createdAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(sources), &c.Sources); err != nil {
		return nil, err
	}
	c.CreatedAt = utc.Time{Time: createdAt}
	return &c, nil
}

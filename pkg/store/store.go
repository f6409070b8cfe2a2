// Package store persists run snapshots to a local SQLite database so
// successive runs can be listed and compared.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/dd0wney/cluso-followgraph/pkg/community"
	"github.com/dd0wney/cluso-followgraph/pkg/edges"
	"github.com/dd0wney/cluso-followgraph/pkg/identity"
	"github.com/dd0wney/cluso-followgraph/pkg/network"
	"github.com/dd0wney/cluso-followgraph/pkg/report"
)

// ErrRunNotFound is returned when no snapshot has the requested run id.
var ErrRunNotFound = errors.New("run not found")

// Store is a SQLite-backed run history.
type Store struct {
	db *sql.DB
}

// Snapshot is everything persisted for one run.
type Snapshot struct {
	RunID       string
	CreatedAt   time.Time
	Members     []*identity.Member
	Edges       []edges.Edge
	Records     []network.Record
	Communities *community.Result
	Summary     *report.Summary
}

// RunInfo describes one stored run.
type RunInfo struct {
	RunID      string
	CreatedAt  time.Time
	Population int
	EdgeCount  int
}

// Open opens or creates the database at path. ":memory:" gives a private
// in-memory database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection: in-memory databases are per connection and runs are
	// written by a single process.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	PRAGMA foreign_keys = ON;

	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at INTEGER NOT NULL,
		population INTEGER NOT NULL,
		edge_count INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS members (
		run_id TEXT NOT NULL,
		rank INTEGER NOT NULL,
		canonical_name TEXT NOT NULL,
		listed_rank INTEGER NOT NULL DEFAULT 0,
		aliases JSON NOT NULL,
		category TEXT,
		follower_count INTEGER NOT NULL DEFAULT 0,
		profile_url TEXT,
		PRIMARY KEY (run_id, rank),
		FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS edges (
		run_id TEXT NOT NULL,
		source TEXT NOT NULL,
		target TEXT NOT NULL,
		position INTEGER NOT NULL,
		PRIMARY KEY (run_id, source, target),
		FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS metrics (
		run_id TEXT NOT NULL,
		name TEXT NOT NULL,
		rank INTEGER NOT NULL,
		in_degree INTEGER NOT NULL,
		out_degree INTEGER NOT NULL,
		mutual INTEGER NOT NULL,
		influence REAL NOT NULL,
		betweenness REAL NOT NULL,
		pagerank REAL NOT NULL,
		distinct_following INTEGER NOT NULL,
		PRIMARY KEY (run_id, name),
		FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS communities (
		run_id TEXT NOT NULL,
		algorithm TEXT NOT NULL,
		position INTEGER NOT NULL,
		leader TEXT NOT NULL,
		size INTEGER NOT NULL,
		members JSON NOT NULL,
		PRIMARY KEY (run_id, algorithm, position),
		FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS summaries (
		run_id TEXT PRIMARY KEY,
		data JSON NOT NULL,
		FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	CREATE INDEX IF NOT EXISTS idx_communities_algorithm ON communities(run_id, algorithm);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveRun stores the snapshot in one transaction, replacing any earlier
// snapshot with the same run id.
func (s *Store) SaveRun(ctx context.Context, snap *Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, snap.RunID); err != nil {
		return fmt.Errorf("failed to clear run: %w", err)
	}

	createdAt := snap.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, population, edge_count) VALUES (?, ?, ?, ?)`,
		snap.RunID, createdAt.UnixNano(), len(snap.Members), len(snap.Edges)); err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	if err := insertMembers(ctx, tx, snap.RunID, snap.Members); err != nil {
		return err
	}
	if err := insertEdges(ctx, tx, snap.RunID, snap.Edges); err != nil {
		return err
	}
	if err := insertMetrics(ctx, tx, snap.RunID, snap.Records); err != nil {
		return err
	}
	if snap.Communities != nil {
		if err := insertCommunities(ctx, tx, snap.RunID, snap.Communities.Partitions); err != nil {
			return err
		}
	}
	if snap.Summary != nil {
		data, err := json.Marshal(snap.Summary)
		if err != nil {
			return fmt.Errorf("failed to marshal summary: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO summaries (run_id, data) VALUES (?, ?)`, snap.RunID, string(data)); err != nil {
			return fmt.Errorf("failed to insert summary: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

func insertMembers(ctx context.Context, tx *sql.Tx, runID string, members []*identity.Member) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO members (run_id, rank, canonical_name, listed_rank, aliases, category, follower_count, profile_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare member insert: %w", err)
	}
	defer stmt.Close()

	for _, m := range members {
		aliases, err := json.Marshal(m.Aliases)
		if err != nil {
			return fmt.Errorf("failed to marshal aliases: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, runID, m.Rank, m.CanonicalName, m.ListedRank, string(aliases),
			stringToNull(m.Category), m.FollowerCount, stringToNull(m.ProfileURL)); err != nil {
			return fmt.Errorf("failed to insert member %s: %w", m.CanonicalName, err)
		}
	}
	return nil
}

func insertEdges(ctx context.Context, tx *sql.Tx, runID string, edgeList []edges.Edge) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO edges (run_id, source, target, position) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare edge insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range edgeList {
		if _, err := stmt.ExecContext(ctx, runID, e.Source, e.Target, i); err != nil {
			return fmt.Errorf("failed to insert edge %s->%s: %w", e.Source, e.Target, err)
		}
	}
	return nil
}

func insertMetrics(ctx context.Context, tx *sql.Tx, runID string, records []network.Record) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO metrics (run_id, name, rank, in_degree, out_degree, mutual, influence, betweenness, pagerank, distinct_following)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare metrics insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, runID, r.Name, r.Rank, r.InDegree, r.OutDegree, r.Mutual,
			r.Influence, r.Betweenness, r.PageRank, r.DistinctFollowing); err != nil {
			return fmt.Errorf("failed to insert metrics for %s: %w", r.Name, err)
		}
	}
	return nil
}

func insertCommunities(ctx context.Context, tx *sql.Tx, runID string, partitions []*community.Partition) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO communities (run_id, algorithm, position, leader, size, members)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare community insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range partitions {
		for i, c := range p.Communities {
			members, err := json.Marshal(c.Members)
			if err != nil {
				return fmt.Errorf("failed to marshal members: %w", err)
			}
			if _, err := stmt.ExecContext(ctx, runID, p.Algorithm, i, c.Leader, c.Size, string(members)); err != nil {
				return fmt.Errorf("failed to insert %s community %d: %w", p.Algorithm, i, err)
			}
		}
	}
	return nil
}

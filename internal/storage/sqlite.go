package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"intellimap/internal/graph"
	"intellimap/internal/trace"

	_ "github.com/mattn/go-sqlite3"
)

// Run is one archived pipeline invocation, either a static index or a
// runtime-trace conversion.
type Run struct {
	ID        int64
	Kind      string // "graph" or "trace"
	CreatedAt time.Time
	Root      string
	Nodes     int
	Edges     int
	Artifact  string
}

// SQLiteStore archives emitted graphs and converted traces.
//
// The archive is append-only from the pipeline's point of view: indexing
// never reads it back, every run still recomputes from scratch.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates or opens a SQLite database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		kind TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		root TEXT,
		node_count INTEGER NOT NULL,
		edge_count INTEGER NOT NULL,
		artifact TEXT,
		payload JSON
	);`)
	return err
}

// SaveGraph archives an emitted graph snapshot and returns the run id.
func (s *SQLiteStore) SaveGraph(ctx context.Context, root string, g *graph.Graph) (int64, error) {
	payload, err := json.Marshal(g)
	if err != nil {
		return 0, fmt.Errorf("failed to encode graph: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (kind, created_at, root, node_count, edge_count, artifact, payload)
		VALUES ('graph', ?, ?, ?, ?, '', ?)
	`, time.Now().Unix(), root, len(g.Nodes), len(g.Edges), payload)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// SaveTrace archives a converted runtime trace and returns the run id.
// artifact is the path of the trace file written to disk.
func (s *SQLiteStore) SaveTrace(ctx context.Context, artifact string, t *trace.Trace) (int64, error) {
	payload, err := json.Marshal(t)
	if err != nil {
		return 0, fmt.Errorf("failed to encode trace: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (kind, created_at, root, node_count, edge_count, artifact, payload)
		VALUES ('trace', ?, '', ?, ?, ?, ?)
	`, t.Metadata.Timestamp/1000, len(t.Nodes), len(t.Edges), artifact, payload)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListRuns returns archived runs, most recent first.
func (s *SQLiteStore) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, created_at, root, node_count, edge_count, artifact
		FROM runs ORDER BY id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var createdAt int64
		if err := rows.Scan(&r.ID, &r.Kind, &createdAt, &r.Root, &r.Nodes, &r.Edges, &r.Artifact); err != nil {
			return nil, err
		}
		r.CreatedAt = time.Unix(createdAt, 0)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// LoadGraph returns the graph payload of an archived run.
func (s *SQLiteStore) LoadGraph(ctx context.Context, id int64) (*graph.Graph, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT payload FROM runs WHERE id = ? AND kind = 'graph'
	`, id).Scan(&payload)
	if err != nil {
		return nil, fmt.Errorf("failed to load run %d: %w", id, err)
	}

	var g graph.Graph
	if err := json.Unmarshal(payload, &g); err != nil {
		return nil, fmt.Errorf("failed to decode run %d: %w", id, err)
	}
	return &g, nil
}

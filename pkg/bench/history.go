// Package bench records benchmark run results into a local SQLite database
// so successive runs of cmd/bench can be compared. This is diagnostic
// tooling about the benchmark harness, not durability for the hybrid's own
// key space — the hybrid never round-trips through this store.
package bench

import (
	"database/sql"
	"log"
	"time"

	_ "modernc.org/sqlite"
)

// Run is a single recorded benchmark execution.
type Run struct {
	Name             string
	BuildTimeNs      int64
	InitialKeys      int64
	InsertedKeys     int64
	LookupCount      int64
	LookupHits       int64
	MigrationsRun    int64
	MigrationsAbort  int64
	ThroughputOpsSec float64
}

// History is a small SQLite-backed table of past benchmark runs.
type History struct {
	db *sql.DB
}

// OpenHistory opens (creating if necessary) the SQLite database at path and
// ensures the runs table exists.
func OpenHistory(path string) (*History, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	const schema = `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT,
		recorded_at TEXT,
		build_time_ns INTEGER,
		initial_keys INTEGER,
		inserted_keys INTEGER,
		lookup_count INTEGER,
		lookup_hits INTEGER,
		migrations_run INTEGER,
		migrations_abort INTEGER,
		throughput_ops_sec REAL
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.Exec(`PRAGMA journal_mode = WAL; PRAGMA synchronous = NORMAL;`); err != nil {
		log.Printf("Warning: failed to set PRAGMA on bench history db: %v", err)
	}

	return &History{db: db}, nil
}

// Record inserts one completed run.
func (h *History) Record(r Run) error {
	_, err := h.db.Exec(`
		INSERT INTO runs (
			name, recorded_at, build_time_ns, initial_keys, inserted_keys,
			lookup_count, lookup_hits, migrations_run, migrations_abort,
			throughput_ops_sec
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Name, time.Now().UTC().Format(time.RFC3339Nano), r.BuildTimeNs, r.InitialKeys,
		r.InsertedKeys, r.LookupCount, r.LookupHits, r.MigrationsRun, r.MigrationsAbort,
		r.ThroughputOpsSec,
	)
	return err
}

// Recent returns the last n recorded runs, most recent first.
func (h *History) Recent(n int) ([]Run, error) {
	rows, err := h.db.Query(`
		SELECT name, build_time_ns, initial_keys, inserted_keys, lookup_count,
		       lookup_hits, migrations_run, migrations_abort, throughput_ops_sec
		FROM runs ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.Name, &r.BuildTimeNs, &r.InitialKeys, &r.InsertedKeys,
			&r.LookupCount, &r.LookupHits, &r.MigrationsRun, &r.MigrationsAbort,
			&r.ThroughputOpsSec); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close releases the underlying database handle.
func (h *History) Close() {
	h.db.Close()
}

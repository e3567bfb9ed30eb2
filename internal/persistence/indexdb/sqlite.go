package indexdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SplitIndex is a secondary SQLite record of split runs and the
// artifacts they produced. The splitter works without one; the index
// exists so an operator can query what past runs wrote where.
type SplitIndex struct {
	db *sql.DB
}

func Open(path string) (*SplitIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SplitIndex{db: db}, nil
}

func (s *SplitIndex) Close() error {
	return s.db.Close()
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT NOT NULL,
			chunk_edge INTEGER NOT NULL,
			reports INTEGER NOT NULL,
			started_at TEXT NOT NULL,
			code TEXT,
			chunks INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS chunks (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			region TEXT NOT NULL,
			ix INTEGER NOT NULL,
			iy INTEGER NOT NULL,
			iz INTEGER NOT NULL,
			path TEXT NOT NULL,
			blocks INTEGER NOT NULL,
			PRIMARY KEY (run_id, region, ix, iy, iz)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_chunks_run ON chunks(run_id);`,
		`CREATE TABLE IF NOT EXISTS reports (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			chunk TEXT NOT NULL,
			path TEXT NOT NULL,
			items INTEGER NOT NULL,
			PRIMARY KEY (run_id, chunk)
		);`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *SplitIndex) BeginRun(source string, edge int, reports bool, startedAt time.Time) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO runs (source, chunk_edge, reports, started_at) VALUES (?, ?, ?, ?)`,
		source, edge, boolInt(reports), startedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *SplitIndex) RecordChunk(runID int64, region string, index [3]int, path string, blocks int) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO chunks (run_id, region, ix, iy, iz, path, blocks) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, region, index[0], index[1], index[2], path, blocks,
	)
	return err
}

func (s *SplitIndex) RecordReport(runID int64, chunkName, path string, items int) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO reports (run_id, chunk, path, items) VALUES (?, ?, ?, ?)`,
		runID, chunkName, path, items,
	)
	return err
}

func (s *SplitIndex) FinishRun(runID int64, code string, chunks int) error {
	_, err := s.db.Exec(`UPDATE runs SET code = ?, chunks = ? WHERE id = ?`, code, chunks, runID)
	return err
}

// RunRow is one finished or in-flight run as recorded in the index.
type RunRow struct {
	ID        int64
	Source    string
	ChunkEdge int
	Reports   bool
	StartedAt string
	Code      string
	Chunks    int
}

// LastRun returns the most recent run, or false when the index is empty.
func (s *SplitIndex) LastRun() (RunRow, bool, error) {
	var (
		r       RunRow
		reports int
		code    sql.NullString
		chunks  sql.NullInt64
	)
	err := s.db.QueryRow(
		`SELECT id, source, chunk_edge, reports, started_at, code, chunks FROM runs ORDER BY id DESC LIMIT 1`,
	).Scan(&r.ID, &r.Source, &r.ChunkEdge, &reports, &r.StartedAt, &code, &chunks)
	if err == sql.ErrNoRows {
		return r, false, nil
	}
	if err != nil {
		return r, false, err
	}
	r.Reports = reports != 0
	r.Code = code.String
	r.Chunks = int(chunks.Int64)
	return r, true, nil
}

// ChunkCount returns how many chunk artifacts a run recorded.
func (s *SplitIndex) ChunkCount(runID int64) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM chunks WHERE run_id = ?`, runID).Scan(&n)
	return n, err
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

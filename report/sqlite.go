package report

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/zephyrtronium/rootfind/solve"
)

// SQLite is a Sink storing iterations and results in a SQLite database.
// Every SQLite opened by a process gets a fresh run ID, so several batches
// can share one database.
type SQLite struct {
	db  *sql.DB
	mu  sync.Mutex
	run string
}

// OpenSQLite opens or creates the database at path and ensures its schema.
func OpenSQLite(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	s := &SQLite{db: db, run: uuid.New().String()}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLite) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT NOT NULL,
		line INTEGER NOT NULL,
		created DATETIME NOT NULL,
		method TEXT NOT NULL,
		expr TEXT NOT NULL,
		params TEXT NOT NULL,
		root REAL,
		residual REAL,
		step REAL,
		iterations INTEGER,
		status TEXT NOT NULL,
		error TEXT,
		PRIMARY KEY (run_id, line)
	);

	CREATE TABLE IF NOT EXISTS iterations (
		run_id TEXT NOT NULL,
		line INTEGER NOT NULL,
		n INTEGER NOT NULL,
		x REAL,
		residual REAL,
		step REAL,
		PRIMARY KEY (run_id, line, n)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// RunID returns the ID under which this sink stores rows.
func (s *SQLite) RunID() string {
	return s.run
}

func (s *SQLite) Begin(Entry) error { return nil }

func (s *SQLite) Iteration(e Entry, it solve.Iteration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(
		`INSERT INTO iterations (run_id, line, n, x, residual, step) VALUES (?, ?, ?, ?, ?, ?)`,
		s.run, e.Line, it.N, it.X, it.Residual, it.Step,
	)
	if err != nil {
		return fmt.Errorf("failed to insert iteration: %w", err)
	}
	return nil
}

func (s *SQLite) End(e Entry, res solve.Result, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var (
		root, residual, step sql.NullFloat64
		iters                sql.NullInt64
		msg                  sql.NullString
	)
	if err != nil {
		msg = sql.NullString{String: err.Error(), Valid: true}
	} else {
		root = sql.NullFloat64{Float64: res.Root, Valid: true}
		residual = sql.NullFloat64{Float64: res.Residual, Valid: true}
		step = sql.NullFloat64{Float64: res.Step, Valid: true}
		iters = sql.NullInt64{Int64: int64(res.Iterations), Valid: true}
	}
	_, xerr := s.db.Exec(
		`INSERT INTO runs (run_id, line, created, method, expr, params, root, residual, step, iterations, status, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.run, e.Line, time.Now().UTC(), string(e.Method), e.Expr, e.Params,
		root, residual, step, iters, Status(res, err), msg,
	)
	if xerr != nil {
		return fmt.Errorf("failed to insert result: %w", xerr)
	}
	return nil
}

// Row is a stored result.
type Row struct {
	Line       int
	Method     solve.Method
	Expr       string
	Root       float64
	Residual   float64
	Iterations int
	Status     string
	Error      string
	// Trace holds the line's iterations in order.
	Trace []solve.Iteration
}

// Rows returns the results stored under run, ordered by line.
func (s *SQLite) Rows(ctx context.Context, run string) ([]Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.db.QueryContext(ctx,
		`SELECT line, method, expr, root, residual, iterations, status, error
		FROM runs WHERE run_id = ? ORDER BY line`, run)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()
	var r []Row
	for rows.Next() {
		var (
			row            Row
			method         string
			root, residual sql.NullFloat64
			iters          sql.NullInt64
			msg            sql.NullString
		)
		if err := rows.Scan(&row.Line, &method, &row.Expr, &root, &residual, &iters, &row.Status, &msg); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		row.Method = solve.Method(method)
		row.Root, row.Residual = nullable(root), nullable(residual)
		row.Iterations = int(iters.Int64)
		row.Error = msg.String
		r = append(r, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range r {
		if r[i].Trace, err = s.trace(ctx, run, r[i]); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (s *SQLite) trace(ctx context.Context, run string, row Row) ([]solve.Iteration, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT n, x, residual, step FROM iterations WHERE run_id = ? AND line = ? ORDER BY n`,
		run, row.Line)
	if err != nil {
		return nil, fmt.Errorf("failed to query iterations: %w", err)
	}
	defer rows.Close()
	var its []solve.Iteration
	for rows.Next() {
		var x, residual, step sql.NullFloat64
		it := solve.Iteration{Method: row.Method}
		if err := rows.Scan(&it.N, &x, &residual, &step); err != nil {
			return nil, fmt.Errorf("failed to scan iteration: %w", err)
		}
		it.X, it.Residual, it.Step = nullable(x), nullable(residual), nullable(step)
		its = append(its, it)
	}
	return its, rows.Err()
}

// nullable maps NULL to NaN. SQLite stores NaN as NULL.
func nullable(f sql.NullFloat64) float64 {
	if !f.Valid {
		return math.NaN()
	}
	return f.Float64
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

// Package archive persists condensation runs as a key-value store on
// sqlite: one row of metadata per run plus one compressed tensor row
// per output key.
package archive

import (
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/topodyn/condense/internal/condense"
	"github.com/topodyn/condense/internal/timeutil"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrRunExists is returned by SaveRun when a run with the same name is
// already stored and force was not set.
var ErrRunExists = errors.New("run already exists")

// Run is the stored metadata of one condensation run.
type Run struct {
	RunID       string          `json:"run_id"`
	Name        string          `json:"name"`
	ParamsJSON  json.RawMessage `json:"params_json,omitempty"`
	Iterations  int             `json:"iterations"`
	Status      string          `json:"status"`
	CreatedAtNs int64           `json:"created_at_ns"`
}

// Store is a run archive backed by a sqlite database.
type Store struct {
	db    *sql.DB
	clock timeutil.Clock
}

// Open opens (creating if necessary) the archive at path and applies
// any pending schema migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, clock: timeutil.RealClock{}}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func migrateUp(db *sql.DB) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("create sqlite migrate driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	// Note: m is not closed because that would close the underlying DB
	// connection.
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

// SaveRun stores a run and its output map. Saving under a name that is
// already present fails with ErrRunExists unless force is set, in which
// case the stored run is replaced.
func (s *Store) SaveRun(run *Run, data condense.Result, force bool) error {
	if run.Name == "" {
		return fmt.Errorf("run name must not be empty")
	}
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.CreatedAtNs == 0 {
		run.CreatedAtNs = s.clock.Now().UnixNano()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	var existing string
	err = tx.QueryRow(`SELECT run_id FROM condensation_runs WHERE name = ?`, run.Name).Scan(&existing)
	switch {
	case err == nil:
		if !force {
			return fmt.Errorf("%w: %s", ErrRunExists, run.Name)
		}
		if _, err := tx.Exec(`DELETE FROM condensation_tensors WHERE run_id = ?`, existing); err != nil {
			return fmt.Errorf("delete tensors of %s: %w", run.Name, err)
		}
		if _, err := tx.Exec(`DELETE FROM condensation_runs WHERE run_id = ?`, existing); err != nil {
			return fmt.Errorf("delete run %s: %w", run.Name, err)
		}
	case err != sql.ErrNoRows:
		return fmt.Errorf("check run %s: %w", run.Name, err)
	}

	_, err = tx.Exec(`
		INSERT INTO condensation_runs (run_id, name, params_json, iterations, status, created_at_ns)
		VALUES (?, ?, ?, ?, ?, ?)`,
		run.RunID,
		run.Name,
		string(run.ParamsJSON),
		run.Iterations,
		run.Status,
		run.CreatedAtNs,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO condensation_tensors (run_id, key, shape_json, payload)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare tensor insert: %w", err)
	}
	defer stmt.Close()

	for key, tensor := range data {
		shape, err := json.Marshal(tensor.Shape)
		if err != nil {
			return fmt.Errorf("marshal shape of %s: %w", key, err)
		}
		payload, err := encodeTensor(tensor)
		if err != nil {
			return fmt.Errorf("encode tensor %s: %w", key, err)
		}
		if _, err := stmt.Exec(run.RunID, key, string(shape), payload); err != nil {
			return fmt.Errorf("insert tensor %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

// LoadRun reads a run and its full output map by name.
func (s *Store) LoadRun(name string) (*Run, condense.Result, error) {
	var run Run
	var params string
	err := s.db.QueryRow(`
		SELECT run_id, name, params_json, iterations, status, created_at_ns
		FROM condensation_runs
		WHERE name = ?`, name).Scan(
		&run.RunID,
		&run.Name,
		&params,
		&run.Iterations,
		&run.Status,
		&run.CreatedAtNs,
	)
	if err == sql.ErrNoRows {
		return nil, nil, fmt.Errorf("run not found: %s", name)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load run %s: %w", name, err)
	}
	run.ParamsJSON = json.RawMessage(params)

	rows, err := s.db.Query(`
		SELECT key, shape_json, payload
		FROM condensation_tensors
		WHERE run_id = ?`, run.RunID)
	if err != nil {
		return nil, nil, fmt.Errorf("load tensors of %s: %w", name, err)
	}
	defer rows.Close()

	data := condense.Result{}
	for rows.Next() {
		var key, shapeJSON string
		var payload []byte
		if err := rows.Scan(&key, &shapeJSON, &payload); err != nil {
			return nil, nil, fmt.Errorf("scan tensor of %s: %w", name, err)
		}
		var shape []int
		if err := json.Unmarshal([]byte(shapeJSON), &shape); err != nil {
			return nil, nil, fmt.Errorf("parse shape of %s/%s: %w", name, key, err)
		}
		tensor, err := decodeTensor(shape, payload)
		if err != nil {
			return nil, nil, fmt.Errorf("decode tensor %s/%s: %w", name, key, err)
		}
		data[key] = tensor
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate tensors of %s: %w", name, err)
	}

	return &run, data, nil
}

// ListRuns returns the stored runs, newest first.
func (s *Store) ListRuns() ([]Run, error) {
	rows, err := s.db.Query(`
		SELECT run_id, name, params_json, iterations, status, created_at_ns
		FROM condensation_runs
		ORDER BY created_at_ns DESC`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var params string
		if err := rows.Scan(&run.RunID, &run.Name, &params, &run.Iterations, &run.Status, &run.CreatedAtNs); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.ParamsJSON = json.RawMessage(params)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

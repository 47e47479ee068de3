package calibration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// DefaultRecord is the row name used when none is configured.
const DefaultRecord = "default"

// SQLiteStore keeps named calibration records in a SQLite table.
type SQLiteStore struct {
	db   *sqlx.DB
	name string
}

type calibrationRow struct {
	Name      string  `db:"name"`
	A         float64 `db:"a"`
	B         float64 `db:"b"`
	UpdatedAt int64   `db:"updated_at"`
}

// OpenSQLite opens (creating if needed) the database at path in WAL mode and
// binds the store to the record called name.
func OpenSQLite(path, name string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}
	if name == "" {
		name = DefaultRecord
	}
	return &SQLiteStore{db: db, name: name}, nil
}

func createSchema(db *sqlx.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS calibration (
			name       TEXT    NOT NULL PRIMARY KEY,
			a          REAL    NOT NULL,
			b          REAL    NOT NULL,
			updated_at INTEGER NOT NULL
		);
	`)
	return err
}

// Kind implements Store.
func (s *SQLiteStore) Kind() string { return "sqlite" }

// Close releases the database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// Load reads the bound record.
func (s *SQLiteStore) Load(ctx context.Context) (Model, error) {
	var m Model
	err := s.db.GetContext(ctx, &m, `SELECT a, b FROM calibration WHERE name = ?`, s.name)
	if errors.Is(err, sql.ErrNoRows) {
		return Model{}, ErrNotFound
	}
	if err != nil {
		return Model{}, fmt.Errorf("load calibration %q: %w", s.name, err)
	}
	return m, nil
}

// Save upserts the bound record in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, m Model) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	row := calibrationRow{Name: s.name, A: m.A, B: m.B, UpdatedAt: time.Now().Unix()}
	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO calibration (name, a, b, updated_at)
		VALUES (:name, :a, :b, :updated_at)
		ON CONFLICT(name) DO UPDATE SET a = excluded.a, b = excluded.b, updated_at = excluded.updated_at
	`, row)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("save calibration %q: %w", s.name, err)
	}
	return tx.Commit()
}

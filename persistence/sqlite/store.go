// Package sqlite provides a persistence.Adapter backed by SQLite.
//
// SQLite is a lightweight, file-based database suitable for local
// development and embedding a collection inside a single process.
// Points are stored one row per point, with payload and vectors
// marshaled to JSON TEXT columns — the engine itself does all
// similarity scoring in memory, so no vector-specific column type is
// needed here.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/vc-labs/vectorcol/persistence"
)

// Store implements persistence.Adapter using SQLite as the backend.
type Store struct {
	db             *sql.DB
	collectionName string
}

// Config contains configuration for creating a SQLite-backed Store.
type Config struct {
	// DBPath is the path to the SQLite database file.
	DBPath string

	// CollectionName is the name of the table to use.
	CollectionName string
}

// NewStore creates a new SQLite-backed Store, creating the backing table
// if it does not already exist.
func NewStore(cfg *Config) (*Store, error) {
	dbDir := filepath.Dir(cfg.DBPath)
	if dbDir != "" && dbDir != "." {
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, fmt.Errorf("NewStore: failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.DBPath+"?_foreign_keys=1&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("NewStore: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("NewStore: %w", err)
	}

	store := &Store{db: db, collectionName: cfg.CollectionName}
	if err := store.initTables(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *Store) initTables(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id_kind INTEGER NOT NULL,
			id_str TEXT NOT NULL DEFAULT '',
			id_num INTEGER NOT NULL DEFAULT 0,
			payload TEXT NOT NULL,
			vectors TEXT NOT NULL,
			PRIMARY KEY (id_kind, id_str, id_num)
		)
	`, s.collectionName)
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("initTables: %w", err)
	}
	return nil
}

func idKind(rec persistence.Record) int {
	if rec.IDIsString {
		return 1
	}
	return 0
}

// Load emits every stored record, in insertion-order-of-rowid (SQLite's
// default scan order for a table with no explicit ORDER BY on rowid-less
// scans is implementation-defined, so an explicit rowid order is used).
func (s *Store) Load(ctx context.Context, visit func(persistence.Record) error) error {
	query := fmt.Sprintf(`SELECT id_kind, id_str, id_num, payload, vectors FROM %s ORDER BY rowid`, s.collectionName)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("Load: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var kind int
		var idStr, payloadJSON, vectorsJSON string
		var idNum uint64
		if err := rows.Scan(&kind, &idStr, &idNum, &payloadJSON, &vectorsJSON); err != nil {
			return fmt.Errorf("Load: %w", err)
		}
		rec, err := decodeRecord(kind, idStr, idNum, payloadJSON, vectorsJSON)
		if err != nil {
			return err
		}
		if err := visit(rec); err != nil {
			return err
		}
	}
	return rows.Err()
}

func decodeRecord(kind int, idStr string, idNum uint64, payloadJSON, vectorsJSON string) (persistence.Record, error) {
	var payload map[string]any
	if err := json.Unmarshal([]byte(payloadJSON), &payload); err != nil {
		return persistence.Record{}, fmt.Errorf("decode payload: %w", err)
	}
	var vectors map[string][]float32
	if err := json.Unmarshal([]byte(vectorsJSON), &vectors); err != nil {
		return persistence.Record{}, fmt.Errorf("decode vectors: %w", err)
	}
	return persistence.Record{
		IDIsString: kind == 1,
		IDStr:      idStr,
		IDNum:      idNum,
		Payload:    payload,
		Vectors:    vectors,
	}, nil
}

// Persist is an idempotent upsert by id.
func (s *Store) Persist(ctx context.Context, rec persistence.Record) error {
	payloadJSON, err := json.Marshal(rec.Payload)
	if err != nil {
		return fmt.Errorf("Persist: %w", err)
	}
	vectorsJSON, err := json.Marshal(rec.Vectors)
	if err != nil {
		return fmt.Errorf("Persist: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id_kind, id_str, id_num, payload, vectors)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id_kind, id_str, id_num) DO UPDATE SET payload = excluded.payload, vectors = excluded.vectors
	`, s.collectionName)

	_, err = s.db.ExecContext(ctx, query, idKind(rec), rec.IDStr, rec.IDNum, string(payloadJSON), string(vectorsJSON))
	if err != nil {
		return fmt.Errorf("Persist: %w", err)
	}
	return nil
}

// Delete is an idempotent removal by id.
func (s *Store) Delete(ctx context.Context, rec persistence.Record) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id_kind = ? AND id_str = ? AND id_num = ?`, s.collectionName)
	_, err := s.db.ExecContext(ctx, query, idKind(rec), rec.IDStr, rec.IDNum)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Package mysql provides a persistence.Adapter backed by MySQL.
package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"github.com/vc-labs/vectorcol/persistence"
)

// Store implements persistence.Adapter using MySQL as the backend.
type Store struct {
	db             *sql.DB
	collectionName string
}

// Config contains configuration for creating a MySQL-backed Store.
type Config struct {
	// DSN is a go-sql-driver/mysql connection string, e.g.
	// "user:pass@tcp(127.0.0.1:3306)/vectorcol?parseTime=true".
	DSN string

	// CollectionName is the name of the table to use.
	CollectionName string
}

// NewStore creates a new MySQL-backed Store, creating the backing table
// if it does not already exist.
func NewStore(cfg *Config) (*Store, error) {
	db, err := sql.Open("mysql", cfg.DSN)
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
			id_kind TINYINT NOT NULL,
			id_str VARCHAR(64) NOT NULL DEFAULT '',
			id_num BIGINT UNSIGNED NOT NULL DEFAULT 0,
			payload JSON NOT NULL,
			vectors JSON NOT NULL,
			PRIMARY KEY (id_kind, id_str, id_num)
		) ENGINE=InnoDB
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

// Load emits every stored record in primary-key order (id kind, string
// id, numeric id); insertion order is not recorded and not reproduced.
func (s *Store) Load(ctx context.Context, visit func(persistence.Record) error) error {
	query := fmt.Sprintf(`SELECT id_kind, id_str, id_num, payload, vectors FROM %s ORDER BY id_kind, id_str, id_num`, s.collectionName)
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
		var payload map[string]any
		if err := json.Unmarshal([]byte(payloadJSON), &payload); err != nil {
			return fmt.Errorf("Load: decode payload: %w", err)
		}
		var vectors map[string][]float32
		if err := json.Unmarshal([]byte(vectorsJSON), &vectors); err != nil {
			return fmt.Errorf("Load: decode vectors: %w", err)
		}
		rec := persistence.Record{IDIsString: kind == 1, IDStr: idStr, IDNum: idNum, Payload: payload, Vectors: vectors}
		if err := visit(rec); err != nil {
			return err
		}
	}
	return rows.Err()
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
		ON DUPLICATE KEY UPDATE payload = VALUES(payload), vectors = VALUES(vectors)
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

package localstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const sqlSchema = `
CREATE TABLE IF NOT EXISTS local_storage (
    storage_key   TEXT PRIMARY KEY,
    storage_value TEXT NOT NULL,
    updated_at    TIMESTAMP NOT NULL
)`

// SQL stores keys in a local_storage table. It works with the pgx and sqlite drivers.
type SQL struct {
	db     *sql.DB
	driver string
	now    func() time.Time
}

// NewSQL wraps db; driver selects the placeholder style ("pgx" or "sqlite").
func NewSQL(db *sql.DB, driver string) *SQL {
	return &SQL{db: db, driver: driver, now: time.Now}
}

// Migrate creates the local_storage table if needed.
func (s *SQL) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqlSchema); err != nil {
		return fmt.Errorf("localstore: migrate: %w", err)
	}
	return nil
}

func (s *SQL) ph(n int) string {
	if s.driver == "sqlite" {
		return "?"
	}
	return fmt.Sprintf("$%d", n)
}

func (s *SQL) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := s.db.QueryRowContext(ctx,
		`SELECT storage_value FROM local_storage WHERE storage_key = `+s.ph(1), key,
	).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *SQL) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO local_storage (storage_key, storage_value, updated_at)
		VALUES (`+s.ph(1)+`, `+s.ph(2)+`, `+s.ph(3)+`)
		ON CONFLICT (storage_key) DO UPDATE SET
			storage_value = excluded.storage_value,
			updated_at = excluded.updated_at
	`, key, value, s.now().UTC())
	return err
}

func (s *SQL) Remove(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM local_storage WHERE storage_key = `+s.ph(1), key)
	return err
}

// internal/history/store.go
package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/vmdang/querypad/internal/apperrors"
	"github.com/vmdang/querypad/internal/db"
)

// Store manages the append-only query history log
type Store struct {
	db *sql.DB
}

// Open opens (or creates) a history store backed by the SQLite file at path
func Open(path string) (*Store, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, err
	}
	if _, err := conn.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return nil, err
	}

	_, err = conn.Exec(`
		CREATE TABLE IF NOT EXISTS history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			query_text TEXT NOT NULL,
			db_type TEXT NOT NULL,
			favorite INTEGER NOT NULL DEFAULT 0,
			executed_at TIMESTAMP NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_history_favorite ON history(favorite);
		CREATE INDEX IF NOT EXISTS idx_history_executed_at ON history(executed_at);
	`)
	if err != nil {
		return nil, err
	}

	return &Store{db: conn}, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// Record appends an entry to history. Ids are strictly increasing, so
// insertion order is recency order.
func (s *Store) Record(queryText string, dbType db.DriverType) (*HistoryEntry, error) {
	now := time.Now().UTC()
	res, err := s.db.Exec(
		"INSERT INTO history (query_text, db_type, favorite, executed_at) VALUES (?, ?, 0, ?)",
		queryText, string(dbType), now,
	)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &HistoryEntry{
		ID:           id,
		QueryText:    queryText,
		DatabaseType: dbType,
		ExecutedAt:   now,
	}, nil
}

// List returns entries most recent first, optionally only favorites
func (s *Store) List(favoritesOnly bool) ([]HistoryEntry, error) {
	query := "SELECT id, query_text, db_type, favorite, executed_at FROM history ORDER BY id DESC"
	if favoritesOnly {
		query = "SELECT id, query_text, db_type, favorite, executed_at FROM history WHERE favorite = 1 ORDER BY id DESC"
	}

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Search finds entries by query substring, most recent first
func (s *Store) Search(substr string, limit int) ([]HistoryEntry, error) {
	rows, err := s.db.Query(`
		SELECT id, query_text, db_type, favorite, executed_at
		FROM history
		WHERE query_text LIKE ?
		ORDER BY id DESC
		LIMIT ?
	`, "%"+substr+"%", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// scanEntries scans rows into a HistoryEntry slice
func scanEntries(rows *sql.Rows) ([]HistoryEntry, error) {
	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		var dbType string
		var favorite int
		if err := rows.Scan(&e.ID, &e.QueryText, &dbType, &favorite, &e.ExecutedAt); err != nil {
			return nil, err
		}
		e.DatabaseType = db.DriverType(dbType)
		e.Favorite = favorite != 0
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ToggleFavorite flips the favorite flag and returns the updated entry
func (s *Store) ToggleFavorite(id int64) (*HistoryEntry, error) {
	res, err := s.db.Exec("UPDATE history SET favorite = 1 - favorite WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: history entry %d", apperrors.ErrNotFound, id)
	}

	row := s.db.QueryRow("SELECT id, query_text, db_type, favorite, executed_at FROM history WHERE id = ?", id)
	var e HistoryEntry
	var dbType string
	var favorite int
	if err := row.Scan(&e.ID, &e.QueryText, &dbType, &favorite, &e.ExecutedAt); err != nil {
		return nil, err
	}
	e.DatabaseType = db.DriverType(dbType)
	e.Favorite = favorite != 0
	return &e, nil
}

// Delete removes an entry. Only ever called from an explicit user action;
// Record itself never prunes.
func (s *Store) Delete(id int64) error {
	res, err := s.db.Exec("DELETE FROM history WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: history entry %d", apperrors.ErrNotFound, id)
	}
	return nil
}

// Count returns the total number of history entries
func (s *Store) Count() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM history").Scan(&count)
	return count, err
}

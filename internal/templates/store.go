// internal/templates/store.go
package templates

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/vmdang/querypad/internal/apperrors"
	"github.com/vmdang/querypad/internal/db"
)

// Store manages query template persistence
type Store struct {
	db *sql.DB
}

// Templates seeded on first run, mirroring the stock set users expect in the
// template picker.
var defaultTemplates = []Template{
	{Name: "Select All Records", DatabaseType: db.Postgres, QueryText: "SELECT * FROM {table_name}"},
	{Name: "Count Records", DatabaseType: db.Postgres, QueryText: "SELECT COUNT(*) FROM {table_name}"},
	{Name: "Find Documents", DatabaseType: db.MongoDB, QueryText: `{"find": "{table_name}"}`},
}

// Open opens (or creates) a template store backed by the SQLite file at path
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

	// Seed defaults only when the table is created for the first time, so an
	// intentionally emptied store stays empty.
	var existed bool
	row := conn.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='templates'")
	var n int
	if err := row.Scan(&n); err != nil {
		return nil, err
	}
	existed = n > 0

	_, err = conn.Exec(`
		CREATE TABLE IF NOT EXISTS templates (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			db_type TEXT NOT NULL,
			query_text TEXT NOT NULL
		)
	`)
	if err != nil {
		return nil, err
	}

	store := &Store{db: conn}
	if !existed {
		for _, t := range defaultTemplates {
			if _, err := store.Create(t.Name, t.DatabaseType, t.QueryText); err != nil {
				return nil, err
			}
		}
	}
	return store, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// Create inserts a new template and assigns it a fresh id
func (s *Store) Create(name string, dbType db.DriverType, queryText string) (*Template, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: template name is required", apperrors.ErrInvalid)
	}
	if strings.TrimSpace(queryText) == "" {
		return nil, fmt.Errorf("%w: template query is required", apperrors.ErrInvalid)
	}
	if _, err := db.ParseDriverType(string(dbType)); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalid, err)
	}

	res, err := s.db.Exec(
		"INSERT INTO templates (name, db_type, query_text) VALUES (?, ?, ?)",
		name, string(dbType), queryText,
	)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &Template{ID: id, Name: name, DatabaseType: dbType, QueryText: queryText}, nil
}

// List returns templates in insertion order. An empty filter returns all;
// otherwise only templates of the given database type.
func (s *Store) List(filter db.DriverType) ([]Template, error) {
	query := "SELECT id, name, db_type, query_text FROM templates ORDER BY id"
	args := []interface{}{}
	if filter != "" {
		query = "SELECT id, name, db_type, query_text FROM templates WHERE db_type = ? ORDER BY id"
		args = append(args, string(filter))
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Template
	for rows.Next() {
		var t Template
		var dbType string
		if err := rows.Scan(&t.ID, &t.Name, &dbType, &t.QueryText); err != nil {
			return nil, err
		}
		t.DatabaseType = db.DriverType(dbType)
		result = append(result, t)
	}
	return result, rows.Err()
}

// Get retrieves a single template by id
func (s *Store) Get(id int64) (*Template, error) {
	row := s.db.QueryRow("SELECT id, name, db_type, query_text FROM templates WHERE id = ?", id)

	var t Template
	var dbType string
	err := row.Scan(&t.ID, &t.Name, &dbType, &t.QueryText)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: template %d", apperrors.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	t.DatabaseType = db.DriverType(dbType)
	return &t, nil
}

// Update applies the non-nil fields of params to an existing template
func (s *Store) Update(id int64, params UpdateParams) (*Template, error) {
	t, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		t.Name = *params.Name
	}
	if params.DatabaseType != nil {
		t.DatabaseType = *params.DatabaseType
	}
	if params.QueryText != nil {
		t.QueryText = *params.QueryText
	}

	if strings.TrimSpace(t.Name) == "" {
		return nil, fmt.Errorf("%w: template name is required", apperrors.ErrInvalid)
	}
	if strings.TrimSpace(t.QueryText) == "" {
		return nil, fmt.Errorf("%w: template query is required", apperrors.ErrInvalid)
	}
	if _, err := db.ParseDriverType(string(t.DatabaseType)); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalid, err)
	}

	_, err = s.db.Exec(
		"UPDATE templates SET name = ?, db_type = ?, query_text = ? WHERE id = ?",
		t.Name, string(t.DatabaseType), t.QueryText, id,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Delete removes a template. A second delete of the same id fails with
// a not-found error.
func (s *Store) Delete(id int64) error {
	res, err := s.db.Exec("DELETE FROM templates WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: template %d", apperrors.ErrNotFound, id)
	}
	return nil
}

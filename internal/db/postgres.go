// internal/db/postgres.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

// PostgresDriver implements Driver for PostgreSQL
type PostgresDriver struct {
	db *sql.DB
}

// Connect establishes connection to PostgreSQL. The URL is passed to pgx
// as-is; pgx accepts both URI and keyword/value forms.
func (d *PostgresDriver) Connect(ctx context.Context, url string) error {
	connConfig, err := pgx.ParseConfig(url)
	if err != nil {
		return WrapConnectionError(err)
	}

	// Register the driver configuration with stdlib
	dbStr := stdlib.RegisterConnConfig(connConfig)
	db, err := sql.Open("pgx", dbStr)
	if err != nil {
		return WrapConnectionError(err)
	}

	// One interactive session, no pool to speak of
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection (sql.Open is lazy)
	pingCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return WrapConnectionError(err)
	}

	d.db = db
	return nil
}

// Close closes the database connection
func (d *PostgresDriver) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// Execute runs a query and returns results
func (d *PostgresDriver) Execute(ctx context.Context, query string) (*QueryResult, error) {
	if d.db == nil {
		return nil, WrapConnectionError(fmt.Errorf("not connected"))
	}
	return executeSQL(ctx, d.db, query)
}

// Ping checks if database is reachable
func (d *PostgresDriver) Ping(ctx context.Context) error {
	if d.db == nil {
		return WrapConnectionError(fmt.Errorf("not connected"))
	}
	return d.db.PingContext(ctx)
}

// Type returns the driver type
func (d *PostgresDriver) Type() DriverType {
	return Postgres
}

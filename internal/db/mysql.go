// internal/db/mysql.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

// MySQLDriver implements Driver for MySQL
type MySQLDriver struct {
	db *sql.DB
}

// Connect establishes connection to MySQL. Accepts either a mysql:// URL or
// a native go-sql-driver DSN (user:pass@tcp(host:port)/db).
func (d *MySQLDriver) Connect(ctx context.Context, rawURL string) error {
	dsn, err := mysqlDSN(rawURL)
	if err != nil {
		return WrapConnectionError(err)
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return WrapConnectionError(err)
	}

	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection immediately (sql.Open is lazy)
	pingCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return WrapConnectionError(err)
	}

	d.db = db
	return nil
}

// mysqlDSN normalizes a connection string into go-sql-driver DSN form
func mysqlDSN(rawURL string) (string, error) {
	if !strings.HasPrefix(rawURL, "mysql://") {
		// Assume native DSN, let the driver validate it
		if _, err := mysql.ParseDSN(rawURL); err != nil {
			return "", err
		}
		return rawURL, nil
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	cfg := mysql.NewConfig()
	cfg.User = u.User.Username()
	cfg.Passwd, _ = u.User.Password()
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%s", host, port)
	cfg.DBName = strings.TrimPrefix(u.Path, "/")
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

// Close closes the database connection
func (d *MySQLDriver) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// Execute runs a query and returns results
func (d *MySQLDriver) Execute(ctx context.Context, query string) (*QueryResult, error) {
	if d.db == nil {
		return nil, WrapConnectionError(fmt.Errorf("not connected"))
	}
	return executeSQL(ctx, d.db, query)
}

// Ping checks if database is reachable
func (d *MySQLDriver) Ping(ctx context.Context) error {
	if d.db == nil {
		return WrapConnectionError(fmt.Errorf("not connected"))
	}
	return d.db.PingContext(ctx)
}

// Type returns the driver type
func (d *MySQLDriver) Type() DriverType {
	return MySQL
}

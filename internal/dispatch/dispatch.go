// internal/dispatch/dispatch.go
package dispatch

import (
	"context"

	"go.uber.org/zap"

	"github.com/vmdang/querypad/internal/db"
	"github.com/vmdang/querypad/internal/logging"
)

// DriverFactory creates a driver for a database type. Defaults to
// db.NewDriver; tests substitute fakes.
type DriverFactory func(db.DriverType) (db.Driver, error)

// Dispatcher routes a resolved query to the right driver adapter and
// normalizes its result or failure. It has no persistence side effects;
// history recording belongs to the session coordinator.
type Dispatcher struct {
	factory DriverFactory
	logger  *zap.Logger
}

// New creates a dispatcher using the standard driver factory
func New(logger *zap.Logger) *Dispatcher {
	return NewWithFactory(db.NewDriver, logger)
}

// NewWithFactory creates a dispatcher with a custom driver factory
func NewWithFactory(factory DriverFactory, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{factory: factory, logger: logger}
}

// Execute resolves placeholders, enforces the read-only guard, then connects,
// runs the query, and closes the connection. The guard runs before any driver
// is constructed, so a rejected query never touches a database.
func (d *Dispatcher) Execute(ctx context.Context, desc db.Descriptor, queryText string, readOnly bool) (*db.QueryResult, error) {
	resolved, err := ResolveTableName(queryText, desc.TableName)
	if err != nil {
		return nil, err
	}

	if readOnly {
		if err := CheckReadOnly(resolved); err != nil {
			d.logger.Warn("read-only guard rejected query",
				zap.String("db_type", string(desc.Type)))
			return nil, err
		}
	}

	driver, err := d.factory(desc.Type)
	if err != nil {
		return nil, err
	}

	if err := driver.Connect(ctx, desc.URL); err != nil {
		d.logger.Error("connect failed",
			zap.String("db_type", string(desc.Type)),
			zap.String("url", logging.SanitizeURL(desc.URL)),
			zap.Error(err))
		return nil, err
	}
	defer driver.Close()

	result, err := driver.Execute(ctx, resolved)
	if err != nil {
		d.logger.Error("query failed",
			zap.String("db_type", string(desc.Type)),
			zap.Error(err))
		return nil, err
	}

	d.logger.Info("query executed",
		zap.String("db_type", string(desc.Type)),
		zap.Int("rows", result.RowCount),
		zap.Duration("took", result.ExecTime))
	return result, nil
}

// Resolve exposes placeholder resolution for callers that need the resolved
// text without dispatching (the session records resolved text in history).
func (d *Dispatcher) Resolve(desc db.Descriptor, queryText string) (string, error) {
	return ResolveTableName(queryText, desc.TableName)
}

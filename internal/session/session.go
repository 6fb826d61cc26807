// internal/session/session.go
package session

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/vmdang/querypad/internal/apperrors"
	"github.com/vmdang/querypad/internal/db"
	"github.com/vmdang/querypad/internal/dispatch"
	"github.com/vmdang/querypad/internal/history"
	"github.com/vmdang/querypad/internal/templates"
)

// State is the coordinator's position in the per-run lifecycle:
// Idle -> Resolving -> Dispatching -> Idle.
type State string

const (
	StateIdle        State = "idle"
	StateResolving   State = "resolving"
	StateDispatching State = "dispatching"
)

// Executor dispatches a resolved query. Satisfied by *dispatch.Dispatcher.
type Executor interface {
	Execute(ctx context.Context, desc db.Descriptor, queryText string, readOnly bool) (*db.QueryResult, error)
}

// TemplateSource loads templates by id. Satisfied by *templates.Store.
type TemplateSource interface {
	Get(id int64) (*templates.Template, error)
}

// Options tunes coordinator policy
type Options struct {
	// RecordFailures also appends failed attempts to history. Off by
	// default: a failed run leaves no history entry.
	RecordFailures bool
}

// Coordinator owns the active connection descriptor and the in-progress
// execution for its lifetime. One query may be in flight at a time; a second
// Run while one is outstanding is rejected, not queued.
type Coordinator struct {
	dispatcher Executor
	historyLog *history.Store
	templates  TemplateSource
	opts       Options
	logger     *zap.Logger

	mu       sync.Mutex
	active   *db.Descriptor
	state    State
	inFlight bool
	cancel   context.CancelFunc
}

// New creates a coordinator
func New(dispatcher Executor, historyLog *history.Store, templateSource TemplateSource, opts Options, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		dispatcher: dispatcher,
		historyLog: historyLog,
		templates:  templateSource,
		opts:       opts,
		logger:     logger,
		state:      StateIdle,
	}
}

// UseConnection sets the active connection descriptor. Rejected while a
// query is in flight.
func (c *Coordinator) UseConnection(desc db.Descriptor) error {
	if _, err := db.ParseDriverType(string(desc.Type)); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalid, err)
	}
	if desc.URL == "" {
		return fmt.Errorf("%w: connection string is required", apperrors.ErrInvalid)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight {
		return apperrors.ErrBusy
	}
	c.active = &desc
	return nil
}

// ActiveConnection returns a copy of the active descriptor, or nil
func (c *Coordinator) ActiveConnection() *db.Descriptor {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return nil
	}
	copied := *c.active
	return &copied
}

// State reports the coordinator's current lifecycle state
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Run resolves placeholders, enforces the read-only policy, dispatches the
// query, and on success records exactly one history entry carrying the
// resolved text. On failure nothing is recorded unless the RecordFailures
// policy is on; a cancelled run never records.
func (c *Coordinator) Run(ctx context.Context, queryText string, readOnly bool) (*db.QueryResult, error) {
	c.mu.Lock()
	if c.active == nil {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: no active connection", apperrors.ErrInvalid)
	}
	if c.inFlight {
		c.mu.Unlock()
		return nil, apperrors.ErrBusy
	}
	desc := *c.active
	runCtx, cancel := context.WithCancel(ctx)
	c.inFlight = true
	c.cancel = cancel
	c.state = StateResolving
	c.mu.Unlock()

	defer func() {
		cancel()
		c.mu.Lock()
		c.inFlight = false
		c.cancel = nil
		c.state = StateIdle
		c.mu.Unlock()
	}()

	resolved, err := dispatch.ResolveTableName(queryText, desc.TableName)
	if err != nil {
		return nil, err
	}
	if readOnly {
		if err := dispatch.CheckReadOnly(resolved); err != nil {
			return nil, err
		}
	}

	c.mu.Lock()
	c.state = StateDispatching
	c.mu.Unlock()

	result, err := c.dispatcher.Execute(runCtx, desc, resolved, readOnly)
	if err != nil {
		// A cancelled attempt leaves no trace regardless of policy
		if c.opts.RecordFailures && runCtx.Err() == nil {
			if _, recErr := c.historyLog.Record(resolved, desc.Type); recErr != nil {
				c.logger.Warn("failed to record failed attempt", zap.Error(recErr))
			}
		}
		return nil, err
	}

	if _, err := c.historyLog.Record(resolved, desc.Type); err != nil {
		c.logger.Warn("failed to record history entry", zap.Error(err))
	}
	return result, nil
}

// Cancel aborts the in-flight run, if any. Best effort: it stops waiting for
// the result and suppresses history recording, but cannot recall work the
// remote database has already started.
func (c *Coordinator) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
}

// ApplyTemplate returns a template's query text for the editing buffer.
// It never executes anything.
func (c *Coordinator) ApplyTemplate(id int64) (string, error) {
	t, err := c.templates.Get(id)
	if err != nil {
		return "", err
	}
	return t.QueryText, nil
}

// Package engine renders schema operations for a dialect and executes them
// over database/sql.
package engine

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/hlop3z/schemakit/internal/alerr"
	"github.com/hlop3z/schemakit/internal/ast"
	"github.com/hlop3z/schemakit/internal/dialect"
	"github.com/hlop3z/schemakit/internal/introspect"
	"github.com/hlop3z/schemakit/internal/metrics"
	"github.com/hlop3z/schemakit/internal/strutil"
)

// Executor executes operations against one database.
type Executor struct {
	db      *sql.DB
	dialect dialect.Dialect
	logger  *slog.Logger
	metrics *metrics.Metrics
	timeout time.Duration
}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Executor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMetrics records every executed statement.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Executor) { e.metrics = m }
}

// WithTimeout bounds each statement. Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(e *Executor) { e.timeout = d }
}

// New creates an executor.
// Returns nil if db or dialect is nil.
func New(db *sql.DB, d dialect.Dialect, opts ...Option) *Executor {
	if db == nil || d == nil {
		return nil
	}
	e := &Executor{
		db:      db,
		dialect: d,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// DB returns the underlying connection pool.
func (e *Executor) DB() *sql.DB { return e.db }

// Dialect returns the dialect statements are rendered for.
func (e *Executor) Dialect() dialect.Dialect { return e.dialect }

// Introspector returns a catalog reader bound to the executor's connection.
func (e *Executor) Introspector() introspect.Introspector {
	return introspect.New(e.db, e.dialect)
}

// statement is one rendered SQL string and the operation it came from.
type statement struct {
	op  ast.Operation
	sql string
}

// SQL renders the operations without executing them.
func (e *Executor) SQL(ops ...ast.Operation) ([]string, error) {
	stmts, err := e.render(ops)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(stmts))
	for i, s := range stmts {
		out[i] = s.sql
	}
	return out, nil
}

func (e *Executor) render(ops []ast.Operation) ([]statement, error) {
	for _, op := range ops {
		if op == nil {
			return nil, alerr.New(alerr.ErrSchemaInvalid, "nil operation")
		}
	}
	ops, err := OrderCreates(ops)
	if err != nil {
		return nil, err
	}

	var stmts []statement
	for _, op := range ops {
		sqls, err := dialect.SQL(e.dialect, op)
		if err != nil {
			return nil, err
		}
		for _, s := range sqls {
			stmts = append(stmts, statement{op: op, sql: s})
		}
	}
	return stmts, nil
}

// Execute renders every operation first, then runs the statements in order.
// Nothing runs if any operation fails to render. When more than one
// statement results and the dialect supports transactional DDL, they run in
// a single transaction. Driver errors are returned unchanged.
func (e *Executor) Execute(ctx context.Context, ops ...ast.Operation) error {
	stmts, err := e.render(ops)
	if err != nil {
		return err
	}
	if len(stmts) == 0 {
		return nil
	}

	if len(stmts) > 1 && e.dialect.SupportsTransactionalDDL() {
		return e.executeInTransaction(ctx, stmts)
	}

	for _, s := range stmts {
		if err := e.exec(ctx, e.db, s); err != nil {
			return err
		}
	}
	return nil
}

func (e *Executor) executeInTransaction(ctx context.Context, stmts []statement) error {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			e.logger.Warn("rollback failed", "dialect", e.dialect.Name(), "error", rbErr)
			return
		}
		e.logger.Warn("transaction rolled back", "dialect", e.dialect.Name(), "statements", len(stmts))
	}()

	for _, s := range stmts {
		if err := e.exec(ctx, tx, s); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (e *Executor) exec(ctx context.Context, x execer, s statement) error {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	op := strutil.ToSnakeCase(s.op.Type().String())
	e.logger.Debug("executing statement",
		"dialect", e.dialect.Name(),
		"op", op,
		"table", s.op.Table(),
		"sql", s.sql)

	start := time.Now()
	_, err := x.ExecContext(ctx, s.sql)
	e.metrics.Observe(e.dialect.Name(), op, time.Since(start), err)
	return err
}

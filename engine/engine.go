package engine

import (
	"context"
	"database/sql"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/Konsultn-Engineering/dao/builder"
	"github.com/Konsultn-Engineering/dao/cache"
	"github.com/Konsultn-Engineering/dao/connector"
	"github.com/Konsultn-Engineering/dao/database"
	"github.com/Konsultn-Engineering/dao/dialect"
)

// Engine runs statements against one connection. It keeps no per-call
// state and is safe for concurrent use: a cached statement evicted while a
// call still uses it stays open until that call finishes.
type Engine struct {
	id           ulid.ULID
	db           database.Database
	closer       io.Closer
	conn         connector.Connection
	dialect      dialect.Dialect
	stmts        *cache.StatementCache
	logger       *zap.Logger
	queryTimeout time.Duration
	closed       atomic.Bool
}

type options struct {
	logger       *zap.Logger
	cacheSize    int
	queryTimeout time.Duration
}

// Option configures an Engine.
type Option func(*options)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithStatementCacheSize bounds the number of prepared statements kept.
func WithStatementCacheSize(n int) Option {
	return func(o *options) { o.cacheSize = n }
}

// WithQueryTimeout bounds every execution. Zero means no bound.
func WithQueryTimeout(d time.Duration) Option {
	return func(o *options) { o.queryTimeout = d }
}

// New returns an engine over db. Closing the engine closes db.
func New(db database.Database, d dialect.Dialect, opts ...Option) *Engine {
	o := options{cacheSize: cache.DefaultStatementCacheSize}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	id := ulid.Make()
	return &Engine{
		id:           id,
		db:           db,
		closer:       db,
		dialect:      d,
		stmts:        cache.NewStatementCache(o.cacheSize),
		logger:       o.logger.With(zap.String("engine", id.String()), zap.String("dialect", d.Name())),
		queryTimeout: o.queryTimeout,
	}
}

// FromConnection returns an engine over an open connector connection.
// Closing the engine closes the connection.
func FromConnection(conn connector.Connection, opts ...Option) *Engine {
	e := New(database.NewSqlDatabase(conn.DB()), conn.Dialect(), opts...)
	e.closer = conn
	e.conn = conn
	return e
}

// Stats reports the connection pool. ok is false for engines built over a
// bare Database.
func (e *Engine) Stats() (stats connector.ConnectionStats, ok bool) {
	if e.conn == nil {
		return connector.ConnectionStats{}, false
	}
	return e.conn.Stats(), true
}

// ID identifies the engine in log output.
func (e *Engine) ID() ulid.ULID { return e.id }

func (e *Engine) Dialect() dialect.Dialect { return e.dialect }

func (e *Engine) Logger() *zap.Logger { return e.logger }

// Ping verifies the connection is alive.
func (e *Engine) Ping(ctx context.Context) error {
	if e.closed.Load() {
		return ErrClosed
	}
	return e.db.PingContext(ctx)
}

// Run binds, prepares and executes stmt. Statements that return rows are
// fetched in the given mode and counted by rows; others are counted by rows
// affected. A failure is reported in Result.Err as a *Error.
//
// Binding comes first because the text sent to the server is only known
// once the named placeholders are compiled for the dialect. So a value
// missing for a placeholder fails with StageBind before the SQL itself is
// checked, even when the SQL would also fail to prepare.
func (e *Engine) Run(ctx context.Context, stmt builder.Statement, mode FetchMode) Result {
	if e.closed.Load() {
		return Result{Query: stmt.Text, Err: &Error{Stage: StageBuild, Query: stmt.Text, Err: ErrClosed}}
	}

	query, args, err := e.bind(stmt)
	if err != nil {
		e.logger.Warn("binding failed", zap.String("query", stmt.Text), zap.Error(err))
		return Result{Query: stmt.Text, Err: &Error{Stage: StageBind, Query: stmt.Text, Err: err}}
	}

	if ce := e.logger.Check(zap.DebugLevel, "executing statement"); ce != nil {
		ce.Write(
			zap.Stringer("kind", stmt.Kind),
			zap.String("query", query),
			zap.Any("modes", stmt.Values.Modes()),
			zap.String("rendered", dialect.Interpolate(e.dialect, query, args)),
		)
	}

	if e.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.queryTimeout)
		defer cancel()
	}

	ps, release, err := e.stmts.GetOrPrepare(ctx, e.db, query)
	if err != nil {
		e.logger.Error("preparing statement failed", zap.String("query", query), zap.Error(err))
		return Result{Query: query, Err: &Error{Stage: StagePrepare, Query: query, Err: err}}
	}
	defer release()

	res := Result{Query: query}
	if stmt.ReturnsRows() {
		res.Rows, err = e.query(ctx, ps, args, mode)
		res.Count = int64(len(res.Rows))
	} else {
		res.Count, err = e.exec(ctx, ps, args)
	}
	if err != nil {
		e.logger.Warn("executing statement failed", zap.String("query", query), zap.Error(err))
		return Result{Query: query, Err: &Error{Stage: StageExecute, Query: query, Err: err}}
	}

	e.logger.Debug("statement executed", zap.String("query", query), zap.Int64("count", res.Count))
	return res
}

// bind compiles ":name" placeholders into the dialect's bind style and
// orders the values to match. A "::" cast on a column survives compilation;
// a placeholder must be cast with CAST(:name AS type) instead. Colons inside
// quoted literals are read as placeholders, so bind such literals as values.
func (e *Engine) bind(stmt builder.Statement) (string, []any, error) {
	if len(stmt.Values) == 0 {
		return stmt.Text, nil, nil
	}

	query, args, err := sqlx.Named(strings.ReplaceAll(stmt.Text, "::", "::::"), stmt.Values.Map())
	if err != nil {
		return "", nil, err
	}
	return sqlx.Rebind(e.dialect.BindType(), query), args, nil
}

func (e *Engine) query(ctx context.Context, ps *sql.Stmt, args []any, mode FetchMode) ([]Row, error) {
	rows, err := ps.QueryContext(ctx, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRows(rows, mode)
}

func (e *Engine) exec(ctx context.Context, ps *sql.Stmt, args []any) (int64, error) {
	res, err := ps.ExecContext(ctx, args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		// Not every driver reports affected rows; the execution itself succeeded.
		return 0, nil
	}
	return n, nil
}

// Close releases cached statements and the connection. Further runs fail
// with ErrClosed.
func (e *Engine) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return nil
	}
	e.stmts.Close()
	e.logger.Debug("engine closed")
	return e.closer.Close()
}

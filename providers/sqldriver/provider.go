// Package sqldriver provides connections for any registered database/sql
// driver. Drivers without a dedicated provider are registered with
// Register; their dialect comes from dialect.ForDriver.
package sqldriver

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Konsultn-Engineering/dao/connector"
	"github.com/Konsultn-Engineering/dao/dialect"
)

// ErrNoDSN is returned when neither a DSN nor a database is configured.
var ErrNoDSN = errors.New("sqldriver: dsn is required")

type Provider struct {
	driver  string
	dialect dialect.Dialect
	// defaultMaxOpen applies when the pool config leaves MaxOpen unset.
	defaultMaxOpen int
}

// New returns a provider that opens connections with the database/sql
// driver of the given name.
func New(driver string) *Provider {
	return &Provider{driver: driver, dialect: dialect.ForDriver(driver)}
}

// WithMaxOpen sets the pool size used when the config gives none.
func (p *Provider) WithMaxOpen(n int) *Provider {
	p.defaultMaxOpen = n
	return p
}

// Register makes driver available to connector.New under its own name.
// The driver itself must already be registered with database/sql.
func Register(driver string) {
	RegisterAs(driver, driver)
}

// RegisterAs registers the database/sql driver under a different
// connector name.
func RegisterAs(name, driver string) {
	connector.Register(name, New(driver))
}

// Connect opens cfg.DSN, or cfg.Database when no DSN is set.
func (p *Provider) Connect(ctx context.Context, cfg connector.Config) (connector.Connection, error) {
	dsn := cfg.DSN
	if dsn == "" {
		dsn = cfg.Database
	}
	if dsn == "" {
		return nil, ErrNoDSN
	}

	db, err := sql.Open(p.driver, dsn)
	if err != nil {
		return nil, err
	}

	maxOpen := cfg.Pool.MaxOpen
	if maxOpen <= 0 {
		maxOpen = p.defaultMaxOpen
	}
	if maxOpen > 0 {
		db.SetMaxOpenConns(maxOpen)
	}
	if cfg.Pool.MaxIdle > 0 {
		db.SetMaxIdleConns(cfg.Pool.MaxIdle)
	}
	if cfg.Pool.MaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.Pool.MaxLifetime)
	}
	if cfg.Pool.MaxIdleTime > 0 {
		db.SetConnMaxIdleTime(cfg.Pool.MaxIdleTime)
	}

	return &connection{db: db, dialect: p.dialect}, nil
}

func (p *Provider) Dialect() dialect.Dialect {
	return p.dialect
}

func (p *Provider) HealthCheck(ctx context.Context, conn connector.Connection) error {
	return conn.Health(ctx)
}

type connection struct {
	db      *sql.DB
	dialect dialect.Dialect
}

func (c *connection) DB() *sql.DB {
	return c.db
}

func (c *connection) Dialect() dialect.Dialect {
	return c.dialect
}

func (c *connection) Health(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

func (c *connection) Stats() connector.ConnectionStats {
	return connector.StatsFromDB(c.db.Stats())
}

func (c *connection) Close() error {
	return c.db.Close()
}

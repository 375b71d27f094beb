package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Konsultn-Engineering/dao/connector"
	"github.com/Konsultn-Engineering/dao/dialect"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

type Provider struct{}

func init() {
	connector.Register("postgres", &Provider{})
	connector.Register("pgx", &Provider{})
}

// defaultPort is used when a host is configured without a port.
const defaultPort = 5432

func (p *Provider) buildDSN(cfg connector.Config) (string, error) {
	if cfg.DSN != "" {
		return connector.WithCredentials(cfg.DSN, cfg.Username, cfg.Password), nil
	}

	port := cfg.Port
	if port == 0 {
		port = defaultPort
	}
	b := connector.NewDSNBuilder("postgres").
		Auth(cfg.Username, cfg.Password).
		Host(cfg.Host, port).
		Database(cfg.Database).
		WithPostgresDefaults().
		Param("sslmode", cfg.SSLMode).
		Params(cfg.Params)
	if err := b.Validate(); err != nil {
		return "", fmt.Errorf("postgres: %w", err)
	}
	return b.Build(), nil
}

func (p *Provider) Connect(ctx context.Context, cfg connector.Config) (connector.Connection, error) {
	dsn, err := p.buildDSN(cfg)
	if err != nil {
		return nil, err
	}

	// apply defaults
	if cfg.Pool.MaxOpen <= 0 {
		cfg.Pool.MaxOpen = 10
	}
	if cfg.Pool.MaxLifetime == 0 {
		cfg.Pool.MaxLifetime = time.Hour
	}
	if cfg.Pool.MaxIdleTime == 0 {
		cfg.Pool.MaxIdleTime = 30 * time.Minute
	}

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	poolCfg.MaxConns = int32(cfg.Pool.MaxOpen)
	poolCfg.MinConns = int32(min(cfg.Pool.MaxIdle, cfg.Pool.MaxOpen))
	poolCfg.MaxConnLifetime = cfg.Pool.MaxLifetime
	poolCfg.MaxConnIdleTime = cfg.Pool.MaxIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}

	return &connection{
		pool:    pool,
		db:      stdlib.OpenDBFromPool(pool),
		dialect: dialect.NewPostgresDialect(),
	}, nil
}

func (p *Provider) Dialect() dialect.Dialect {
	return dialect.NewPostgresDialect()
}

func (p *Provider) HealthCheck(ctx context.Context, conn connector.Connection) error {
	return conn.Health(ctx)
}

type connection struct {
	pool    *pgxpool.Pool
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
	return c.pool.Ping(ctx)
}

func (c *connection) Stats() connector.ConnectionStats {
	s := c.pool.Stat()
	return connector.ConnectionStats{
		MaxOpen:         int(s.MaxConns()),
		OpenConnections: int(s.TotalConns()),
		InUse:           int(s.AcquiredConns()),
		Idle:            int(s.IdleConns()),
		WaitCount:       s.EmptyAcquireCount(),
	}
}

func (c *connection) Close() error {
	err := c.db.Close()
	c.pool.Close()
	return err
}

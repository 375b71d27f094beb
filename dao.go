// Package dao is a small data access helper: one shared connection, SQL
// assembled from a table, field list and where clause, named parameter
// binding, and the rows, count and error flag of the last execution.
//
// Most programs use the process-wide session:
//
//	s, err := dao.Instance(ctx)
//	if err != nil {
//		return err
//	}
//	s.SetTableName("groups")
//	s.SetWhere("group_id = :group_id")
//	row, ok := s.Get(ctx, []string{"*"}, param.Of("group_id", 3)).First()
//
// Connect builds an independent session for callers that inject their own.
package dao

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Konsultn-Engineering/dao/config"
	"github.com/Konsultn-Engineering/dao/connector"
	"github.com/Konsultn-Engineering/dao/engine"

	_ "github.com/Konsultn-Engineering/dao/providers/postgres"
	_ "github.com/Konsultn-Engineering/dao/providers/sqlite"
)

var (
	instanceMu sync.Mutex
	instance   *engine.Session
)

// Connect opens a connection for cfg and returns a session over it. The
// connection is retried when cfg.Retry is set and checked before return.
func Connect(ctx context.Context, cfg connector.Config, opts ...engine.Option) (*engine.Session, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = config.DefaultDriver
	}

	c, err := connector.New(driver, cfg)
	if err != nil {
		return nil, fmt.Errorf("dao: %w", err)
	}

	var conn connector.Connection
	if cfg.Retry != nil {
		conn, err = c.ConnectWithRetry(ctx, *cfg.Retry)
	} else {
		conn, err = c.Connect(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("dao: connect %s: %w", driver, err)
	}

	if cfg.QueryTimeout > 0 {
		opts = append([]engine.Option{engine.WithQueryTimeout(cfg.QueryTimeout)}, opts...)
	}
	e := engine.FromConnection(conn, opts...)
	stats, _ := e.Stats()
	e.Logger().Debug("connected", zap.String("driver", driver), zap.Int("max_open", stats.MaxOpen))
	return engine.NewSession(e), nil
}

// Instance returns the process-wide session, connecting on first use with
// the settings from config.Load. opts apply only to that first connection.
// A failed connection is not cached, so the next call tries again.
func Instance(ctx context.Context, opts ...engine.Option) (*engine.Session, error) {
	instanceMu.Lock()
	defer instanceMu.Unlock()

	if instance != nil {
		return instance, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("dao: %w", err)
	}
	s, err := Connect(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}
	instance = s
	return instance, nil
}

// MustInstance is like Instance but panics when no connection can be made.
func MustInstance(ctx context.Context, opts ...engine.Option) *engine.Session {
	s, err := Instance(ctx, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// Release closes the process-wide session. Sessions already handed out fail
// with engine.ErrClosed afterwards; the next Instance call reconnects.
func Release() error {
	instanceMu.Lock()
	defer instanceMu.Unlock()

	if instance == nil {
		return nil
	}
	err := instance.Close()
	instance = nil
	return err
}

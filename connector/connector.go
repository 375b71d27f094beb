package connector

import (
	"context"
	"database/sql"

	"github.com/Konsultn-Engineering/dao/dialect"
)

// Connection is one open handle to a backing store. It stays open until
// Close; the *sql.DB it exposes is shared by every caller.
type Connection interface {
	DB() *sql.DB
	Dialect() dialect.Dialect
	Health(ctx context.Context) error
	Stats() ConnectionStats
	Close() error
}

type Connector interface {
	Connect(ctx context.Context) (Connection, error)
	ConnectWithRetry(ctx context.Context, opts RetryConfig) (Connection, error)
	Close() error
}

// Package sqlite registers a pure Go SQLite provider under the "sqlite"
// driver name. The DSN (or Database) is a file path.
package sqlite

import (
	"github.com/Konsultn-Engineering/dao/connector"
	"github.com/Konsultn-Engineering/dao/providers/sqldriver"
	_ "modernc.org/sqlite"
)

// DriverName is the database/sql driver registered by modernc.org/sqlite.
const DriverName = "sqlite"

// NewProvider returns the SQLite provider. The pool defaults to a single
// connection, since SQLite allows one writer at a time and more
// connections only produce SQLITE_BUSY.
func NewProvider() *sqldriver.Provider {
	return sqldriver.New(DriverName).WithMaxOpen(1)
}

func init() {
	connector.Register(DriverName, NewProvider())
}

package dialect

import (
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Dialect describes how a backing store expects statements to be written.
type Dialect interface {
	Name() string
	// BindType is the sqlx bind style named placeholders are rebound to.
	BindType() int
	RenderValue(v any) string
}

// ForDriver returns the dialect for a database/sql driver name. Unknown
// drivers fall back to the sqlx registry for their bind style.
func ForDriver(driver string) Dialect {
	switch driver {
	case "postgres", "pgx", "pgx/v5":
		return NewPostgresDialect()
	case "mysql":
		return NewMySQLDialect()
	case "sqlite", "sqlite3":
		return NewSQLiteDialect()
	default:
		return &generic{name: driver, bindType: sqlx.BindType(driver)}
	}
}

// Interpolate renders args into a rebound query for log output only. The
// result is never executed.
func Interpolate(d Dialect, query string, args []any) string {
	if len(args) == 0 {
		return query
	}

	var sb strings.Builder
	sb.Grow(len(query) + 16*len(args))

	n := 0
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '?' && d.BindType() == sqlx.QUESTION && n < len(args):
			sb.WriteString(d.RenderValue(args[n]))
			n++
		case c == '$' && d.BindType() == sqlx.DOLLAR:
			j := i + 1
			for j < len(query) && query[j] >= '0' && query[j] <= '9' {
				j++
			}
			idx, err := strconv.Atoi(query[i+1 : j])
			if err != nil || idx < 1 || idx > len(args) {
				sb.WriteByte(c)
				continue
			}
			sb.WriteString(d.RenderValue(args[idx-1]))
			i = j - 1
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

type generic struct {
	name     string
	bindType int
}

func (g *generic) Name() string             { return g.name }
func (g *generic) BindType() int            { return g.bindType }
func (g *generic) RenderValue(v any) string { return renderValue(v) }

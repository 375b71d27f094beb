package dialect

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

type SQLite struct{}

func NewSQLiteDialect() Dialect {
	return &SQLite{}
}

func (s SQLite) Name() string {
	return "sqlite"
}

func (s SQLite) BindType() int {
	return sqlx.QUESTION
}

func (s SQLite) RenderValue(v any) string {
	if b, ok := v.([]byte); ok {
		return fmt.Sprintf("X'%x'", b)
	}
	return renderValue(v)
}

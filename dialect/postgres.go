package dialect

import "github.com/jmoiron/sqlx"

type Postgres struct{}

func NewPostgresDialect() Dialect {
	return &Postgres{}
}

func (p Postgres) Name() string {
	return "postgres"
}

func (p Postgres) BindType() int {
	return sqlx.DOLLAR
}

func (Postgres) RenderValue(v any) string {
	return renderValue(v)
}

package dialect

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

type MySQL struct{}

func NewMySQLDialect() Dialect {
	return &MySQL{}
}

func (m MySQL) Name() string {
	return "mysql"
}

func (m MySQL) BindType() int {
	return sqlx.QUESTION
}

func (m MySQL) RenderValue(v any) string {
	if b, ok := v.([]byte); ok {
		return fmt.Sprintf("X'%x'", b)
	}
	return renderValue(v)
}

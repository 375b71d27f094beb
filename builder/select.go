package builder

import (
	"strings"
)

type SelectBuilder struct {
	table   string
	columns []string
	where   string
}

func NewSelect(table string, columns []string) *SelectBuilder {
	return &SelectBuilder{
		table:   table,
		columns: columns,
	}
}

// Where takes a normalized clause, as produced by NormalizeWhere.
func (b *SelectBuilder) Where(clause string) *SelectBuilder {
	b.where = clause
	return b
}

func (b *SelectBuilder) Build() string {
	var sb strings.Builder

	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(b.columns, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(b.table)
	writeWhere(&sb, b.where)

	return sb.String()
}

func writeWhere(sb *strings.Builder, where string) {
	if w := strings.TrimSpace(where); w != "" {
		sb.WriteString(" ")
		sb.WriteString(w)
	}
}

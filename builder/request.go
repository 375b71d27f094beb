package builder

import (
	"fmt"
	"strings"

	"github.com/Konsultn-Engineering/dao/param"
)

// Request describes one statement: target table, optional where clause,
// fields, bound values and an optional stored procedure. It is a plain
// value; building a statement never mutates it.
type Request struct {
	Table     string
	Where     string
	Fields    []string
	Values    param.List
	Procedure string
}

// Select builds SELECT <fields> FROM <table> [WHERE ...].
func (r Request) Select() (Statement, error) {
	table := SanitizeIdentifier(r.Table)
	if table == "" {
		return Statement{}, ErrNoTable
	}
	if len(r.Fields) == 0 {
		return Statement{}, ErrNoFields
	}

	text := NewSelect(table, r.Fields).Where(r.where()).Build()
	return Statement{Kind: KindSelect, Text: text, Values: r.Values}, nil
}

// Insert builds INSERT INTO <table> (<keys>) VALUES (<:keys>), or
// CALL <proc>(<:keys>) when a procedure is set.
func (r Request) Insert() (Statement, error) {
	names := r.Values.Names()
	if r.Procedure != "" {
		return call(r.Procedure, names, r.Values), nil
	}

	table := SanitizeIdentifier(r.Table)
	if table == "" {
		return Statement{}, ErrNoTable
	}
	if len(names) == 0 {
		return Statement{}, ErrNoValues
	}

	text := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		table,
		strings.Join(names, ", "),
		placeholders(names),
	)
	return Statement{Kind: KindInsert, Text: text, Values: r.Values}, nil
}

// Update builds UPDATE <table> SET f = :f, ... [WHERE ...], or
// CALL <proc>(<:fields>) when a procedure is set.
func (r Request) Update() (Statement, error) {
	if r.Procedure != "" {
		return call(r.Procedure, r.Fields, r.Values), nil
	}

	table := SanitizeIdentifier(r.Table)
	if table == "" {
		return Statement{}, ErrNoTable
	}
	if len(r.Fields) == 0 {
		return Statement{}, ErrNoFields
	}

	set := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		set[i] = f + " = :" + f
	}

	var sb strings.Builder
	sb.WriteString("UPDATE ")
	sb.WriteString(table)
	sb.WriteString(" SET ")
	sb.WriteString(strings.Join(set, ", "))
	writeWhere(&sb, r.where())

	return Statement{Kind: KindUpdate, Text: sb.String(), Values: r.Values}, nil
}

// Delete builds DELETE FROM <table> [WHERE ...], or CALL <proc>(<:keys>)
// when a procedure is set.
func (r Request) Delete() (Statement, error) {
	if r.Procedure != "" {
		return call(r.Procedure, r.Values.Names(), r.Values), nil
	}

	table := SanitizeIdentifier(r.Table)
	if table == "" {
		return Statement{}, ErrNoTable
	}

	var sb strings.Builder
	sb.WriteString("DELETE FROM ")
	sb.WriteString(table)
	writeWhere(&sb, r.where())

	return Statement{Kind: KindDelete, Text: sb.String(), Values: r.Values}, nil
}

func (r Request) where() string {
	if strings.TrimSpace(r.Where) == "" {
		return ""
	}
	return NormalizeWhere(r.Where)
}

package builder

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/Konsultn-Engineering/dao/param"
)

var (
	// ErrNoTable is returned when a table-implicit statement is built
	// before a table name was set.
	ErrNoTable = errors.New("builder: table name is not set")

	// ErrNoFields is returned when a SELECT or UPDATE has no fields.
	ErrNoFields = errors.New("builder: no fields given")

	// ErrNoValues is returned when an INSERT has no values.
	ErrNoValues = errors.New("builder: no values given")
)

// Kind tells the executor how a statement was built.
type Kind uint8

const (
	KindRaw Kind = iota
	KindSelect
	KindInsert
	KindUpdate
	KindDelete
	KindCall
)

func (k Kind) String() string {
	switch k {
	case KindRaw:
		return "raw"
	case KindSelect:
		return "select"
	case KindInsert:
		return "insert"
	case KindUpdate:
		return "update"
	case KindDelete:
		return "delete"
	case KindCall:
		return "call"
	default:
		return fmt.Sprintf("kind(%d)", k)
	}
}

// Statement is SQL text with named placeholders and the values bound to them.
type Statement struct {
	Kind   Kind
	Text   string
	Values param.List
}

// Raw wraps caller supplied SQL.
func Raw(text string, values param.List) Statement {
	return Statement{Kind: KindRaw, Text: text, Values: values}
}

// ReturnsRows reports whether executing the statement yields a result set.
// Statements built by the mutation methods never do; raw text is inspected.
func (s Statement) ReturnsRows() bool {
	switch s.Kind {
	case KindSelect:
		return true
	case KindRaw:
		return ReturnsRows(s.Text)
	default:
		return false
	}
}

var rowKeywords = map[string]struct{}{
	"SELECT":   {},
	"WITH":     {},
	"VALUES":   {},
	"SHOW":     {},
	"PRAGMA":   {},
	"EXPLAIN":  {},
	"DESCRIBE": {},
	"DESC":     {},
	"CALL":     {},
	"TABLE":    {},
}

var returningClause = regexp.MustCompile(`(?i)\bRETURNING\b`)

// ReturnsRows guesses from the leading keyword (or a RETURNING clause)
// whether query produces rows. Leading comments and parentheses are skipped.
func ReturnsRows(query string) bool {
	q := skipLeading(query)
	end := strings.IndexFunc(q, func(r rune) bool { return !unicode.IsLetter(r) })
	if end < 0 {
		end = len(q)
	}
	if _, ok := rowKeywords[strings.ToUpper(q[:end])]; ok {
		return true
	}
	return returningClause.MatchString(q)
}

// skipLeading drops whitespace, '(' and SQL comments ("-- ..." to end of
// line, "/* ... */") from the front of query. An unterminated comment
// swallows the rest.
func skipLeading(query string) string {
	q := query
	for {
		q = strings.TrimLeftFunc(q, func(r rune) bool {
			return unicode.IsSpace(r) || r == '('
		})
		switch {
		case strings.HasPrefix(q, "--"):
			i := strings.IndexByte(q, '\n')
			if i < 0 {
				return ""
			}
			q = q[i+1:]
		case strings.HasPrefix(q, "/*"):
			i := strings.Index(q[2:], "*/")
			if i < 0 {
				return ""
			}
			q = q[i+4:]
		default:
			return q
		}
	}
}

func placeholders(names []string) string {
	ph := make([]string, len(names))
	for i, n := range names {
		ph[i] = ":" + n
	}
	return strings.Join(ph, ", ")
}

func call(proc string, names []string, values param.List) Statement {
	return Statement{
		Kind:   KindCall,
		Text:   fmt.Sprintf("CALL %s(%s)", SanitizeIdentifier(proc), placeholders(names)),
		Values: values,
	}
}

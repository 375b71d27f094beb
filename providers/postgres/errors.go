package postgres

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// Code returns the SQLSTATE of a postgres error anywhere in err's chain,
// such as the cause of a failed Session call.
func Code(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return "", false
	}
	return pgErr.Code, true
}

// IsUniqueViolation reports whether err is a unique constraint failure.
func IsUniqueViolation(err error) bool {
	code, ok := Code(err)
	return ok && code == pgerrcode.UniqueViolation
}

// IsUndefinedObject reports whether err names a missing table, column or
// function, which means the statement itself is wrong.
func IsUndefinedObject(err error) bool {
	code, ok := Code(err)
	if !ok {
		return false
	}
	switch code {
	case pgerrcode.UndefinedTable, pgerrcode.UndefinedColumn, pgerrcode.UndefinedFunction:
		return true
	}
	return false
}

// IsTransient reports whether retrying the statement may succeed.
func IsTransient(err error) bool {
	code, ok := Code(err)
	if !ok {
		return false
	}
	return pgerrcode.IsConnectionException(code) ||
		pgerrcode.IsTransactionRollback(code) ||
		code == pgerrcode.TooManyConnections
}

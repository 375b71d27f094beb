package engine

import (
	"context"

	"github.com/Konsultn-Engineering/dao/builder"
	"github.com/Konsultn-Engineering/dao/param"
)

// Insert adds one row to the current table, one column per value, in the
// order the values are listed.
func (s *Session) Insert(ctx context.Context, values param.List) *Session {
	return s.run(ctx, FetchAssoc, func() (builder.Statement, error) {
		return s.request(nil, values, "").Insert()
	})
}

// InsertProc calls the stored procedure proc with one placeholder per
// value, in the order the values are listed.
func (s *Session) InsertProc(ctx context.Context, proc string, values param.List) *Session {
	return s.run(ctx, FetchAssoc, func() (builder.Statement, error) {
		return s.request(nil, values, proc).Insert()
	})
}

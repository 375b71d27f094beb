package engine

import (
	"context"

	"github.com/Konsultn-Engineering/dao/builder"
	"github.com/Konsultn-Engineering/dao/param"
)

// Delete removes the rows of the current table matched by the current
// where clause. Without a where clause every row is removed.
func (s *Session) Delete(ctx context.Context, values param.List) *Session {
	return s.run(ctx, FetchAssoc, func() (builder.Statement, error) {
		return s.request(nil, values, "").Delete()
	})
}

// DeleteProc calls the stored procedure proc with one placeholder per
// value.
func (s *Session) DeleteProc(ctx context.Context, proc string, values param.List) *Session {
	return s.run(ctx, FetchAssoc, func() (builder.Statement, error) {
		return s.request(nil, values, proc).Delete()
	})
}

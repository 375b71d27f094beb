package engine

import (
	"context"

	"github.com/Konsultn-Engineering/dao/builder"
	"github.com/Konsultn-Engineering/dao/param"
)

// Update sets fields on the rows of the current table matched by the
// current where clause. values must bind every field and any placeholder
// the where clause uses.
func (s *Session) Update(ctx context.Context, fields []string, values param.List) *Session {
	return s.run(ctx, FetchAssoc, func() (builder.Statement, error) {
		return s.request(fields, values, "").Update()
	})
}

// UpdateProc calls the stored procedure proc with one placeholder per
// field.
func (s *Session) UpdateProc(ctx context.Context, proc string, fields []string, values param.List) *Session {
	return s.run(ctx, FetchAssoc, func() (builder.Statement, error) {
		return s.request(fields, values, proc).Update()
	})
}

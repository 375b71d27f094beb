package engine

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/Konsultn-Engineering/dao/builder"
	"github.com/Konsultn-Engineering/dao/param"
	"github.com/Konsultn-Engineering/dao/schema"
)

// Session is a data access object over an Engine. It carries a target
// table and where clause across calls, and keeps the outcome of the last
// execution for the result accessors. Every method is serialized on the
// session; share the Engine, not the Session, between goroutines that need
// independent state.
//
// Methods return the session so results can be read right away:
//
//	rows, ok := s.Query(ctx, "SELECT * FROM groups", nil).Results()
type Session struct {
	mu     sync.Mutex
	engine *Engine

	table string
	where string

	lastQuery string
	results   []Row
	count     int64
	failed    bool
	err       error
}

// NewSession returns a session with no table or where clause set.
func NewSession(e *Engine) *Session {
	return &Session{engine: e}
}

// Engine returns the engine the session runs on.
func (s *Session) Engine() *Engine { return s.engine }

// Query runs arbitrary SQL, binding values to its named placeholders when
// any are given.
func (s *Session) Query(ctx context.Context, text string, values param.List, mode ...FetchMode) *Session {
	return s.run(ctx, fetchMode(mode), func() (builder.Statement, error) {
		return builder.Raw(text, values), nil
	})
}

// Get selects fields from the current table, filtered by the current where
// clause. values binds the where clause's placeholders.
func (s *Session) Get(ctx context.Context, fields []string, values param.List, mode ...FetchMode) *Session {
	return s.run(ctx, fetchMode(mode), func() (builder.Statement, error) {
		return s.request(fields, values, "").Select()
	})
}

// SetWhere sets the where clause used by Get, Update and Delete. The WHERE
// keyword is added unless the clause already starts with it. An empty
// clause clears it.
func (s *Session) SetWhere(clause string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if strings.TrimSpace(clause) == "" {
		s.where = ""
		return
	}
	s.where = builder.NormalizeWhere(clause)
}

// ClearWhere drops the where clause.
func (s *Session) ClearWhere() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.where = ""
}

// Where returns the active where clause.
func (s *Session) Where() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.where
}

// SetTableName sets the target table. Characters unsafe to interpolate
// are stripped since table names cannot be bound.
func (s *Session) SetTableName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table = builder.SanitizeIdentifier(name)
}

// SetModel sets the target table from a Go type, see schema.TableName.
func (s *Session) SetModel(model any) {
	s.SetTableName(schema.TableName(model))
}

// Table returns the target table.
func (s *Session) Table() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table
}

// HasError reports whether the last execution failed.
func (s *Session) HasError() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failed
}

// Err returns the cause of the last failure, or nil.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Count returns the number of rows fetched or affected by the last
// successful execution.
func (s *Session) Count() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// Results returns the rows of the last successful execution. ok is false
// when the count is zero. A failed execution leaves the previous rows in
// place, so check HasError first.
func (s *Session) Results() (rows []Row, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.count == 0 || len(s.results) == 0 {
		return nil, false
	}
	return s.results, true
}

// First returns the first row of the last successful execution.
func (s *Session) First() (Row, bool) {
	rows, ok := s.Results()
	if !ok {
		return nil, false
	}
	return rows[0], true
}

// LastQuery returns the text of the most recently built statement.
func (s *Session) LastQuery() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastQuery
}

// Close closes the underlying engine.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Close()
}

func (s *Session) request(fields []string, values param.List, proc string) builder.Request {
	return builder.Request{
		Table:     s.table,
		Where:     s.where,
		Fields:    fields,
		Values:    values,
		Procedure: proc,
	}
}

// run builds and executes one statement. The error flag is reset first;
// rows and count are replaced only on success.
func (s *Session) run(ctx context.Context, mode FetchMode, build func() (builder.Statement, error)) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failed = false
	s.err = nil

	stmt, err := build()
	if err != nil {
		s.fail(&Error{Stage: StageBuild, Err: err})
		return s
	}
	s.lastQuery = stmt.Text

	res := s.engine.Run(ctx, stmt, mode)
	if res.Err != nil {
		s.fail(res.Err)
		return s
	}

	s.results = res.Rows
	s.count = res.Count
	return s
}

func (s *Session) fail(err error) {
	s.failed = true
	s.err = err
	if IsFatal(err) {
		s.engine.logger.Error("statement aborted", zap.String("table", s.table), zap.Error(err))
	}
}

func fetchMode(mode []FetchMode) FetchMode {
	if len(mode) > 0 {
		return mode[0]
	}
	return FetchAssoc
}

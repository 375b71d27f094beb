package engine

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/Konsultn-Engineering/dao/builder"
	"github.com/Konsultn-Engineering/dao/dialect"
	"github.com/Konsultn-Engineering/dao/param"
)

type Group struct {
	ID   int64
	Name string
}

func newTestSession(t *testing.T, opts ...Option) *Session {
	t.Helper()
	s := NewSession(newTestEngine(t, opts...))
	s.SetTableName("groups")
	return s
}

func seedGroups(t *testing.T, s *Session, names ...string) {
	t.Helper()
	for i, name := range names {
		s.Insert(context.Background(), param.Of("group_name", name, "group_rank", i+1))
		require.False(t, s.HasError(), "seeding %s: %v", name, s.Err())
	}
}

func TestQueryZeroRows(t *testing.T) {
	s := newTestSession(t)

	s.Query(context.Background(), "SELECT * FROM groups", nil)

	assert.False(t, s.HasError())
	assert.NoError(t, s.Err())
	assert.Equal(t, int64(0), s.Count())

	rows, ok := s.Results()
	assert.False(t, ok)
	assert.Nil(t, rows)

	row, ok := s.First()
	assert.False(t, ok)
	assert.Nil(t, row)
}

func TestQueryReturnsAllRows(t *testing.T) {
	s := newTestSession(t)
	seedGroups(t, s, "admins", "editors", "guests")

	rows, ok := s.Query(context.Background(), "SELECT group_name FROM groups ORDER BY group_id", nil).Results()

	require.True(t, ok)
	assert.Equal(t, int64(3), s.Count())
	require.Len(t, rows, 3)
	assert.Equal(t, "admins", rows[0]["group_name"])
	assert.Equal(t, "guests", rows[2]["group_name"])

	first, ok := s.First()
	require.True(t, ok)
	assert.Equal(t, rows[0], first)
}

func TestQueryDetectsRowsBehindComments(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)
	seedGroups(t, s, "admins", "editors")

	for _, text := range []string{
		"-- list groups\nSELECT * FROM groups",
		"/* list groups */ SELECT * FROM groups",
	} {
		rows, ok := s.Query(ctx, text, nil).Results()
		require.False(t, s.HasError(), "%v", s.Err())
		require.True(t, ok, text)
		assert.Len(t, rows, 2, text)
		assert.Equal(t, int64(2), s.Count(), text)
	}

	row, ok := s.Query(ctx, "INSERT INTO groups (group_name) VALUES (:name)\nRETURNING group_id",
		param.Of("name", "guests")).First()
	require.False(t, s.HasError(), "%v", s.Err())
	require.True(t, ok)
	assert.Equal(t, int64(1), s.Count())
	assert.Equal(t, int64(3), row["group_id"])
}

func TestInsertThenGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)
	name := "group-" + uuid.NewString()

	s.Insert(ctx, param.Of("group_name", name, "group_rank", 7))
	require.False(t, s.HasError(), "%v", s.Err())
	assert.Equal(t, int64(1), s.Count())
	assert.Equal(t, "INSERT INTO groups (group_name, group_rank) VALUES (:group_name, :group_rank)", s.LastQuery())
	_, ok := s.Results()
	assert.False(t, ok, "a mutation leaves no rows")

	s.SetWhere("group_name = :group_name")
	row, ok := s.Get(ctx, []string{"group_name", "group_rank"}, param.Of("group_name", name)).First()
	require.True(t, ok, "%v", s.Err())
	assert.Equal(t, Row{"group_name": name, "group_rank": int64(7)}, row)
	assert.Equal(t, "SELECT group_name, group_rank FROM groups WHERE group_name = :group_name", s.LastQuery())
}

func TestFailureRetainsPreviousResults(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)
	seedGroups(t, s, "admins", "editors", "guests")

	s.Query(ctx, "SELECT * FROM groups", nil)
	require.Equal(t, int64(3), s.Count())

	s.Query(ctx, "SELECT * FROM no_such_table", nil)
	assert.True(t, s.HasError())
	assert.Error(t, s.Err())
	assert.Equal(t, int64(3), s.Count())
	rows, ok := s.Results()
	assert.True(t, ok)
	assert.Len(t, rows, 3)

	s.Insert(ctx, param.Of("group_name", "admins"))
	assert.True(t, s.HasError(), "unique constraint")
	assert.False(t, IsFatal(s.Err()))
	assert.Equal(t, int64(3), s.Count())

	s.Query(ctx, "SELECT * FROM groups WHERE group_name = 'admins'", nil)
	assert.False(t, s.HasError(), "the flag resets on the next execution")
	assert.NoError(t, s.Err())
	assert.Equal(t, int64(1), s.Count())
}

func TestSetWhere(t *testing.T) {
	s := newTestSession(t)

	s.SetWhere("group_id = 3")
	assert.Equal(t, "WHERE group_id = 3", s.Where())

	s.SetWhere("WHERE group_id = 3")
	assert.Equal(t, "WHERE group_id = 3", s.Where())

	s.SetWhere("  where group_id = 3 ")
	assert.Equal(t, "where group_id = 3", s.Where())

	s.SetWhere("   ")
	assert.Empty(t, s.Where())

	s.SetWhere("group_id = 3")
	s.ClearWhere()
	assert.Empty(t, s.Where())

	s.Get(context.Background(), []string{"*"}, nil)
	assert.False(t, s.HasError(), "%v", s.Err())
	assert.Equal(t, "SELECT * FROM groups", s.LastQuery())
}

func TestGetWithoutTable(t *testing.T) {
	logger, logs := observedLogger()
	s := NewSession(newTestEngine(t, WithLogger(logger)))

	s.Get(context.Background(), []string{"*"}, nil)

	assert.True(t, s.HasError())
	assert.ErrorIs(t, s.Err(), builder.ErrNoTable)
	assert.True(t, IsFatal(s.Err()))
	assert.Empty(t, s.LastQuery())

	entries := logs.FilterMessage("statement aborted").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
}

func TestPrepareFailureHaltsOperation(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	_, err := db.DB().Exec("INSERT INTO groups (group_name) VALUES ('admins')")
	require.NoError(t, err)

	good := NewSession(New(db, dialect.NewSQLiteDialect()))
	good.Query(ctx, "SELECT * FROM groups", nil)
	require.Equal(t, int64(1), good.Count())

	prepareErr := errors.New("syntax error")
	s := NewSession(New(failingDatabase{SqlDatabase: db, err: prepareErr}, dialect.NewSQLiteDialect()))
	t.Cleanup(func() { s.Close() })

	s.Query(ctx, "SELEC nonsense", nil)

	assert.True(t, s.HasError())
	assert.True(t, IsFatal(s.Err()))
	assert.ErrorIs(t, s.Err(), prepareErr)
	assert.Equal(t, "SELEC nonsense", s.LastQuery())
	assert.Equal(t, int64(0), s.Count())
}

func TestUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)
	seedGroups(t, s, "admins", "editors", "guests")

	s.SetWhere("group_name = :group_name")
	s.Update(ctx, []string{"group_rank"}, param.Of("group_rank", 9, "group_name", "guests"))
	require.False(t, s.HasError(), "%v", s.Err())
	assert.Equal(t, int64(1), s.Count())
	assert.Equal(t, "UPDATE groups SET group_rank = :group_rank WHERE group_name = :group_name", s.LastQuery())

	row, ok := s.Get(ctx, []string{"group_rank"}, param.Of("group_name", "guests")).First()
	require.True(t, ok)
	assert.Equal(t, int64(9), row["group_rank"])

	s.SetWhere("group_rank < :max")
	s.Delete(ctx, param.Of("max", 3))
	require.False(t, s.HasError(), "%v", s.Err())
	assert.Equal(t, int64(2), s.Count())
	assert.Equal(t, "DELETE FROM groups WHERE group_rank < :max", s.LastQuery())

	s.ClearWhere()
	s.Get(ctx, []string{"group_name"}, nil)
	assert.Equal(t, int64(1), s.Count())
}

func TestProcedureCalls(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)

	// SQLite has no stored procedures; the statement text is still recorded.
	s.InsertProc(ctx, "add_group", param.Of("group_name", "admins", "group_rank", 1))
	assert.Equal(t, "CALL add_group(:group_name, :group_rank)", s.LastQuery())
	assert.True(t, s.HasError())

	s.UpdateProc(ctx, "rename_group", []string{"group_id", "group_name"}, param.Of("group_name", "x", "group_id", 1))
	assert.Equal(t, "CALL rename_group(:group_id, :group_name)", s.LastQuery())

	s.DeleteProc(ctx, "drop_group", param.Of("group_id", 1))
	assert.Equal(t, "CALL drop_group(:group_id)", s.LastQuery())
}

func TestNullBinding(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)

	s.Insert(ctx, param.Of("group_name", "nobody", "group_rank", nil))
	require.False(t, s.HasError(), "%v", s.Err())

	s.Insert(ctx, param.List{}.Set("group_name", param.Text("someone")).Set("group_rank", param.Null()))
	require.False(t, s.HasError(), "%v", s.Err())

	s.SetWhere("group_rank IS NULL")
	rows, ok := s.Get(ctx, []string{"group_name", "group_rank"}, nil).Results()
	require.True(t, ok)
	assert.Len(t, rows, 2)
	assert.Nil(t, rows[0]["group_rank"])
}

func TestSetTableName(t *testing.T) {
	s := newTestSession(t)

	s.SetTableName("groups; DROP TABLE users")
	assert.Equal(t, "groupsDROPTABLEusers", s.Table())

	s.SetModel(&Group{})
	assert.Equal(t, "groups", s.Table())

	s.SetModel([]Group{})
	s.Get(context.Background(), []string{"*"}, nil)
	assert.False(t, s.HasError(), "%v", s.Err())
}

func TestFetchModeOnSession(t *testing.T) {
	s := newTestSession(t)
	seedGroups(t, s, "admins")

	row, ok := s.Get(context.Background(), []string{"group_name"}, nil, FetchNum).First()
	require.True(t, ok)
	assert.Equal(t, Row{"0": "admins"}, row)
}

func TestClosedSession(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.Close())

	s.Query(context.Background(), "SELECT 1", nil)
	assert.True(t, s.HasError())
	assert.ErrorIs(t, s.Err(), ErrClosed)
}

func TestSessionConcurrentUse(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Insert(ctx, param.Of("group_name", uuid.NewString()))
		}()
	}
	wg.Wait()

	s.Query(ctx, "SELECT group_id FROM groups", nil)
	require.False(t, s.HasError(), "%v", s.Err())
	assert.Equal(t, int64(20), s.Count())
}

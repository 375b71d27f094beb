package cache

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func queryOne(ctx context.Context, stmt *sql.Stmt) error {
	var n int
	return stmt.QueryRowContext(ctx).Scan(&n)
}

func TestStatementCacheReusesStatements(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	c := NewStatementCache(4)
	defer c.Close()

	first, release, err := c.GetOrPrepare(ctx, db, "SELECT 1")
	require.NoError(t, err)
	release()
	second, release, err := c.GetOrPrepare(ctx, db, "SELECT 1")
	require.NoError(t, err)
	release()

	assert.Same(t, first, second)
	assert.Equal(t, 1, c.Len())

	got, ok := c.Get("SELECT 1")
	require.True(t, ok)
	assert.Same(t, first, got)
}

func TestStatementCacheEvictionClosesStatement(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	c := NewStatementCache(1)
	defer c.Close()

	evicted, release, err := c.GetOrPrepare(ctx, db, "SELECT 1")
	require.NoError(t, err)
	release()
	_, release, err = c.GetOrPrepare(ctx, db, "SELECT 2")
	require.NoError(t, err)
	release()

	assert.Equal(t, 1, c.Len())
	_, ok := c.Get("SELECT 1")
	assert.False(t, ok)

	assert.Error(t, queryOne(ctx, evicted), "evicted statement must be closed")
}

func TestStatementCacheKeepsHeldStatementOpen(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	c := NewStatementCache(1)
	defer c.Close()

	held, releaseHeld, err := c.GetOrPrepare(ctx, db, "SELECT 1")
	require.NoError(t, err)

	_, release, err := c.GetOrPrepare(ctx, db, "SELECT 2")
	require.NoError(t, err)
	release()
	_, ok := c.Get("SELECT 1")
	require.False(t, ok, "evicted from the cache")

	require.NoError(t, queryOne(ctx, held), "a held statement survives eviction")

	releaseHeld()
	releaseHeld()
	assert.Error(t, queryOne(ctx, held), "closed once released")
}

type failingPreparer struct{}

func (failingPreparer) PrepareContext(context.Context, string) (*sql.Stmt, error) {
	return nil, errors.New("syntax error")
}

func TestStatementCachePrepareError(t *testing.T) {
	c := NewStatementCache(0)
	defer c.Close()

	_, release, err := c.GetOrPrepare(context.Background(), failingPreparer{}, "SELEC nonsense")
	require.EqualError(t, err, "syntax error")
	assert.Nil(t, release)
	assert.Equal(t, 0, c.Len())
}

func TestStatementCacheClose(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	c := NewStatementCache(2)

	idle, release, err := c.GetOrPrepare(ctx, db, "SELECT 1")
	require.NoError(t, err)
	release()
	held, releaseHeld, err := c.GetOrPrepare(ctx, db, "SELECT 2")
	require.NoError(t, err)

	require.NoError(t, c.Close())
	assert.Equal(t, 0, c.Len())
	assert.Error(t, queryOne(ctx, idle))
	require.NoError(t, queryOne(ctx, held))

	releaseHeld()
	assert.Error(t, queryOne(ctx, held))
}

package cache

import (
	"context"
	"database/sql"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultStatementCacheSize is used when a non-positive size is requested.
const DefaultStatementCacheSize = 64

// Preparer prepares statements against a connection.
type Preparer interface {
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// entry counts the callers holding a statement. An evicted entry is closed
// once the last holder releases it.
type entry struct {
	stmt    *sql.Stmt
	refs    int
	evicted bool
}

// StatementCache keeps prepared statements keyed by their SQL text.
// Evicted statements are closed when no caller holds them.
type StatementCache struct {
	cache *lru.Cache[string, *entry]
	mu    sync.Mutex
}

func NewStatementCache(size int) *StatementCache {
	if size <= 0 {
		size = DefaultStatementCacheSize
	}
	// The callback runs inside Add and Purge, which are only called with mu held.
	cache, _ := lru.NewWithEvict(size, func(_ string, e *entry) {
		e.evicted = true
		if e.refs == 0 {
			e.stmt.Close()
		}
	})

	return &StatementCache{
		cache: cache,
	}
}

// Get returns the cached statement for query without holding it.
func (s *StatementCache) Get(query string) (*sql.Stmt, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.cache.Get(query)
	if !ok {
		return nil, false
	}
	return e.stmt, true
}

// GetOrPrepare returns the statement for query, preparing it on a miss.
// The statement stays open until release is called, even if it is evicted
// in the meantime. release is safe to call more than once.
func (s *StatementCache) GetOrPrepare(ctx context.Context, db Preparer, query string) (stmt *sql.Stmt, release func(), err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.cache.Get(query)
	if !ok {
		ps, err := db.PrepareContext(ctx, query)
		if err != nil {
			return nil, nil, err
		}
		e = &entry{stmt: ps}
		s.cache.Add(query, e)
	}

	e.refs++
	var once sync.Once
	return e.stmt, func() { once.Do(func() { s.release(e) }) }, nil
}

func (s *StatementCache) release(e *entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.refs--
	if e.evicted && e.refs == 0 {
		e.stmt.Close()
	}
}

// Len returns the number of cached statements.
func (s *StatementCache) Len() int {
	return s.cache.Len()
}

// Close drops every cached statement. Statements still held are closed on
// release.
func (s *StatementCache) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Purge()
	return nil
}

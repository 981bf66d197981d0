package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"Domain_Monitor/internal/mocks"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type execCall struct {
	sql  string
	args []any
}

// fakePool implements pgPool without a live database
type fakePool struct {
	execCalls []execCall
	execErr   error
	queryRows pgx.Rows
	queryErr  error
	row       pgx.Row
	closed    bool
}

func (p *fakePool) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	p.execCalls = append(p.execCalls, execCall{sql: sql, args: arguments})
	if p.execErr != nil {
		return pgconn.CommandTag{}, p.execErr
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (p *fakePool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if p.queryErr != nil {
		return nil, p.queryErr
	}
	return p.queryRows, nil
}

func (p *fakePool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return p.row
}

func (p *fakePool) Close() {
	p.closed = true
}

// fakeRows yields one string column per row
type fakeRows struct {
	rows    []string
	current int
	rowsErr error
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return r.rowsErr }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return nil, nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	r.current++
	return r.current <= len(r.rows)
}

func (r *fakeRows) Scan(dest ...any) error {
	*(dest[0].(*string)) = r.rows[r.current-1]
	return nil
}

type fakeRow struct {
	count   int
	scanErr error
}

func (r *fakeRow) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	*(dest[0].(*int)) = r.count
	return nil
}

func newTestStore(pool *fakePool, whoisCache *mocks.MockWhoisCache) *PostgresStore {
	return &PostgresStore{
		pool:       pool,
		whoisCache: whoisCache,
		logger:     mocks.NoopLogger{},
	}
}

func TestGetAllDomains(t *testing.T) {
	pool := &fakePool{queryRows: &fakeRows{rows: []string{"a.com", "b.com"}}}
	store := newTestStore(pool, &mocks.MockWhoisCache{})

	domains := store.GetAllDomains(context.Background())

	assert.Equal(t, map[string]struct{}{"a.com": {}, "b.com": {}}, domains)
}

func TestGetAllDomains_QueryErrorYieldsEmptySet(t *testing.T) {
	pool := &fakePool{queryErr: errors.New("connection refused")}
	store := newTestStore(pool, &mocks.MockWhoisCache{})

	domains := store.GetAllDomains(context.Background())

	assert.Empty(t, domains)
	assert.NotNil(t, domains)
}

func TestUpsertDomain_WritesThroughToCache(t *testing.T) {
	pool := &fakePool{}
	mockCache := &mocks.MockWhoisCache{}
	mockCache.On("Set", mock.Anything, "a.com", "Org A").Return(nil)
	store := newTestStore(pool, mockCache)

	store.UpsertDomain(context.Background(), "a.com", "Org A")

	require.Len(t, pool.execCalls, 1)
	assert.Contains(t, pool.execCalls[0].sql, "INSERT INTO domains")
	assert.Contains(t, pool.execCalls[0].sql, "ON CONFLICT")
	assert.Equal(t, []any{"a.com", "Org A"}, pool.execCalls[0].args)
	mockCache.AssertExpectations(t)
}

func TestUpsertDomain_RepeatUsesSameStatement(t *testing.T) {
	pool := &fakePool{}
	mockCache := &mocks.MockWhoisCache{}
	mockCache.On("Set", mock.Anything, "a.com", "Org A").Return(nil)
	store := newTestStore(pool, mockCache)

	ctx := context.Background()
	store.UpsertDomain(ctx, "a.com", "Org A")
	store.UpsertDomain(ctx, "a.com", "Org A")

	// The second call repeats the conflict-update statement with identical
	// arguments, so the stored row cannot drift
	require.Len(t, pool.execCalls, 2)
	assert.Equal(t, pool.execCalls[0], pool.execCalls[1])
}

func TestUpsertDomain_ExecErrorSkipsCache(t *testing.T) {
	pool := &fakePool{execErr: errors.New("deadlock detected")}
	mockCache := &mocks.MockWhoisCache{}
	store := newTestStore(pool, mockCache)

	store.UpsertDomain(context.Background(), "a.com", "Org A")

	mockCache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestRemoveDomains_DropsCacheEntries(t *testing.T) {
	pool := &fakePool{}
	mockCache := &mocks.MockWhoisCache{}
	mockCache.On("Delete", mock.Anything, "a.com").Return(nil)
	mockCache.On("Delete", mock.Anything, "b.com").Return(nil)
	store := newTestStore(pool, mockCache)

	store.RemoveDomains(context.Background(), map[string]struct{}{"a.com": {}, "b.com": {}})

	require.Len(t, pool.execCalls, 1)
	assert.True(t, strings.HasPrefix(pool.execCalls[0].sql, "DELETE FROM domains"))
	require.Len(t, pool.execCalls[0].args, 1)
	assert.ElementsMatch(t, []string{"a.com", "b.com"}, pool.execCalls[0].args[0].([]string))
	mockCache.AssertExpectations(t)
}

func TestRemoveDomains_EmptySetIsNoop(t *testing.T) {
	pool := &fakePool{}
	store := newTestStore(pool, &mocks.MockWhoisCache{})

	store.RemoveDomains(context.Background(), map[string]struct{}{})

	assert.Empty(t, pool.execCalls)
}

func TestRemoveDomains_ExecErrorKeepsCache(t *testing.T) {
	pool := &fakePool{execErr: errors.New("connection refused")}
	mockCache := &mocks.MockWhoisCache{}
	store := newTestStore(pool, mockCache)

	store.RemoveDomains(context.Background(), map[string]struct{}{"a.com": {}})

	mockCache.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCount(t *testing.T) {
	pool := &fakePool{row: &fakeRow{count: 42}}
	store := newTestStore(pool, &mocks.MockWhoisCache{})

	assert.Equal(t, 42, store.Count(context.Background()))
}

func TestCount_ScanErrorYieldsZero(t *testing.T) {
	pool := &fakePool{row: &fakeRow{scanErr: errors.New("connection refused")}}
	store := newTestStore(pool, &mocks.MockWhoisCache{})

	assert.Equal(t, 0, store.Count(context.Background()))
}

func TestClose(t *testing.T) {
	pool := &fakePool{}
	store := newTestStore(pool, &mocks.MockWhoisCache{})

	require.NoError(t, store.Close())
	assert.True(t, pool.closed)
}

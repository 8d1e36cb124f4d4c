package pg_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/acme/autocert"

	"github.com/dmitrymomot/certkit/core/certstore"
	"github.com/dmitrymomot/certkit/integration/database/pg"
	"github.com/dmitrymomot/certkit/pkg/pki"
)

// fakeDB keeps rows in memory and recognizes the cache statements by argument count.
type fakeDB struct {
	rows  map[string][]byte
	calls int
	err   error
}

func newFakeDB() *fakeDB {
	return &fakeDB{rows: make(map[string][]byte)}
}

func (f *fakeDB) Exec(_ context.Context, _ string, args ...any) (pgconn.CommandTag, error) {
	f.calls++
	if f.err != nil {
		return pgconn.CommandTag{}, f.err
	}
	key := args[0].(string)
	if len(args) == 2 {
		f.rows[key] = append([]byte(nil), args[1].([]byte)...)
		return pgconn.NewCommandTag("INSERT 0 1"), nil
	}
	delete(f.rows, key)
	return pgconn.NewCommandTag("DELETE 1"), nil
}

func (f *fakeDB) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	f.calls++
	if f.err != nil {
		return fakeRow{err: f.err}
	}
	if len(args) == 0 {
		seen := map[string]bool{}
		var names []string
		for key := range f.rows {
			name, _, ok := cut(key)
			if ok && !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
		return fakeRow{names: names}
	}
	data, ok := f.rows[args[0].(string)]
	if !ok {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{data: data}
}

func cut(key string) (string, string, bool) {
	for i := 0; i < len(key); i++ {
		if key[i] == '/' {
			return key[:i], key[i+1:], i > 0
		}
	}
	return key, "", false
}

type fakeRow struct {
	data  []byte
	names []string
	err   error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	switch d := dest[0].(type) {
	case *[]byte:
		*d = r.data
	case *[]string:
		*d = r.names
	}
	return nil
}

// fakeTx embeds pgx.Tx so only the methods the cache uses need bodies.
type fakeTx struct {
	pgx.Tx
	db *fakeDB
}

func (t *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return t.db.Exec(ctx, sql, args...)
}

func (t *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return t.db.QueryRow(ctx, sql, args...)
}

func TestCacheRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cache := pg.NewCache(newFakeDB())

	_, err := cache.Get(ctx, "missing")
	assert.ErrorIs(t, err, autocert.ErrCacheMiss)

	require.NoError(t, cache.Put(ctx, "example.com/tls.cert", []byte("LEAF")))
	got, err := cache.Get(ctx, "example.com/tls.cert")
	require.NoError(t, err)
	assert.Equal(t, []byte("LEAF"), got)

	require.NoError(t, cache.Delete(ctx, "example.com/tls.cert"))
	_, err = cache.Get(ctx, "example.com/tls.cert")
	assert.ErrorIs(t, err, autocert.ErrCacheMiss)
}

func TestCacheWithStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := certstore.New(pg.NewCache(newFakeDB()))

	bundle := pki.Bundle{PrivateKey: "KEY", Certificate: "LEAF", CABundle: "CHAIN"}
	require.NoError(t, store.Save(ctx, "example.com", bundle))

	got, err := store.Load(ctx, "example.com")
	require.NoError(t, err)
	assert.Equal(t, bundle, got)

	domains, err := store.Domains(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"example.com"}, domains)
}

func TestCacheUsesContextTx(t *testing.T) {
	t.Parallel()
	pool := newFakeDB()
	txDB := newFakeDB()
	cache := pg.NewCache(pool)

	ctx := pg.WithTx(context.Background(), &fakeTx{db: txDB})
	require.NoError(t, cache.Put(ctx, "example.com/tls.key", []byte("KEY")))

	assert.Equal(t, 0, pool.calls)
	assert.Equal(t, []byte("KEY"), txDB.rows["example.com/tls.key"])
}

func TestCacheWrapsErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	boom := errors.New("connection reset")
	db := newFakeDB()
	db.err = boom
	cache := pg.NewCache(db)

	_, err := cache.Get(ctx, "k")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, autocert.ErrCacheMiss)
	assert.ErrorIs(t, cache.Put(ctx, "k", []byte("v")), boom)
	assert.ErrorIs(t, cache.Delete(ctx, "k"), boom)
	_, err = cache.List(ctx)
	assert.ErrorIs(t, err, boom)
}

func TestConnectValidation(t *testing.T) {
	t.Parallel()

	_, err := pg.Connect(context.Background(), pg.Config{})
	assert.ErrorIs(t, err, pg.ErrEmptyConnectionString)

	_, err = pg.Connect(context.Background(), pg.Config{ConnectionString: "postgres://%zz"})
	assert.ErrorIs(t, err, pg.ErrFailedToParseDBConfig)
}

func TestContextTx(t *testing.T) {
	t.Parallel()

	_, ok := pg.TxFromContext(context.Background())
	assert.False(t, ok)

	ctx := pg.WithTx(context.Background(), nil)
	_, ok = pg.TxFromContext(ctx)
	assert.False(t, ok)

	tx := &fakeTx{db: newFakeDB()}
	got, ok := pg.TxFromContext(pg.WithTx(context.Background(), tx))
	require.True(t, ok)
	assert.Same(t, tx, got)
}

func TestErrorHelpers(t *testing.T) {
	t.Parallel()

	assert.True(t, pg.IsNotFoundError(pgx.ErrNoRows))
	assert.False(t, pg.IsNotFoundError(errors.New("x")))
	assert.True(t, pg.IsTxClosedError(pgx.ErrTxClosed))
}

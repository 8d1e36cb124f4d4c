package pg

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/acme/autocert"
)

var _ autocert.Cache = (*Cache)(nil)

// DB is the query surface shared by *pgxpool.Pool and pgx.Tx.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	getQuery    = `SELECT data FROM certkit_cache WHERE key = $1`
	putQuery    = `INSERT INTO certkit_cache (key, data, updated_at) VALUES ($1, $2, now()) ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`
	deleteQuery = `DELETE FROM certkit_cache WHERE key = $1`
	listQuery   = `SELECT COALESCE(array_agg(DISTINCT split_part(key, '/', 1) ORDER BY split_part(key, '/', 1)), '{}') FROM certkit_cache WHERE position('/' in key) > 1`
)

// Cache is an autocert.Cache stored in the certkit_cache table.
// A transaction attached with WithTx takes precedence over the pool.
type Cache struct {
	db DB
}

// NewCache creates a PostgreSQL backed certificate cache.
func NewCache(db DB) *Cache {
	return &Cache{db: db}
}

func (c *Cache) conn(ctx context.Context) DB {
	if tx, ok := TxFromContext(ctx); ok {
		return tx
	}
	return c.db
}

// Get returns the value stored under key or autocert.ErrCacheMiss.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := c.conn(ctx).QueryRow(ctx, getQuery, key).Scan(&data)
	if IsNotFoundError(err) {
		return nil, autocert.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("pg cache get %s: %w", key, err)
	}
	return data, nil
}

// Put upserts data under key.
func (c *Cache) Put(ctx context.Context, key string, data []byte) error {
	if _, err := c.conn(ctx).Exec(ctx, putQuery, key, data); err != nil {
		return fmt.Errorf("pg cache put %s: %w", key, err)
	}
	return nil
}

// Delete removes key; a missing key is not an error.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if _, err := c.conn(ctx).Exec(ctx, deleteQuery, key); err != nil {
		return fmt.Errorf("pg cache delete %s: %w", key, err)
	}
	return nil
}

// List returns the distinct first path segments of stored keys.
func (c *Cache) List(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.conn(ctx).QueryRow(ctx, listQuery).Scan(&names); err != nil {
		return nil, fmt.Errorf("pg cache list: %w", err)
	}
	return names, nil
}

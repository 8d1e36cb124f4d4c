// Package pg provides PostgreSQL connection management, schema migrations and
// a certificate cache backed by a single key/value table.
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, logger); err != nil {
//		return err
//	}
//
//	store := certstore.New(pg.NewCache(pool))
//
// Connect parses PG_CONN_URL, applies the pool limits from Config and pings
// with linear backoff. Migrate runs the embedded goose migrations through a
// database/sql handle opened on the same pool.
//
// Cache implements autocert.Cache. When the context carries a transaction
// (see WithTx) every statement runs inside it, so a bundle can be written
// atomically:
//
//	tx, err := pool.Begin(ctx)
//	if err != nil {
//		return err
//	}
//	defer tx.Rollback(ctx)
//	if err := store.Save(pg.WithTx(ctx, tx), domain, bundle); err != nil {
//		return err
//	}
//	return tx.Commit(ctx)
package pg

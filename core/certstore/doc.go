// Package certstore caches issued certificate bundles.
//
// A bundle is stored as three artifacts: tls.cert (leaf), ca.cert (issuer
// chain) and tls.key (private key). Store works over any autocert.Cache, so
// the same code persists to the local file system (FileCache), S3, Redis or
// PostgreSQL via the backends under integration/.
//
//	store, err := certstore.NewDir("/var/lib/certkit")
//	if err != nil {
//		return err
//	}
//	bundle, err := store.Load(ctx, "example.com")
//	switch {
//	case errors.Is(err, certstore.ErrNotFound):
//		// issue a new certificate
//	case err != nil:
//		return err
//	}
//
// Locker serializes issuance for a domain. MemoryLocker covers a single
// process; integration/database/redis provides a distributed lock.
package certstore

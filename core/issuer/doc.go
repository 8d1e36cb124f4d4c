// Package issuer drives domain-validated certificate issuance end to end.
//
// Obtain first checks the certificate store; a cached certificate and key
// short-circuit the whole flow without any network traffic. Otherwise it
// generates a 2048-bit key and CSR, submits an order, serves the validation
// file on a dedicated challenge server, requests verification, polls until
// the order is issued and downloads the certificate chain. The challenge
// server is always stopped before Obtain returns.
//
// Polling is bounded by PollMaxAttempts and PollTimeout and fails with
// ErrTimeout when either is exhausted. Setting PollUnbounded keeps polling
// until issuance or context cancellation.
//
// Persisting a fresh bundle is best effort: a write failure is logged at
// warn level and reported in Result.PersistErr while the bundle is still
// returned.
//
//	iss := issuer.New(cfg, caClient, store, issuer.WithLogger(log))
//	res, err := iss.Obtain(ctx, issuer.Request{Domain: "https://foo.example.com:3001", Persist: true})
package issuer

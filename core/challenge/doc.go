// Package challenge serves the HTTP validation file a certificate authority
// fetches to prove control of a domain.
//
//	path := challenge.ValidationPath(fv.URLHTTP, "example.com")
//	srv := challenge.New(":80", path, fv.Content)
//	if err := srv.Start(ctx); err != nil {
//		return err
//	}
//	defer srv.Stop()
//
// The server binds its listener before Start returns, so verification can be
// requested immediately afterwards.
package challenge

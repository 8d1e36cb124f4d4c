// Package zerossl is a minimal client for the ZeroSSL certificate REST API.
//
// It covers the four calls needed for domain-validated issuance over HTTP
// file validation: create an order from a CSR, request verification, poll
// the order and download the issued certificate.
//
//	client, err := zerossl.New(zerossl.Config{APIKey: os.Getenv("ZEROSSL_API_KEY")})
//	if err != nil {
//		return err // zerossl.ErrMissingAPIKey
//	}
//	order, err := client.CreateCertificate(ctx, "example.com", csr.PEM)
//
// Failures reported by the CA surface as *APIError, which matches
// ErrCAProtocol through errors.Is. A refused verification additionally
// matches ErrChallengeRejected. The access key is sent as a query parameter
// and is never logged.
package zerossl

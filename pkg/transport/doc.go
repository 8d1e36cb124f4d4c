// Package transport protects short-lived tokens exchanged between services.
//
// A token and its issue time are serialized as "<token>|<unix-seconds>",
// encrypted with RSA-OAEP (SHA-256) under the recipient's public key and
// base64 encoded for transport. The receiving side decrypts with its private
// key and rejects payloads that do not split into exactly two fields or whose
// timestamp is not an integer.
//
// KeyStore provisions the keypair lazily on the local file system. The first
// call generates a 2048-bit RSA key and writes both PEM files; later calls
// reuse them without touching the disk:
//
//	keys, err := transport.NewKeyStore(transport.Config{
//		PublicKeyPath:  "keys/transport_public.pem",
//		PrivateKeyPath: "keys/transport_private.pem",
//	})
//	if err != nil {
//		return err
//	}
//	codec := transport.NewCodec(keys)
//	sealed, err := codec.Seal(ctx, "abc123", time.Now().Unix())
//	// ...
//	tok, err := codec.Open(ctx, sealed)
//
// Configuration can be loaded from TRANSPORT_PUBLIC_KEY_PATH,
// TRANSPORT_PRIVATE_KEY_PATH and TRANSPORT_KEY_BITS through core/config.
package transport

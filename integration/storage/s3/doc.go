// Package s3 stores certificate bundles in Amazon S3 or an S3-compatible
// service (MinIO, Wasabi, DigitalOcean Spaces).
//
// Cache implements autocert.Cache and plugs into certstore:
//
//	cache, err := s3.New(ctx, s3.Config{
//		Bucket: "certs",
//		Region: "eu-central-1",
//		Prefix: "certkit/",
//	})
//	if err != nil {
//		return err
//	}
//	store := certstore.New(cache)
//
// Credentials come from Config when AccessKeyID and SecretKey are set and
// from the default AWS chain (environment, shared config, IAM role)
// otherwise. Objects are written with SSE-S3 encryption. Missing objects
// are reported as autocert.ErrCacheMiss.
//
// MinIO configuration:
//
//	cfg := s3.Config{
//		Bucket:         "certs",
//		Region:         "us-east-1",
//		Endpoint:       "http://localhost:9000",
//		ForcePathStyle: true,
//		AccessKeyID:    "minioadmin",
//		SecretKey:      "minioadmin",
//	}
package s3

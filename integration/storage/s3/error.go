package s3

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"golang.org/x/crypto/acme/autocert"
)

var (
	ErrInvalidConfig      = errors.New("s3: bucket and region are required")
	ErrBucketNotFound     = errors.New("s3: bucket not found")
	ErrAccessDenied       = errors.New("s3: access denied")
	ErrServiceUnavailable = errors.New("s3: service unavailable")
	ErrOperationTimeout   = errors.New("s3: operation timed out")
	ErrOperationCanceled  = errors.New("s3: operation canceled")
	ErrObjectTooLarge     = errors.New("s3: object exceeds size limit")
)

// classifyS3Error converts S3 errors to package errors. Missing objects map
// to autocert.ErrCacheMiss so the cache contract holds.
func classifyS3Error(err error, operation string) error {
	if err == nil {
		return nil
	}

	// Context errors first, for proper cancellation handling.
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s operation: %w", ErrOperationTimeout, operation, context.DeadlineExceeded)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %s operation: %w", ErrOperationCanceled, operation, context.Canceled)
	}

	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return autocert.ErrCacheMiss
	}

	var nsb *types.NoSuchBucket
	if errors.As(err, &nsb) {
		return ErrBucketNotFound
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		switch code {
		case "NoSuchKey", "NotFound":
			return autocert.ErrCacheMiss
		case "NoSuchBucket":
			return ErrBucketNotFound
		case "AccessDenied":
			return fmt.Errorf("%w: %s operation", ErrAccessDenied, operation)
		case "SlowDown", "ServiceUnavailable", "RequestTimeout":
			return fmt.Errorf("%w: %s operation", ErrServiceUnavailable, operation)
		default:
			return fmt.Errorf("%s operation failed (code: %s): %w", operation, code, err)
		}
	}

	return fmt.Errorf("%s operation failed: %w", operation, err)
}

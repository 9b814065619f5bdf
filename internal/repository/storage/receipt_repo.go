package storage

import (
	"context"
	"io"
	"time"
)

// ReceiptRepository defines the interface for receipt object storage
type ReceiptRepository interface {
	Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error)
	Delete(ctx context.Context, objectPath string) error
	// GeneratePresignedURL returns a temporary GET URL for an object.
	GeneratePresignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error)
}

package storage

import (
	"context"
	"errors"
	"time"
)

// DefaultPresignedURLExpiry is used when a caller passes a non-positive expiry.
const DefaultPresignedURLExpiry = 15 * time.Minute

var ErrObjectNotFound = errors.New("object not found in storage")

// ObjectMetadata describes a stored object.
type ObjectMetadata struct {
	Size         int64
	ContentType  string
	LastModified time.Time
}

// FileStorage defines the interface for object storage operations.
type FileStorage interface {
	// GeneratePresignedUploadURL creates a temporary URL that allows a PUT of
	// objectKey directly to the storage provider.
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)

	// GeneratePresignedDownloadURL creates a temporary GET URL for objectKey.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// StatObject returns ErrObjectNotFound when the key does not exist.
	StatObject(ctx context.Context, objectKey string) (*ObjectMetadata, error)

	DeleteObject(ctx context.Context, objectKey string) error
}

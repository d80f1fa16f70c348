package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// FileStorage defines the interface for object storage operations. The
// server never proxies file bytes; clients upload and download avatars
// directly against presigned URLs.
type FileStorage interface {
	// GeneratePresignedUploadURL creates a temporary URL that allows a PUT
	// request uploading an object directly to the storage provider.
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)

	// GeneratePresignedDownloadURL creates a temporary URL that allows a GET
	// request downloading an object directly from the storage provider.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeleteObject removes an object from the storage provider.
	DeleteObject(ctx context.Context, objectKey string) error
}

// AvatarObjectKey builds the object key for a user's profile image. Keys are
// namespaced per user and randomized so a re-upload never races a stale
// presigned GET on the same key.
func AvatarObjectKey(username string) string {
	return fmt.Sprintf("avatars/%s/%s", username, uuid.NewString())
}

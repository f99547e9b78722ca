package storage

import (
	"context"
	"errors"
	"time"
)

//go:generate mockgen -source=storage.go -destination=../mock/storage_mock.go -package=mock

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// ErrNotConfigured is returned by NewS3Storage when no bucket is set.
var ErrNotConfigured = errors.New("object storage is not configured")

// FileStorage defines the interface for object storage operations.
type FileStorage interface {
	// PutObject uploads body under objectKey, replacing any existing object.
	PutObject(ctx context.Context, objectKey, contentType string, body []byte) error

	// PresignDownloadURL creates a temporary URL that allows GET requests
	// for downloading an object directly from the storage provider.
	PresignDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeleteObject removes an object from the storage provider.
	DeleteObject(ctx context.Context, objectKey string) error
}

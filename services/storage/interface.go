package storage

import (
	"context"
	"time"
)

// StorageService defines the interface for storage operations.
type StorageService interface {
	// UploadBytes uploads raw bytes as an asset in destFolder under the given
	// public ID and returns the delivery URL.
	UploadBytes(ctx context.Context, data []byte, destFolder, publicID string) (string, error)
	UploadFile(ctx context.Context, localFilePath, destFolder string) (string, error)
	DeleteFile(ctx context.Context, publicID string) error
	GetDownloadURL(ctx context.Context, publicID string, expires time.Duration) (string, error)
}

package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryStorageService implements StorageService using Cloudinary.
type CloudinaryStorageService struct {
	cld       *cloudinary.Cloudinary
	cloudName string
}

// NewStorageService creates a Cloudinary-backed StorageService from a
// cloudinary:// URL (CLOUDINARY_URL format).
func NewStorageService(cloudinaryURL string) (StorageService, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}
	return &CloudinaryStorageService{
		cld:       cld,
		cloudName: cld.Config.Cloud.CloudName,
	}, nil
}

// UploadBytes uploads raw bytes (a rendered QR image, typically) and returns
// the secure delivery URL.
func (s *CloudinaryStorageService) UploadBytes(ctx context.Context, data []byte, destFolder, publicID string) (string, error) {
	result, err := s.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		Folder:   destFolder,
		PublicID: publicID,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload bytes: %w", err)
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("no delivery URL returned for %s", publicID)
	}
	return result.SecureURL, nil
}

// UploadFile uploads a local file into the specified folder and returns the
// permanent identifier.
func (s *CloudinaryStorageService) UploadFile(ctx context.Context, localFilePath, destFolder string) (string, error) {
	result, err := s.cld.Upload.Upload(ctx, localFilePath, uploader.UploadParams{
		Folder: destFolder,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}
	if result.PublicID == "" {
		return "", fmt.Errorf("no public ID returned")
	}
	return result.PublicID, nil
}

// DeleteFile deletes a file from Cloudinary given its public ID.
func (s *CloudinaryStorageService) DeleteFile(ctx context.Context, publicID string) error {
	if _, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID}); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// GetDownloadURL constructs a public delivery URL for an uploaded asset.
func (s *CloudinaryStorageService) GetDownloadURL(ctx context.Context, publicID string, expires time.Duration) (string, error) {
	img, err := s.cld.Image(publicID)
	if err != nil {
		return "", fmt.Errorf("failed to get asset: %w", err)
	}
	url, err := img.String()
	if err != nil {
		return "", fmt.Errorf("failed to get URL string: %w", err)
	}
	return url, nil
}
